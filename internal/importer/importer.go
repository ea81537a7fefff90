// The reconciliation engine. Providers hand it batches of freshly
// normalized (media, library entry) pairs; it merges them into the local
// store under the chosen conflict policy.
package importer

import (
	"fmt"

	"github.com/hibari-app/hibari/internal/models"
	"github.com/hibari-app/hibari/internal/store"
)

// Engine merges imported lists into the local store.
type Engine struct {
	st *store.Store
}

// New creates a new reconciliation engine over the given store.
func New(st *store.Store) *Engine {
	return &Engine{st: st}
}

// MergeBatch merges one batch of imported records into the store.
//
// All media records are upserted unconditionally: the media table is a
// cache and the freshest fetch always wins, regardless of policy. The
// policy applies to library entries only, resolved per record in input
// order. For every entry, its media record is written before the entry's
// own merge decision, so a crash mid-batch can leave an orphaned cache row
// but never a library entry pointing at missing media.
func (e *Engine) MergeBatch(media []models.Media, entries []models.LibraryEntry, method models.ImportMethod) (models.ImportOutcome, error) {
	var out models.ImportOutcome

	for i := range media {
		if err := e.st.UpsertMedia(&media[i]); err != nil {
			return out, fmt.Errorf("failed to upsert media %s: %w", media[i].Mapping, err)
		}
		out.MediaUpserted++
	}

	for i := range entries {
		entry := &entries[i]
		switch method {
		case models.ImportOverride:
			if err := e.st.UpsertLibraryEntry(entry); err != nil {
				return out, fmt.Errorf("failed to upsert library entry %s: %w", entry.Mapping, err)
			}
			out.EntriesUpdated++

		case models.ImportKeep:
			// Insert-or-skip per record: a collision on one entry must not
			// keep legitimate new entries in the same batch from landing.
			err := e.st.InsertLibraryEntry(entry)
			if err == store.ErrDuplicateKey {
				out.EntriesSkipped++
				continue
			}
			if err != nil {
				return out, fmt.Errorf("failed to insert library entry %s: %w", entry.Mapping, err)
			}
			out.EntriesAdded++

		case models.ImportLatest:
			existing, err := e.st.GetLibraryEntry(entry.Mapping)
			if err == store.ErrNotFound {
				if err := e.st.UpsertLibraryEntry(entry); err != nil {
					return out, fmt.Errorf("failed to insert library entry %s: %w", entry.Mapping, err)
				}
				out.EntriesAdded++
				continue
			}
			if err != nil {
				return out, fmt.Errorf("failed to read library entry %s: %w", entry.Mapping, err)
			}
			if !remoteIsNewer(existing, entry) {
				out.EntriesSkipped++
				continue
			}
			if err := e.st.UpsertLibraryEntry(entry); err != nil {
				return out, fmt.Errorf("failed to upsert library entry %s: %w", entry.Mapping, err)
			}
			out.EntriesUpdated++

		default:
			return out, fmt.Errorf("unknown import method %q", method)
		}
	}

	return out, nil
}

// remoteIsNewer decides the "latest" policy for one record. An absent
// finish date counts as older than any present one, and ties keep the
// local entry, so a re-import never clobbers user data.
func remoteIsNewer(local, remote *models.LibraryEntry) bool {
	if remote.FinishDate == nil {
		return false
	}
	if local.FinishDate == nil {
		return true
	}
	return remote.FinishDate.After(*local.FinishDate)
}
