package models

import "time"

// LibraryStatus is the user's progress state for one library entry.
type LibraryStatus string

const (
	LibraryStatusNotStarted LibraryStatus = "not_started"
	LibraryStatusInProgress LibraryStatus = "in_progress"
	LibraryStatusCompleted  LibraryStatus = "completed"
	LibraryStatusPaused     LibraryStatus = "paused"
	LibraryStatusDropped    LibraryStatus = "dropped"
	LibraryStatusPlanned    LibraryStatus = "planned"
)

// ImportMethod is the conflict policy applied to library entries when a
// remote list is merged into the local library.
type ImportMethod string

const (
	// ImportOverride replaces any existing local entry with the remote one.
	ImportOverride ImportMethod = "override"
	// ImportKeep keeps existing local entries and only adds new ones.
	ImportKeep ImportMethod = "keep"
	// ImportLatest keeps whichever entry has the more recent finish date.
	ImportLatest ImportMethod = "latest"
)

// Valid reports whether m is a known import method.
func (m ImportMethod) Valid() bool {
	return m == ImportOverride || m == ImportKeep || m == ImportLatest
}

// LibraryEntry is the user's personal record for one Media, keyed by the
// same mapping. Exactly one entry per mapping; the referenced Media record
// is always written before (or together with) the entry.
type LibraryEntry struct {
	Type            MediaType     `json:"type"`
	Favorite        bool          `json:"favorite"`
	Status          LibraryStatus `json:"status"`
	Score           int           `json:"score"` // 0-100, 0 means unset
	EpisodeProgress int           `json:"episode_progress"`
	ChapterProgress int           `json:"chapter_progress"`
	VolumeProgress  int           `json:"volume_progress"`
	Restarts        int           `json:"restarts"`
	StartDate       *time.Time    `json:"start_date,omitempty"`
	FinishDate      *time.Time    `json:"finish_date,omitempty"`
	Notes           string        `json:"notes"`
	Mapping         string        `json:"mapping"`
}

// DefaultLibraryEntry returns a fresh, untouched entry for a mapping.
// Providers start from it when converting remote records so new fields
// pick up their defaults in one place.
func DefaultLibraryEntry(mapping string, mediaType MediaType) LibraryEntry {
	return LibraryEntry{
		Type:    mediaType,
		Status:  LibraryStatusNotStarted,
		Mapping: mapping,
	}
}

// ImportOutcome summarizes what an import did to the store.
type ImportOutcome struct {
	MediaUpserted  int `json:"media_upserted"`
	EntriesAdded   int `json:"entries_added"`
	EntriesUpdated int `json:"entries_updated"`
	EntriesSkipped int `json:"entries_skipped"`
}

// Add accumulates another outcome, for multi-page imports.
func (o *ImportOutcome) Add(other ImportOutcome) {
	o.MediaUpserted += other.MediaUpserted
	o.EntriesAdded += other.EntriesAdded
	o.EntriesUpdated += other.EntriesUpdated
	o.EntriesSkipped += other.EntriesSkipped
}
