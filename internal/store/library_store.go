package store

import (
	"database/sql"

	"github.com/hibari-app/hibari/internal/models"
)

const libraryColumns = `
	mapping, type, favorite, status, score,
	episode_progress, chapter_progress, volume_progress, restarts,
	start_date, finish_date, notes
`

// InsertLibraryEntry adds a new library entry. It returns ErrDuplicateKey
// when an entry with the same mapping already exists, leaving the existing
// row untouched.
func (s *Store) InsertLibraryEntry(entry *models.LibraryEntry) error {
	query := `
		INSERT INTO library (` + libraryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query, entryArgs(entry)...)
	if err != nil && isDuplicate(err) {
		return ErrDuplicateKey
	}
	return err
}

// UpsertLibraryEntry writes a library entry, replacing any existing row
// with the same mapping.
func (s *Store) UpsertLibraryEntry(entry *models.LibraryEntry) error {
	query := `
		INSERT INTO library (` + libraryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(mapping) DO UPDATE SET
			type = excluded.type,
			favorite = excluded.favorite,
			status = excluded.status,
			score = excluded.score,
			episode_progress = excluded.episode_progress,
			chapter_progress = excluded.chapter_progress,
			volume_progress = excluded.volume_progress,
			restarts = excluded.restarts,
			start_date = excluded.start_date,
			finish_date = excluded.finish_date,
			notes = excluded.notes,
			updated_at = CURRENT_TIMESTAMP;
	`
	_, err := s.db.Exec(query, entryArgs(entry)...)
	return err
}

// GetLibraryEntry fetches a single library entry by its mapping.
func (s *Store) GetLibraryEntry(mapping string) (*models.LibraryEntry, error) {
	query := "SELECT " + libraryColumns + " FROM library WHERE mapping = ?"
	entry, err := scanLibraryEntry(s.db.QueryRow(query, mapping))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return entry, err
}

// ListLibrary fetches all library entries, optionally filtered by media
// type, ordered by mapping for stable output.
func (s *Store) ListLibrary(mediaType models.MediaType) ([]*models.LibraryEntry, error) {
	query := "SELECT " + libraryColumns + " FROM library"
	var args []interface{}
	if mediaType != "" {
		query += " WHERE type = ?"
		args = append(args, mediaType)
	}
	query += " ORDER BY mapping"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.LibraryEntry
	for rows.Next() {
		entry, err := scanLibraryEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// CountLibrary returns the number of library entries.
func (s *Store) CountLibrary() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM library").Scan(&count)
	return count, err
}

func entryArgs(entry *models.LibraryEntry) []interface{} {
	return []interface{}{
		entry.Mapping, entry.Type, entry.Favorite, entry.Status, entry.Score,
		entry.EpisodeProgress, entry.ChapterProgress, entry.VolumeProgress, entry.Restarts,
		nullTime(entry.StartDate), nullTime(entry.FinishDate), entry.Notes,
	}
}

func scanLibraryEntry(row rowScanner) (*models.LibraryEntry, error) {
	var entry models.LibraryEntry
	var startDate, finishDate sql.NullTime
	err := row.Scan(
		&entry.Mapping, &entry.Type, &entry.Favorite, &entry.Status, &entry.Score,
		&entry.EpisodeProgress, &entry.ChapterProgress, &entry.VolumeProgress, &entry.Restarts,
		&startDate, &finishDate, &entry.Notes,
	)
	if err != nil {
		return nil, err
	}
	entry.StartDate = timePtr(startDate)
	entry.FinishDate = timePtr(finishDate)
	return &entry, nil
}
