package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hibari-app/hibari/internal/models"
)

// UpsertMedia writes a media record, replacing any existing row with the
// same mapping. The media table is a cache: the freshest fetch always wins.
func (s *Store) UpsertMedia(media *models.Media) error {
	genres, err := json.Marshal(media.Genres)
	if err != nil {
		return fmt.Errorf("failed to encode genres: %w", err)
	}

	query := `
		INSERT INTO media (
			mapping, type, title_romaji, title_english, title_native,
			image_url, banner_url, episodes, chapters, volumes,
			start_date, finish_date, genres, status, format,
			duration, rating, is_adult, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(mapping) DO UPDATE SET
			type = excluded.type,
			title_romaji = excluded.title_romaji,
			title_english = excluded.title_english,
			title_native = excluded.title_native,
			image_url = excluded.image_url,
			banner_url = excluded.banner_url,
			episodes = excluded.episodes,
			chapters = excluded.chapters,
			volumes = excluded.volumes,
			start_date = excluded.start_date,
			finish_date = excluded.finish_date,
			genres = excluded.genres,
			status = excluded.status,
			format = excluded.format,
			duration = excluded.duration,
			rating = excluded.rating,
			is_adult = excluded.is_adult,
			updated_at = CURRENT_TIMESTAMP;
	`
	var status, rating *string
	if media.Status != nil {
		v := string(*media.Status)
		status = &v
	}
	if media.Rating != nil {
		v := string(*media.Rating)
		rating = &v
	}

	_, err = s.db.Exec(query,
		media.Mapping, media.Type,
		nullString(media.Title.Romaji), nullString(media.Title.English), nullString(media.Title.Native),
		media.ImageURL, nullString(media.BannerURL),
		nullInt(media.Episodes), nullInt(media.Chapters), nullInt(media.Volumes),
		nullTime(media.StartDate), nullTime(media.FinishDate),
		string(genres), nullString(status), media.Format,
		nullInt(media.Duration), nullString(rating), media.IsAdult,
	)
	return err
}

// GetMedia fetches a single media record by its mapping.
func (s *Store) GetMedia(mapping string) (*models.Media, error) {
	query := `
		SELECT mapping, type, title_romaji, title_english, title_native,
		       image_url, banner_url, episodes, chapters, volumes,
		       start_date, finish_date, genres, status, format,
		       duration, rating, is_adult
		FROM media WHERE mapping = ?
	`
	row := s.db.QueryRow(query, mapping)
	media, err := scanMedia(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return media, err
}

// CountMedia returns the number of cached media records.
func (s *Store) CountMedia() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM media").Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMedia(row rowScanner) (*models.Media, error) {
	var media models.Media
	var romaji, english, native, bannerURL, status, rating sql.NullString
	var episodes, chapters, volumes, duration sql.NullInt64
	var startDate, finishDate sql.NullTime
	var genresJSON string

	err := row.Scan(
		&media.Mapping, &media.Type, &romaji, &english, &native,
		&media.ImageURL, &bannerURL, &episodes, &chapters, &volumes,
		&startDate, &finishDate, &genresJSON, &status, &media.Format,
		&duration, &rating, &media.IsAdult,
	)
	if err != nil {
		return nil, err
	}

	media.Title = models.Title{Romaji: stringPtr(romaji), English: stringPtr(english), Native: stringPtr(native)}
	media.BannerURL = stringPtr(bannerURL)
	media.Episodes = intPtr(episodes)
	media.Chapters = intPtr(chapters)
	media.Volumes = intPtr(volumes)
	media.StartDate = timePtr(startDate)
	media.FinishDate = timePtr(finishDate)
	media.Duration = intPtr(duration)
	if status.Valid {
		v := models.MediaStatus(status.String)
		media.Status = &v
	}
	if rating.Valid {
		v := models.MediaRating(rating.String)
		media.Rating = &v
	}
	if err := json.Unmarshal([]byte(genresJSON), &media.Genres); err != nil {
		return nil, fmt.Errorf("failed to decode genres for %s: %w", media.Mapping, err)
	}
	return &media, nil
}
