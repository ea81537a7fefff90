// Kitsu's vocabulary differs from MAL's in every enum, so it gets its own
// normalizer family. Same policy: lookup normalizers are lossy and total
// functions never fail.

package kitsu

import (
	"strings"
	"time"

	"github.com/hibari-app/hibari/internal/models"
)

var statusMap = map[string]models.MediaStatus{
	"tba":        models.MediaStatusNotStarted,
	"unreleased": models.MediaStatusNotStarted,
	"upcoming":   models.MediaStatusNotStarted,
	"current":    models.MediaStatusInProgress,
	"finished":   models.MediaStatusFinished,
}

func normalizeStatus(status string) *models.MediaStatus {
	if s, ok := statusMap[strings.ToLower(status)]; ok {
		return &s
	}
	return nil
}

var formatMap = map[string]models.MediaFormat{
	"tv":      models.FormatTV,
	"movie":   models.FormatMovie,
	"special": models.FormatSpecial,
	"ova":     models.FormatOVA,
	"ona":     models.FormatONA,
	"music":   models.FormatMusic,
}

// normalizeFormat maps a Kitsu subtype. Manga subtypes (manga, manhwa,
// novel, ...) have no canonical format and fall back to TV like every
// other unmapped format.
func normalizeFormat(subtype string) models.MediaFormat {
	if f, ok := formatMap[strings.ToLower(subtype)]; ok {
		return f
	}
	return models.FormatTV
}

var ratingMap = map[string]models.MediaRating{
	"g":   models.RatingG,
	"pg":  models.RatingPG,
	"r":   models.RatingR,
	"r18": models.RatingRX,
}

func normalizeRating(ageRating string) *models.MediaRating {
	if r, ok := ratingMap[strings.ToLower(ageRating)]; ok {
		return &r
	}
	return nil
}

// normalizeLibraryStatus is total: unrecognized statuses are not_started.
func normalizeLibraryStatus(status string) models.LibraryStatus {
	switch status {
	case "current":
		return models.LibraryStatusInProgress
	case "planned":
		return models.LibraryStatusPlanned
	case "completed":
		return models.LibraryStatusCompleted
	case "on_hold":
		return models.LibraryStatusPaused
	case "dropped":
		return models.LibraryStatusDropped
	default:
		return models.LibraryStatusNotStarted
	}
}

// normalizeScore converts Kitsu's ratingTwenty (2-20) to the canonical
// 0-100 scale; nil means unrated and stays 0.
func normalizeScore(ratingTwenty *int) int {
	if ratingTwenty == nil {
		return 0
	}
	score := *ratingTwenty * 5
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// parseDate parses Kitsu's calendar dates ("2006-01-02").
func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &t
}

// parseTimestamp parses Kitsu's RFC3339 timestamps.
func parseTimestamp(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &t
}
