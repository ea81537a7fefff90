// Normalization of MyAnimeList's vocabulary into the canonical enums.
//
// The lookup normalizers are lossy on purpose: an unrecognized token maps
// to "absent" and the caller omits the attribute. Importing a list with a
// gap beats aborting the whole list on one unknown value.

package myanimelist

import (
	"strconv"
	"strings"

	"github.com/hibari-app/hibari/internal/models"
)

var genreMap = map[string]models.Genre{
	"action":        models.GenreAction,
	"adventure":     models.GenreAdventure,
	"boys love":     models.GenreYaoi,
	"comedy":        models.GenreComedy,
	"drama":         models.GenreDrama,
	"ecchi":         models.GenreEcchi,
	"fantasy":       models.GenreFantasy,
	"girls love":    models.GenreYuri,
	"horror":        models.GenreHorror,
	"mahou shoujo":  models.GenreMahouShoujo,
	"mecha":         models.GenreMecha,
	"music":         models.GenreMusic,
	"mystery":       models.GenreMystery,
	"psychological": models.GenrePsychological,
	"romance":       models.GenreRomance,
	"sci-fi":        models.GenreSciFi,
	"slice of life": models.GenreSliceOfLife,
	"sports":        models.GenreSports,
	"supernatural":  models.GenreSupernatural,
	"suspense":      models.GenreSuspense,
	"thriller":      models.GenreThriller,
}

// normalizeGenre maps a MAL genre name to a canonical genre. The second
// return value is false for unmapped genres, which callers drop.
func normalizeGenre(genre string) (models.Genre, bool) {
	g, ok := genreMap[strings.ToLower(genre)]
	return g, ok
}

// normalizeGenres converts a list of raw genre names, silently dropping
// unmapped ones and duplicates.
func normalizeGenres(names []jikanNamed) []models.Genre {
	var genres []models.Genre
	seen := make(map[models.Genre]bool)
	for _, n := range names {
		g, ok := normalizeGenre(n.Name)
		if !ok || seen[g] {
			continue
		}
		seen[g] = true
		genres = append(genres, g)
	}
	return genres
}

var statusMap = map[string]models.MediaStatus{
	"not yet aired":        models.MediaStatusNotStarted,
	"not yet published":    models.MediaStatusNotStarted,
	"currently airing":     models.MediaStatusInProgress,
	"publishing":           models.MediaStatusInProgress,
	"currently publishing": models.MediaStatusInProgress,
	"on hiatus":            models.MediaStatusInProgress,
	"finished airing":      models.MediaStatusFinished,
	"finished":             models.MediaStatusFinished,
	"discontinued":         models.MediaStatusFinished,
}

// normalizeStatus maps a MAL airing/publishing status to a canonical one.
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

// normalizeFormat maps a MAL media type to a canonical format. Unmapped
// formats (novels, one-shots, ...) fall back to TV, matching how the rest
// of the application treats format as a best-effort attribute.
func normalizeFormat(format string) models.MediaFormat {
	if f, ok := formatMap[strings.ToLower(format)]; ok {
		return f
	}
	return models.FormatTV
}

var ratingMap = map[string]models.MediaRating{
	"g":     models.RatingG,
	"pg":    models.RatingPG,
	"pg-13": models.RatingPG13,
	"pg_13": models.RatingPG13,
	"r":     models.RatingR,
	"r+":    models.RatingRPlus,
	"rx":    models.RatingRX,
}

// normalizeRating maps a MAL rating string to a canonical rating. Jikan
// spells these with a suffix ("R - 17+ (violence & profanity)"), the MAL
// API as bare tokens ("pg_13"); both reduce to the part before " - ".
func normalizeRating(rating string) *models.MediaRating {
	key := strings.TrimSpace(strings.SplitN(strings.ToLower(rating), " - ", 2)[0])
	if r, ok := ratingMap[key]; ok {
		return &r
	}
	return nil
}

// normalizeLibraryStatus maps a MAL list status to a canonical library
// status. Total: anything unrecognized is not_started, never an error.
func normalizeLibraryStatus(status string) models.LibraryStatus {
	switch status {
	case "reading", "watching":
		return models.LibraryStatusInProgress
	case "completed":
		return models.LibraryStatusCompleted
	case "on_hold":
		return models.LibraryStatusPaused
	case "dropped":
		return models.LibraryStatusDropped
	case "plan_to_read", "plan_to_watch":
		return models.LibraryStatusPlanned
	default:
		return models.LibraryStatusNotStarted
	}
}

// normalizeDuration parses a free-text duration such as "1 hr 30 min" or
// "24 min per ep" into seconds. Tokens are read as value/unit pairs;
// unknown units and unparseable values contribute zero, so the function is
// total: empty or garbage input yields 0.
func normalizeDuration(duration string) int {
	parts := strings.Fields(duration)
	total := 0
	for i := 0; i+1 < len(parts); i += 2 {
		value, err := strconv.Atoi(parts[i])
		if err != nil {
			continue
		}
		switch parts[i+1] {
		case "hr", "hrs":
			total += value * 3600
		case "min", "mins":
			total += value * 60
		case "sec", "secs":
			total += value
		}
	}
	return total
}
