// This file defines the canonical catalog model. Every provider adapter
// normalizes its own schema into these types before anything else in the
// application sees the data.

package models

import (
	"fmt"
	"strings"
	"time"
)

// MediaType distinguishes the two kinds of media the tracker knows about.
type MediaType string

const (
	MediaTypeAnime MediaType = "anime"
	MediaTypeManga MediaType = "manga"
)

// Valid reports whether t is one of the known media types.
func (t MediaType) Valid() bool {
	return t == MediaTypeAnime || t == MediaTypeManga
}

// Genre is a canonical genre. Provider genres that don't map to one of
// these are dropped during normalization.
type Genre string

const (
	GenreAction        Genre = "action"
	GenreAdventure     Genre = "adventure"
	GenreComedy        Genre = "comedy"
	GenreDrama         Genre = "drama"
	GenreEcchi         Genre = "ecchi"
	GenreFantasy       Genre = "fantasy"
	GenreHorror        Genre = "horror"
	GenreMahouShoujo   Genre = "mahou-shoujo"
	GenreMecha         Genre = "mecha"
	GenreMusic         Genre = "music"
	GenreMystery       Genre = "mystery"
	GenrePsychological Genre = "psychological"
	GenreRomance       Genre = "romance"
	GenreSciFi         Genre = "sci-fi"
	GenreSliceOfLife   Genre = "slice-of-life"
	GenreSports        Genre = "sports"
	GenreSupernatural  Genre = "supernatural"
	GenreSuspense      Genre = "suspense"
	GenreThriller      Genre = "thriller"
	GenreYaoi          Genre = "yaoi"
	GenreYuri          Genre = "yuri"
)

// MediaStatus is the airing/publication status of a catalog entry.
type MediaStatus string

const (
	MediaStatusNotStarted MediaStatus = "not-started"
	MediaStatusInProgress MediaStatus = "in-progress"
	MediaStatusFinished   MediaStatus = "finished"
)

// MediaFormat is the release format of a catalog entry.
type MediaFormat string

const (
	FormatTV      MediaFormat = "tv"
	FormatMovie   MediaFormat = "movie"
	FormatSpecial MediaFormat = "special"
	FormatOVA     MediaFormat = "ova"
	FormatONA     MediaFormat = "ona"
	FormatMusic   MediaFormat = "music"
)

// MediaRating is the audience rating of a catalog entry.
type MediaRating string

const (
	RatingG     MediaRating = "G"
	RatingPG    MediaRating = "PG"
	RatingPG13  MediaRating = "PG13"
	RatingR     MediaRating = "R"
	RatingRPlus MediaRating = "R+"
	RatingRX    MediaRating = "RX"
)

// Title holds the localized titles of a media entry. Any of them may be
// missing; Display picks the best available one.
type Title struct {
	Romaji  *string `json:"romaji,omitempty"`
	English *string `json:"english,omitempty"`
	Native  *string `json:"native,omitempty"`
}

// Display returns the first present title, preferring romaji.
func (t Title) Display() string {
	if t.Romaji != nil {
		return *t.Romaji
	}
	if t.English != nil {
		return *t.English
	}
	if t.Native != nil {
		return *t.Native
	}
	return ""
}

// Media is one canonical catalog entry. The cache of these records is keyed
// by Mapping; re-imports overwrite, nothing ever deletes them.
type Media struct {
	Type       MediaType    `json:"type"`
	Title      Title        `json:"title"`
	ImageURL   string       `json:"image_url"`
	BannerURL  *string      `json:"banner_url,omitempty"`
	Episodes   *int         `json:"episodes,omitempty"`
	Chapters   *int         `json:"chapters,omitempty"`
	Volumes    *int         `json:"volumes,omitempty"`
	StartDate  *time.Time   `json:"start_date,omitempty"`
	FinishDate *time.Time   `json:"finish_date,omitempty"`
	Genres     []Genre      `json:"genres"`
	Status     *MediaStatus `json:"status,omitempty"`
	Format     MediaFormat  `json:"format"`
	Duration   *int         `json:"duration,omitempty"` // seconds
	Rating     *MediaRating `json:"rating,omitempty"`
	IsAdult    bool         `json:"is_adult"`
	Mapping    string       `json:"mapping"`
}

// NewMapping builds the canonical cross-provider identifier
// "<provider>:<type>:<nativeID>". The provider code is lowercased so the
// key stays stable no matter how the caller spells it.
func NewMapping(provider string, mediaType MediaType, nativeID string) string {
	return fmt.Sprintf("%s:%s:%s", strings.ToLower(provider), mediaType, nativeID)
}

// SplitMapping breaks a mapping into its provider, media type and native ID
// parts. The native ID may itself contain colons.
func SplitMapping(mapping string) (provider string, mediaType MediaType, nativeID string, err error) {
	parts := strings.SplitN(mapping, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("malformed mapping %q", mapping)
	}
	mt := MediaType(parts[1])
	if !mt.Valid() {
		return "", "", "", fmt.Errorf("malformed mapping %q: unknown media type %q", mapping, parts[1])
	}
	return parts[0], mt, parts[2], nil
}
