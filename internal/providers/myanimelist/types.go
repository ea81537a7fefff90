package myanimelist

import "time"

// --- Jikan v4 types (search, media and user lookups) ---

type jikanListResponse struct {
	Data []jikanMedia `json:"data"`
}

type jikanMediaResponse struct {
	Data jikanMedia `json:"data"`
}

type jikanTitle struct {
	Type  string `json:"type"` // "Default", "English", "Japanese", ...
	Title string `json:"title"`
}

type jikanImages struct {
	WebP struct {
		ImageURL      string `json:"image_url"`
		LargeImageURL string `json:"large_image_url"`
	} `json:"webp"`
}

type jikanDateRange struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

type jikanNamed struct {
	Name string `json:"name"`
}

type jikanMedia struct {
	MalID     int            `json:"mal_id"`
	Titles    []jikanTitle   `json:"titles"`
	Images    jikanImages    `json:"images"`
	Type      string         `json:"type"` // format: "TV", "Movie", "Manga", ...
	Status    string         `json:"status"`
	Episodes  *int           `json:"episodes"`
	Chapters  *int           `json:"chapters"`
	Volumes   *int           `json:"volumes"`
	Aired     jikanDateRange `json:"aired"`
	Published jikanDateRange `json:"published"`
	Genres    []jikanNamed   `json:"genres"`
	Themes    []jikanNamed   `json:"themes"`
	Duration  string         `json:"duration"` // free text, e.g. "24 min per ep"
	Rating    string         `json:"rating"`   // e.g. "R - 17+ (violence & profanity)"
}

type jikanUserResponse struct {
	Data struct {
		MalID    int    `json:"mal_id"`
		Username string `json:"username"`
		Images   struct {
			WebP struct {
				ImageURL string `json:"image_url"`
			} `json:"webp"`
		} `json:"images"`
	} `json:"data"`
}

// --- MAL API v2 types (list import) ---

type malListResponse struct {
	Data   []malListItem `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

type malListItem struct {
	Node       malNode       `json:"node"`
	ListStatus malListStatus `json:"list_status"`
}

type malNode struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	MainPicture struct {
		Medium string `json:"medium"`
		Large  string `json:"large"`
	} `json:"main_picture"`
	StartDate              string       `json:"start_date"` // "2006", "2006-01" or "2006-01-02"
	EndDate                string       `json:"end_date"`
	Genres                 []jikanNamed `json:"genres"`
	MediaType              string       `json:"media_type"`
	NumEpisodes            int          `json:"num_episodes"`
	NumChapters            int          `json:"num_chapters"`
	NumVolumes             int          `json:"num_volumes"`
	Rating                 string       `json:"rating"` // "g", "pg", "pg_13", "r", "r+", "rx"
	Nsfw                   string       `json:"nsfw"`   // "white", "gray", "black"
	AverageEpisodeDuration int          `json:"average_episode_duration"` // seconds
}

type malListStatus struct {
	Status             string `json:"status"` // "watching", "plan_to_read", ...
	Score              int    `json:"score"`  // 0-10
	NumEpisodesWatched int    `json:"num_episodes_watched"`
	NumChaptersRead    int    `json:"num_chapters_read"`
	NumVolumesRead     int    `json:"num_volumes_read"`
	NumTimesRewatched  int    `json:"num_times_rewatched"`
	NumTimesReread     int    `json:"num_times_reread"`
	StartDate          string `json:"start_date"`
	FinishDate         string `json:"finish_date"`
	Comments           string `json:"comments"`
}
