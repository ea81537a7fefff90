package kitsu

// Kitsu speaks JSON:API: every payload is a list of typed resources plus
// optional included side-loads, with pagination links on the envelope.

type resourceRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type mediaResource struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"` // "anime" or "manga"
	Attributes mediaAttributes `json:"attributes"`
}

type mediaAttributes struct {
	Titles struct {
		En   string `json:"en"`
		EnJp string `json:"en_jp"`
		JaJp string `json:"ja_jp"`
	} `json:"titles"`
	CanonicalTitle string `json:"canonicalTitle"`
	PosterImage    struct {
		Large    string `json:"large"`
		Original string `json:"original"`
	} `json:"posterImage"`
	CoverImage struct {
		Original string `json:"original"`
	} `json:"coverImage"`
	StartDate     string `json:"startDate"` // "2006-01-02"
	EndDate       string `json:"endDate"`
	Status        string `json:"status"`  // "current", "finished", "tba", ...
	Subtype       string `json:"subtype"` // "TV", "movie", "OVA", ...
	AgeRating     string `json:"ageRating"`
	EpisodeCount  *int   `json:"episodeCount"`
	EpisodeLength *int   `json:"episodeLength"` // minutes
	ChapterCount  *int   `json:"chapterCount"`
	VolumeCount   *int   `json:"volumeCount"`
	Nsfw          bool   `json:"nsfw"`
}

type mediaListResponse struct {
	Data  []mediaResource `json:"data"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

type mediaResponse struct {
	Data mediaResource `json:"data"`
}

type userListResponse struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			Name   string `json:"name"`
			Avatar struct {
				Original string `json:"original"`
			} `json:"avatar"`
		} `json:"attributes"`
	} `json:"data"`
}

type libraryEntryResource struct {
	ID         string `json:"id"`
	Attributes struct {
		Status         string `json:"status"` // "current", "planned", ...
		Progress       int    `json:"progress"`
		VolumesOwned   int    `json:"volumesOwned"`
		ReconsumeCount int    `json:"reconsumeCount"`
		Notes          string `json:"notes"`
		RatingTwenty   *int   `json:"ratingTwenty"` // 2-20, null when unrated
		StartedAt      string `json:"startedAt"`    // RFC3339
		FinishedAt     string `json:"finishedAt"`
	} `json:"attributes"`
	Relationships struct {
		Anime struct {
			Data *resourceRef `json:"data"`
		} `json:"anime"`
		Manga struct {
			Data *resourceRef `json:"data"`
		} `json:"manga"`
	} `json:"relationships"`
}

type libraryResponse struct {
	Data     []libraryEntryResource `json:"data"`
	Included []mediaResource        `json:"included"`
	Links    struct {
		Next string `json:"next"`
	} `json:"links"`
}
