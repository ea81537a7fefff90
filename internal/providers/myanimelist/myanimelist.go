// Provider adapter for MyAnimeList. Search, media and user lookups go
// through the Jikan v4 API; list imports use the official MAL API v2,
// which is the only endpoint that can page through a user's full list.
package myanimelist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hibari-app/hibari/internal/importer"
	"github.com/hibari-app/hibari/internal/models"
)

const providerCode = "myanimelist"

const (
	defaultJikanBaseURL = "https://api.jikan.moe/v4"
	defaultMALBaseURL   = "https://api.myanimelist.net/v2"
	defaultPageLimit    = 1000 // MAL's maximum page size
)

// Field lists requested from the MAL list endpoints. Everything the
// normalizer can use is asked for up front so one page fetch is enough
// per page of entries.
const (
	animeListFields = "list_status{status,score,num_episodes_watched,is_rewatching,start_date,finish_date,priority,num_times_rewatched,rewatch_value,tags,comments},start_date,end_date,nsfw,genres,media_type,num_episodes,rating,average_episode_duration"
	mangaListFields = "list_status{status,score,num_chapters_read,num_volumes_read,is_rereading,start_date,finish_date,priority,num_times_reread,reread_value,tags,comments},start_date,end_date,nsfw,genres,media_type,num_chapters,num_volumes"
)

// MyAnimeListProvider implements the Provider contract for MyAnimeList.
type MyAnimeListProvider struct {
	client       *http.Client
	jikanBaseURL string
	malBaseURL   string
	clientID     string
	pageLimit    int
	engine       *importer.Engine
}

// New creates a new MyAnimeList provider. clientID is the MAL API client
// ID sent with list requests; pageLimit caps the list page size (0 uses
// the MAL maximum).
func New(engine *importer.Engine, clientID string, pageLimit int) *MyAnimeListProvider {
	if pageLimit <= 0 || pageLimit > defaultPageLimit {
		pageLimit = defaultPageLimit
	}
	return &MyAnimeListProvider{
		client:       &http.Client{Timeout: 20 * time.Second},
		jikanBaseURL: defaultJikanBaseURL,
		malBaseURL:   defaultMALBaseURL,
		clientID:     clientID,
		pageLimit:    pageLimit,
		engine:       engine,
	}
}

// Info returns static information about this provider.
func (p *MyAnimeListProvider) Info() models.ProviderInfo {
	return models.ProviderInfo{
		Code: providerCode,
		Name: "MyAnimeList",
	}
}

// Config declares the capabilities of this provider. Export is not
// supported: MAL write-back is out of scope.
func (p *MyAnimeListProvider) Config() models.ProviderConfig {
	return models.ProviderConfig{
		Search: []models.MediaType{models.MediaTypeAnime, models.MediaTypeManga},
		Import: []models.MediaType{models.MediaTypeAnime, models.MediaTypeManga},
	}
}

// get performs a GET request and decodes the JSON body into out. Non-2xx
// responses are errors.
func (p *MyAnimeListProvider) get(ctx context.Context, rawURL string, header http.Header, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Search queries Jikan for media matching the options. Failures are
// reported through the boolean flag, never as a panic or error.
func (p *MyAnimeListProvider) Search(ctx context.Context, mediaType models.MediaType, opts models.SearchOptions) ([]models.Media, bool) {
	if !p.Config().Supports(models.CapabilitySearch, mediaType) {
		return nil, true
	}

	u, err := url.Parse(fmt.Sprintf("%s/%s", p.jikanBaseURL, mediaType))
	if err != nil {
		return nil, true
	}
	q := u.Query()
	q.Set("q", opts.Query)
	if opts.SortBy != "" {
		q.Set("order_by", opts.SortBy)
		q.Set("sort", "asc")
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if !opts.NSFW {
		q.Set("sfw", "true")
	}
	u.RawQuery = q.Encode()

	var payload jikanListResponse
	if err := p.get(ctx, u.String(), nil, &payload); err != nil {
		return nil, true
	}

	results := make([]models.Media, 0, len(payload.Data))
	for _, raw := range payload.Data {
		results = append(results, mediaFromJikan(mediaType, raw))
	}
	return results, false
}

// GetMedia fetches a single catalog entry by its MAL ID.
func (p *MyAnimeListProvider) GetMedia(ctx context.Context, mediaType models.MediaType, id string) (*models.Media, bool) {
	if !p.Config().Supports(models.CapabilitySearch, mediaType) {
		return nil, true
	}

	var payload jikanMediaResponse
	endpoint := fmt.Sprintf("%s/%s/%s/full", p.jikanBaseURL, mediaType, url.PathEscape(id))
	if err := p.get(ctx, endpoint, nil, &payload); err != nil {
		return nil, true
	}

	media := mediaFromJikan(mediaType, payload.Data)
	return &media, false
}

// GetUser fetches the remote identity for the account's username. Unlike
// the other read operations the error propagates: the caller must know
// the credential could not be verified.
func (p *MyAnimeListProvider) GetUser(ctx context.Context, account *models.ExternalAccount) (models.UserData, error) {
	if account.Auth == nil || account.Auth.Username == "" {
		return models.UserData{}, errors.New("account has no username")
	}

	var payload jikanUserResponse
	endpoint := fmt.Sprintf("%s/users/%s/full", p.jikanBaseURL, url.PathEscape(account.Auth.Username))
	if err := p.get(ctx, endpoint, nil, &payload); err != nil {
		return models.UserData{}, fmt.Errorf("failed to get user %q: %w", account.Auth.Username, err)
	}

	return models.UserData{
		ID:       strconv.Itoa(payload.Data.MalID),
		Name:     payload.Data.Username,
		ImageURL: payload.Data.Images.WebP.ImageURL,
	}, nil
}

// ImportList fetches the account's entire remote list for the media type,
// page by page, and merges each page into the local store under the given
// policy. Pages merged before a later fetch failure stay committed and are
// reflected in the returned outcome.
func (p *MyAnimeListProvider) ImportList(ctx context.Context, mediaType models.MediaType, account *models.ExternalAccount, method models.ImportMethod) (models.ImportOutcome, error) {
	var total models.ImportOutcome
	if !p.Config().Supports(models.CapabilityImport, mediaType) {
		return total, models.ErrUnsupported
	}
	if account.Auth == nil || account.Auth.Username == "" {
		return total, errors.New("account has no username")
	}

	var endpoint, fields string
	switch mediaType {
	case models.MediaTypeAnime:
		endpoint, fields = "animelist", animeListFields
	case models.MediaTypeManga:
		endpoint, fields = "mangalist", mangaListFields
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(p.pageLimit))
	q.Set("fields", fields)
	q.Set("nsfw", "true")
	next := fmt.Sprintf("%s/users/%s/%s?%s",
		p.malBaseURL, url.PathEscape(account.Auth.Username), endpoint, q.Encode())

	header := http.Header{}
	header.Set("X-MAL-Client-ID", p.clientID)

	// Pages are fetched sequentially, in API order, so conflict
	// resolution stays deterministic across imports.
	for next != "" {
		var page malListResponse
		if err := p.get(ctx, next, header, &page); err != nil {
			return total, fmt.Errorf("failed to fetch %s for %q: %w", endpoint, account.Auth.Username, err)
		}

		media := make([]models.Media, 0, len(page.Data))
		entries := make([]models.LibraryEntry, 0, len(page.Data))
		for _, item := range page.Data {
			media = append(media, mediaFromNode(mediaType, item.Node))
			entries = append(entries, entryFromListItem(mediaType, item))
		}

		out, err := p.engine.MergeBatch(media, entries, method)
		if err != nil {
			return total, fmt.Errorf("failed to merge %s page: %w", endpoint, err)
		}
		total.Add(out)
		next = page.Paging.Next
	}
	return total, nil
}

// mediaFromJikan converts a Jikan media record to the canonical model.
func mediaFromJikan(mediaType models.MediaType, raw jikanMedia) models.Media {
	media := models.Media{
		Type:     mediaType,
		ImageURL: raw.Images.WebP.LargeImageURL,
		Genres:   normalizeGenres(append(raw.Genres, raw.Themes...)),
		Status:   normalizeStatus(raw.Status),
		Format:   normalizeFormat(raw.Type),
		Rating:   normalizeRating(raw.Rating),
		Mapping:  models.NewMapping(providerCode, mediaType, strconv.Itoa(raw.MalID)),
	}

	for _, title := range raw.Titles {
		t := title.Title
		switch title.Type {
		case "Default":
			media.Title.Romaji = &t
		case "English":
			media.Title.English = &t
		case "Japanese":
			media.Title.Native = &t
		}
	}

	switch mediaType {
	case models.MediaTypeAnime:
		media.Episodes = raw.Episodes
		media.StartDate = raw.Aired.From
		media.FinishDate = raw.Aired.To
		if raw.Duration != "" {
			seconds := normalizeDuration(raw.Duration)
			media.Duration = &seconds
		}
	case models.MediaTypeManga:
		media.Chapters = raw.Chapters
		media.Volumes = raw.Volumes
		media.StartDate = raw.Published.From
		media.FinishDate = raw.Published.To
	}

	if media.Rating != nil && *media.Rating == models.RatingRX {
		media.IsAdult = true
	}
	return media
}

// mediaFromNode converts a MAL list node to the canonical model. The MAL
// API's schema differs from Jikan's, so the two cannot share a decoder.
func mediaFromNode(mediaType models.MediaType, node malNode) models.Media {
	title := node.Title
	media := models.Media{
		Type:     mediaType,
		Title:    models.Title{Romaji: &title},
		ImageURL: node.MainPicture.Large,
		Genres:   normalizeGenres(node.Genres),
		Format:   normalizeFormat(node.MediaType),
		Rating:   normalizeRating(node.Rating),
		Mapping:  models.NewMapping(providerCode, mediaType, strconv.Itoa(node.ID)),
	}
	media.StartDate = parseMALDate(node.StartDate)
	media.FinishDate = parseMALDate(node.EndDate)

	switch mediaType {
	case models.MediaTypeAnime:
		if node.NumEpisodes > 0 {
			episodes := node.NumEpisodes
			media.Episodes = &episodes
		}
		if node.AverageEpisodeDuration > 0 {
			duration := node.AverageEpisodeDuration
			media.Duration = &duration
		}
		// MAL only exposes the coarse rating here; anything in the R
		// family is flagged.
		media.IsAdult = node.Rating != "" && node.Rating[0] == 'r'
	case models.MediaTypeManga:
		if node.NumChapters > 0 {
			chapters := node.NumChapters
			media.Chapters = &chapters
		}
		if node.NumVolumes > 0 {
			volumes := node.NumVolumes
			media.Volumes = &volumes
		}
		media.IsAdult = node.Nsfw == "black"
	}
	return media
}

// entryFromListItem converts one MAL list item into a canonical library
// entry. MAL scores are 0-10 and scale to the canonical 0-100 (0 = unset).
func entryFromListItem(mediaType models.MediaType, item malListItem) models.LibraryEntry {
	mapping := models.NewMapping(providerCode, mediaType, strconv.Itoa(item.Node.ID))
	entry := models.DefaultLibraryEntry(mapping, mediaType)
	entry.Status = normalizeLibraryStatus(item.ListStatus.Status)
	entry.Score = item.ListStatus.Score * 10
	entry.StartDate = parseMALDate(item.ListStatus.StartDate)
	entry.FinishDate = parseMALDate(item.ListStatus.FinishDate)
	entry.Notes = item.ListStatus.Comments
	switch mediaType {
	case models.MediaTypeAnime:
		entry.EpisodeProgress = item.ListStatus.NumEpisodesWatched
		entry.Restarts = item.ListStatus.NumTimesRewatched
	case models.MediaTypeManga:
		entry.ChapterProgress = item.ListStatus.NumChaptersRead
		entry.VolumeProgress = item.ListStatus.NumVolumesRead
		entry.Restarts = item.ListStatus.NumTimesReread
	}
	return entry
}

// parseMALDate parses MAL's partial dates ("2006", "2006-01", "2006-01-02").
func parseMALDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
