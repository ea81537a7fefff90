// Provider adapter for Kitsu. Everything goes through the JSON:API edge
// endpoints; library imports side-load the media for each entry so one
// page fetch yields both halves of the (media, entry) pair.
package kitsu

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

const providerCode = "kitsu"

const (
	defaultBaseURL   = "https://kitsu.io/api/edge"
	defaultPageLimit = 500 // Kitsu's maximum for library entries
)

// KitsuProvider implements the Provider contract for Kitsu.
type KitsuProvider struct {
	client    *http.Client
	baseURL   string
	pageLimit int
	engine    *importer.Engine
}

// New creates a new Kitsu provider. pageLimit caps the library page size
// (0 uses the Kitsu maximum).
func New(engine *importer.Engine, pageLimit int) *KitsuProvider {
	if pageLimit <= 0 || pageLimit > defaultPageLimit {
		pageLimit = defaultPageLimit
	}
	return &KitsuProvider{
		client:    &http.Client{Timeout: 20 * time.Second},
		baseURL:   defaultBaseURL,
		pageLimit: pageLimit,
		engine:    engine,
	}
}

func (p *KitsuProvider) Info() models.ProviderInfo {
	return models.ProviderInfo{
		Code: providerCode,
		Name: "Kitsu",
	}
}

func (p *KitsuProvider) Config() models.ProviderConfig {
	return models.ProviderConfig{
		Search: []models.MediaType{models.MediaTypeAnime, models.MediaTypeManga},
		Import: []models.MediaType{models.MediaTypeAnime, models.MediaTypeManga},
	}
}

func (p *KitsuProvider) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.api+json")

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

// Search queries Kitsu for media matching the options.
func (p *KitsuProvider) Search(ctx context.Context, mediaType models.MediaType, opts models.SearchOptions) ([]models.Media, bool) {
	if !p.Config().Supports(models.CapabilitySearch, mediaType) {
		return nil, true
	}

	u, err := url.Parse(fmt.Sprintf("%s/%s", p.baseURL, mediaType))
	if err != nil {
		return nil, true
	}
	q := u.Query()
	q.Set("filter[text]", opts.Query)
	if opts.Limit > 0 {
		q.Set("page[limit]", strconv.Itoa(opts.Limit))
	}
	if opts.SortBy != "" {
		q.Set("sort", opts.SortBy)
	}
	u.RawQuery = q.Encode()

	var payload mediaListResponse
	if err := p.get(ctx, u.String(), &payload); err != nil {
		return nil, true
	}

	results := make([]models.Media, 0, len(payload.Data))
	for _, raw := range payload.Data {
		results = append(results, mediaFromResource(mediaType, raw))
	}
	return results, false
}

// GetMedia fetches a single catalog entry by its Kitsu ID.
func (p *KitsuProvider) GetMedia(ctx context.Context, mediaType models.MediaType, id string) (*models.Media, bool) {
	if !p.Config().Supports(models.CapabilitySearch, mediaType) {
		return nil, true
	}

	var payload mediaResponse
	endpoint := fmt.Sprintf("%s/%s/%s", p.baseURL, mediaType, url.PathEscape(id))
	if err := p.get(ctx, endpoint, &payload); err != nil {
		return nil, true
	}

	media := mediaFromResource(mediaType, payload.Data)
	return &media, false
}

// GetUser resolves the account's username to a Kitsu identity. The error
// propagates so an unverified credential is never treated as connected.
func (p *KitsuProvider) GetUser(ctx context.Context, account *models.ExternalAccount) (models.UserData, error) {
	if account.Auth == nil || account.Auth.Username == "" {
		return models.UserData{}, errors.New("account has no username")
	}

	endpoint := fmt.Sprintf("%s/users?filter[name]=%s", p.baseURL, url.QueryEscape(account.Auth.Username))
	var payload userListResponse
	if err := p.get(ctx, endpoint, &payload); err != nil {
		return models.UserData{}, fmt.Errorf("failed to get user %q: %w", account.Auth.Username, err)
	}
	if len(payload.Data) == 0 {
		return models.UserData{}, fmt.Errorf("no kitsu user named %q", account.Auth.Username)
	}

	user := payload.Data[0]
	return models.UserData{
		ID:       user.ID,
		Name:     user.Attributes.Name,
		ImageURL: user.Attributes.Avatar.Original,
	}, nil
}

// ImportList pages through the user's library and merges each page into
// the local store under the given policy. Pages merged before a later
// fetch failure stay committed and are reflected in the returned outcome.
func (p *KitsuProvider) ImportList(ctx context.Context, mediaType models.MediaType, account *models.ExternalAccount, method models.ImportMethod) (models.ImportOutcome, error) {
	var total models.ImportOutcome
	if !p.Config().Supports(models.CapabilityImport, mediaType) {
		return total, models.ErrUnsupported
	}

	// The library endpoint needs the numeric user ID, which GetUser
	// stores on connect.
	if account.User == nil || account.User.ID == "" {
		return total, errors.New("account is not connected")
	}

	q := url.Values{}
	q.Set("filter[userId]", account.User.ID)
	q.Set("filter[kind]", string(mediaType))
	q.Set("include", string(mediaType))
	q.Set("page[limit]", strconv.Itoa(p.pageLimit))
	next := fmt.Sprintf("%s/library-entries?%s", p.baseURL, q.Encode())

	for next != "" {
		var page libraryResponse
		if err := p.get(ctx, next, &page); err != nil {
			return total, fmt.Errorf("failed to fetch library page: %w", err)
		}

		// Side-loaded media records, keyed the way relationships refer
		// to them.
		includedByID := make(map[string]mediaResource, len(page.Included))
		for _, inc := range page.Included {
			includedByID[inc.Type+":"+inc.ID] = inc
		}

		var media []models.Media
		var entries []models.LibraryEntry
		for _, raw := range page.Data {
			ref := raw.Relationships.Anime.Data
			if mediaType == models.MediaTypeManga {
				ref = raw.Relationships.Manga.Data
			}
			if ref == nil {
				continue // entry without its media, nothing to key on
			}
			inc, ok := includedByID[ref.Type+":"+ref.ID]
			if !ok {
				// Entry whose media the page did not side-load. Without
				// the media record the entry cannot land, so it is
				// dropped rather than sinking the rest of the page.
				continue
			}
			media = append(media, mediaFromResource(mediaType, inc))
			entries = append(entries, entryFromResource(mediaType, raw, ref.ID))
		}

		out, err := p.engine.MergeBatch(media, entries, method)
		if err != nil {
			return total, fmt.Errorf("failed to merge library page: %w", err)
		}
		total.Add(out)
		next = page.Links.Next
	}
	return total, nil
}

// mediaFromResource converts a Kitsu media resource to the canonical
// model. Kitsu categories are a separate fan-out request, so genres stay
// empty here; that is a recorded normalization gap, not an error.
func mediaFromResource(mediaType models.MediaType, raw mediaResource) models.Media {
	media := models.Media{
		Type:     mediaType,
		ImageURL: raw.Attributes.PosterImage.Large,
		Status:   normalizeStatus(raw.Attributes.Status),
		Format:   normalizeFormat(raw.Attributes.Subtype),
		Rating:   normalizeRating(raw.Attributes.AgeRating),
		Mapping:  models.NewMapping(providerCode, mediaType, raw.ID),
	}
	if media.ImageURL == "" {
		media.ImageURL = raw.Attributes.PosterImage.Original
	}
	if banner := raw.Attributes.CoverImage.Original; banner != "" {
		media.BannerURL = &banner
	}

	if romaji := raw.Attributes.Titles.EnJp; romaji != "" {
		media.Title.Romaji = &romaji
	} else if canonical := raw.Attributes.CanonicalTitle; canonical != "" {
		media.Title.Romaji = &canonical
	}
	if english := raw.Attributes.Titles.En; english != "" {
		media.Title.English = &english
	}
	if native := raw.Attributes.Titles.JaJp; native != "" {
		media.Title.Native = &native
	}

	media.StartDate = parseDate(raw.Attributes.StartDate)
	media.FinishDate = parseDate(raw.Attributes.EndDate)

	switch mediaType {
	case models.MediaTypeAnime:
		media.Episodes = raw.Attributes.EpisodeCount
		if raw.Attributes.EpisodeLength != nil {
			seconds := *raw.Attributes.EpisodeLength * 60
			media.Duration = &seconds
		}
	case models.MediaTypeManga:
		media.Chapters = raw.Attributes.ChapterCount
		media.Volumes = raw.Attributes.VolumeCount
	}

	if raw.Attributes.Nsfw || (media.Rating != nil && *media.Rating == models.RatingRX) {
		media.IsAdult = true
	}
	return media
}

// entryFromResource converts one library entry resource to the canonical
// model.
func entryFromResource(mediaType models.MediaType, raw libraryEntryResource, nativeID string) models.LibraryEntry {
	mapping := models.NewMapping(providerCode, mediaType, nativeID)
	entry := models.DefaultLibraryEntry(mapping, mediaType)
	entry.Status = normalizeLibraryStatus(raw.Attributes.Status)
	entry.Score = normalizeScore(raw.Attributes.RatingTwenty)
	entry.Restarts = raw.Attributes.ReconsumeCount
	entry.StartDate = parseTimestamp(raw.Attributes.StartedAt)
	entry.FinishDate = parseTimestamp(raw.Attributes.FinishedAt)
	entry.Notes = raw.Attributes.Notes
	switch mediaType {
	case models.MediaTypeAnime:
		entry.EpisodeProgress = raw.Attributes.Progress
	case models.MediaTypeManga:
		entry.ChapterProgress = raw.Attributes.Progress
		entry.VolumeProgress = raw.Attributes.VolumesOwned
	}
	return entry
}
