// Provider adapter for Anime-Planet. The site has no public API, so this
// adapter scrapes the search result cards. It is search-only: list import
// and user lookups are not declared in its config, and the corresponding
// operations return the unsupported sentinels.
package animeplanet

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hibari-app/hibari/internal/models"
)

const providerCode = "animeplanet"

// AnimePlanetProvider implements the search half of the Provider contract
// for Anime-Planet.
type AnimePlanetProvider struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// New creates a new Anime-Planet provider. userAgent is sent with every
// request; the site rejects the Go default.
func New(userAgent string) *AnimePlanetProvider {
	return &AnimePlanetProvider{
		client:    &http.Client{Timeout: 30 * time.Second},
		baseURL:   "https://www.anime-planet.com",
		userAgent: userAgent,
	}
}

func (p *AnimePlanetProvider) Info() models.ProviderInfo {
	return models.ProviderInfo{
		Code: providerCode,
		Name: "Anime-Planet",
	}
}

func (p *AnimePlanetProvider) Config() models.ProviderConfig {
	return models.ProviderConfig{
		Search: []models.MediaType{models.MediaTypeAnime, models.MediaTypeManga},
	}
}

// Search scrapes the search result cards for the query.
func (p *AnimePlanetProvider) Search(ctx context.Context, mediaType models.MediaType, opts models.SearchOptions) ([]models.Media, bool) {
	if !p.Config().Supports(models.CapabilitySearch, mediaType) {
		return nil, true
	}

	searchURL := fmt.Sprintf("%s/%s/all?name=%s", p.baseURL, mediaType, url.QueryEscape(opts.Query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, true
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, true
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, true
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, true
	}

	var results []models.Media
	doc.Find("ul.cardDeck li.card").Each(func(i int, card *goquery.Selection) {
		link, exists := card.Find("a").First().Attr("href")
		if !exists {
			return
		}
		// Card links look like "/anime/fullmetal-alchemist-brotherhood";
		// the slug is the site's native identifier.
		slug := strings.TrimPrefix(link, fmt.Sprintf("/%s/", mediaType))
		if slug == "" || strings.Contains(slug, "/") {
			return
		}
		title := strings.TrimSpace(card.Find("h3.cardName").Text())
		if title == "" {
			return
		}

		imageURL, _ := card.Find("img").First().Attr("data-src")
		if imageURL == "" {
			imageURL, _ = card.Find("img").First().Attr("src")
		}
		if strings.HasPrefix(imageURL, "/") {
			imageURL = p.baseURL + imageURL
		}

		results = append(results, models.Media{
			Type:     mediaType,
			Title:    models.Title{English: &title},
			ImageURL: imageURL,
			Format:   models.FormatTV,
			Mapping:  models.NewMapping(providerCode, mediaType, slug),
		})
	})

	return results, false
}

// GetMedia is not supported; the site's detail pages are not scraped.
func (p *AnimePlanetProvider) GetMedia(ctx context.Context, mediaType models.MediaType, id string) (*models.Media, bool) {
	return nil, true
}

// ImportList is not supported: Anime-Planet exposes no library API.
func (p *AnimePlanetProvider) ImportList(ctx context.Context, mediaType models.MediaType, account *models.ExternalAccount, method models.ImportMethod) (models.ImportOutcome, error) {
	return models.ImportOutcome{}, models.ErrUnsupported
}

// GetUser is not supported.
func (p *AnimePlanetProvider) GetUser(ctx context.Context, account *models.ExternalAccount) (models.UserData, error) {
	return models.UserData{}, models.ErrUnsupported
}
