// A mock provider for development and testing purposes. It simulates a
// tracking site with a fixed catalog and a configurable remote library,
// without making network calls. Its ImportList drives the real
// reconciliation engine, so the whole import path can be exercised
// offline.
package mocktracker

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hibari-app/hibari/internal/importer"
	"github.com/hibari-app/hibari/internal/models"
)

const providerCode = "mocktracker"

type MockTrackerProvider struct {
	engine *importer.Engine

	// Test hooks. Library is the remote list returned per media type;
	// UserErr makes GetUser fail; SearchFail makes Search/GetMedia report
	// failure.
	Library    map[models.MediaType]RemoteList
	UserErr    error
	SearchFail bool
}

// RemoteList is one media type's worth of remote state.
type RemoteList struct {
	Media   []models.Media
	Entries []models.LibraryEntry
}

func New(engine *importer.Engine) *MockTrackerProvider {
	return &MockTrackerProvider{
		engine:  engine,
		Library: make(map[models.MediaType]RemoteList),
	}
}

func (p *MockTrackerProvider) Info() models.ProviderInfo {
	return models.ProviderInfo{
		Code: providerCode,
		Name: "MockTracker",
	}
}

func (p *MockTrackerProvider) Config() models.ProviderConfig {
	return models.ProviderConfig{
		Search: []models.MediaType{models.MediaTypeAnime, models.MediaTypeManga},
		Import: []models.MediaType{models.MediaTypeAnime, models.MediaTypeManga},
	}
}

func (p *MockTrackerProvider) Search(ctx context.Context, mediaType models.MediaType, opts models.SearchOptions) ([]models.Media, bool) {
	if p.SearchFail || !p.Config().Supports(models.CapabilitySearch, mediaType) {
		return nil, true
	}
	var results []models.Media
	for i := 1; i <= 5; i++ {
		title := fmt.Sprintf("%s - Result %d", opts.Query, i)
		results = append(results, models.Media{
			Type:     mediaType,
			Title:    models.Title{Romaji: &title},
			ImageURL: fmt.Sprintf("https://placehold.co/400x600?text=Cover+%d", i),
			Format:   models.FormatTV,
			Mapping:  models.NewMapping(providerCode, mediaType, strconv.Itoa(i)),
		})
	}
	return results, false
}

func (p *MockTrackerProvider) GetMedia(ctx context.Context, mediaType models.MediaType, id string) (*models.Media, bool) {
	if p.SearchFail {
		return nil, true
	}
	title := "Mock Media " + id
	return &models.Media{
		Type:     mediaType,
		Title:    models.Title{Romaji: &title},
		ImageURL: "https://placehold.co/400x600?text=Cover",
		Format:   models.FormatTV,
		Mapping:  models.NewMapping(providerCode, mediaType, id),
	}, false
}

func (p *MockTrackerProvider) ImportList(ctx context.Context, mediaType models.MediaType, account *models.ExternalAccount, method models.ImportMethod) (models.ImportOutcome, error) {
	if !p.Config().Supports(models.CapabilityImport, mediaType) {
		return models.ImportOutcome{}, models.ErrUnsupported
	}
	list := p.Library[mediaType]
	out, err := p.engine.MergeBatch(list.Media, list.Entries, method)
	if err != nil {
		return out, fmt.Errorf("failed to merge mock library: %w", err)
	}
	return out, nil
}

func (p *MockTrackerProvider) GetUser(ctx context.Context, account *models.ExternalAccount) (models.UserData, error) {
	if p.UserErr != nil {
		return models.UserData{}, p.UserErr
	}
	name := "mock-user"
	if account.Auth != nil && account.Auth.Username != "" {
		name = account.Auth.Username
	}
	return models.UserData{
		ID:       "1",
		Name:     name,
		ImageURL: "https://placehold.co/128x128?text=Avatar",
	}, nil
}
