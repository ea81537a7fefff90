package api_test

// End-to-end tests for the HTTP API, using the mocktracker provider so no
// network calls are made.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hibari-app/hibari/internal/api"
	"github.com/hibari-app/hibari/internal/models"
	"github.com/hibari-app/hibari/internal/providers"
	"github.com/hibari-app/hibari/internal/providers/animeplanet"
	"github.com/hibari-app/hibari/internal/providers/mocktracker"
	"github.com/hibari-app/hibari/internal/testutil"
)

func doRequest(t *testing.T, server *api.Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(out); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
}

func createAccount(t *testing.T, server *api.Server) models.ExternalAccount {
	t.Helper()
	rr := doRequest(t, server, "POST", "/api/accounts", map[string]string{"provider": "mocktracker"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var account models.ExternalAccount
	decodeBody(t, rr, &account)
	return account
}

func connectAccount(t *testing.T, server *api.Server, id int64) {
	t.Helper()
	path := fmt.Sprintf("/api/accounts/%d/connect", id)
	rr := doRequest(t, server, "POST", path, models.AccountAuth{Username: "tester"})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200 on connect, got %d: %s", rr.Code, rr.Body.String())
	}
}

func stageLibrary(mock *mocktracker.MockTrackerProvider) {
	title := "Mock Anime"
	finish := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.Library[models.MediaTypeAnime] = mocktracker.RemoteList{
		Media: []models.Media{{
			Type:    models.MediaTypeAnime,
			Title:   models.Title{Romaji: &title},
			Format:  models.FormatTV,
			Mapping: "mocktracker:anime:1",
		}},
		Entries: []models.LibraryEntry{{
			Type:       models.MediaTypeAnime,
			Status:     models.LibraryStatusCompleted,
			Score:      90,
			FinishDate: &finish,
			Mapping:    "mocktracker:anime:1",
		}},
	}
}

func TestListProviders(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)

	rr := doRequest(t, server, "GET", "/api/providers", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var regs []struct {
		Info   models.ProviderInfo   `json:"info"`
		Config models.ProviderConfig `json:"config"`
	}
	decodeBody(t, rr, &regs)
	if len(regs) != 1 || regs[0].Info.Code != "mocktracker" {
		t.Errorf("Unexpected registrations: %+v", regs)
	}
	if len(regs[0].Config.Import) != 2 {
		t.Errorf("Expected import capability for both media types: %+v", regs[0].Config)
	}
}

func TestProviderSearch(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)

	rr := doRequest(t, server, "GET", "/api/providers/mocktracker/search?type=anime&q=test", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var results []models.Media
	decodeBody(t, rr, &results)
	if len(results) == 0 {
		t.Fatal("Expected search results")
	}

	// Unknown provider
	rr = doRequest(t, server, "GET", "/api/providers/nope/search?type=anime&q=test", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown provider, got %d", rr.Code)
	}

	// Invalid media type
	rr = doRequest(t, server, "GET", "/api/providers/mocktracker/search?type=movie&q=test", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for invalid media type, got %d", rr.Code)
	}
}

func TestProviderSearchFailure(t *testing.T) {
	server, mock := testutil.SetupTestServer(t)
	mock.SearchFail = true

	rr := doRequest(t, server, "GET", "/api/providers/mocktracker/search?type=anime&q=test", nil)
	if rr.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502 for a failed search, got %d", rr.Code)
	}
}

func TestProviderGetMediaCaches(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)

	rr := doRequest(t, server, "GET", "/api/providers/mocktracker/media/anime/12", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	// The fetch refreshed the local media cache.
	media, err := server.Store().GetMedia("mocktracker:anime:12")
	if err != nil {
		t.Fatalf("Expected media to be cached: %v", err)
	}
	if media.Title.Romaji == nil || *media.Title.Romaji != "Mock Media 12" {
		t.Errorf("Unexpected cached title: %v", media.Title.Romaji)
	}
}

func TestAccountLifecycle(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)

	account := createAccount(t, server)
	if account.Provider != "mocktracker" {
		t.Errorf("Unexpected provider %q", account.Provider)
	}
	if account.Connected() {
		t.Error("A fresh account should not be connected")
	}

	rr := doRequest(t, server, "GET", "/api/accounts", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var accounts []models.ExternalAccount
	decodeBody(t, rr, &accounts)
	if len(accounts) != 1 {
		t.Fatalf("Expected 1 account, got %d", len(accounts))
	}

	rr = doRequest(t, server, "DELETE", fmt.Sprintf("/api/accounts/%d", account.ID), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200 on delete, got %d", rr.Code)
	}

	rr = doRequest(t, server, "GET", "/api/accounts", nil)
	decodeBody(t, rr, &accounts)
	if len(accounts) != 0 {
		t.Errorf("Expected no accounts after delete, got %d", len(accounts))
	}
}

func TestCreateAccountUnknownProvider(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)

	rr := doRequest(t, server, "POST", "/api/accounts", map[string]string{"provider": "nope"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}

func TestConnectAccount(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	account := createAccount(t, server)

	connectAccount(t, server, account.ID)

	stored, err := server.Store().GetAccount(account.ID)
	if err != nil {
		t.Fatalf("GetAccount() failed: %v", err)
	}
	if !stored.Connected() {
		t.Fatal("Expected account to be connected")
	}
	if stored.User.Name != "tester" {
		t.Errorf("Unexpected user name %q", stored.User.Name)
	}
	if stored.Auth == nil || stored.Auth.Username != "tester" {
		t.Errorf("Unexpected stored auth: %+v", stored.Auth)
	}
}

func TestConnectAccountRevertsOnVerificationFailure(t *testing.T) {
	server, mock := testutil.SetupTestServer(t)
	account := createAccount(t, server)

	// Establish known-good credentials first.
	connectAccount(t, server, account.ID)

	// Then fail verification for the replacement credentials.
	mock.UserErr = errors.New("invalid token")
	path := fmt.Sprintf("/api/accounts/%d/connect", account.ID)
	rr := doRequest(t, server, "POST", path, models.AccountAuth{Username: "intruder"})
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("Expected status 502, got %d: %s", rr.Code, rr.Body.String())
	}

	// The old credentials are restored.
	stored, err := server.Store().GetAccount(account.ID)
	if err != nil {
		t.Fatalf("GetAccount() failed: %v", err)
	}
	if stored.Auth == nil || stored.Auth.Username != "tester" {
		t.Errorf("Expected original credentials to be restored, got %+v", stored.Auth)
	}
}

func TestImportList(t *testing.T) {
	server, mock := testutil.SetupTestServer(t)
	account := createAccount(t, server)
	connectAccount(t, server, account.ID)
	stageLibrary(mock)

	path := fmt.Sprintf("/api/accounts/%d/import", account.ID)
	rr := doRequest(t, server, "POST", path, api.ImportPayload{
		Type:   models.MediaTypeAnime,
		Method: models.ImportOverride,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	// The response carries the merge counters.
	var result struct {
		Message string               `json:"message"`
		Outcome models.ImportOutcome `json:"outcome"`
	}
	decodeBody(t, rr, &result)
	if result.Message == "" {
		t.Error("Expected a result message")
	}
	if result.Outcome.MediaUpserted != 1 || result.Outcome.EntriesUpdated != 1 {
		t.Errorf("Unexpected outcome in response: %+v", result.Outcome)
	}

	entry, err := server.Store().GetLibraryEntry("mocktracker:anime:1")
	if err != nil {
		t.Fatalf("Expected imported entry: %v", err)
	}
	if entry.Score != 90 {
		t.Errorf("Unexpected score %d", entry.Score)
	}
}

func TestImportListValidation(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	account := createAccount(t, server)
	path := fmt.Sprintf("/api/accounts/%d/import", account.ID)

	rr := doRequest(t, server, "POST", path, api.ImportPayload{
		Type:   "movie",
		Method: models.ImportOverride,
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for invalid media type, got %d", rr.Code)
	}

	rr = doRequest(t, server, "POST", path, api.ImportPayload{
		Type:   models.MediaTypeAnime,
		Method: "sideways",
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for invalid method, got %d", rr.Code)
	}

	rr = doRequest(t, server, "POST", "/api/accounts/9999/import", api.ImportPayload{
		Type:   models.MediaTypeAnime,
		Method: models.ImportOverride,
	})
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown account, got %d", rr.Code)
	}
}

func TestImportListCapabilityRejected(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)

	// A search-only provider: the registry declares no import capability.
	scraper := animeplanet.New("test-agent")
	providers.Register(scraper)
	t.Cleanup(func() { providers.Unregister(scraper.Info().Code) })

	rr := doRequest(t, server, "POST", "/api/accounts", map[string]string{"provider": "animeplanet"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var account models.ExternalAccount
	decodeBody(t, rr, &account)

	path := fmt.Sprintf("/api/accounts/%d/import", account.ID)
	rr = doRequest(t, server, "POST", path, api.ImportPayload{
		Type:   models.MediaTypeAnime,
		Method: models.ImportOverride,
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for a provider without import capability, got %d", rr.Code)
	}
}

func TestListLibrary(t *testing.T) {
	server, mock := testutil.SetupTestServer(t)
	account := createAccount(t, server)
	connectAccount(t, server, account.ID)
	stageLibrary(mock)

	path := fmt.Sprintf("/api/accounts/%d/import", account.ID)
	rr := doRequest(t, server, "POST", path, api.ImportPayload{
		Type:   models.MediaTypeAnime,
		Method: models.ImportOverride,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("Import failed: %d %s", rr.Code, rr.Body.String())
	}

	rr = doRequest(t, server, "GET", "/api/library", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var entries []models.LibraryEntry
	decodeBody(t, rr, &entries)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}

	// Type filter excludes the anime entry.
	rr = doRequest(t, server, "GET", "/api/library?type=manga", nil)
	decodeBody(t, rr, &entries)
	if len(entries) != 0 {
		t.Errorf("Expected no manga entries, got %d", len(entries))
	}

	// Invalid filter value.
	rr = doRequest(t, server, "GET", "/api/library?type=movie", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for invalid filter, got %d", rr.Code)
	}
}
