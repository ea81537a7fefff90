package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/hibari-app/hibari/internal/models"
	"github.com/hibari-app/hibari/internal/store"
	"github.com/hibari-app/hibari/internal/testutil"
)

func setup(t *testing.T) *store.Store {
	t.Helper()
	return store.New(testutil.SetupTestDB(t))
}

func sampleMedia(mapping string) *models.Media {
	romaji := "Shingeki no Kyojin"
	english := "Attack on Titan"
	episodes := 25
	duration := 1440
	status := models.MediaStatusFinished
	rating := models.RatingR
	start := time.Date(2013, 4, 7, 0, 0, 0, 0, time.UTC)
	return &models.Media{
		Type:      models.MediaTypeAnime,
		Title:     models.Title{Romaji: &romaji, English: &english},
		ImageURL:  "https://img.test/aot.jpg",
		Status:    &status,
		Format:    models.FormatTV,
		Genres:    []models.Genre{models.GenreAction, models.GenreDrama},
		Episodes:  &episodes,
		Duration:  &duration,
		Rating:    &rating,
		StartDate: &start,
		Mapping:   mapping,
	}
}

func sampleEntry(mapping string) *models.LibraryEntry {
	finish := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)
	return &models.LibraryEntry{
		Type:            models.MediaTypeAnime,
		Status:          models.LibraryStatusCompleted,
		Score:           90,
		EpisodeProgress: 25,
		Restarts:        1,
		FinishDate:      &finish,
		Notes:           "season one",
		Mapping:         mapping,
	}
}

func TestUpsertAndGetMedia(t *testing.T) {
	st := setup(t)
	mapping := "mal:anime:16498"

	if err := st.UpsertMedia(sampleMedia(mapping)); err != nil {
		t.Fatalf("UpsertMedia() failed: %v", err)
	}

	got, err := st.GetMedia(mapping)
	if err != nil {
		t.Fatalf("GetMedia() failed: %v", err)
	}
	if got.Title.Romaji == nil || *got.Title.Romaji != "Shingeki no Kyojin" {
		t.Errorf("Unexpected romaji title: %v", got.Title.Romaji)
	}
	if got.Title.Native != nil {
		t.Error("Expected absent native title to stay nil")
	}
	if len(got.Genres) != 2 {
		t.Errorf("Expected 2 genres, got %v", got.Genres)
	}
	if got.Episodes == nil || *got.Episodes != 25 {
		t.Errorf("Unexpected episodes: %v", got.Episodes)
	}
	if got.StartDate == nil || !got.StartDate.Equal(time.Date(2013, 4, 7, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected start date: %v", got.StartDate)
	}

	// A second upsert replaces the row instead of erroring.
	updated := sampleMedia(mapping)
	episodes := 87
	updated.Episodes = &episodes
	if err := st.UpsertMedia(updated); err != nil {
		t.Fatalf("Second UpsertMedia() failed: %v", err)
	}
	got, err = st.GetMedia(mapping)
	if err != nil {
		t.Fatalf("GetMedia() after update failed: %v", err)
	}
	if *got.Episodes != 87 {
		t.Errorf("Expected updated episode count, got %d", *got.Episodes)
	}

	count, err := st.CountMedia()
	if err != nil {
		t.Fatalf("CountMedia() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 media row, got %d", count)
	}
}

func TestGetMediaNotFound(t *testing.T) {
	st := setup(t)
	if _, err := st.GetMedia("mal:anime:404"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestInsertLibraryEntryDuplicate(t *testing.T) {
	st := setup(t)
	mapping := "mal:anime:16498"

	if err := st.UpsertMedia(sampleMedia(mapping)); err != nil {
		t.Fatalf("UpsertMedia() failed: %v", err)
	}
	if err := st.InsertLibraryEntry(sampleEntry(mapping)); err != nil {
		t.Fatalf("InsertLibraryEntry() failed: %v", err)
	}

	err := st.InsertLibraryEntry(sampleEntry(mapping))
	if !errors.Is(err, store.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	// The duplicate insert must not have clobbered the original.
	got, err := st.GetLibraryEntry(mapping)
	if err != nil {
		t.Fatalf("GetLibraryEntry() failed: %v", err)
	}
	if got.Score != 90 {
		t.Errorf("Unexpected score %d", got.Score)
	}
}

func TestLibraryEntryRoundTrip(t *testing.T) {
	st := setup(t)
	mapping := "kitsu:anime:7442"

	if err := st.UpsertMedia(sampleMedia(mapping)); err != nil {
		t.Fatalf("UpsertMedia() failed: %v", err)
	}
	if err := st.UpsertLibraryEntry(sampleEntry(mapping)); err != nil {
		t.Fatalf("UpsertLibraryEntry() failed: %v", err)
	}

	got, err := st.GetLibraryEntry(mapping)
	if err != nil {
		t.Fatalf("GetLibraryEntry() failed: %v", err)
	}
	if got.Status != models.LibraryStatusCompleted {
		t.Errorf("Unexpected status %q", got.Status)
	}
	if got.FinishDate == nil || got.FinishDate.IsZero() {
		t.Error("Expected finish date to survive the round trip")
	}
	if got.StartDate != nil {
		t.Error("Expected absent start date to stay nil")
	}
	if got.Notes != "season one" {
		t.Errorf("Unexpected notes %q", got.Notes)
	}
}

func TestLibraryEntryRequiresMedia(t *testing.T) {
	st := setup(t)
	err := st.InsertLibraryEntry(sampleEntry("mal:anime:404"))
	if err == nil {
		t.Fatal("Expected foreign key violation for an entry without media")
	}
}

func TestListLibraryFiltersByType(t *testing.T) {
	st := setup(t)

	animeMapping := "mal:anime:1"
	mangaMapping := "mal:manga:2"
	manga := sampleMedia(mangaMapping)
	manga.Type = models.MediaTypeManga
	if err := st.UpsertMedia(sampleMedia(animeMapping)); err != nil {
		t.Fatal(err)
	}
	if err := st.UpsertMedia(manga); err != nil {
		t.Fatal(err)
	}

	mangaEntry := sampleEntry(mangaMapping)
	mangaEntry.Type = models.MediaTypeManga
	if err := st.UpsertLibraryEntry(sampleEntry(animeMapping)); err != nil {
		t.Fatal(err)
	}
	if err := st.UpsertLibraryEntry(mangaEntry); err != nil {
		t.Fatal(err)
	}

	all, err := st.ListLibrary("")
	if err != nil {
		t.Fatalf("ListLibrary() failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(all))
	}

	animeOnly, err := st.ListLibrary(models.MediaTypeAnime)
	if err != nil {
		t.Fatalf("ListLibrary(anime) failed: %v", err)
	}
	if len(animeOnly) != 1 || animeOnly[0].Mapping != animeMapping {
		t.Errorf("Unexpected anime filter result: %+v", animeOnly)
	}
}

func TestAccountLifecycle(t *testing.T) {
	st := setup(t)

	account, err := st.CreateAccount("myanimelist")
	if err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}
	if account.ID == 0 {
		t.Fatal("Expected a generated account ID")
	}
	if account.Connected() {
		t.Error("A fresh account should not be connected")
	}

	auth := &models.AccountAuth{Username: "tester", Token: "secret"}
	if err := st.UpdateAccountAuth(account.ID, auth); err != nil {
		t.Fatalf("UpdateAccountAuth() failed: %v", err)
	}
	user := &models.UserData{ID: "777", Name: "tester", ImageURL: "https://img.test/u.jpg"}
	if err := st.UpdateAccountUser(account.ID, user); err != nil {
		t.Fatalf("UpdateAccountUser() failed: %v", err)
	}

	got, err := st.GetAccount(account.ID)
	if err != nil {
		t.Fatalf("GetAccount() failed: %v", err)
	}
	if got.Auth == nil || got.Auth.Username != "tester" || got.Auth.Token != "secret" {
		t.Errorf("Unexpected auth: %+v", got.Auth)
	}
	if got.User == nil || got.User.ID != "777" {
		t.Errorf("Unexpected user: %+v", got.User)
	}
	if !got.Connected() {
		t.Error("Expected account with user data to be connected")
	}

	// Clearing auth nulls the columns.
	if err := st.UpdateAccountAuth(account.ID, nil); err != nil {
		t.Fatalf("UpdateAccountAuth(nil) failed: %v", err)
	}
	got, err = st.GetAccount(account.ID)
	if err != nil {
		t.Fatalf("GetAccount() after clear failed: %v", err)
	}
	if got.Auth != nil {
		t.Errorf("Expected cleared auth, got %+v", got.Auth)
	}

	accounts, err := st.ListAccounts()
	if err != nil {
		t.Fatalf("ListAccounts() failed: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("Expected 1 account, got %d", len(accounts))
	}

	if err := st.DeleteAccount(account.ID); err != nil {
		t.Fatalf("DeleteAccount() failed: %v", err)
	}
	if _, err := st.GetAccount(account.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}
