package models

import "testing"

func TestNewMapping(t *testing.T) {
	got := NewMapping("MyAnimeList", MediaTypeAnime, "16498")
	if got != "myanimelist:anime:16498" {
		t.Errorf("NewMapping = %q", got)
	}
}

func TestSplitMapping(t *testing.T) {
	provider, mediaType, nativeID, err := SplitMapping("kitsu:manga:42")
	if err != nil {
		t.Fatalf("SplitMapping failed: %v", err)
	}
	if provider != "kitsu" || mediaType != MediaTypeManga || nativeID != "42" {
		t.Errorf("SplitMapping = %q, %q, %q", provider, mediaType, nativeID)
	}

	// Native IDs may contain colons.
	_, _, nativeID, err = SplitMapping("animeplanet:anime:slug:with:colons")
	if err != nil {
		t.Fatalf("SplitMapping failed: %v", err)
	}
	if nativeID != "slug:with:colons" {
		t.Errorf("Expected colons preserved in native ID, got %q", nativeID)
	}

	for _, bad := range []string{"", "noseparators", "a:b", "mal:movie:1", ":anime:1", "mal:anime:"} {
		if _, _, _, err := SplitMapping(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestTitleDisplay(t *testing.T) {
	romaji, english, native := "Shingeki no Kyojin", "Attack on Titan", "進撃の巨人"

	full := Title{Romaji: &romaji, English: &english, Native: &native}
	if full.Display() != romaji {
		t.Errorf("Display() = %q, want romaji first", full.Display())
	}
	if got := (Title{English: &english, Native: &native}).Display(); got != english {
		t.Errorf("Display() = %q, want english", got)
	}
	if got := (Title{Native: &native}).Display(); got != native {
		t.Errorf("Display() = %q, want native", got)
	}
	if got := (Title{}).Display(); got != "" {
		t.Errorf("Display() = %q, want empty", got)
	}
}

func TestImportMethodValid(t *testing.T) {
	for _, m := range []ImportMethod{ImportOverride, ImportKeep, ImportLatest} {
		if !m.Valid() {
			t.Errorf("Expected %q to be valid", m)
		}
	}
	if ImportMethod("sideways").Valid() {
		t.Error("Unknown method should not be valid")
	}
}

func TestImportOutcomeAdd(t *testing.T) {
	total := ImportOutcome{MediaUpserted: 1, EntriesAdded: 2}
	total.Add(ImportOutcome{MediaUpserted: 3, EntriesUpdated: 4, EntriesSkipped: 5})

	want := ImportOutcome{MediaUpserted: 4, EntriesAdded: 2, EntriesUpdated: 4, EntriesSkipped: 5}
	if total != want {
		t.Errorf("Add() = %+v, want %+v", total, want)
	}
}

func TestProviderConfigSupports(t *testing.T) {
	cfg := ProviderConfig{
		Search: []MediaType{MediaTypeAnime, MediaTypeManga},
		Import: []MediaType{MediaTypeAnime},
	}
	if !cfg.Supports(CapabilitySearch, MediaTypeManga) {
		t.Error("Expected manga search support")
	}
	if !cfg.Supports(CapabilityImport, MediaTypeAnime) {
		t.Error("Expected anime import support")
	}
	if cfg.Supports(CapabilityImport, MediaTypeManga) {
		t.Error("Manga import should not be supported")
	}
	if cfg.Supports(CapabilityExport, MediaTypeAnime) {
		t.Error("Export should not be supported")
	}
}
