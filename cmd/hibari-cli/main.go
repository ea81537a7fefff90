// A small terminal front-end for the import and search flows, useful for
// trying a provider without running the web server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/hibari-app/hibari/internal/core"
	"github.com/hibari-app/hibari/internal/importer"
	"github.com/hibari-app/hibari/internal/models"
	"github.com/hibari-app/hibari/internal/providers"
	"github.com/hibari-app/hibari/internal/providers/animeplanet"
	"github.com/hibari-app/hibari/internal/providers/kitsu"
	"github.com/hibari-app/hibari/internal/providers/myanimelist"
	"github.com/hibari-app/hibari/internal/store"
)

func main() {
	providerCode := flag.String("provider", "myanimelist", "provider code")
	username := flag.String("username", "", "remote username")
	mediaType := flag.String("type", "anime", "media type: anime or manga")
	method := flag.String("method", "keep", "import method: override, keep or latest")
	query := flag.String("query", "", "search query (with the search command)")
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		fmt.Fprintln(os.Stderr, "usage: hibari-cli [flags] import|search|user")
		os.Exit(2)
	}

	godotenv.Load()

	app, err := core.New()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Close()

	cfg := app.Config()
	st := store.New(app.DB())
	engine := importer.New(st)
	providers.Register(myanimelist.New(engine, cfg.Providers.MALClientID, cfg.Providers.PageLimit))
	providers.Register(kitsu.New(engine, cfg.Providers.PageLimit))
	providers.Register(animeplanet.New(cfg.Providers.UserAgent))

	provider, ok := providers.Get(*providerCode)
	if !ok {
		log.Fatalf("Unknown provider %q", *providerCode)
	}

	mt := models.MediaType(*mediaType)
	if !mt.Valid() {
		log.Fatalf("Invalid media type %q", *mediaType)
	}

	ctx := context.Background()
	account := &models.ExternalAccount{
		Provider: *providerCode,
		Auth:     &models.AccountAuth{Username: *username},
	}

	switch command {
	case "search":
		if !provider.Config().Supports(models.CapabilitySearch, mt) {
			log.Fatalf("Provider %q does not support searching %s", *providerCode, mt)
		}
		results, failed := provider.Search(ctx, mt, models.SearchOptions{Query: *query})
		if failed {
			log.Fatal("Search failed")
		}
		for _, media := range results {
			fmt.Printf("%-40s %s\n", media.Mapping, media.Title.Display())
		}

	case "user":
		user, err := provider.GetUser(ctx, account)
		if err != nil {
			log.Fatalf("Failed to get user: %v", err)
		}
		fmt.Printf("id=%s name=%s\n", user.ID, user.Name)

	case "import":
		im := models.ImportMethod(*method)
		if !im.Valid() {
			log.Fatalf("Invalid import method %q", *method)
		}
		if !provider.Config().Supports(models.CapabilityImport, mt) {
			log.Fatalf("Provider %q does not support importing %s", *providerCode, mt)
		}
		// Some providers need the remote identity before they can page
		// through the library.
		if user, err := provider.GetUser(ctx, account); err == nil {
			account.User = &user
		}
		outcome, err := provider.ImportList(ctx, mt, account, im)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		count, err := st.CountLibrary()
		if err != nil {
			log.Fatalf("Failed to count library entries: %v", err)
		}
		log.Printf("Import complete: %d added, %d updated, %d skipped. Library now holds %d entries.",
			outcome.EntriesAdded, outcome.EntriesUpdated, outcome.EntriesSkipped, count)

	default:
		log.Fatalf("Unknown command %q", command)
	}
}
