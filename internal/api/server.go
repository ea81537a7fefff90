// It defines the API server, sets up the routes (endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hibari-app/hibari/internal/core"
	"github.com/hibari-app/hibari/internal/importer"
	"github.com/hibari-app/hibari/internal/models"
	"github.com/hibari-app/hibari/internal/store"
)

// Server holds the dependencies for our API.
type Server struct {
	app    *core.App
	db     *sql.DB
	store  *store.Store
	engine *importer.Engine

	// One mutex per account+type: at most one in-flight import per
	// account and media type. The engine itself does no locking, so the
	// caller (us) has to serialize.
	importMu    sync.Mutex
	importLocks map[string]*sync.Mutex
}

// Store returns the store instance.
func (s *Server) Store() *store.Store {
	return s.store
}

// Engine returns the reconciliation engine.
func (s *Server) Engine() *importer.Engine {
	return s.engine
}

// NewServer creates a new Server instance.
func NewServer(app *core.App) *Server {
	storeInstance := store.New(app.DB())
	return &Server{
		app:         app,
		db:          app.DB(),
		store:       storeInstance,
		engine:      importer.New(storeInstance),
		importLocks: make(map[string]*sync.Mutex),
	}
}

// importLock returns the mutex guarding imports for one account+type.
func (s *Server) importLock(accountID int64, mediaType models.MediaType) *sync.Mutex {
	key := fmt.Sprintf("%d:%s", accountID, mediaType)
	s.importMu.Lock()
	defer s.importMu.Unlock()
	mu, ok := s.importLocks[key]
	if !ok {
		mu = &sync.Mutex{}
		s.importLocks[key] = mu
	}
	return mu
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Logs requests to the console
	r.Use(middleware.Recoverer) // Recovers from panics
	r.Use(middleware.Timeout(120 * time.Second))

	r.Route("/api", func(r chi.Router) {
		// Provider routes
		r.Get("/providers", s.handleListProviders)
		r.Get("/providers/{providerCode}/search", s.handleProviderSearch)
		r.Get("/providers/{providerCode}/media/{mediaType}/{mediaID}", s.handleProviderGetMedia)

		// Account routes
		r.Get("/accounts", s.handleListAccounts)
		r.Post("/accounts", s.handleCreateAccount)
		r.Delete("/accounts/{accountID}", s.handleDeleteAccount)
		r.Post("/accounts/{accountID}/connect", s.handleConnectAccount)
		r.Post("/accounts/{accountID}/import", s.handleImportList)

		// Library routes
		r.Get("/library", s.handleListLibrary)
	})

	return r
}
