// Handlers for the provider endpoints: registry listing, search and
// media lookups proxied through the provider adapters.

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hibari-app/hibari/internal/models"
	"github.com/hibari-app/hibari/internal/providers"
)

func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, providers.GetAll())
}

func (s *Server) handleProviderSearch(w http.ResponseWriter, r *http.Request) {
	providerCode := chi.URLParam(r, "providerCode")
	provider, ok := providers.Get(providerCode)
	if !ok {
		RespondWithError(w, http.StatusNotFound, "Provider not found")
		return
	}

	mediaType := models.MediaType(r.URL.Query().Get("type"))
	if !mediaType.Valid() {
		RespondWithError(w, http.StatusBadRequest, "Invalid media type")
		return
	}
	if !providers.Supports(providerCode, models.CapabilitySearch, mediaType) {
		RespondWithError(w, http.StatusBadRequest, "Provider does not support search for this media type")
		return
	}

	opts := models.SearchOptions{
		Query:  r.URL.Query().Get("q"),
		SortBy: r.URL.Query().Get("sort_by"),
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		opts.Limit, _ = strconv.Atoi(limit)
	}

	results, failed := provider.Search(r.Context(), mediaType, opts)
	if failed {
		RespondWithError(w, http.StatusBadGateway, "Search against the provider failed")
		return
	}
	if results == nil {
		results = []models.Media{}
	}
	RespondWithJSON(w, http.StatusOK, results)
}

func (s *Server) handleProviderGetMedia(w http.ResponseWriter, r *http.Request) {
	providerCode := chi.URLParam(r, "providerCode")
	provider, ok := providers.Get(providerCode)
	if !ok {
		RespondWithError(w, http.StatusNotFound, "Provider not found")
		return
	}

	mediaType := models.MediaType(chi.URLParam(r, "mediaType"))
	if !mediaType.Valid() {
		RespondWithError(w, http.StatusBadRequest, "Invalid media type")
		return
	}

	media, failed := provider.GetMedia(r.Context(), mediaType, chi.URLParam(r, "mediaID"))
	if failed || media == nil {
		RespondWithError(w, http.StatusBadGateway, "Failed to fetch media from the provider")
		return
	}

	// Media fetched from a provider refreshes the local cache.
	if err := s.store.UpsertMedia(media); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to cache media")
		return
	}

	RespondWithJSON(w, http.StatusOK, media)
}
