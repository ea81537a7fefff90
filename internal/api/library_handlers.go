package api

import (
	"net/http"

	"github.com/hibari-app/hibari/internal/models"
)

func (s *Server) handleListLibrary(w http.ResponseWriter, r *http.Request) {
	mediaType := models.MediaType(r.URL.Query().Get("type"))
	if mediaType != "" && !mediaType.Valid() {
		RespondWithError(w, http.StatusBadRequest, "Invalid media type")
		return
	}

	entries, err := s.store.ListLibrary(mediaType)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to list library")
		return
	}
	if entries == nil {
		entries = []*models.LibraryEntry{}
	}
	RespondWithJSON(w, http.StatusOK, entries)
}
