// Handlers for linked external accounts: linking, unlinking, credential
// verification and list imports.

package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hibari-app/hibari/internal/models"
	"github.com/hibari-app/hibari/internal/providers"
	"github.com/hibari-app/hibari/internal/store"
)

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts()
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to list accounts")
		return
	}
	if accounts == nil {
		accounts = []*models.ExternalAccount{}
	}
	RespondWithJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Provider string `json:"provider"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if _, ok := providers.Get(payload.Provider); !ok {
		RespondWithError(w, http.StatusBadRequest, "Unknown provider")
		return
	}

	account, err := s.store.CreateAccount(payload.Provider)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}
	RespondWithJSON(w, http.StatusCreated, account)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := accountID(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid account ID")
		return
	}
	if err := s.store.DeleteAccount(id); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Account unlinked"})
}

// handleConnectAccount stores new credentials for an account and verifies
// them with the provider's GetUser. If verification fails the previous
// credentials are restored, so the store never holds an unverified
// credential as if it were verified.
func (s *Server) handleConnectAccount(w http.ResponseWriter, r *http.Request) {
	id, err := accountID(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid account ID")
		return
	}

	var newAuth models.AccountAuth
	if err := json.NewDecoder(r.Body).Decode(&newAuth); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	account, err := s.store.GetAccount(id)
	if err == store.ErrNotFound {
		RespondWithError(w, http.StatusNotFound, "Account not found")
		return
	}
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to load account")
		return
	}

	provider, ok := providers.Get(account.Provider)
	if !ok {
		RespondWithError(w, http.StatusInternalServerError, "Provider for this account is not registered")
		return
	}

	oldAuth := account.Auth
	if err := s.store.UpdateAccountAuth(id, &newAuth); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to store credentials")
		return
	}
	account.Auth = &newAuth

	user, err := provider.GetUser(r.Context(), account)
	if err != nil {
		// Revert changes
		if revertErr := s.store.UpdateAccountAuth(id, oldAuth); revertErr != nil {
			log.Printf("Warning: failed to revert credentials for account %d: %v", id, revertErr)
		}
		RespondWithError(w, http.StatusBadGateway, "Failed to verify account with the provider")
		return
	}

	if err := s.store.UpdateAccountUser(id, &user); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to store user data")
		return
	}

	account.User = &user
	RespondWithJSON(w, http.StatusOK, account)
}

// ImportPayload selects the list and conflict policy for an import.
type ImportPayload struct {
	Type   models.MediaType    `json:"type"`
	Method models.ImportMethod `json:"method"`
}

func (s *Server) handleImportList(w http.ResponseWriter, r *http.Request) {
	id, err := accountID(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid account ID")
		return
	}

	var payload ImportPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if !payload.Type.Valid() {
		RespondWithError(w, http.StatusBadRequest, "Invalid media type")
		return
	}
	if !payload.Method.Valid() {
		RespondWithError(w, http.StatusBadRequest, "Invalid import method")
		return
	}

	account, err := s.store.GetAccount(id)
	if err == store.ErrNotFound {
		RespondWithError(w, http.StatusNotFound, "Account not found")
		return
	}
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to load account")
		return
	}

	provider, ok := providers.Get(account.Provider)
	if !ok {
		RespondWithError(w, http.StatusInternalServerError, "Provider for this account is not registered")
		return
	}
	if !providers.Supports(account.Provider, models.CapabilityImport, payload.Type) {
		RespondWithError(w, http.StatusBadRequest, "Provider does not support importing this media type")
		return
	}

	// Serialize imports per account+type; concurrent imports for the same
	// list would interleave writes on the same mapping set.
	mu := s.importLock(id, payload.Type)
	mu.Lock()
	defer mu.Unlock()

	outcome, err := provider.ImportList(r.Context(), payload.Type, account, payload.Method)
	if err != nil {
		log.Printf("Import for account %d (%s, %s) failed: %v", id, payload.Type, payload.Method, err)
		RespondWithError(w, http.StatusBadGateway, "Import failed")
		return
	}

	log.Printf("Import for account %d (%s, %s): %d media, %d added, %d updated, %d skipped",
		id, payload.Type, payload.Method,
		outcome.MediaUpserted, outcome.EntriesAdded, outcome.EntriesUpdated, outcome.EntriesSkipped)
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Imported %s list from %s", payload.Type, provider.Info().Name),
		"outcome": outcome,
	})
}

func accountID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "accountID"), 10, 64)
}
