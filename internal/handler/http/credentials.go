package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/gitvault/internal/logger"
	"github.com/MKhiriev/gitvault/internal/utils"
	"github.com/MKhiriev/gitvault/models"
)

// sessionLog returns the request-scoped logger enriched with the unlock
// session that authenticated the request, so credential operations can be
// traced back to the session that performed them.
func sessionLog(r *http.Request) *logger.Logger {
	log := logger.FromRequest(r)
	if sessionID, ok := utils.GetSessionIDFromContext(r.Context()); ok {
		return &logger.Logger{Logger: log.With().Str("session_id", sessionID).Logger()}
	}
	return log
}

// lookupCredential returns the stored credential for the remote passed in
// the "url" query parameter. Responds 200 with the record when found and
// 204 when the vault holds nothing for that host.
func (h *Handler) lookupCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := sessionLog(r)

	url := r.URL.Query().Get("url")
	if url == "" {
		log.Error().Msg("missing `url` query parameter")
		http.Error(w, "missing `url` query parameter", http.StatusBadRequest)
		return
	}

	record := h.vault.LookupSavedPassword(ctx, url)
	if record == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	utils.WriteJSON(w, record, http.StatusOK)
}

func (h *Handler) saveCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := sessionLog(r)

	var req models.SaveCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if req.URL == "" || req.Username == "" || req.Password == "" {
		log.Error().Msg("url, username and password are all required")
		http.Error(w, "url, username and password are all required", http.StatusBadRequest)
		return
	}

	record := models.CredentialRecord{Username: req.Username, Password: req.Password}
	if err := h.vault.SaveGitAuth(ctx, req.URL, record); err != nil {
		log.Err(err).Msg("error occurred during saving credential")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) removeCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := sessionLog(r)

	url := r.URL.Query().Get("url")
	if url == "" {
		log.Error().Msg("missing `url` query parameter")
		http.Error(w, "missing `url` query parameter", http.StatusBadRequest)
		return
	}

	if err := h.vault.RemoveGitAuth(ctx, url); err != nil {
		log.Err(err).Msg("error occurred during removing credential")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
