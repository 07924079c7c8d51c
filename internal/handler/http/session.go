package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/gitvault/internal/logger"
	"github.com/MKhiriev/gitvault/internal/utils"
	"github.com/MKhiriev/gitvault/internal/vault"
	"github.com/MKhiriev/gitvault/models"
)

// unlock derives the master key from the submitted passphrase and, on
// success, issues a session JWT in the Authorization response header.
// Subsequent credential requests must present that token.
func (h *Handler) unlock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.UnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.vault.Unlock(ctx, req.Passphrase); err != nil {
		switch {
		case errors.Is(err, vault.ErrEmptyPassphrase):
			log.Err(err).Msg("empty passphrase provided")
			http.Error(w, "empty passphrase provided", http.StatusBadRequest)
			return
		case errors.Is(err, vault.ErrWrongPassphrase):
			log.Err(err).Msg("wrong passphrase")
			http.Error(w, "wrong passphrase", http.StatusUnauthorized)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during vault unlock")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	sessionID := h.sessions.Generate()
	token, err := utils.GenerateJWTToken(h.cfg.TokenIssuer, sessionID, h.cfg.TokenDuration, h.cfg.TokenSignKey)
	if err != nil {
		log.Err(err).Msg("creation of token failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	log.Debug().Str("session_id", sessionID).Msg("vault unlocked, session issued")

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	w.WriteHeader(http.StatusOK)
}
