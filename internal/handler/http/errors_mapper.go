package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/gitvault/internal/store"
	"github.com/MKhiriev/gitvault/internal/vault"
)

var errorStatusMap = map[error]int{
	vault.ErrEmptyPassphrase: http.StatusBadRequest,
	vault.ErrWrongPassphrase: http.StatusUnauthorized,
	vault.ErrVaultLocked:     http.StatusUnauthorized,

	store.ErrEntryNotFound:      http.StatusNotFound,
	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
