package http

import (
	"net/http"

	"github.com/MKhiriev/gitvault/internal/utils"
)

func (h *Handler) getDaemonVersion(w http.ResponseWriter, r *http.Request) {
	payload := map[string]string{
		"version":      h.buildInfo.BuildVersion(),
		"build_date":   h.buildInfo.BuildDate(),
		"build_commit": h.buildInfo.BuildCommit(),
	}

	utils.WriteJSON(w, payload, http.StatusOK)
}
