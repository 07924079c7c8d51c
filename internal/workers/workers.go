package workers

import (
	"github.com/MKhiriev/gitvault/internal/config"
	"github.com/MKhiriev/gitvault/internal/logger"
	"github.com/MKhiriev/gitvault/internal/vault"
)

type Workers struct {
	workers []Worker
}

// NewWorkers assembles the daemon's background workers from the given
// configuration. Currently the only worker is the idle auto-lock; it is
// omitted entirely when the interval is zero.
func NewWorkers(v *vault.Vault, cfg config.Workers, logger *logger.Logger) *Workers {
	ws := &Workers{}

	if cfg.IdleLockInterval > 0 {
		ws.workers = append(ws.workers, newIdleLockWorker(v, cfg.IdleLockInterval, logger))
	}

	return ws
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
