package grpc

import (
	"github.com/MKhiriev/gitvault/internal/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health-check service identifier the desktop shell
// probes to decide whether the daemon is up.
const ServiceName = "gitvault.Daemon"

// Handler is the root gRPC transport handler.
//
// The daemon's only gRPC surface is the standard health-checking protocol
// (grpc.health.v1.Health). The desktop shell polls it to detect a crashed or
// wedged daemon and restart it; all credential operations go over HTTP.
type Handler struct {
	health *health.Server

	logger *logger.Logger
}

// NewHandler constructs a [Handler] with a health server that immediately
// reports SERVING for both the overall daemon and [ServiceName].
func NewHandler(logger *logger.Logger) *Handler {
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	logger.Debug().Msg("gRPC handler created")
	return &Handler{
		health: healthServer,
		logger: logger,
	}
}

// Register attaches the health service to the given gRPC server.
func (h *Handler) Register(server *grpc.Server) {
	healthpb.RegisterHealthServer(server, h.health)
}

// Shutdown moves every registered service to NOT_SERVING so in-flight health
// probes observe the daemon going down before the listener closes.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}
