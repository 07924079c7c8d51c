package server

import (
	"net"

	"github.com/MKhiriev/gitvault/internal/config"
	myGRPC "github.com/MKhiriev/gitvault/internal/handler/grpc"
	"github.com/MKhiriev/gitvault/internal/logger"

	"google.golang.org/grpc"
)

type grpcServer struct {
	handler *myGRPC.Handler

	server      *grpc.Server
	listenAddr  string
	netListener net.Listener

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) *grpcServer {
	server := grpc.NewServer()
	handler.Register(server)

	return &grpcServer{
		handler:    handler,
		server:     server,
		listenAddr: cfg.GRPCAddress,
		logger:     logger,
	}
}

func (g *grpcServer) RunServer() {
	listener, err := net.Listen("tcp", g.listenAddr)
	if err != nil {
		g.logger.Error().Err(err).Str("address", g.listenAddr).Msg("gRPC server Listen")
		return
	}
	g.netListener = listener

	if err := g.server.Serve(g.netListener); err != nil {
		g.logger.Error().Err(err).Msg("gRPC server Serve")
	}
}

func (g *grpcServer) Shutdown() {
	g.logger.Info().Msg("GRPC server Shutdown")
	g.handler.Shutdown()
	g.server.GracefulStop()
}
