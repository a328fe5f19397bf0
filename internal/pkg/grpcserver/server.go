// Package grpcserver wraps a grpc.Server with health checking and reflection
package grpcserver

import (
	"net"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type Server struct {
	addr   string
	lis    net.Listener
	health *health.Server
	logger zerolog.Logger
	Server *grpc.Server
}

// New builds a server listening on addr once Start is called
func New(addr string, logger zerolog.Logger, opts ...grpc.ServerOption) *Server {
	s := grpc.NewServer(opts...)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	reflection.Register(s)
	return &Server{
		addr:   addr,
		health: hs,
		logger: logger.With().Str("component", "grpcserver").Logger(),
		Server: s,
	}
}

// Register adds a service and marks it as serving
func (s *Server) Register(desc *grpc.ServiceDesc, impl interface{}) {
	s.Server.RegisterService(desc, impl)
	s.health.SetServingStatus(desc.ServiceName, healthpb.HealthCheckResponse_SERVING)
}

// Start blocks serving on the configured address
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

// Serve blocks serving on an existing listener
func (s *Server) Serve(lis net.Listener) error {
	s.lis = lis
	s.logger.Info().Str("addr", lis.Addr().String()).Msg("gRPC server listening")
	return s.Server.Serve(lis)
}

func (s *Server) Stop() {
	s.health.Shutdown()
	s.Server.GracefulStop()
	if s.lis != nil {
		_ = s.lis.Close()
	}
}
