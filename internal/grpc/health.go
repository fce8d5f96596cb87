package grpc

import (
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the name the directory reports its status under. The
// empty service name mirrors it for clients that check overall health.
const ServiceName = "userdir.v1.Directory"

// HealthServer exposes the standard grpc.health.v1.Health service so
// orchestrators can check the directory over gRPC.
type HealthServer struct {
	srv    *grpc.Server
	health *health.Server
}

// NewHealthServer creates a server reporting NOT_SERVING until SetServing
// is called.
func NewHealthServer(opts ...grpc.ServerOption) *HealthServer {
	srv := grpc.NewServer(opts...)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	h := &HealthServer{srv: srv, health: hs}
	h.SetServing(false)
	return h
}

// SetServing updates the reported status.
func (h *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus(ServiceName, status)
	h.health.SetServingStatus("", status)
}

// Serve accepts connections on lis until Stop is called.
func (h *HealthServer) Serve(lis net.Listener) error {
	return h.srv.Serve(lis)
}

// Stop marks every service NOT_SERVING and drains in-flight RPCs.
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.srv.GracefulStop()
}
