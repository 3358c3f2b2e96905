package main

import (
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName es el nombre con el que el servicio se reporta en el health check.
const ServiceName = "recipecart.Cart"

// newAdminServer crea el servidor gRPC de administracion (health + reflection).
// Arranca en NOT_SERVING; main lo pasa a SERVING cuando la BD esta lista.
func newAdminServer() (*grpc.Server, *health.Server) {
	s := grpc.NewServer()
	hs := health.NewServer()
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	grpc_health_v1.RegisterHealthServer(s, hs)
	reflection.Register(s)
	return s, hs
}

func setServing(hs *health.Server, serving bool) {
	st := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		st = grpc_health_v1.HealthCheckResponse_SERVING
	}
	hs.SetServingStatus("", st)
	hs.SetServingStatus(ServiceName, st)
}

// dialHealth abre un cliente hacia el propio servidor gRPC para que /healthz
// refleje su estado.
func dialHealth(addr net.Addr) (*grpc.ClientConn, grpc_health_v1.HealthClient, error) {
	_, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return nil, nil, err
	}
	cc, err := grpc.NewClient(net.JoinHostPort("localhost", port),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, err
	}
	return cc, grpc_health_v1.NewHealthClient(cc), nil
}
