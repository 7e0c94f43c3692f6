// Package grpc exposes the item form and the user service over the
// framekeeper.v1.CatalogService gRPC service.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/framekeeper/internal/api"
	"github.com/dmitrijs2005/framekeeper/internal/catalog"
	"github.com/dmitrijs2005/framekeeper/internal/logging"
	"github.com/dmitrijs2005/framekeeper/internal/server/form"
	"github.com/dmitrijs2005/framekeeper/internal/server/models"
	"github.com/dmitrijs2005/framekeeper/internal/server/services"
	"github.com/dmitrijs2005/framekeeper/internal/server/viewstate"
)

// UserService is the part of services.UserService the transport needs.
type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
}

// CatalogService is the part of services.CatalogService the transport needs.
type CatalogService interface {
	Session(ctx context.Context, user viewstate.User) *form.Form
	ListItems(ctx context.Context, user viewstate.User, refresh bool) ([]*models.Item, error)
	Reference() catalog.ReferenceData
}

type GRPCServer struct {
	api.UnimplementedCatalogServiceServer
	address   string
	users     UserService
	catalog   CatalogService
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, us UserService, cs CatalogService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		catalog:   cs,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.requestIDInterceptor, s.accessTokenInterceptor),
		grpc.ChainStreamInterceptor(s.requestIDStreamInterceptor, s.accessTokenStreamInterceptor),
	)
	api.RegisterCatalogServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
