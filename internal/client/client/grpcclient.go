package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/framekeeper/internal/api"
	"github.com/dmitrijs2005/framekeeper/internal/common"
)

const defaultChunkSize = 64 * 1024

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.CatalogServiceClient
	chunkSize   int
	dialOpts    []grpc.DialOption

	mu          sync.RWMutex
	accessToken string
}

type Option func(*GRPCClient)

// WithChunkSize sets the size of one upload stream message.
func WithChunkSize(n int) Option {
	return func(c *GRPCClient) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithDialOptions appends options used when creating the connection.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *GRPCClient) {
		c.dialOpts = append(c.dialOpts, opts...)
	}
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	return invoker(withAccessToken(ctx, s.token()), method, req, reply, cc, opts...)
}

func (s *GRPCClient) accessTokenStreamInterceptor(
	ctx context.Context,
	desc *grpc.StreamDesc,
	cc *grpc.ClientConn,
	method string,
	streamer grpc.Streamer,
	opts ...grpc.CallOption,
) (grpc.ClientStream, error) {
	return streamer(withAccessToken(ctx, s.token()), desc, cc, method, opts...)
}

func NewFrameKeeperClient(endpointURL string, opts ...Option) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, chunkSize: defaultChunkSize}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
		grpc.WithStreamInterceptor(s.accessTokenStreamInterceptor),
	}, s.dialOpts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewCatalogServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Register(ctx context.Context, userName, password string) (string, error) {

	resp, err := s.client.Register(ctx, &api.RegisterRequest{Username: userName, Password: password})
	if err != nil {
		return "", s.mapError(err)
	}

	return resp.UserID, nil
}

func (s *GRPCClient) Login(ctx context.Context, userName, password string) error {

	resp, err := s.client.Login(ctx, &api.LoginRequest{Username: userName, Password: password})
	if err != nil {
		return s.mapError(err)
	}

	s.mu.Lock()
	s.accessToken = resp.AccessToken
	s.mu.Unlock()

	return nil
}

// Logout forgets the access token.
func (s *GRPCClient) Logout() {
	s.mu.Lock()
	s.accessToken = ""
	s.mu.Unlock()
}

func (s *GRPCClient) LoggedIn() bool {
	return s.token() != ""
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) Reference(ctx context.Context) (*api.GetReferenceResponse, error) {
	resp, err := s.client.GetReference(ctx, &api.GetReferenceRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) GetForm(ctx context.Context) (*api.FormState, error) {
	resp, err := s.client.GetForm(ctx, &api.GetFormRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) UpdateForm(ctx context.Context, req *api.UpdateFormRequest) (*api.FormState, error) {
	resp, err := s.client.UpdateForm(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

// UploadImage streams u in chunks and reports every progress event the
// server sends back. A failure on the sending side cancels the stream, so
// the server sees an aborted upload rather than a short file.
func (s *GRPCClient) UploadImage(ctx context.Context, u Upload, onProgress func(api.UploadProgress)) (*api.UploadImageResponse, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := s.client.UploadImage(ctx)
	if err != nil {
		return nil, s.mapError(err)
	}

	sendErr := make(chan error, 1)
	go func() {
		err := s.sendChunks(stream, u)
		if err != nil {
			cancel()
		}
		sendErr <- err
	}()

	var final *api.UploadImageResponse
	for {
		msg, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				if sErr := <-sendErr; sErr != nil {
					return nil, sErr
				}
			}
			return nil, s.mapError(err)
		}
		if msg.Progress != nil && onProgress != nil {
			onProgress(*msg.Progress)
		}
		if msg.Form != nil {
			final = msg
		}
	}

	if err := <-sendErr; err != nil {
		return nil, err
	}
	if final == nil {
		return nil, fmt.Errorf("%w: upload ended without a result", ErrRejected)
	}
	return final, nil
}

func (s *GRPCClient) sendChunks(stream api.CatalogService_UploadImageClient, u Upload) error {
	header := &api.UploadImageRequest{FileName: u.Name, Size: u.Size, ContentType: u.ContentType}
	buf := make([]byte, s.chunkSize)

	for {
		n, readErr := u.Body.Read(buf)
		if n > 0 || header != nil {
			req := &api.UploadImageRequest{Chunk: append([]byte(nil), buf[:n]...)}
			if header != nil {
				req.FileName, req.Size, req.ContentType = header.FileName, header.Size, header.ContentType
				header = nil
			}
			if err := stream.Send(req); err != nil {
				// io.EOF means the server already ended the stream; its
				// status arrives through Recv.
				if errors.Is(err, io.EOF) {
					return nil
				}
				return s.mapError(err)
			}
		}
		if errors.Is(readErr, io.EOF) {
			return stream.CloseSend()
		}
		if readErr != nil {
			return fmt.Errorf("read %s: %w", u.Name, readErr)
		}
	}
}

func (s *GRPCClient) DeleteImage(ctx context.Context, address string) (*api.FormState, error) {
	resp, err := s.client.DeleteImage(ctx, &api.DeleteImageRequest{Address: address})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) SaveDetails(ctx context.Context) (*api.SaveDetailsResponse, error) {
	resp, err := s.client.SaveDetails(ctx, &api.SaveDetailsRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) ListItems(ctx context.Context, refresh bool) ([]api.Item, error) {
	resp, err := s.client.ListItems(ctx, &api.ListItemsRequest{Refresh: refresh})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Items, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	default:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	}
}
