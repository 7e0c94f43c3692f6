package grpc

import (
	"context"
	"io"
	"math"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/framekeeper/internal/api"
	"github.com/dmitrijs2005/framekeeper/internal/server/apiconv"
	"github.com/dmitrijs2005/framekeeper/internal/server/form"
	"github.com/dmitrijs2005/framekeeper/internal/server/objectstore"
	"github.com/dmitrijs2005/framekeeper/internal/server/viewstate"
)

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {

	s.logger.Info(ctx, "Registration request", "username", req.Username)

	result, err := s.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		s.logger.Error(ctx, "registration failed", "error", err)
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "username", result.UserName, "user_id", result.ID)
	return &api.RegisterResponse{UserID: result.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {

	result, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}

	return &api.LoginResponse{AccessToken: result.AccessToken, UserID: result.User.ID}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) GetReference(ctx context.Context, req *api.GetReferenceRequest) (*api.GetReferenceResponse, error) {
	return &api.GetReferenceResponse{ReferenceData: s.catalog.Reference()}, nil
}

// session returns the caller's form. The interceptor guarantees a user on
// every protected method.
func (s *GRPCServer) session(ctx context.Context) (*form.Form, viewstate.User, error) {
	user, ok := userFromContext(ctx)
	if !ok {
		return nil, user, status.Error(codes.Unauthenticated, "no user")
	}
	return s.catalog.Session(ctx, user), user, nil
}

func (s *GRPCServer) GetForm(ctx context.Context, req *api.GetFormRequest) (*api.FormState, error) {
	f, _, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	return apiconv.FormState(f.Snapshot()), nil
}

func (s *GRPCServer) UpdateForm(ctx context.Context, req *api.UpdateFormRequest) (*api.FormState, error) {
	f, _, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := f.SetTitle(*req.Title); err != nil {
			return nil, toStatus(err)
		}
	}
	if req.Category != nil {
		if err := f.SetCategory(*req.Category); err != nil {
			return nil, toStatus(err)
		}
	}
	if req.Color != nil {
		if err := f.SetColor(*req.Color); err != nil {
			return nil, toStatus(err)
		}
	}

	return apiconv.FormState(f.Snapshot()), nil
}

// UploadImage reads the file from the client stream into the form while
// sending progress events back. The stream ends with one message carrying the
// image address and the form state.
func (s *GRPCServer) UploadImage(stream api.CatalogService_UploadImageServer) error {
	ctx := stream.Context()

	f, _, err := s.session(ctx)
	if err != nil {
		return err
	}

	first, err := stream.Recv()
	if err == io.EOF {
		return status.Error(codes.InvalidArgument, "empty upload")
	}
	if err != nil {
		return err
	}
	if first.FileName == "" {
		return status.Error(codes.InvalidArgument, "file name required")
	}

	pr, pw := io.Pipe()
	go func() {
		if len(first.Chunk) > 0 {
			if _, err := pw.Write(first.Chunk); err != nil {
				return
			}
		}
		for {
			req, err := stream.Recv()
			if err == io.EOF {
				pw.Close()
				return
			}
			if err != nil {
				pw.CloseWithError(err)
				return
			}
			if _, err := pw.Write(req.Chunk); err != nil {
				return
			}
		}
	}()
	defer pr.Close()

	lastPercent := -1.0
	var sendErr error
	onProgress := func(p objectstore.Progress) {
		pct := math.Floor(p.Percent())
		if sendErr != nil || (pct == lastPercent && p.BytesTransferred != p.TotalBytes) {
			return
		}
		lastPercent = pct
		sendErr = stream.Send(&api.UploadImageResponse{Progress: &api.UploadProgress{
			BytesTransferred: p.BytesTransferred,
			TotalBytes:       p.TotalBytes,
			Percent:          p.Percent(),
		}})
	}

	addr, err := f.UploadImage(ctx, form.File{
		Name:        first.FileName,
		Size:        first.Size,
		ContentType: first.ContentType,
		Body:        pr,
	}, onProgress)
	if err != nil {
		s.logger.Warn(ctx, "upload rejected", "file", first.FileName, "error", err)
		return toStatus(err)
	}

	return stream.Send(&api.UploadImageResponse{ImageURL: addr, Form: apiconv.FormState(f.Snapshot())})
}

func (s *GRPCServer) DeleteImage(ctx context.Context, req *api.DeleteImageRequest) (*api.FormState, error) {
	f, _, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	if err := f.DeleteImage(ctx, req.Address); err != nil {
		return nil, toStatus(err)
	}
	return apiconv.FormState(f.Snapshot()), nil
}

func (s *GRPCServer) SaveDetails(ctx context.Context, req *api.SaveDetailsRequest) (*api.SaveDetailsResponse, error) {
	f, _, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	item, err := f.SaveDetails(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	out := apiconv.Item(item)
	return &api.SaveDetailsResponse{Item: &out, Form: *apiconv.FormState(f.Snapshot())}, nil
}

func (s *GRPCServer) ListItems(ctx context.Context, req *api.ListItemsRequest) (*api.ListItemsResponse, error) {
	user, ok := userFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "no user")
	}

	list, err := s.catalog.ListItems(ctx, user, req.Refresh)
	if err != nil {
		s.logger.Error(ctx, "list items failed", "error", err)
		return nil, toStatus(err)
	}
	return &api.ListItemsResponse{Items: apiconv.Items(list)}, nil
}
