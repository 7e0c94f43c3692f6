package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/framekeeper/internal/api"
)

// Upload describes a local file to send to the item form.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Client interface {
	Close() error
	Register(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) error
	Logout()
	LoggedIn() bool
	Ping(ctx context.Context) error
	Reference(ctx context.Context) (*api.GetReferenceResponse, error)
	GetForm(ctx context.Context) (*api.FormState, error)
	UpdateForm(ctx context.Context, req *api.UpdateFormRequest) (*api.FormState, error)
	UploadImage(ctx context.Context, u Upload, onProgress func(api.UploadProgress)) (*api.UploadImageResponse, error)
	DeleteImage(ctx context.Context, address string) (*api.FormState, error)
	SaveDetails(ctx context.Context) (*api.SaveDetailsResponse, error)
	ListItems(ctx context.Context, refresh bool) ([]api.Item, error)
}
