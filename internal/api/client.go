package api

import (
	"context"

	"google.golang.org/grpc"
)

// CatalogServiceClient is the client API for CatalogService. Every call is
// sent with the JSON content subtype.
type CatalogServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	GetReference(ctx context.Context, in *GetReferenceRequest, opts ...grpc.CallOption) (*GetReferenceResponse, error)
	GetForm(ctx context.Context, in *GetFormRequest, opts ...grpc.CallOption) (*FormState, error)
	UpdateForm(ctx context.Context, in *UpdateFormRequest, opts ...grpc.CallOption) (*FormState, error)
	UploadImage(ctx context.Context, opts ...grpc.CallOption) (CatalogService_UploadImageClient, error)
	DeleteImage(ctx context.Context, in *DeleteImageRequest, opts ...grpc.CallOption) (*FormState, error)
	SaveDetails(ctx context.Context, in *SaveDetailsRequest, opts ...grpc.CallOption) (*SaveDetailsResponse, error)
	ListItems(ctx context.Context, in *ListItemsRequest, opts ...grpc.CallOption) (*ListItemsResponse, error)
}

type catalogServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogServiceClient(cc grpc.ClientConnInterface) CatalogServiceClient {
	return &catalogServiceClient{cc}
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *catalogServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, CatalogService_Register_FullMethodName, in, opts)
}

func (c *catalogServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, CatalogService_Login_FullMethodName, in, opts)
}

func (c *catalogServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, CatalogService_Ping_FullMethodName, in, opts)
}

func (c *catalogServiceClient) GetReference(ctx context.Context, in *GetReferenceRequest, opts ...grpc.CallOption) (*GetReferenceResponse, error) {
	return invoke[GetReferenceResponse](ctx, c.cc, CatalogService_GetReference_FullMethodName, in, opts)
}

func (c *catalogServiceClient) GetForm(ctx context.Context, in *GetFormRequest, opts ...grpc.CallOption) (*FormState, error) {
	return invoke[FormState](ctx, c.cc, CatalogService_GetForm_FullMethodName, in, opts)
}

func (c *catalogServiceClient) UpdateForm(ctx context.Context, in *UpdateFormRequest, opts ...grpc.CallOption) (*FormState, error) {
	return invoke[FormState](ctx, c.cc, CatalogService_UpdateForm_FullMethodName, in, opts)
}

func (c *catalogServiceClient) DeleteImage(ctx context.Context, in *DeleteImageRequest, opts ...grpc.CallOption) (*FormState, error) {
	return invoke[FormState](ctx, c.cc, CatalogService_DeleteImage_FullMethodName, in, opts)
}

func (c *catalogServiceClient) SaveDetails(ctx context.Context, in *SaveDetailsRequest, opts ...grpc.CallOption) (*SaveDetailsResponse, error) {
	return invoke[SaveDetailsResponse](ctx, c.cc, CatalogService_SaveDetails_FullMethodName, in, opts)
}

func (c *catalogServiceClient) ListItems(ctx context.Context, in *ListItemsRequest, opts ...grpc.CallOption) (*ListItemsResponse, error) {
	return invoke[ListItemsResponse](ctx, c.cc, CatalogService_ListItems_FullMethodName, in, opts)
}

func (c *catalogServiceClient) UploadImage(ctx context.Context, opts ...grpc.CallOption) (CatalogService_UploadImageClient, error) {
	stream, err := c.cc.NewStream(ctx, &CatalogService_ServiceDesc.Streams[0], CatalogService_UploadImage_FullMethodName, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	return &catalogServiceUploadImageClient{ClientStream: stream}, nil
}

type CatalogService_UploadImageClient interface {
	Send(*UploadImageRequest) error
	Recv() (*UploadImageResponse, error)
	grpc.ClientStream
}

type catalogServiceUploadImageClient struct {
	grpc.ClientStream
}

func (x *catalogServiceUploadImageClient) Send(m *UploadImageRequest) error {
	return x.ClientStream.SendMsg(m)
}

func (x *catalogServiceUploadImageClient) Recv() (*UploadImageResponse, error) {
	m := new(UploadImageResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
