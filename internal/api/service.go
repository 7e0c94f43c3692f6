package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "framekeeper.v1.CatalogService"

const (
	CatalogService_Register_FullMethodName     = "/framekeeper.v1.CatalogService/Register"
	CatalogService_Login_FullMethodName        = "/framekeeper.v1.CatalogService/Login"
	CatalogService_Ping_FullMethodName         = "/framekeeper.v1.CatalogService/Ping"
	CatalogService_GetReference_FullMethodName = "/framekeeper.v1.CatalogService/GetReference"
	CatalogService_GetForm_FullMethodName      = "/framekeeper.v1.CatalogService/GetForm"
	CatalogService_UpdateForm_FullMethodName   = "/framekeeper.v1.CatalogService/UpdateForm"
	CatalogService_UploadImage_FullMethodName  = "/framekeeper.v1.CatalogService/UploadImage"
	CatalogService_DeleteImage_FullMethodName  = "/framekeeper.v1.CatalogService/DeleteImage"
	CatalogService_SaveDetails_FullMethodName  = "/framekeeper.v1.CatalogService/SaveDetails"
	CatalogService_ListItems_FullMethodName    = "/framekeeper.v1.CatalogService/ListItems"
)

// PublicMethods need no access token.
var PublicMethods = map[string]bool{
	CatalogService_Register_FullMethodName:     true,
	CatalogService_Login_FullMethodName:        true,
	CatalogService_Ping_FullMethodName:         true,
	CatalogService_GetReference_FullMethodName: true,
}

// CatalogServiceServer is the server API for CatalogService.
type CatalogServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	GetReference(context.Context, *GetReferenceRequest) (*GetReferenceResponse, error)
	GetForm(context.Context, *GetFormRequest) (*FormState, error)
	UpdateForm(context.Context, *UpdateFormRequest) (*FormState, error)
	UploadImage(CatalogService_UploadImageServer) error
	DeleteImage(context.Context, *DeleteImageRequest) (*FormState, error)
	SaveDetails(context.Context, *SaveDetailsRequest) (*SaveDetailsResponse, error)
	ListItems(context.Context, *ListItemsRequest) (*ListItemsResponse, error)
}

// UnimplementedCatalogServiceServer can be embedded to have forward
// compatible implementations.
type UnimplementedCatalogServiceServer struct{}

func (UnimplementedCatalogServiceServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedCatalogServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedCatalogServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedCatalogServiceServer) GetReference(context.Context, *GetReferenceRequest) (*GetReferenceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetReference not implemented")
}
func (UnimplementedCatalogServiceServer) GetForm(context.Context, *GetFormRequest) (*FormState, error) {
	return nil, status.Error(codes.Unimplemented, "method GetForm not implemented")
}
func (UnimplementedCatalogServiceServer) UpdateForm(context.Context, *UpdateFormRequest) (*FormState, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateForm not implemented")
}
func (UnimplementedCatalogServiceServer) UploadImage(CatalogService_UploadImageServer) error {
	return status.Error(codes.Unimplemented, "method UploadImage not implemented")
}
func (UnimplementedCatalogServiceServer) DeleteImage(context.Context, *DeleteImageRequest) (*FormState, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteImage not implemented")
}
func (UnimplementedCatalogServiceServer) SaveDetails(context.Context, *SaveDetailsRequest) (*SaveDetailsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SaveDetails not implemented")
}
func (UnimplementedCatalogServiceServer) ListItems(context.Context, *ListItemsRequest) (*ListItemsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListItems not implemented")
}

func RegisterCatalogServiceServer(s grpc.ServiceRegistrar, srv CatalogServiceServer) {
	s.RegisterService(&CatalogService_ServiceDesc, srv)
}

// unaryHandler adapts a typed unary method to a grpc.MethodDesc handler.
func unaryHandler[Req any, Resp any](fullMethod string, call func(CatalogServiceServer, context.Context, *Req) (*Resp, error)) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CatalogServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(CatalogServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

type CatalogService_UploadImageServer interface {
	Send(*UploadImageResponse) error
	Recv() (*UploadImageRequest, error)
	grpc.ServerStream
}

type catalogServiceUploadImageServer struct {
	grpc.ServerStream
}

func (x *catalogServiceUploadImageServer) Send(m *UploadImageResponse) error {
	return x.ServerStream.SendMsg(m)
}

func (x *catalogServiceUploadImageServer) Recv() (*UploadImageRequest, error) {
	m := new(UploadImageRequest)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func _CatalogService_UploadImage_Handler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(CatalogServiceServer).UploadImage(&catalogServiceUploadImageServer{ServerStream: stream})
}

// CatalogService_ServiceDesc is the grpc.ServiceDesc for CatalogService.
var CatalogService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CatalogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Register",
			Handler:    unaryHandler(CatalogService_Register_FullMethodName, CatalogServiceServer.Register),
		},
		{
			MethodName: "Login",
			Handler:    unaryHandler(CatalogService_Login_FullMethodName, CatalogServiceServer.Login),
		},
		{
			MethodName: "Ping",
			Handler:    unaryHandler(CatalogService_Ping_FullMethodName, CatalogServiceServer.Ping),
		},
		{
			MethodName: "GetReference",
			Handler:    unaryHandler(CatalogService_GetReference_FullMethodName, CatalogServiceServer.GetReference),
		},
		{
			MethodName: "GetForm",
			Handler:    unaryHandler(CatalogService_GetForm_FullMethodName, CatalogServiceServer.GetForm),
		},
		{
			MethodName: "UpdateForm",
			Handler:    unaryHandler(CatalogService_UpdateForm_FullMethodName, CatalogServiceServer.UpdateForm),
		},
		{
			MethodName: "DeleteImage",
			Handler:    unaryHandler(CatalogService_DeleteImage_FullMethodName, CatalogServiceServer.DeleteImage),
		},
		{
			MethodName: "SaveDetails",
			Handler:    unaryHandler(CatalogService_SaveDetails_FullMethodName, CatalogServiceServer.SaveDetails),
		},
		{
			MethodName: "ListItems",
			Handler:    unaryHandler(CatalogService_ListItems_FullMethodName, CatalogServiceServer.ListItems),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "UploadImage",
			Handler:       _CatalogService_UploadImage_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "framekeeper/v1/catalog",
}
