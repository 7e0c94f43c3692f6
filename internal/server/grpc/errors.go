package grpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/framekeeper/internal/catalog"
	"github.com/dmitrijs2005/framekeeper/internal/common"
	"github.com/dmitrijs2005/framekeeper/internal/server/form"
	"github.com/dmitrijs2005/framekeeper/internal/server/objectstore"
)

// toStatus maps domain errors to gRPC status codes. Unknown errors become
// Internal without leaking their text.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var code codes.Code
	switch {
	case errors.Is(err, objectstore.ErrTooLarge):
		code = codes.ResourceExhausted
	case errors.Is(err, form.ErrValidation),
		errors.Is(err, form.ErrNoFile),
		errors.Is(err, common.ErrorValidation),
		errors.Is(err, catalog.ErrUnknownCategory),
		errors.Is(err, catalog.ErrUnknownColor):
		code = codes.InvalidArgument
	case errors.Is(err, form.ErrBusy), errors.Is(err, form.ErrImageAttached):
		code = codes.FailedPrecondition
	case errors.Is(err, form.ErrNoUser), errors.Is(err, common.ErrorUnauthorized):
		code = codes.Unauthenticated
	case errors.Is(err, form.ErrClosed):
		code = codes.Aborted
	case errors.Is(err, common.ErrorAlreadyExists):
		code = codes.AlreadyExists
	case errors.Is(err, common.ErrorNotFound):
		code = codes.NotFound
	case errors.Is(err, form.ErrUpload), errors.Is(err, form.ErrDelete), errors.Is(err, form.ErrSave):
		code = codes.Unavailable
	default:
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}
