package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/framekeeper/internal/catalog"
	"github.com/dmitrijs2005/framekeeper/internal/common"
	"github.com/dmitrijs2005/framekeeper/internal/server/form"
	"github.com/dmitrijs2005/framekeeper/internal/server/objectstore"
)

// httpStatus maps domain errors to HTTP status codes. The bool is false for
// errors whose text must not reach the client.
func httpStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, objectstore.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, true
	case errors.Is(err, form.ErrValidation),
		errors.Is(err, form.ErrNoFile),
		errors.Is(err, common.ErrorValidation),
		errors.Is(err, catalog.ErrUnknownCategory),
		errors.Is(err, catalog.ErrUnknownColor):
		return http.StatusBadRequest, true
	case errors.Is(err, form.ErrBusy), errors.Is(err, form.ErrImageAttached):
		return http.StatusConflict, true
	case errors.Is(err, form.ErrNoUser), errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, true
	case errors.Is(err, form.ErrClosed):
		return http.StatusGone, true
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, true
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, form.ErrUpload), errors.Is(err, form.ErrDelete), errors.Is(err, form.ErrSave):
		return http.StatusBadGateway, true
	}
	return http.StatusInternalServerError, false
}

func (s *Server) fail(c *gin.Context, err error) {
	code, public := httpStatus(err)
	msg := "internal error"
	if public {
		msg = err.Error()
	} else {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	abortWithError(c, code, msg)
}
