package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/framekeeper/internal/api"
	"github.com/dmitrijs2005/framekeeper/internal/server/apiconv"
	"github.com/dmitrijs2005/framekeeper/internal/server/form"
	"github.com/dmitrijs2005/framekeeper/internal/server/objectstore"
)

func (s *Server) register(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, api.RegisterResponse{UserID: user.ID})
}

func (s *Server) login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.LoginResponse{AccessToken: res.AccessToken, UserID: res.User.ID})
}

func (s *Server) logout(c *gin.Context) {
	s.catalog.EndSession(currentUser(c).ID)
	c.Status(http.StatusNoContent)
}

func (s *Server) reference(c *gin.Context) {
	c.JSON(http.StatusOK, api.GetReferenceResponse{ReferenceData: s.catalog.Reference()})
}

func (s *Server) session(c *gin.Context) *form.Form {
	return s.catalog.Session(c.Request.Context(), currentUser(c))
}

func (s *Server) getForm(c *gin.Context) {
	c.JSON(http.StatusOK, apiconv.FormState(s.session(c).Snapshot()))
}

func (s *Server) updateForm(c *gin.Context) {
	var req api.UpdateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	f := s.session(c)
	if req.Title != nil {
		if err := f.SetTitle(*req.Title); err != nil {
			s.fail(c, err)
			return
		}
	}
	if req.Category != nil {
		if err := f.SetCategory(*req.Category); err != nil {
			s.fail(c, err)
			return
		}
	}
	if req.Color != nil {
		if err := f.SetColor(*req.Color); err != nil {
			s.fail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, apiconv.FormState(f.Snapshot()))
}

// uploadImage takes the multipart field "image". A request without the field
// reaches the form as a missing file. The body is capped before multipart
// parsing so oversized uploads are never spooled to disk.
func (s *Server) uploadImage(c *gin.Context) {
	f := s.session(c)

	if s.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload+multipartOverhead)
	}

	file := form.File{}
	fh, err := c.FormFile("image")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.fail(c, objectstore.ErrTooLarge)
		return
	}
	if err == nil {
		body, err := fh.Open()
		if err != nil {
			s.fail(c, err)
			return
		}
		defer body.Close()

		file = form.File{
			Name:        fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        body,
		}
	}

	addr, err := f.UploadImage(c.Request.Context(), file, nil)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, api.UploadImageResponse{ImageURL: addr, Form: apiconv.FormState(f.Snapshot())})
}

// deleteImage removes ?address=..., or the attached image when absent.
func (s *Server) deleteImage(c *gin.Context) {
	f := s.session(c)
	if err := f.DeleteImage(c.Request.Context(), c.Query("address")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, apiconv.FormState(f.Snapshot()))
}

func (s *Server) saveDetails(c *gin.Context) {
	f := s.session(c)
	item, err := f.SaveDetails(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	out := apiconv.Item(item)
	c.JSON(http.StatusCreated, api.SaveDetailsResponse{Item: &out, Form: *apiconv.FormState(f.Snapshot())})
}

func (s *Server) listItems(c *gin.Context) {
	refresh, _ := strconv.ParseBool(c.Query("refresh"))
	list, err := s.catalog.ListItems(c.Request.Context(), currentUser(c), refresh)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.ListItemsResponse{Items: apiconv.Items(list)})
}
