package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/framekeeper/internal/common"
	"github.com/dmitrijs2005/framekeeper/internal/server/auth"
	"github.com/dmitrijs2005/framekeeper/internal/server/viewstate"
)

const (
	userKey         = "user"
	requestIDHeader = "X-Request-Id"
)

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		c.Next()

		s.logger.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"request_id", requestID,
			"duration", time.Since(start),
		)
	}
}

// bearerAuth resolves "Authorization: Bearer <jwt>" into the signed-in user.
func (s *Server) bearerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortWithError(c, http.StatusUnauthorized, "missing token")
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, common.ErrTokenExpired) {
				msg = "token expired"
			}
			abortWithError(c, http.StatusUnauthorized, msg)
			return
		}

		c.Set(userKey, viewstate.User{ID: claims.Subject, Name: claims.UserName})
		c.Next()
	}
}

func currentUser(c *gin.Context) viewstate.User {
	u, _ := c.MustGet(userKey).(viewstate.User)
	return u
}

func abortWithError(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}
