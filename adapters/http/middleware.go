package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/auth"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

const (
	GinContextKeyOwnerID = "ownerID"
)

// AuthMiddleware puts the token's owner id on the context. Rejections go
// through c.Error so ErrorMiddleware renders them like any other 401.
func AuthMiddleware(jwtSvc *auth.JWTService, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Error(apperror.NewUnauthorized("authorization header is required", nil))
			c.Abort()
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			c.Error(apperror.NewUnauthorized("expected a bearer token", nil))
			c.Abort()
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		c.Set(GinContextKeyOwnerID, claims.OwnerID)
		log.Debug("Authenticated request", zap.String("owner_id", claims.OwnerID.String()))

		c.Next()
	}
}

// ErrorMiddleware renders the last error a handler attached with c.Error.
// Server side failures are logged; their details never reach the client.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		status := apperror.ToHTTPStatus(err)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
		}

		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			log.Error("Unhandled error", err, fields...)
			c.JSON(http.StatusInternalServerError, gin.H{"error": apperror.ErrInternal.Error()})
			return
		}

		body := appErr.ToJSON()
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err, fields...)
		} else {
			log.Debug("Request rejected", append(fields, zap.String("details", appErr.Details))...)
			if appErr.Details != "" && exposesDetails(err) {
				body["details"] = appErr.Details
			}
		}
		c.JSON(status, body)
	}
}

// exposesDetails limits client-visible details to validation failures, so
// login errors never reveal which credential was wrong.
func exposesDetails(err error) bool {
	return errors.Is(err, apperror.ErrInvalidInput) || errors.Is(err, apperror.ErrInvalidConfig)
}

func GetOwnerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	ownerID, ok := ctx.Value(GinContextKeyOwnerID).(uuid.UUID)
	return ownerID, ok
}

func GetOwnerIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	ownerID, ok := c.Get(GinContextKeyOwnerID)
	if !ok {
		return uuid.Nil, false
	}
	ownerIDUUID, ok := ownerID.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}
	return ownerIDUUID, true
}

// requireOwner reads the authenticated owner, attaching an error when the
// route was mounted without AuthMiddleware.
func requireOwner(c *gin.Context) (uuid.UUID, bool) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
	}
	return ownerID, ok
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid "+name+" parameter", err))
		return uuid.Nil, false
	}
	return id, true
}
