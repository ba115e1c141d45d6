package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"fitcal/workout-tracker/internal/service"
	"fitcal/workout-tracker/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constants for context keys
const (
	ContextUserIDKey    = "userID"
	ContextRequestIDKey = "requestID"
)

const requestIDHeader = "X-Request-ID"

// TokenParser resolves a bearer token to the user it was issued to.
type TokenParser interface {
	ParseToken(token string) (primitive.ObjectID, error)
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "Authorization header must be Bearer {token}")
			return
		}

		userID, err := tokens.ParseToken(tokenString)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}

		// --- Token is valid ---
		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// bearerToken reads the token from the Authorization header. EventSource
// clients cannot set headers, so the access_token query parameter is accepted too.
func bearerToken(c *gin.Context) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
	if token := c.Query("access_token"); token != "" {
		return token, true
	}
	return "", false
}

// RequestLogger tags every request with an id and logs it once it is served.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, requestID)
		c.Header(requestIDHeader, requestID)

		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		})
		if userID, err := getUserIDFromContext(c); err == nil {
			entry = entry.WithField("user_id", userID.Hex())
		}
		if len(c.Errors) > 0 {
			entry.Error(c.Errors.String())
			return
		}
		entry.Debug("request served")
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// abortWithServiceError maps service errors to HTTP status codes.
func abortWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated), errors.Is(err, service.ErrInvalidToken):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrUserAlreadyExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrWorkoutTypeNotFound),
		errors.Is(err, service.ErrSectionNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrExportNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrStorageDisabled):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (primitive.ObjectID, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return primitive.NilObjectID, errors.New("user ID not found in context")
	}
	id, ok := idRaw.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("invalid user ID type in context")
	}
	return id, nil
}

// mustUserID writes a 401 and returns false when the request carries no user.
func mustUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return primitive.NilObjectID, false
	}
	return userID, true
}

// pathObjectID parses the named path parameter as an ObjectID, writing a 400 on failure.
func pathObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" format.")
		return primitive.NilObjectID, false
	}
	return id, true
}
