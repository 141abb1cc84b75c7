package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/duynhne/profile-service/internal/core/domain"
	logicv1 "github.com/duynhne/profile-service/internal/logic/v1"
	"github.com/duynhne/profile-service/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ProfileHandler handles HTTP requests for profile operations
type ProfileHandler struct {
	service   *logicv1.ProfileService
	validator *RequestValidator
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service *logicv1.ProfileService, validator *RequestValidator) *ProfileHandler {
	return &ProfileHandler{
		service:   service,
		validator: validator,
	}
}

// GetProfile handles GET /api/v1/profiles/:id
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id"})
		return
	}
	span.SetAttributes(attribute.Int("profile.id", id))

	profile, err := h.service.GetProfile(ctx, id)
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to get profile", zap.Error(err))

		switch {
		case errors.Is(err, domain.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	logger.Info("Profile retrieved", zap.Int("profile_id", id))
	c.JSON(http.StatusOK, profile)
}

// GetMyProfile handles GET /api/v1/profiles/me
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	// Identity comes from the auth middleware (required - no fallback)
	ownerID, ok := callerID(c)
	if !ok {
		logger.Warn("GetMyProfile: no user_id in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	profile, err := h.service.GetOwnProfile(ctx, ownerID, c.GetString("email"))
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to get own profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	logger.Info("Own profile retrieved")
	c.JSON(http.StatusOK, profile)
}

// CreateProfile handles POST /api/v1/profiles
//
// Rule failures are not answered here: the request validator raises a
// validation error on the context and the validation error handler translates
// it for JSON clients.
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	ownerID, ok := callerID(c)
	if !ok {
		logger.Warn("CreateProfile: no user_id in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req domain.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		logger.Error("Malformed request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.ValidateStruct("CreateProfileRequest", req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		c.Error(err)
		return
	}

	span.SetAttributes(attribute.Bool("request.valid", true))

	profile, err := h.service.CreateProfile(ctx, ownerID, req)
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to create profile", zap.Error(err))

		switch {
		case errors.Is(err, domain.ErrProfileExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Profile already exists"})
		case errors.Is(err, domain.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	logger.Info("Profile created", zap.String("profile_id", profile.ID))
	c.JSON(http.StatusCreated, profile)
}

// UpdateMyProfile handles PUT /api/v1/profiles/me
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	ownerID, ok := callerID(c)
	if !ok {
		logger.Warn("UpdateMyProfile: no user_id in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		logger.Error("Malformed request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.ValidateStruct("UpdateProfileRequest", req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		c.Error(err)
		return
	}

	span.SetAttributes(attribute.Bool("request.valid", true))

	profile, err := h.service.UpdateOwnProfile(ctx, ownerID, req)
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to update profile", zap.Error(err))

		switch {
		case errors.Is(err, domain.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		case errors.Is(err, domain.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	logger.Info("Profile updated", zap.Int("owner_id", ownerID))
	c.JSON(http.StatusOK, profile)
}

// callerID returns the authenticated caller's numeric user id from the gin
// context, as set by the auth middleware.
func callerID(c *gin.Context) (int, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		return 0, false
	}
	id, err := strconv.Atoi(userID)
	if err != nil {
		return 0, false
	}
	return id, true
}
