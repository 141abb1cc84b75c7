package v1

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/duynhne/profile-service/internal/core/domain"
	"github.com/duynhne/profile-service/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ProfileService implements the business logic for profile management
type ProfileService struct {
	repo domain.ProfileRepository
}

// NewProfileService creates a new profile service
func NewProfileService(repo domain.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// GetProfile retrieves a profile by its ID
func (s *ProfileService) GetProfile(ctx context.Context, id int) (*domain.Profile, error) {
	ctx, span := middleware.StartSpan(ctx, "profile.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("profile.id", id),
	))
	defer span.End()

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		span.SetAttributes(attribute.Bool("profile.found", false))
		return nil, fmt.Errorf("get profile %d: %w", id, err)
	}

	span.SetAttributes(attribute.Bool("profile.found", true))
	return toProfile(rec), nil
}

// GetOwnProfile retrieves the caller's profile.
// authEmail comes from the auth middleware (token introspection) and is used
// when the caller has no profile row yet (e.g., a freshly registered user).
func (s *ProfileService) GetOwnProfile(ctx context.Context, ownerID int, authEmail string) (*domain.Profile, error) {
	ctx, span := middleware.StartSpan(ctx, "profile.get_own", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("owner.id", ownerID),
	))
	defer span.End()

	rec, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get own profile: %w", err)
	}

	if rec == nil {
		span.SetAttributes(attribute.Bool("profile.found", false))
		return &domain.Profile{
			ID:    strconv.Itoa(ownerID),
			Email: authEmail,
		}, nil
	}

	span.SetAttributes(attribute.Bool("profile.found", true))
	return toProfile(rec), nil
}

// CreateProfile creates a profile for the caller
func (s *ProfileService) CreateProfile(ctx context.Context, ownerID int, req domain.CreateProfileRequest) (*domain.Profile, error) {
	ctx, span := middleware.StartSpan(ctx, "profile.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("owner.id", ownerID),
	))
	defer span.End()

	if ownerID <= 0 {
		span.SetAttributes(attribute.Bool("profile.created", false))
		return nil, fmt.Errorf("create profile for owner %d: %w", ownerID, domain.ErrUnauthorized)
	}

	exists, err := s.repo.ExistsForOwner(ctx, ownerID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("check existing profile: %w", err)
	}
	if exists {
		span.SetAttributes(attribute.Bool("profile.created", false))
		return nil, fmt.Errorf("create profile for owner %d: %w", ownerID, domain.ErrProfileExists)
	}

	firstName, lastName := splitName(req.Name)

	id, err := s.repo.Create(ctx, ownerID, req.Email, req.Age, firstName, lastName)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create profile: %w", err)
	}

	span.SetAttributes(
		attribute.Int("profile.id", id),
		attribute.Bool("profile.created", true),
	)
	span.AddEvent("profile.created")

	return &domain.Profile{
		ID:    strconv.Itoa(id),
		Email: req.Email,
		Age:   req.Age,
		Name:  req.Name,
	}, nil
}

// UpdateOwnProfile updates the caller's profile
func (s *ProfileService) UpdateOwnProfile(ctx context.Context, ownerID int, req domain.UpdateProfileRequest) (*domain.Profile, error) {
	ctx, span := middleware.StartSpan(ctx, "profile.update_own", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("owner.id", ownerID),
	))
	defer span.End()

	if ownerID <= 0 {
		span.SetAttributes(attribute.Bool("profile.updated", false))
		return nil, fmt.Errorf("update profile for owner %d: %w", ownerID, domain.ErrUnauthorized)
	}

	firstName, lastName := splitName(req.Name)

	updated, err := s.repo.Update(ctx, ownerID, firstName, lastName, req.Phone)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if !updated {
		span.SetAttributes(attribute.Bool("profile.updated", false))
		return nil, fmt.Errorf("update profile for owner %d: %w", ownerID, domain.ErrProfileNotFound)
	}

	rec, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("reload profile: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("reload profile for owner %d: %w", ownerID, domain.ErrProfileNotFound)
	}

	span.SetAttributes(attribute.Bool("profile.updated", true))
	return toProfile(rec), nil
}

// toProfile maps a database record to the public representation
func toProfile(rec *domain.ProfileRecord) *domain.Profile {
	nameParts := make([]string, 0, 2)
	if rec.FirstName != nil && *rec.FirstName != "" {
		nameParts = append(nameParts, *rec.FirstName)
	}
	if rec.LastName != nil && *rec.LastName != "" {
		nameParts = append(nameParts, *rec.LastName)
	}

	phone := ""
	if rec.Phone != nil {
		phone = *rec.Phone
	}

	return &domain.Profile{
		ID:    strconv.Itoa(rec.ID),
		Email: rec.Email,
		Age:   rec.Age,
		Name:  strings.Join(nameParts, " "),
		Phone: phone,
	}
}

// splitName splits a display name into first and last name (simple split)
func splitName(name string) (firstName, lastName string) {
	parts := strings.Fields(name)
	if len(parts) > 0 {
		firstName = parts[0]
	}
	if len(parts) > 1 {
		lastName = strings.Join(parts[1:], " ")
	}
	return firstName, lastName
}
