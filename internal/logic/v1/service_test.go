package v1

import (
	"context"
	"fmt"
	"testing"

	"github.com/duynhne/profile-service/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory domain.ProfileRepository for service tests.
type fakeRepo struct {
	records []*domain.ProfileRecord
	nextID  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1}
}

func (f *fakeRepo) GetByID(_ context.Context, id int) (*domain.ProfileRecord, error) {
	for _, rec := range f.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("profile %d: %w", id, domain.ErrProfileNotFound)
}

func (f *fakeRepo) GetByOwner(_ context.Context, ownerID int) (*domain.ProfileRecord, error) {
	for _, rec := range f.records {
		if rec.OwnerID == ownerID {
			return rec, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) Create(_ context.Context, ownerID int, email string, age int, firstName, lastName string) (int, error) {
	id := f.nextID
	f.nextID++
	f.records = append(f.records, &domain.ProfileRecord{
		ID:        id,
		OwnerID:   ownerID,
		Email:     email,
		Age:       age,
		FirstName: &firstName,
		LastName:  &lastName,
	})
	return id, nil
}

func (f *fakeRepo) Update(_ context.Context, ownerID int, firstName, lastName, phone string) (bool, error) {
	for _, rec := range f.records {
		if rec.OwnerID == ownerID {
			rec.FirstName = &firstName
			rec.LastName = &lastName
			rec.Phone = &phone
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ExistsForOwner(_ context.Context, ownerID int) (bool, error) {
	for _, rec := range f.records {
		if rec.OwnerID == ownerID {
			return true, nil
		}
	}
	return false, nil
}

func TestProfileService_GetProfile(t *testing.T) {
	repo := newFakeRepo()
	_, err := repo.Create(context.Background(), 7, "jane@example.com", 34, "Jane", "Doe")
	require.NoError(t, err)

	svc := NewProfileService(repo)

	profile, err := svc.GetProfile(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "1", profile.ID)
	assert.Equal(t, "jane@example.com", profile.Email)
	assert.Equal(t, 34, profile.Age)
	assert.Equal(t, "Jane Doe", profile.Name)
}

func TestProfileService_GetProfile_NotFound(t *testing.T) {
	svc := NewProfileService(newFakeRepo())

	_, err := svc.GetProfile(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestProfileService_GetOwnProfile_FallsBackToAuthData(t *testing.T) {
	svc := NewProfileService(newFakeRepo())

	profile, err := svc.GetOwnProfile(context.Background(), 7, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "7", profile.ID)
	assert.Equal(t, "jane@example.com", profile.Email)
	assert.Empty(t, profile.Name)
}

func TestProfileService_CreateProfile(t *testing.T) {
	svc := NewProfileService(newFakeRepo())

	profile, err := svc.CreateProfile(context.Background(), 7, domain.CreateProfileRequest{
		Email: "jane@example.com",
		Age:   34,
		Name:  "Jane van der Berg",
	})
	require.NoError(t, err)
	assert.Equal(t, "1", profile.ID)
	assert.Equal(t, "Jane van der Berg", profile.Name)
}

func TestProfileService_CreateProfile_Duplicate(t *testing.T) {
	repo := newFakeRepo()
	svc := NewProfileService(repo)

	_, err := svc.CreateProfile(context.Background(), 7, domain.CreateProfileRequest{
		Email: "jane@example.com",
		Age:   34,
		Name:  "Jane Doe",
	})
	require.NoError(t, err)

	_, err = svc.CreateProfile(context.Background(), 7, domain.CreateProfileRequest{
		Email: "jane@example.com",
		Age:   34,
		Name:  "Jane Doe",
	})
	assert.ErrorIs(t, err, domain.ErrProfileExists)
}

func TestProfileService_CreateProfile_RejectsInvalidOwner(t *testing.T) {
	svc := NewProfileService(newFakeRepo())

	_, err := svc.CreateProfile(context.Background(), 0, domain.CreateProfileRequest{
		Email: "jane@example.com",
		Age:   34,
		Name:  "Jane Doe",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestProfileService_UpdateOwnProfile_RejectsInvalidOwner(t *testing.T) {
	svc := NewProfileService(newFakeRepo())

	_, err := svc.UpdateOwnProfile(context.Background(), -1, domain.UpdateProfileRequest{
		Name: "Jane Smith",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestProfileService_UpdateOwnProfile(t *testing.T) {
	repo := newFakeRepo()
	svc := NewProfileService(repo)

	_, err := svc.CreateProfile(context.Background(), 7, domain.CreateProfileRequest{
		Email: "jane@example.com",
		Age:   34,
		Name:  "Jane Doe",
	})
	require.NoError(t, err)

	profile, err := svc.UpdateOwnProfile(context.Background(), 7, domain.UpdateProfileRequest{
		Name:  "Jane Smith",
		Phone: "+14155550101",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", profile.Name)
	assert.Equal(t, "+14155550101", profile.Phone)
}

func TestProfileService_UpdateOwnProfile_NotFound(t *testing.T) {
	svc := NewProfileService(newFakeRepo())

	_, err := svc.UpdateOwnProfile(context.Background(), 7, domain.UpdateProfileRequest{
		Name: "Jane Smith",
	})
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}
