package domain

import "context"

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	GetByID(ctx context.Context, id int) (*ProfileRecord, error)
	GetByOwner(ctx context.Context, ownerID int) (*ProfileRecord, error)
	Create(ctx context.Context, ownerID int, email string, age int, firstName, lastName string) (int, error)
	Update(ctx context.Context, ownerID int, firstName, lastName, phone string) (bool, error)
	ExistsForOwner(ctx context.Context, ownerID int) (bool, error)
}
