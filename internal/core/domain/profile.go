package domain

// Profile is the public representation of a user profile.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Age   int    `json:"age"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// ProfileRecord mirrors a row of the profiles table.
// Nullable columns are pointers, matching the schema.
type ProfileRecord struct {
	ID        int
	OwnerID   int
	Email     string
	Age       int
	FirstName *string
	LastName  *string
	Phone     *string
}

// CreateProfileRequest is the payload for creating a profile.
// Rules are enforced by the request validator, not by gin binding, so that
// failures surface as a structured validation error.
type CreateProfileRequest struct {
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age" validate:"gte=0"`
	Name  string `json:"name" validate:"required"`
}

// UpdateProfileRequest is the payload for updating the caller's profile.
type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"omitempty,e164"`
}
