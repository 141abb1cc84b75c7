package v1

import (
	"testing"

	"github.com/duynhne/profile-service/internal/core/domain"
	"github.com/duynhne/profile-service/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestValidator_ValidPayload(t *testing.T) {
	v, err := NewRequestValidator()
	require.NoError(t, err)

	err = v.ValidateStruct("CreateProfileRequest", domain.CreateProfileRequest{
		Email: "jane@example.com",
		Age:   34,
		Name:  "Jane Doe",
	})
	assert.NoError(t, err)
}

func TestRequestValidator_ReportsFailuresInFieldOrder(t *testing.T) {
	v, err := NewRequestValidator()
	require.NoError(t, err)

	err = v.ValidateStruct("CreateProfileRequest", domain.CreateProfileRequest{
		Email: "not-an-email",
		Age:   -1,
		Name:  "",
	})
	require.Error(t, err)

	var verr *middleware.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "CreateProfileRequest", verr.Result.Target)

	props := make([]string, 0, len(verr.Result.Failures))
	for _, f := range verr.Result.Failures {
		props = append(props, f.Property)
		assert.NotEmpty(t, f.Message)
	}
	// Property names come from json tags, in struct field order.
	assert.Equal(t, []string{"email", "age", "name"}, props)
}

func TestRequestValidator_TranslatesMessages(t *testing.T) {
	v, err := NewRequestValidator()
	require.NoError(t, err)

	err = v.ValidateStruct("UpdateProfileRequest", domain.UpdateProfileRequest{
		Name: "",
	})
	require.Error(t, err)

	var verr *middleware.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Result.Failures, 1)
	assert.Equal(t, "name", verr.Result.Failures[0].Property)
	assert.Equal(t, "name is a required field", verr.Result.Failures[0].Message)
}

func TestRequestValidator_PhoneFormat(t *testing.T) {
	v, err := NewRequestValidator()
	require.NoError(t, err)

	err = v.ValidateStruct("UpdateProfileRequest", domain.UpdateProfileRequest{
		Name:  "Jane Doe",
		Phone: "not-a-phone",
	})
	require.Error(t, err)

	var verr *middleware.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Result.Failures, 1)
	assert.Equal(t, "phone", verr.Result.Failures[0].Property)
}

func TestRequestValidator_NonStructPayload(t *testing.T) {
	v, err := NewRequestValidator()
	require.NoError(t, err)

	err = v.ValidateStruct("number", 42)
	require.Error(t, err)

	var verr *middleware.ValidationError
	assert.NotErrorAs(t, err, &verr, "non-struct input must not become a validation failure signal")
}
