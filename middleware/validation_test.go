package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// errorSpy records every error still on the context after the inner chain ran.
func errorSpy(seen *[]error) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		for _, ginErr := range c.Errors {
			*seen = append(*seen, ginErr.Err)
		}
	}
}

func newTranslatorRouter(seen *[]error, handler gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	if seen != nil {
		r.Use(errorSpy(seen))
	}
	r.Use(ValidationErrorHandler(zap.NewNop()))
	r.GET("/test", handler)
	return r
}

func doRequest(r *gin.Engine, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidationErrorHandler_WritesTranslatedResponse(t *testing.T) {
	r := newTranslatorRouter(nil, func(c *gin.Context) {
		c.Error(NewValidationError("UserDto",
			ValidationFailure{Property: "email", Message: "must not be blank"},
			ValidationFailure{Property: "age", Message: "must be >= 0"},
		))
	})

	w := doRequest(r, "application/json")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Equal(t,
		`{"reason":"Validation failure.","validationFailures":[{"property":"email","message":"must not be blank"},{"property":"age","message":"must be >= 0"}]}`,
		w.Body.String(),
	)
	assert.Equal(t, "no-cache,no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", w.Header().Get("Pragma"))
	assert.Equal(t, "-1", w.Header().Get("Expires"))
	assert.Empty(t, w.Header().Values("ETag"))
}

func TestValidationErrorHandler_PreservesOrderAndDuplicates(t *testing.T) {
	r := newTranslatorRouter(nil, func(c *gin.Context) {
		c.Error(NewValidationError("SignupForm",
			ValidationFailure{Property: "password", Message: "too short"},
			ValidationFailure{Property: "password", Message: "needs a digit"},
			ValidationFailure{Property: "email", Message: "invalid"},
		))
	})

	first := doRequest(r, "application/json")
	second := doRequest(r, "application/json")

	require.Equal(t, http.StatusUnprocessableEntity, first.Code)
	assert.Equal(t,
		`{"reason":"Validation failure.","validationFailures":[{"property":"password","message":"too short"},{"property":"password","message":"needs a digit"},{"property":"email","message":"invalid"}]}`,
		first.Body.String(),
	)
	// Independent requests project to byte-identical bodies.
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
}

func TestValidationErrorHandler_SkipsWhenAcceptMissing(t *testing.T) {
	verr := NewValidationError("UserDto",
		ValidationFailure{Property: "email", Message: "must not be blank"},
	)
	var seen []error
	r := newTranslatorRouter(&seen, func(c *gin.Context) {
		c.Error(verr)
	})

	w := doRequest(r, "")

	assert.Zero(t, w.Body.Len(), "translator must not write a body")
	require.Len(t, seen, 1)
	assert.Same(t, verr, seen[0], "signal must be re-raised unchanged")
}

func TestValidationErrorHandler_SkipsWhenClientWantsHTML(t *testing.T) {
	var seen []error
	r := newTranslatorRouter(&seen, func(c *gin.Context) {
		c.Error(NewValidationError("UserDto",
			ValidationFailure{Property: "email", Message: "must not be blank"},
		))
	})

	w := doRequest(r, "text/html")

	assert.Zero(t, w.Body.Len())
	assert.Len(t, seen, 1)
}

func TestValidationErrorHandler_TranslatesWhenJSONListedAmongOthers(t *testing.T) {
	r := newTranslatorRouter(nil, func(c *gin.Context) {
		c.Error(NewValidationError("UserDto",
			ValidationFailure{Property: "email", Message: "must not be blank"},
		))
	})

	w := doRequest(r, "text/html, application/json;q=0.9")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestValidationErrorHandler_KeepsComparisonCharactersLiteral(t *testing.T) {
	r := newTranslatorRouter(nil, func(c *gin.Context) {
		c.Error(NewValidationError("UserDto",
			ValidationFailure{Property: "age", Message: "must be >= 0"},
			ValidationFailure{Property: "name", Message: "must match <pattern> & rules"},
		))
	})

	w := doRequest(r, "application/json")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	// No </>/& escaping: the message bytes arrive untouched.
	assert.Equal(t,
		`{"reason":"Validation failure.","validationFailures":[{"property":"age","message":"must be >= 0"},{"property":"name","message":"must match <pattern> & rules"}]}`,
		w.Body.String(),
	)
	assert.Equal(t, "no-cache,no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", w.Header().Get("Pragma"))
	assert.Equal(t, "-1", w.Header().Get("Expires"))
}

func TestValidationErrorHandler_NoOpWhenResponseStarted(t *testing.T) {
	r := newTranslatorRouter(nil, func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		c.Error(NewValidationError("UserDto",
			ValidationFailure{Property: "email", Message: "must not be blank"},
		))
	})

	w := doRequest(r, "application/json")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "partial", w.Body.String())
	assert.Empty(t, w.Header().Get("Cache-Control"))
}

func TestValidationErrorHandler_OverridesBufferedHeadersAndStatus(t *testing.T) {
	r := newTranslatorRouter(nil, func(c *gin.Context) {
		// A handler may have staged a response before validation failed.
		c.Header("ETag", `"v1"`)
		c.Header("Cache-Control", "max-age=86400")
		c.Header("X-Partial", "yes")
		c.Status(http.StatusInternalServerError)
		c.Error(NewValidationError("UserDto",
			ValidationFailure{Property: "email", Message: "must not be blank"},
		))
	})

	w := doRequest(r, "application/json")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "no-cache,no-store", w.Header().Get("Cache-Control"))
	assert.Empty(t, w.Header().Values("ETag"))
	assert.Empty(t, w.Header().Values("X-Partial"))
}

func TestValidationErrorHandler_IgnoresOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	var seen []error
	r := newTranslatorRouter(&seen, func(c *gin.Context) {
		c.Error(boom)
	})

	w := doRequest(r, "application/json")

	assert.Zero(t, w.Body.Len())
	require.Len(t, seen, 1)
	assert.Same(t, boom, seen[0])
}

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError("UserDto",
		ValidationFailure{Property: "email", Message: "must not be blank"},
		ValidationFailure{Property: "age", Message: "must be >= 0"},
	)
	assert.Equal(t, "validation failed for UserDto: 2 failure(s)", err.Error())
}
