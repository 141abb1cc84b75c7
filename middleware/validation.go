package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// reasonValidationFailure is the fixed reason string in translated responses.
const reasonValidationFailure = "Validation failure."

// ValidationFailure is a single field-level validation failure.
// Property names are not unique: a field may fail more than one rule.
type ValidationFailure struct {
	Property string `json:"property"`
	Message  string `json:"message"`
}

// ValidationResult is the outcome reported by a validation collaborator.
// Failures keep the order in which the collaborator reported them.
type ValidationResult struct {
	Target   string              // name of the object that failed validation, diagnostics only
	Failures []ValidationFailure // ordered, duplicate properties permitted
}

// ValidationError signals that request validation failed somewhere downstream.
// It travels through gin's per-request error channel (c.Error) and is picked up
// by ValidationErrorHandler.
type ValidationError struct {
	Result ValidationResult
}

// NewValidationError builds a ValidationError for the given target.
func NewValidationError(target string, failures ...ValidationFailure) *ValidationError {
	return &ValidationError{Result: ValidationResult{Target: target, Failures: failures}}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %d failure(s)", e.Result.Target, len(e.Result.Failures))
}

// validationErrorResponse is the JSON body written for translated failures.
type validationErrorResponse struct {
	Reason             string              `json:"reason"`
	ValidationFailures []ValidationFailure `json:"validationFailures"`
}

// preSendWriter wraps gin.ResponseWriter with a list of hooks that run exactly
// once, immediately before the first byte of the response is flushed. Hooks run
// in registration order and must not block.
type preSendWriter struct {
	gin.ResponseWriter
	hooks []func(http.Header)
	fired bool
}

// OnBeforeSend registers a hook. No-op if the response already started.
func (w *preSendWriter) OnBeforeSend(hook func(http.Header)) {
	if w.fired {
		return
	}
	w.hooks = append(w.hooks, hook)
}

func (w *preSendWriter) beforeSend() {
	if w.fired {
		return
	}
	w.fired = true
	for _, hook := range w.hooks {
		hook(w.Header())
	}
}

func (w *preSendWriter) Write(b []byte) (int, error) {
	w.beforeSend()
	return w.ResponseWriter.Write(b)
}

func (w *preSendWriter) WriteString(s string) (int, error) {
	w.beforeSend()
	return w.ResponseWriter.WriteString(s)
}

func (w *preSendWriter) WriteHeaderNow() {
	w.beforeSend()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *preSendWriter) Flush() {
	w.beforeSend()
	w.ResponseWriter.Flush()
}

// ValidationErrorHandler translates a ValidationError raised by any later stage
// into a 422 application/json response with cache-prevention headers.
//
// The error is only translated when the client accepts JSON and no response
// byte has been sent yet; otherwise it is left on the context for the host's
// default error handling (or silently dropped when the response is already in
// flight, since nothing can be rewritten at that point). Non-validation errors
// are never touched.
//
// Usage:
//
//	r := gin.New()
//	r.Use(middleware.ValidationErrorHandler(logger))
func ValidationErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		w := &preSendWriter{ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		verr := validationErrorFrom(c)
		if verr == nil {
			return
		}

		if !acceptsJSON(c.Request.Header.Values("Accept")) {
			// Re-raised unchanged: the error stays on the context for a
			// default handler further out.
			logger.Debug("Validation error not translated, client does not accept JSON",
				zap.String("target", verr.Result.Target),
			)
			return
		}

		logger.Info("Validation failed",
			zap.String("target", verr.Result.Target),
			zap.Error(verr),
		)

		if c.Writer.Written() {
			// Response already started, nothing can be rewritten.
			return
		}

		// Drop whatever headers a handler buffered before failing.
		header := c.Writer.Header()
		for key := range header {
			delete(header, key)
		}

		// Cache prevention is applied at send time so later defaults cannot
		// override it.
		w.OnBeforeSend(func(h http.Header) {
			h.Set("Cache-Control", "no-cache,no-store")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "-1")
			h.Del("ETag")
		})

		failures := verr.Result.Failures
		if failures == nil {
			failures = []ValidationFailure{}
		}
		body, err := marshalUnescaped(validationErrorResponse{
			Reason:             reasonValidationFailure,
			ValidationFailures: failures,
		})
		if err != nil {
			// Leave the serialization error for the host's fault handling.
			c.Error(err)
			return
		}
		c.Data(http.StatusUnprocessableEntity, "application/json; charset=utf-8", body)
	}
}

// marshalUnescaped serializes v with HTML escaping disabled. encoding/json
// escapes <, >, & by default, which would mangle comparison messages such as
// "must be >= 0"; failure messages must reach the client literally.
func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// validationErrorFrom returns the first ValidationError recorded on the
// context, or nil.
func validationErrorFrom(c *gin.Context) *ValidationError {
	for _, ginErr := range c.Errors {
		var verr *ValidationError
		if errors.As(ginErr.Err, &verr) {
			return verr
		}
	}
	return nil
}

// acceptsJSON reports whether any Accept value contains "application/json".
// An absent header counts as not accepting JSON, matching the conservative
// default of re-raising for unknown clients.
func acceptsJSON(accept []string) bool {
	for _, v := range accept {
		if strings.Contains(v, "application/json") {
			return true
		}
	}
	return false
}
