package middleware

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthUser represents the user info returned from the auth service
type AuthUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthClient handles communication with the auth service
type AuthClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAuthClient creates a new auth client
func NewAuthClient(baseURL string) *AuthClient {
	return &AuthClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// GetMe retrieves user info from the auth service using the token
func (c *AuthClient) GetMe(token string) (*AuthUser, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/api/v1/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("invalid or expired token")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("auth service error: %d - %s", resp.StatusCode, string(body))
	}

	var user AuthUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &user, nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. Returns false when the header is missing or malformed.
func bearerToken(authHeader string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) || len(authHeader) == len(prefix) {
		return "", false
	}
	return authHeader[len(prefix):], true
}

// AuthMiddleware validates tokens via the auth service and sets "user_id",
// "username", "email" in the gin context on success.
//
// When allowUnauthenticatedFallback is true (demo mode), missing/invalid
// tokens fall back to user_id="1". When false (default), missing or invalid
// tokens get 401.
func AuthMiddleware(authClient *AuthClient, logger *zap.Logger, allowUnauthenticatedFallback bool) gin.HandlerFunc {
	fallbackOrReject := func(c *gin.Context, message string) {
		if allowUnauthenticatedFallback {
			c.Set("user_id", "1")
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			fallbackOrReject(c, "Authentication required")
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			fallbackOrReject(c, "Invalid authorization header")
			return
		}

		user, err := authClient.GetMe(token)
		if err != nil {
			if logger != nil {
				logger.Debug("Auth validation failed", zap.Error(err))
			}
			fallbackOrReject(c, "Invalid or expired token")
			return
		}

		c.Set("user_id", user.ID)
		c.Set("username", user.Username)
		c.Set("email", user.Email)
		c.Next()
	}
}
