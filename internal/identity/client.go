package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/migraplan/portal-server/internal/logger"
	"github.com/migraplan/portal-server/internal/model"
)

var _ Provider = (*Client)(nil)

// Client talks to a GoTrue-style hosted authentication API.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a provider client. A nil httpClient falls back to a
// default with a 10s timeout.
func NewClient(baseURL, serviceKey string, httpClient *http.Client, logger *logger.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: httpClient,
		logger:     logger,
	}
}

type userResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        userResponse `json:"user"`
}

// errorResponse covers the message field variants the provider uses.
type errorResponse struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
}

func (e errorResponse) text() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Message != "":
		return e.Message
	default:
		return e.ErrorDescription
	}
}

// SignUp creates a new identity via POST /signup.
func (c *Client) SignUp(ctx context.Context, email, password string) (Identity, error) {
	c.logger.Debug("Identity client: signing up", "email", email)

	var user userResponse
	err := c.do(ctx, http.MethodPost, "/signup", map[string]string{
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		return Identity{}, err
	}

	return Identity{ID: user.ID, Email: user.Email}, nil
}

// SignIn verifies a credential via the password grant.
func (c *Client) SignIn(ctx context.Context, email, password string) (Grant, error) {
	c.logger.Debug("Identity client: signing in", "email", email)

	var token tokenResponse
	err := c.do(ctx, http.MethodPost, "/token?grant_type=password", map[string]string{
		"email":    email,
		"password": password,
	}, &token)
	if err != nil {
		return Grant{}, err
	}

	return Grant{
		Identity:    Identity{ID: token.User.ID, Email: token.User.Email},
		AccessToken: token.AccessToken,
	}, nil
}

// UpdatePassword replaces an identity's credential through the admin API.
func (c *Client) UpdatePassword(ctx context.Context, identityID uuid.UUID, newPassword string) error {
	c.logger.Debug("Identity client: updating password", "identity_id", identityID)

	path := fmt.Sprintf("/admin/users/%s", identityID)
	return c.do(ctx, http.MethodPut, path, map[string]string{
		"password": newPassword,
	}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewError(model.KindUnknown, err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err != nil || errResp.text() == "" {
			return model.NewError(model.KindUnknown, fmt.Sprintf("provider returned status %d", resp.StatusCode))
		}
		return translateError(errResp.text())
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
