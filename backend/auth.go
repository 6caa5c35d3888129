package backend

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// RegisterRequest carries a new account submission.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
}

type verifyResponse struct {
	User User `json:"user"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return "", errors.Wrap(err, "[Client.Login]")
	}
	if resp.Token == "" {
		return "", errors.New("[Client.Login] backend returned an empty token")
	}
	return resp.Token, nil
}

// Register creates a new account. The backend signs the user in on its side
// but the browser still goes through Login to obtain a token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/register", "", req, nil)
}

// Verify asks the backend whether token is still accepted and returns the
// authoritative user record. A rejected token surfaces as ErrUnauthorized.
func (c *Client) Verify(ctx context.Context, tok string) (*User, error) {
	var resp verifyResponse
	if err := c.do(ctx, http.MethodGet, "/auth/verify", tok, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// User fetches an account by id.
func (c *Client) User(ctx context.Context, tok string, id int64) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, idPath("/users/%d", id), tok, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ForgotPassword starts a password reset; the backend emails the reset token.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/password/forgot", "", body, nil)
}

// ResetPassword completes a password reset with the emailed token.
func (c *Client) ResetPassword(ctx context.Context, email, resetToken, newPassword string) error {
	body := map[string]string{
		"email":       email,
		"token":       resetToken,
		"newPassword": newPassword,
	}
	return c.do(ctx, http.MethodPost, "/password/reset", "", body, nil)
}
