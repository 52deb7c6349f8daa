package apiclient

import (
	"context"
	"errors"
	"net/http"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Authentication struct {
		SessionToken string `json:"sessionToken"`
	} `json:"authentication"`
}

// Login exchanges admin credentials for the API's session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return "", err
	}
	if resp.Authentication.SessionToken == "" {
		return "", errors.New("login response carried no session token")
	}
	return resp.Authentication.SessionToken, nil
}
