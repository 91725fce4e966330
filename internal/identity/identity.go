// Package identity is the REST client for the external identity
// provider (Identity-Toolkit-compatible API). All accounts, password
// checks, OAuth token exchanges, and SMS verification live there; this
// service only holds sessions.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/allmart/storefront/config"
	"github.com/allmart/storefront/pkg/httpclient"
	"github.com/allmart/storefront/pkg/logger"
)

// ErrInvalidCredentials marks a definitive provider rejection: wrong
// password, unknown email, bad or expired OTP code.
var ErrInvalidCredentials = errors.New("identity: invalid credentials")

// ErrProvider marks any other provider-side error (quota, disabled
// account, malformed token).
var ErrProvider = errors.New("identity: provider error")

// Account is the provider's view of an authenticated user.
type Account struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PhotoURL     string `json:"photoUrl"`
	PhoneNumber  string `json:"phoneNumber"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

// Client calls the identity provider. An empty API key switches the
// client into dev mode: password flows accept any credentials, and OTP
// codes are generated locally instead of sent over SMS.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
}

// New builds a client from IDENTITY_BASE_URL / IDENTITY_API_KEY.
func New() *Client {
	return &Client{
		baseURL: config.IdentityBaseURL(),
		apiKey:  config.IdentityAPIKey(),
		timeout: 10 * time.Second,
	}
}

// DevMode reports whether the client runs without a provider key.
func (c *Client) DevMode() bool { return c.apiKey == "" }

func (c *Client) endpoint(action string) string {
	return c.baseURL + "/accounts:" + action + "?key=" + url.QueryEscape(c.apiKey)
}

// providerError is the provider's error body shape.
type providerError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// call posts body to an accounts: action and decodes into dest.
func (c *Client) call(ctx context.Context, action string, body, dest interface{}) error {
	resp, err := httpclient.Post(c.endpoint(action)).
		WithContext(ctx).
		Timeout(c.timeout).
		Body(body).
		Send()
	if err != nil {
		return fmt.Errorf("identity: %s: %w", action, err)
	}

	if !resp.OK() {
		var pe providerError
		_ = resp.JSON(&pe)
		return classify(action, resp.StatusCode, pe.Error.Message)
	}

	if dest == nil {
		return nil
	}
	if err := resp.JSON(dest); err != nil {
		return fmt.Errorf("%w: malformed %s response: %v", ErrProvider, action, err)
	}
	return nil
}

// classify maps provider error codes onto the package taxonomy.
func classify(action string, status int, message string) error {
	switch message {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS",
		"INVALID_CODE", "SESSION_EXPIRED", "INVALID_ID_TOKEN":
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, message)
	}
	return fmt.Errorf("%w: %s returned %d (%s)", ErrProvider, action, status, message)
}

// SignUp registers an email/password account.
func (c *Client) SignUp(ctx context.Context, email, password string) (Account, error) {
	if c.DevMode() {
		return devAccount(email), nil
	}

	var acct Account
	err := c.call(ctx, "signUp", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &acct)
	return acct, err
}

// SignInWithPassword checks email/password credentials.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (Account, error) {
	if c.DevMode() {
		return devAccount(email), nil
	}

	var acct Account
	err := c.call(ctx, "signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &acct)
	return acct, err
}

// SignInWithIDP exchanges an OAuth ID token (Google sign-in happens in
// the browser; the resulting token lands here).
func (c *Client) SignInWithIDP(ctx context.Context, idToken, providerID string) (Account, error) {
	var acct Account
	err := c.call(ctx, "signInWithIdp", map[string]interface{}{
		"postBody":            "id_token=" + idToken + "&providerId=" + providerID,
		"requestUri":          "http://localhost",
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}, &acct)
	return acct, err
}

// UpdateProfile sets the display name and photo on the provider account.
func (c *Client) UpdateProfile(ctx context.Context, idToken, displayName, photoURL string) error {
	if c.DevMode() {
		logger.WithCtx(ctx).Debug("identity: dev mode, profile update skipped",
			"display_name", displayName)
		return nil
	}

	return c.call(ctx, "update", map[string]interface{}{
		"idToken":           idToken,
		"displayName":       displayName,
		"photoUrl":          photoURL,
		"returnSecureToken": false,
	}, nil)
}

// SendVerificationCode asks the provider to text an OTP to phone.
// Returns the opaque session info the verify call needs.
func (c *Client) SendVerificationCode(ctx context.Context, phone string) (string, error) {
	var out struct {
		SessionInfo string `json:"sessionInfo"`
	}
	err := c.call(ctx, "sendVerificationCode", map[string]interface{}{
		"phoneNumber": phone,
	}, &out)
	return out.SessionInfo, err
}

// VerifyPhoneNumber checks an OTP code against a pending verification.
func (c *Client) VerifyPhoneNumber(ctx context.Context, sessionInfo, code string) (Account, error) {
	var acct Account
	err := c.call(ctx, "signInWithPhoneNumber", map[string]interface{}{
		"sessionInfo": sessionInfo,
		"code":        code,
	}, &acct)
	return acct, err
}

func devAccount(email string) Account {
	return Account{
		LocalID: "dev-" + email,
		Email:   email,
		IDToken: "dev-token",
	}
}
