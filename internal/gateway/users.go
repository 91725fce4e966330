package gateway

import (
	"context"
	"net/url"

	"github.com/allmart/storefront/app/models"
	"github.com/allmart/storefront/pkg/httpclient"
)

// GetUser fetches the user record keyed by email.
func (c *Client) GetUser(ctx context.Context, email string) (models.UserProfile, error) {
	var user models.UserProfile
	err := observe(ctx, "get_user", func() error {
		resp, err := httpclient.Get(c.url("/users/"+url.PathEscape(email))).
			WithContext(ctx).
			Timeout(c.timeout).
			Send()
		return decode(resp, err, &user)
	})
	return user, err
}

// PatchUser applies a partial update and returns the updated record as
// the gateway reports it.
func (c *Client) PatchUser(ctx context.Context, email string, patch models.ProfilePatch) (models.UserProfile, error) {
	var user models.UserProfile
	err := observe(ctx, "patch_user", func() error {
		resp, err := httpclient.Patch(c.url("/users/"+url.PathEscape(email))).
			WithContext(ctx).
			Timeout(c.timeout).
			Body(patch).
			Send()
		return decode(resp, err, &user)
	})
	return user, err
}

// CreateUser registers a new user record.
func (c *Client) CreateUser(ctx context.Context, user models.UserProfile) error {
	return observe(ctx, "create_user", func() error {
		resp, err := httpclient.Post(c.url("/users")).
			WithContext(ctx).
			Timeout(c.timeout).
			Body(user).
			Send()
		return decode(resp, err, nil)
	})
}

// Logout tells the gateway to drop its own session state. The caller's
// Cookie header is forwarded so the gateway can find that session.
func (c *Client) Logout(ctx context.Context, cookieHeader string) error {
	return observe(ctx, "logout", func() error {
		req := httpclient.Get(c.url("/logout")).
			WithContext(ctx).
			Timeout(c.timeout)
		if cookieHeader != "" {
			req.Header("Cookie", cookieHeader)
		}
		resp, err := req.Send()
		return decode(resp, err, nil)
	})
}
