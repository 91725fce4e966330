package controllers

import (
	"io"
	"net/http"

	"github.com/allmart/storefront/app/services"
	"github.com/allmart/storefront/internal/uploader"
	"github.com/allmart/storefront/pkg/auth"
	"github.com/allmart/storefront/pkg/bind"
	"github.com/allmart/storefront/pkg/logger"
	"github.com/allmart/storefront/pkg/middleware"
	"github.com/allmart/storefront/pkg/response"
	"github.com/allmart/storefront/pkg/session"
)

// maxAvatarSize caps signup avatar uploads at 8 MiB.
const maxAvatarSize = 8 << 20

type AuthController struct {
	auth    *services.AuthService
	uploads uploader.Uploader
}

func NewAuthController(auth *services.AuthService, uploads uploader.Uploader) *AuthController {
	return &AuthController{auth: auth, uploads: uploads}
}

// establishSession binds an authenticated identity to the session. The
// session ID is regenerated first so a pre-set cookie cannot be fixed
// onto the authenticated session.
func establishSession(w http.ResponseWriter, r *http.Request, email, role string) error {
	sess := session.FromCtx(r)
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(middleware.SessionUserKey, email)
	sess.Set(middleware.SessionRoleKey, role)
	return sess.Save(w)
}

// sessionTokens issues the JWT pair non-browser API clients use in
// place of the cookie, accepted by the Authenticate Bearer branch.
func sessionTokens(email, role string) (token, refresh string, err error) {
	token, err = auth.GenerateToken(email, role)
	if err != nil {
		return "", "", err
	}
	refresh, err = auth.GenerateRefreshToken(email, role)
	if err != nil {
		return "", "", err
	}
	return token, refresh, nil
}

// SignUp handles POST /api/auth/signup. Multipart: the avatar goes up
// to the image host first, then the account is created with its URL.
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		response.BadRequest(w, "Malformed multipart body", nil)
		return
	}

	name := r.FormValue("name")
	email := r.FormValue("email")
	password := r.FormValue("password")
	if name == "" || email == "" || password == "" {
		response.UnprocessableEntity(w, map[string]string{
			"form": "name, email and password are required",
		})
		return
	}

	photoURL := ""
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			response.BadRequest(w, "Unreadable avatar upload", nil)
			return
		}
		if c.uploads == nil {
			response.ServerError(w, "No image host configured")
			return
		}
		photoURL, err = c.uploads.Upload(r.Context(), uploader.File{Name: header.Filename, Content: content})
		if err != nil {
			fail(w, r, err)
			return
		}
	}

	res := c.auth.SignUp(r.Context(), name, email, password, photoURL)
	if res.Kind != services.KindOK {
		failResult(w, r, res)
		return
	}

	role, err := c.auth.LookupRole(r.Context(), email)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("signup: role lookup failed", "error", err)
	}
	if err := establishSession(w, r, email, role); err != nil {
		fail(w, r, err)
		return
	}

	response.Created(w, "Account created", res.Profile)
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignIn handles POST /api/auth/signin.
func (c *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	var body signInRequest
	if err := bind.JSON(r, &body); err != nil {
		fail(w, r, err)
		return
	}

	res := c.auth.SignIn(r.Context(), body.Email, body.Password)
	if res.Kind != services.KindOK {
		failResult(w, r, res)
		return
	}

	role, err := c.auth.LookupRole(r.Context(), body.Email)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("signin: role lookup failed", "error", err)
	}
	if err := establishSession(w, r, body.Email, role); err != nil {
		fail(w, r, err)
		return
	}

	token, refresh, err := sessionTokens(body.Email, role)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.OK(w, "Signed in", map[string]string{
		"email":         body.Email,
		"role":          role,
		"token":         token,
		"refresh_token": refresh,
	})
}

type googleSignInRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// SignInWithGoogle handles POST /api/auth/google. The OAuth popup runs
// in the browser; this endpoint exchanges its ID token for a session.
func (c *AuthController) SignInWithGoogle(w http.ResponseWriter, r *http.Request) {
	var body googleSignInRequest
	if err := bind.JSON(r, &body); err != nil {
		fail(w, r, err)
		return
	}

	res := c.auth.SignInWithGoogle(r.Context(), body.IDToken)
	if res.Kind != services.KindOK {
		failResult(w, r, res)
		return
	}

	role, err := c.auth.LookupRole(r.Context(), res.Account.Email)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("google signin: role lookup failed", "error", err)
	}
	if err := establishSession(w, r, res.Account.Email, role); err != nil {
		fail(w, r, err)
		return
	}

	token, refresh, err := sessionTokens(res.Account.Email, role)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.OK(w, "Signed in", map[string]string{
		"email":         res.Account.Email,
		"role":          role,
		"token":         token,
		"refresh_token": refresh,
	})
}

// SignOut handles GET /api/auth/signout. The gateway is told first;
// the local session dies only after it confirms.
func (c *AuthController) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := c.auth.SignOut(r.Context(), r.Header.Get("Cookie")); err != nil {
		fail(w, r, err)
		return
	}

	sess := session.FromCtx(r)
	sess.Invalidate()
	if err := sess.Save(w); err != nil {
		fail(w, r, err)
		return
	}

	response.OK(w, "Signed out", nil)
}

type updateProfileRequest struct {
	IDToken  string `json:"id_token" validate:"required"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url" validate:"nullable,url"`
}

// UpdateProfile handles PUT /api/auth/profile. It changes the
// provider-side display name and photo only; the gateway user record
// is not touched here. The browser supplies its provider ID token.
func (c *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body updateProfileRequest
	if err := bind.JSON(r, &body); err != nil {
		fail(w, r, err)
		return
	}

	if err := c.auth.UpdateProfile(r.Context(), body.IDToken, body.Name, body.PhotoURL); err != nil {
		fail(w, r, err)
		return
	}

	response.OK(w, "Profile updated", map[string]string{
		"name":  body.Name,
		"photo": body.PhotoURL,
	})
}

type sendOTPRequest struct {
	Phone string `json:"phone" validate:"required,min=10"`
}

// SendOTP handles POST /api/auth/otp/send.
func (c *AuthController) SendOTP(w http.ResponseWriter, r *http.Request) {
	var body sendOTPRequest
	if err := bind.JSON(r, &body); err != nil {
		fail(w, r, err)
		return
	}

	conf, err := c.auth.SendOTP(r.Context(), body.Phone)
	if err != nil {
		fail(w, r, err)
		return
	}

	response.OK(w, "Verification code sent", conf)
}

type verifyOTPRequest struct {
	Confirmation services.Confirmation `json:"confirmation"`
	Code         string                `json:"code" validate:"required"`
}

// VerifyOTP handles POST /api/auth/otp/verify. The confirmation issued
// by SendOTP must come back with the code.
func (c *AuthController) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var body verifyOTPRequest
	if err := bind.JSON(r, &body); err != nil {
		fail(w, r, err)
		return
	}

	res := c.auth.VerifyOTP(r.Context(), body.Confirmation, body.Code)
	if res.Kind != services.KindOK {
		failResult(w, r, res)
		return
	}

	response.OK(w, "Phone verified", map[string]string{"phone": res.Account.PhoneNumber})
}
