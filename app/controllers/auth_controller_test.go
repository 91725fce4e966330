package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allmart/storefront/app/models"
	"github.com/allmart/storefront/app/services"
	"github.com/allmart/storefront/internal/identity"
	"github.com/allmart/storefront/pkg/auth"
	"github.com/allmart/storefront/pkg/middleware"
	"github.com/allmart/storefront/pkg/response"
	"github.com/allmart/storefront/pkg/router"
	"github.com/allmart/storefront/pkg/session"
)

type profileCall struct {
	idToken, name, photo string
}

// fakeIdentity implements the provider surface the auth service uses.
type fakeIdentity struct {
	profileCalls []profileCall
}

func (f *fakeIdentity) DevMode() bool { return true }

func (f *fakeIdentity) SignUp(_ context.Context, email, _ string) (identity.Account, error) {
	return identity.Account{Email: email, IDToken: "tok"}, nil
}

func (f *fakeIdentity) SignInWithPassword(_ context.Context, email, _ string) (identity.Account, error) {
	return identity.Account{Email: email, IDToken: "tok"}, nil
}

func (f *fakeIdentity) SignInWithIDP(_ context.Context, _, _ string) (identity.Account, error) {
	return identity.Account{Email: "idp@example.com", IDToken: "tok"}, nil
}

func (f *fakeIdentity) UpdateProfile(_ context.Context, idToken, name, photoURL string) error {
	f.profileCalls = append(f.profileCalls, profileCall{idToken, name, photoURL})
	return nil
}

func (f *fakeIdentity) SendVerificationCode(context.Context, string) (string, error) {
	return "session-info", nil
}

func (f *fakeIdentity) VerifyPhoneNumber(_ context.Context, _, _ string) (identity.Account, error) {
	return identity.Account{PhoneNumber: "+15550001111"}, nil
}

// fakeUserGW serves the user-record surface of the data gateway.
type fakeUserGW struct {
	role string
}

func (f *fakeUserGW) CreateUser(context.Context, models.UserProfile) error { return nil }

func (f *fakeUserGW) GetUser(_ context.Context, email string) (models.UserProfile, error) {
	return models.UserProfile{Email: email, Role: f.role}, nil
}

func (f *fakeUserGW) Logout(context.Context, string) error { return nil }

func signInRouter(role string) (*router.Router, *fakeIdentity) {
	idp := &fakeIdentity{}
	svc := services.NewAuthService(idp, &fakeUserGW{role: role})
	ctrl := NewAuthController(svc, nil)

	r := router.New()
	r.Use(session.Middleware(session.DefaultOptions()), middleware.Authenticate)
	r.Post("/api/auth/signin", "auth.signin", ctrl.SignIn)
	r.Put("/api/auth/profile", "auth.profile.update", ctrl.UpdateProfile)
	r.Get("/api/whoami", "whoami", func(w http.ResponseWriter, req *http.Request) {
		email, _ := middleware.UserFromCtx(req)
		response.OK(w, "Me", map[string]string{"email": email})
	}, middleware.RequireAuth)
	return r, idp
}

func postJSON(r *router.Router, path, body string, mod func(*http.Request)) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if mod != nil {
		mod(req)
	}
	r.Handler().ServeHTTP(rec, req)
	return rec
}

func TestSignIn_IssuedTokenPassesBearerAuth(t *testing.T) {
	r, _ := signInRouter("admin")

	rec := postJSON(r, "/api/auth/signin", `{"email":"asha@example.com","password":"pw"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data map[string]string
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	require.NotEmpty(t, data["token"])
	require.NotEmpty(t, data["refresh_token"])

	claims, err := auth.ValidateToken(data["token"])
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)

	// The token alone, with no cookie, must authenticate an API call.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+data["token"])
	r.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var me map[string]string
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &me))
	assert.Equal(t, "asha@example.com", me["email"])

	// No token, no cookie: anonymous.
	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignIn_RegeneratesSessionID(t *testing.T) {
	r, _ := signInRouter("customer")

	planted := "feedfacefeedfacefeedfacefeedfacefeedfacefeedfacefeedfacefeedface"
	rec := postJSON(r, "/api/auth/signin", `{"email":"asha@example.com","password":"pw"}`, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "allmart_session", Value: planted})
	})
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	for _, c := range cookies {
		if c.Name == "allmart_session" {
			assert.NotEqual(t, planted, c.Value, "authenticated session must not keep a client-chosen ID")
			assert.NotEmpty(t, c.Value)
			return
		}
	}
	t.Fatal("no session cookie issued")
}

func TestUpdateProfile_CallsProvider(t *testing.T) {
	r, idp := signInRouter("customer")

	rec := httptest.NewRecorder()
	body := `{"id_token":"tok-1","name":"Asha N","photo_url":"https://img.example/a.png"}`
	req := httptest.NewRequest(http.MethodPut, "/api/auth/profile", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, idp.profileCalls, 1)
	assert.Equal(t, profileCall{"tok-1", "Asha N", "https://img.example/a.png"}, idp.profileCalls[0])
}

func TestUpdateProfile_RequiresIDToken(t *testing.T) {
	r, idp := signInRouter("customer")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/auth/profile", strings.NewReader(`{"name":"Asha"}`))
	req.Header.Set("Content-Type", "application/json")
	r.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, idp.profileCalls)
}

func TestMalformedJSONBodyIsBadRequest(t *testing.T) {
	r, _ := signInRouter("customer")

	rec := postJSON(r, "/api/auth/signin", `{not-json`, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "error", env.Status)
	assert.Contains(t, env.Message, "malformed")
}
