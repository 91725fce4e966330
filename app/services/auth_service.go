package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/allmart/storefront/app/models"
	"github.com/allmart/storefront/internal/identity"
	pkgauth "github.com/allmart/storefront/pkg/auth"
	"github.com/allmart/storefront/pkg/crypt"
	"github.com/allmart/storefront/pkg/logger"
	"github.com/allmart/storefront/pkg/metrics"
)

// ErrNoConfirmation is returned when an OTP verify arrives with a
// confirmation that was never issued, was tampered with, or has expired.
var ErrNoConfirmation = errors.New("auth: no such confirmation")

// Kind classifies an authentication outcome. Nothing is swallowed:
// every failure mode is distinguishable by the caller.
type Kind int

const (
	KindOK Kind = iota
	KindInvalidCredentials
	KindProviderError
	KindNetworkError
)

// Result is the outcome of an authentication operation.
type Result struct {
	Kind    Kind
	Account identity.Account
	Profile models.UserProfile
	Err     error
}

// identityAPI is the slice of the provider client AuthService needs.
type identityAPI interface {
	DevMode() bool
	SignUp(ctx context.Context, email, password string) (identity.Account, error)
	SignInWithPassword(ctx context.Context, email, password string) (identity.Account, error)
	SignInWithIDP(ctx context.Context, idToken, providerID string) (identity.Account, error)
	UpdateProfile(ctx context.Context, idToken, displayName, photoURL string) error
	SendVerificationCode(ctx context.Context, phone string) (string, error)
	VerifyPhoneNumber(ctx context.Context, sessionInfo, code string) (identity.Account, error)
}

// userGateway is the slice of the data gateway AuthService needs.
type userGateway interface {
	CreateUser(ctx context.Context, user models.UserProfile) error
	GetUser(ctx context.Context, email string) (models.UserProfile, error)
	Logout(ctx context.Context, cookieHeader string) error
}

// AuthService drives the identity state machine: a session either
// carries an identity claim (authenticated) or it does not (anonymous).
type AuthService struct {
	identity identityAPI
	gateway  userGateway
	otpTTL   time.Duration
}

// NewAuthService wires the service to its upstreams.
func NewAuthService(id identityAPI, gw userGateway) *AuthService {
	return &AuthService{identity: id, gateway: gw, otpTTL: 5 * time.Minute}
}

// classifyResult folds a provider/gateway error into a Result.
func classifyResult(err error) Result {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		return Result{Kind: KindInvalidCredentials, Err: err}
	case errors.Is(err, identity.ErrProvider):
		return Result{Kind: KindProviderError, Err: err}
	default:
		return Result{Kind: KindNetworkError, Err: err}
	}
}

// SignUp creates the provider account, then the gateway user record.
// photoURL is the already-uploaded avatar (may be empty).
func (s *AuthService) SignUp(ctx context.Context, name, email, password, photoURL string) Result {
	acct, err := s.identity.SignUp(ctx, email, password)
	if err != nil {
		metrics.RecordAuthAttempt("password", "error")
		return classifyResult(err)
	}

	if err := s.identity.UpdateProfile(ctx, acct.IDToken, name, photoURL); err != nil {
		// Account exists; a failed profile update is not fatal.
		logger.WithCtx(ctx).Warn("auth: provider profile update failed", "error", err)
	}

	profile := models.UserProfile{
		Name:      name,
		Email:     email,
		Photo:     photoURL,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.gateway.CreateUser(ctx, profile); err != nil {
		metrics.RecordAuthAttempt("password", "error")
		return classifyResult(err)
	}

	metrics.RecordAuthAttempt("password", "success")
	return Result{Kind: KindOK, Account: acct, Profile: profile}
}

// SignIn checks email/password with the provider. Invalid credentials
// and provider outage are distinct outcomes.
func (s *AuthService) SignIn(ctx context.Context, email, password string) Result {
	acct, err := s.identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		res := classifyResult(err)
		outcome := "error"
		if res.Kind == KindInvalidCredentials {
			outcome = "invalid"
		}
		metrics.RecordAuthAttempt("password", outcome)
		return res
	}

	metrics.RecordAuthAttempt("password", "success")
	return Result{Kind: KindOK, Account: acct}
}

// SignInWithGoogle exchanges a Google ID token (obtained by the browser
// popup) for a provider account.
func (s *AuthService) SignInWithGoogle(ctx context.Context, idToken string) Result {
	acct, err := s.identity.SignInWithIDP(ctx, idToken, "google.com")
	if err != nil {
		metrics.RecordAuthAttempt("google", "error")
		return classifyResult(err)
	}

	metrics.RecordAuthAttempt("google", "success")
	return Result{Kind: KindOK, Account: acct}
}

// SignOut tells the gateway to drop its session state. The caller
// invalidates the local session afterwards, preserving that ordering.
func (s *AuthService) SignOut(ctx context.Context, cookieHeader string) error {
	return s.gateway.Logout(ctx, cookieHeader)
}

// UpdateProfile changes the provider-side display name and photo. The
// gateway record is deliberately untouched here.
func (s *AuthService) UpdateProfile(ctx context.Context, idToken, name, photoURL string) error {
	return s.identity.UpdateProfile(ctx, idToken, name, photoURL)
}

// LookupRole fetches the caller's role from the gateway user record.
func (s *AuthService) LookupRole(ctx context.Context, email string) (string, error) {
	user, err := s.gateway.GetUser(ctx, email)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

// ─── Phone OTP ────────────────────────────────────────────────────────────────

// Confirmation is the sealed handle a client must present to verify an
// OTP. The token is opaque and tamper-evident; there is no server-side
// registry to leak or overwrite.
type Confirmation struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

// confirmationClaims is the sealed token payload.
type confirmationClaims struct {
	ID          string    `json:"id"`
	Phone       string    `json:"phone"`
	Mode        string    `json:"mode"` // "provider" | "dev"
	SessionInfo string    `json:"session_info,omitempty"`
	CodeDigest  string    `json:"code_digest,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SendOTP starts a phone verification and returns a fresh Confirmation.
// A second send for the same phone creates a new confirmation; earlier
// ones stay verifiable until their TTL runs out.
func (s *AuthService) SendOTP(ctx context.Context, phone string) (Confirmation, error) {
	claims := confirmationClaims{
		ID:        uuid.NewString(),
		Phone:     phone,
		ExpiresAt: time.Now().Add(s.otpTTL),
	}

	if s.identity.DevMode() {
		code, err := randomCode()
		if err != nil {
			return Confirmation{}, fmt.Errorf("auth: generate otp: %w", err)
		}
		digest, err := pkgauth.HashPassword(code)
		if err != nil {
			return Confirmation{}, fmt.Errorf("auth: digest otp: %w", err)
		}
		claims.Mode = "dev"
		claims.CodeDigest = digest

		// Dev mode has no SMS channel; surface the code in the log.
		logger.WithCtx(ctx).Info("auth: dev-mode OTP issued", "phone", phone, "code", code)
	} else {
		sessionInfo, err := s.identity.SendVerificationCode(ctx, phone)
		if err != nil {
			return Confirmation{}, err
		}
		claims.Mode = "provider"
		claims.SessionInfo = sessionInfo
	}

	token, err := crypt.EncryptJSON(claims)
	if err != nil {
		return Confirmation{}, fmt.Errorf("auth: seal confirmation: %w", err)
	}

	logger.WithCtx(ctx).Debug("auth: confirmation issued", "confirmation_id", claims.ID)
	return Confirmation{ID: claims.ID, Token: token}, nil
}

// VerifyOTP checks a code against a previously issued confirmation.
// Unknown, tampered, or expired confirmations fail deterministically
// with ErrNoConfirmation.
func (s *AuthService) VerifyOTP(ctx context.Context, conf Confirmation, code string) Result {
	var claims confirmationClaims
	if err := crypt.DecryptJSON(conf.Token, &claims); err != nil {
		metrics.RecordAuthAttempt("phone", "invalid")
		return Result{Kind: KindInvalidCredentials, Err: ErrNoConfirmation}
	}
	if claims.ID != conf.ID || time.Now().After(claims.ExpiresAt) {
		metrics.RecordAuthAttempt("phone", "invalid")
		return Result{Kind: KindInvalidCredentials, Err: ErrNoConfirmation}
	}

	switch claims.Mode {
	case "dev":
		if !pkgauth.CheckPassword(claims.CodeDigest, code) {
			metrics.RecordAuthAttempt("phone", "invalid")
			return Result{Kind: KindInvalidCredentials, Err: identity.ErrInvalidCredentials}
		}
		metrics.RecordAuthAttempt("phone", "success")
		return Result{Kind: KindOK, Account: identity.Account{PhoneNumber: claims.Phone}}

	case "provider":
		acct, err := s.identity.VerifyPhoneNumber(ctx, claims.SessionInfo, code)
		if err != nil {
			res := classifyResult(err)
			outcome := "error"
			if res.Kind == KindInvalidCredentials {
				outcome = "invalid"
			}
			metrics.RecordAuthAttempt("phone", outcome)
			return res
		}
		metrics.RecordAuthAttempt("phone", "success")
		return Result{Kind: KindOK, Account: acct}

	default:
		metrics.RecordAuthAttempt("phone", "invalid")
		return Result{Kind: KindInvalidCredentials, Err: ErrNoConfirmation}
	}
}

// randomCode returns a 6-digit decimal OTP.
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

