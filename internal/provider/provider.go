// Package provider models the managed identity service that owns passwords,
// challenge sessions and token issuance. The rest of the system talks to it
// through the Provider interface; Local is the in-process implementation
// that drives the challenge sequencer's extension points mid-authentication.
package provider

import (
	"context"
	"errors"

	"github.com/scootgate/scootgate/internal/challenge"
	"github.com/scootgate/scootgate/internal/record"
)

var (
	// ErrInvalidCredentials covers unknown users and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists is returned for duplicate sign-ups.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when an operation targets a missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotConfirmed blocks authentication before email confirmation.
	ErrNotConfirmed = errors.New("registration not confirmed")
	// ErrCodeMismatch is returned for a wrong confirmation code.
	ErrCodeMismatch = errors.New("confirmation code mismatch")
	// ErrSessionExpired covers missing, expired and mismatched sessions.
	ErrSessionExpired = errors.New("challenge session expired")
	// ErrChallengeFailed is a wrong answer with attempts remaining.
	ErrChallengeFailed = errors.New("challenge answer incorrect")
	// ErrAttemptsExceeded means the session burned all its attempts.
	ErrAttemptsExceeded = errors.New("challenge attempts exceeded")
	// ErrTokenInvalid is returned for unverifiable or revoked tokens.
	ErrTokenInvalid = errors.New("invalid token")
)

// Tokens is the provider's authentication result once every challenge round
// has been cleared.
type Tokens struct {
	IDToken     string
	AccessToken string
	ExpiresIn   int64
	Role        record.Role
}

// AuthResult is either issued tokens or a further-challenge-required
// outcome carrying the session token and the round's public parameters.
type AuthResult struct {
	Tokens        *Tokens
	Session       string
	ChallengeName string
	PublicParams  map[string]string
}

// SignUpInput captures a registration request.
type SignUpInput struct {
	Email    string
	Password string
	Name     string
	Role     record.Role
}

// Identity describes a verified token subject.
type Identity struct {
	Email string
	Role  record.Role
}

// ChallengeHooks are the three extension points the provider invokes per
// challenge round, in order: decide, create, verify. The sequencer
// implements them.
type ChallengeHooks interface {
	DecideNext(ctx context.Context, userID string) (challenge.Decision, error)
	Issue(ctx context.Context, userID string) (challenge.Params, error)
	Verify(ctx context.Context, userID, answer string) (bool, error)
}

// Provider is the identity service capability consumed by the session
// façade: initiate auth, respond to challenge, issue tokens.
type Provider interface {
	// SignUp creates an unconfirmed identity and returns the confirmation
	// code the managed service would deliver out of band.
	SignUp(ctx context.Context, in SignUpInput) (string, error)
	ConfirmSignUp(ctx context.Context, email, code string) error
	InitiateAuth(ctx context.Context, email, password string) (AuthResult, error)
	RespondToChallenge(ctx context.Context, email, session, answer string) (AuthResult, error)
	ChangePassword(ctx context.Context, email, accessToken, newPassword string) (Tokens, error)
	SignOut(ctx context.Context, email, accessToken string) error
	VerifyToken(ctx context.Context, token string) (Identity, error)
}
