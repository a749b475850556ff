package provider

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/scootgate/scootgate/internal/challenge"
	"github.com/scootgate/scootgate/internal/record"
)

const confirmationCodeDigits = 6

// Options configures the local provider.
type Options struct {
	JWTSecret           string
	AccessTokenTTL      time.Duration
	ChallengeSessionTTL time.Duration
	MaxAttempts         int
}

// Local is the in-process identity provider. It owns password hashes,
// confirmation codes, challenge sessions and token issuance, and calls the
// challenge hooks in the decide/create/verify order per round.
type Local struct {
	creds    CredentialStore
	hooks    ChallengeHooks
	sessions *sessionStore
	opts     Options
	logger   *slog.Logger
}

// NewLocal builds a local provider.
func NewLocal(creds CredentialStore, hooks ChallengeHooks, opts Options, logger *slog.Logger) *Local {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.ChallengeSessionTTL <= 0 {
		opts.ChallengeSessionTTL = 5 * time.Minute
	}
	if opts.AccessTokenTTL <= 0 {
		opts.AccessTokenTTL = time.Hour
	}
	return &Local{
		creds:    creds,
		hooks:    hooks,
		sessions: newSessionStore(opts.ChallengeSessionTTL),
		opts:     opts,
		logger:   logger,
	}
}

// SignUp registers an unconfirmed account and returns the confirmation code
// that a managed service would deliver to the user out of band. An existing
// unconfirmed account is replaced: losing a code mid-registration must not
// dead-end the email address.
func (p *Local) SignUp(ctx context.Context, in SignUpInput) (string, error) {
	existing, err := p.creds.Get(ctx, in.Email)
	switch {
	case err == nil:
		if existing.Confirmed {
			return "", ErrUserExists
		}
		if err := p.creds.Delete(ctx, in.Email); err != nil {
			return "", fmt.Errorf("replace unconfirmed account: %w", err)
		}
	case !errors.Is(err, ErrUserNotFound):
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	code, err := confirmationCode()
	if err != nil {
		return "", fmt.Errorf("generate confirmation code: %w", err)
	}

	cred := Credential{
		Email:            in.Email,
		PasswordHash:     hash,
		Name:             in.Name,
		Role:             in.Role,
		ConfirmationCode: code,
		CreatedAt:        time.Now().UTC(),
	}
	if err := p.creds.Create(ctx, cred); err != nil {
		return "", err
	}

	p.logger.Info("sign-up created", slog.String("email", in.Email), slog.String("role", string(in.Role)))
	return code, nil
}

// ConfirmSignUp verifies the code and confirms the account.
func (p *Local) ConfirmSignUp(ctx context.Context, email, code string) error {
	cred, err := p.creds.Get(ctx, email)
	if err != nil {
		return err
	}
	if cred.Confirmed {
		return nil
	}
	if code == "" || cred.ConfirmationCode != code {
		return ErrCodeMismatch
	}
	return p.creds.Confirm(ctx, email)
}

// InitiateAuth verifies the password, then runs the custom challenge loop:
// decide whether a round is owed and, if so, create it and hand back a
// session. Password failures surface before the challenge phase is reached.
func (p *Local) InitiateAuth(ctx context.Context, email, password string) (AuthResult, error) {
	cred, err := p.creds.Get(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	if !cred.Confirmed {
		return AuthResult{}, ErrNotConfirmed
	}
	if err := bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(password)); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	return p.nextRound(ctx, cred, "")
}

// RespondToChallenge verifies the submitted answer against the current
// round and either advances the session, issues tokens, or burns an
// attempt. Exhausting the attempt budget fails the whole authentication.
func (p *Local) RespondToChallenge(ctx context.Context, email, session, answer string) (AuthResult, error) {
	sess, ok := p.sessions.get(session)
	if !ok || sess.Email != email {
		return AuthResult{}, ErrSessionExpired
	}

	passed, err := p.hooks.Verify(ctx, email, answer)
	if err != nil {
		return AuthResult{}, fmt.Errorf("verify challenge: %w", err)
	}
	if !passed {
		if p.sessions.fail(session, p.opts.MaxAttempts) {
			p.logger.Warn("challenge attempts exhausted", slog.String("email", email))
			return AuthResult{}, ErrAttemptsExceeded
		}
		return AuthResult{}, ErrChallengeFailed
	}

	cred, err := p.creds.Get(ctx, email)
	if err != nil {
		return AuthResult{}, err
	}
	return p.nextRound(ctx, cred, session)
}

// nextRound asks the decide hook what comes next and either issues tokens
// or creates/advances a challenge session for the round the create hook
// produced.
func (p *Local) nextRound(ctx context.Context, cred Credential, session string) (AuthResult, error) {
	decision, err := p.hooks.DecideNext(ctx, cred.Email)
	if err != nil {
		return AuthResult{}, fmt.Errorf("decide challenge: %w", err)
	}

	if decision == challenge.DecisionIssueTokens {
		if session != "" {
			p.sessions.delete(session)
		}
		tokens, err := p.issueTokens(cred)
		if err != nil {
			return AuthResult{}, err
		}
		return AuthResult{Tokens: &tokens}, nil
	}

	params, err := p.hooks.Issue(ctx, cred.Email)
	if err != nil {
		return AuthResult{}, fmt.Errorf("create challenge: %w", err)
	}
	if session == "" {
		session = p.sessions.create(cred.Email, params.Name, params.Private)
	} else {
		p.sessions.advance(session, params.Name, params.Private)
	}
	return AuthResult{
		Session:       session,
		ChallengeName: params.Name,
		PublicParams:  params.Public,
	}, nil
}

// ChangePassword replaces the password for a caller holding a valid access
// token and returns a fresh token pair.
func (p *Local) ChangePassword(ctx context.Context, email, accessToken, newPassword string) (Tokens, error) {
	ident, err := p.VerifyToken(ctx, accessToken)
	if err != nil {
		return Tokens{}, err
	}
	if ident.Email != email {
		return Tokens{}, ErrTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return Tokens{}, fmt.Errorf("hash password: %w", err)
	}
	if err := p.creds.UpdatePassword(ctx, email, hash); err != nil {
		return Tokens{}, err
	}

	cred, err := p.creds.Get(ctx, email)
	if err != nil {
		return Tokens{}, err
	}
	return p.issueTokens(cred)
}

// SignOut bumps the token version so every outstanding token is rejected.
func (p *Local) SignOut(ctx context.Context, email, accessToken string) error {
	if accessToken != "" {
		if ident, err := p.VerifyToken(ctx, accessToken); err != nil || ident.Email != email {
			return ErrTokenInvalid
		}
	}
	_, err := p.creds.BumpTokenVersion(ctx, email)
	return err
}

// VerifyToken checks signature, expiry and token version.
func (p *Local) VerifyToken(ctx context.Context, token string) (Identity, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(p.opts.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrTokenInvalid
	}
	email, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	verFloat, _ := claims["ver"].(float64)

	cred, err := p.creds.Get(ctx, email)
	if err != nil {
		return Identity{}, ErrTokenInvalid
	}
	if cred.TokenVersion != int(verFloat) {
		return Identity{}, ErrTokenInvalid
	}
	return Identity{Email: email, Role: record.Role(role)}, nil
}

func (p *Local) issueTokens(cred Credential) (Tokens, error) {
	now := time.Now()
	exp := now.Add(p.opts.AccessTokenTTL)
	sign := func(use string) (string, error) {
		claims := jwt.MapClaims{
			"sub":  cred.Email,
			"role": string(cred.Role),
			"ver":  cred.TokenVersion,
			"use":  use,
			"iat":  now.Unix(),
			"exp":  exp.Unix(),
		}
		return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(p.opts.JWTSecret))
	}

	idToken, err := sign("id")
	if err != nil {
		return Tokens{}, fmt.Errorf("sign id token: %w", err)
	}
	accessToken, err := sign("access")
	if err != nil {
		return Tokens{}, fmt.Errorf("sign access token: %w", err)
	}
	return Tokens{
		IDToken:     idToken,
		AccessToken: accessToken,
		ExpiresIn:   int64(exp.Sub(now).Seconds()),
		Role:        cred.Role,
	}, nil
}

func confirmationCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < confirmationCodeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", confirmationCodeDigits, n), nil
}
