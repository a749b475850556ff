package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/scootgate/scootgate/internal/challenge"
	"github.com/scootgate/scootgate/internal/notification"
	"github.com/scootgate/scootgate/internal/provider"
	"github.com/scootgate/scootgate/internal/record"
)

// Service is the account façade. It owns input validation, the pending
// registration stash, record promotion at confirmation time and the
// notification hooks, and delegates credential checks and the challenge
// loop to the identity provider.
type Service struct {
	provider   provider.Provider
	records    record.Store
	pending    PendingStore
	dispatcher *notification.Dispatcher
	pendingTTL time.Duration
	logger     *slog.Logger
}

// NewService wires the façade.
func NewService(p provider.Provider, records record.Store, pending PendingStore, dispatcher *notification.Dispatcher, pendingTTL time.Duration, logger *slog.Logger) *Service {
	if pendingTTL <= 0 {
		pendingTTL = 24 * time.Hour
	}
	return &Service{
		provider:   p,
		records:    records,
		pending:    pending,
		dispatcher: dispatcher,
		pendingTTL: pendingTTL,
		logger:     logger,
	}
}

// RegisterInput carries everything a sign-up needs. The security answer is
// digested before it leaves this package.
type RegisterInput struct {
	Email            string
	Password         string
	Name             string
	Role             string
	SecurityQuestion string
	SecurityAnswer   string
}

// Register creates unconfirmed credentials with the provider and stashes the
// security material until confirmation. The returned confirmation code is
// for the delivery channel, never for the HTTP response body.
func (s *Service) Register(ctx context.Context, in RegisterInput) (string, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || in.Password == "" {
		return "", fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	if in.SecurityQuestion == "" || in.SecurityAnswer == "" {
		return "", fmt.Errorf("%w: security question and answer are required", ErrValidation)
	}
	role, err := record.ParseRole(in.Role)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	code, err := s.provider.SignUp(ctx, provider.SignUpInput{
		Email:    in.Email,
		Password: in.Password,
		Name:     in.Name,
		Role:     role,
	})
	if err != nil {
		if errors.Is(err, provider.ErrUserExists) {
			return "", fmt.Errorf("%w: %s", ErrConflict, in.Email)
		}
		return "", fmt.Errorf("%w: sign up: %v", ErrUpstream, err)
	}

	stash := PendingSignup{
		Email:            in.Email,
		Name:             in.Name,
		Role:             role,
		SecurityQuestion: in.SecurityQuestion,
		HashedAnswer:     challenge.HashAnswer(in.SecurityAnswer),
	}
	if err := s.pending.Put(ctx, stash, s.pendingTTL); err != nil {
		return "", fmt.Errorf("%w: stash registration: %v", ErrUpstream, err)
	}

	s.logger.Info("registration started", slog.String("email", in.Email), slog.String("role", string(role)))
	return code, nil
}

// ConfirmRegistration verifies the confirmation code, promotes the pending
// stash into a persistent auth record, provisions the user's notification
// channel and emits the registration notification.
func (s *Service) ConfirmRegistration(ctx context.Context, email, code string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || code == "" {
		return fmt.Errorf("%w: email and confirmation code are required", ErrValidation)
	}

	if err := s.provider.ConfirmSignUp(ctx, email, code); err != nil {
		switch {
		case errors.Is(err, provider.ErrUserNotFound):
			return fmt.Errorf("%w: %s", ErrNotFound, email)
		case errors.Is(err, provider.ErrCodeMismatch):
			return fmt.Errorf("%w: confirmation code mismatch", ErrAuthFailed)
		default:
			return fmt.Errorf("%w: confirm sign up: %v", ErrUpstream, err)
		}
	}

	stash, err := s.pending.Get(ctx, email)
	if err != nil {
		if errors.Is(err, ErrPendingNotFound) {
			return fmt.Errorf("%w: registration data expired, sign up again", ErrValidation)
		}
		return fmt.Errorf("%w: load registration: %v", ErrUpstream, err)
	}

	channel := notification.ChannelFor(email)
	rec := record.UserAuthRecord{
		UserID:              email,
		Name:                stash.Name,
		Role:                stash.Role,
		SecurityQuestion:    stash.SecurityQuestion,
		HashedAnswer:        stash.HashedAnswer,
		NotificationChannel: channel,
	}
	if err := s.records.Put(ctx, rec); err != nil {
		return fmt.Errorf("%w: store auth record: %v", ErrUpstream, err)
	}
	if err := s.pending.Delete(ctx, email); err != nil {
		s.logger.Warn("pending signup cleanup failed", slog.String("email", email), slog.Any("error", err))
	}

	s.dispatcher.Dispatch(notification.Message{
		Kind:    notification.KindRegistration,
		Channel: channel,
		Subject: "Registration Successful",
		Body:    notification.Format(notification.KindRegistration, ""),
	})
	s.logger.Info("registration confirmed", slog.String("email", email))
	return nil
}

// LoginResult is either a token set or a pending challenge round. Exactly
// one of the two shapes is populated.
type LoginResult struct {
	Tokens        *provider.Tokens
	Session       string
	ChallengeName string
	Challenge     map[string]string
}

// Authenticated reports whether the flow completed and tokens were issued.
func (r LoginResult) Authenticated() bool {
	return r.Tokens != nil
}

// Login runs password verification and the first challenge decision.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return LoginResult{}, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	res, err := s.provider.InitiateAuth(ctx, email, password)
	if err != nil {
		return LoginResult{}, s.mapAuthError("initiate auth", err)
	}
	return s.finishRound(ctx, email, res), nil
}

// RespondToChallenge submits one challenge answer and advances the flow.
func (s *Service) RespondToChallenge(ctx context.Context, email, session, answer string) (LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || session == "" || answer == "" {
		return LoginResult{}, fmt.Errorf("%w: email, session and answer are required", ErrValidation)
	}

	res, err := s.provider.RespondToChallenge(ctx, email, session, answer)
	if err != nil {
		return LoginResult{}, s.mapAuthError("respond to challenge", err)
	}
	return s.finishRound(ctx, email, res), nil
}

func (s *Service) finishRound(ctx context.Context, email string, res provider.AuthResult) LoginResult {
	if res.Tokens == nil {
		return LoginResult{
			Session:       res.Session,
			ChallengeName: res.ChallengeName,
			Challenge:     res.PublicParams,
		}
	}

	channel := notification.ChannelFor(email)
	if rec, err := s.records.Get(ctx, email); err == nil && rec.NotificationChannel != "" {
		channel = rec.NotificationChannel
	}
	s.dispatcher.Dispatch(notification.Message{
		Kind:    notification.KindLogin,
		Channel: channel,
		Subject: "Login Notification",
		Body:    notification.Format(notification.KindLogin, ""),
	})
	s.logger.Info("login completed", slog.String("email", email), slog.String("role", string(res.Tokens.Role)))
	return LoginResult{Tokens: res.Tokens}
}

// ChangePassword rotates the password for the holder of a valid access
// token and returns a fresh token set.
func (s *Service) ChangePassword(ctx context.Context, email, accessToken, newPassword string) (*provider.Tokens, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || accessToken == "" || newPassword == "" {
		return nil, fmt.Errorf("%w: email, access token and new password are required", ErrValidation)
	}
	tokens, err := s.provider.ChangePassword(ctx, email, accessToken, newPassword)
	if err != nil {
		return nil, s.mapAuthError("change password", err)
	}
	s.logger.Info("password changed", slog.String("email", email))
	return &tokens, nil
}

// Logout revokes outstanding tokens and resets both validation flags so the
// next login replays the full challenge sequence.
func (s *Service) Logout(ctx context.Context, email, accessToken string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if err := s.provider.SignOut(ctx, email, accessToken); err != nil {
		return s.mapAuthError("sign out", err)
	}
	if err := s.records.ResetValidation(ctx, email); err != nil && !errors.Is(err, record.ErrNotFound) {
		return fmt.Errorf("%w: reset validation: %v", ErrUpstream, err)
	}
	s.logger.Info("logout completed", slog.String("email", email))
	return nil
}

func (s *Service) mapAuthError(op string, err error) error {
	switch {
	case errors.Is(err, provider.ErrInvalidCredentials),
		errors.Is(err, provider.ErrNotConfirmed),
		errors.Is(err, provider.ErrChallengeFailed),
		errors.Is(err, provider.ErrAttemptsExceeded),
		errors.Is(err, provider.ErrSessionExpired),
		errors.Is(err, provider.ErrTokenInvalid):
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	case errors.Is(err, provider.ErrUserNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrUpstream, op, err)
	}
}
