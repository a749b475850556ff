// Package challenge implements the custom authentication challenge
// sequencer invoked by the identity provider between password verification
// and token issuance. It sequences a security-question round and a Caesar
// cipher round, tracking per-user progress in the auth record store.
package challenge

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/scootgate/scootgate/internal/cipher"
	"github.com/scootgate/scootgate/internal/record"
)

// State is the user's position in the challenge sequence, derived from the
// two persisted flags on every invocation rather than stored explicitly.
type State int

const (
	// SecurityQuestionPending means the security-question round is next.
	SecurityQuestionPending State = iota
	// CipherPending means the question passed and the cipher round is next.
	CipherPending
	// FullyValidated means both rounds passed; tokens may be issued.
	FullyValidated
)

func (s State) String() string {
	switch s {
	case SecurityQuestionPending:
		return "SECURITY_QUESTION_PENDING"
	case CipherPending:
		return "CIPHER_PENDING"
	default:
		return "FULLY_VALIDATED"
	}
}

// StateOf derives the challenge state from the record's flags. The sequence
// is strictly ordered: the security question always precedes the cipher.
func StateOf(rec record.UserAuthRecord) State {
	switch {
	case !rec.Validated:
		return SecurityQuestionPending
	case !rec.CipherValidated:
		return CipherPending
	default:
		return FullyValidated
	}
}

// Decision is the sequencer's answer to the provider's decide hook.
type Decision string

const (
	// DecisionIssueTokens tells the provider to finish authentication.
	DecisionIssueTokens Decision = "ISSUE_TOKENS"
	// DecisionPresentChallenge tells the provider another round is needed.
	DecisionPresentChallenge Decision = "PRESENT_CUSTOM_CHALLENGE"
)

// Challenge round names carried in the provider session.
const (
	NameSecurityQuestion = "SECURITY_QUESTION"
	NameCipher           = "CIPHER"
)

// Public/private parameter keys for issued challenges.
const (
	ParamType           = "type"
	ParamQuestion       = "question"
	ParamCipherText     = "cipherText"
	ParamExpectedAnswer = "expectedAnswer"
)

// ErrNoChallengePending is returned by Issue when the user has already
// cleared both rounds and the caller should have issued tokens instead.
var ErrNoChallengePending = errors.New("no challenge pending")

// Params carries an issued challenge. Public is returned to the client;
// Private stays with the provider session and never crosses the wire.
type Params struct {
	Name    string
	Public  map[string]string
	Private map[string]string
}

// Sequencer decides, issues and verifies challenge rounds against the
// persisted auth record.
type Sequencer struct {
	store  record.Store
	gen    *cipher.Generator
	logger *slog.Logger
}

// NewSequencer wires the sequencer to its record store and puzzle generator.
func NewSequencer(store record.Store, gen *cipher.Generator, logger *slog.Logger) *Sequencer {
	return &Sequencer{store: store, gen: gen, logger: logger}
}

// DecideNext reports whether the user owes another challenge round. A user
// without an auth record has no extra challenges configured and falls
// through to token issuance; this step never fails authentication outright.
func (s *Sequencer) DecideNext(ctx context.Context, userID string) (Decision, error) {
	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return DecisionIssueTokens, nil
		}
		return "", fmt.Errorf("decide next challenge: %w", err)
	}
	if StateOf(rec) == FullyValidated {
		return DecisionIssueTokens, nil
	}
	return DecisionPresentChallenge, nil
}

// Issue produces the parameters for the user's current round. Each call in
// the cipher phase persists and returns a brand-new puzzle: re-asking is not
// idempotent by design, and earlier private parameters become stale.
func (s *Sequencer) Issue(ctx context.Context, userID string) (Params, error) {
	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		return Params{}, fmt.Errorf("issue challenge: %w", err)
	}

	switch StateOf(rec) {
	case SecurityQuestionPending:
		return Params{
			Name: NameSecurityQuestion,
			Public: map[string]string{
				ParamType:     NameSecurityQuestion,
				ParamQuestion: rec.SecurityQuestion,
			},
			Private: map[string]string{ParamExpectedAnswer: rec.HashedAnswer},
		}, nil

	case CipherPending:
		puzzle, err := s.gen.NewPuzzle()
		if err != nil {
			return Params{}, fmt.Errorf("issue cipher challenge: %w", err)
		}
		if err := s.store.SetCipherPuzzle(ctx, userID, puzzle.Plain, puzzle.Shift); err != nil {
			return Params{}, fmt.Errorf("persist cipher puzzle: %w", err)
		}
		return Params{
			Name: NameCipher,
			Public: map[string]string{
				ParamType:       NameCipher,
				ParamCipherText: puzzle.Cipher,
			},
			Private: map[string]string{ParamExpectedAnswer: puzzle.Plain},
		}, nil

	default:
		return Params{}, ErrNoChallengePending
	}
}

// Verify evaluates a submitted answer for the user's current round. Success
// flips exactly one flag; failure leaves the record untouched so repeated
// wrong answers never mutate state. Verification against a fully validated
// record is a caller protocol error and reported as a plain failure.
func (s *Sequencer) Verify(ctx context.Context, userID, answer string) (bool, error) {
	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("verify challenge answer: %w", err)
	}

	switch StateOf(rec) {
	case SecurityQuestionPending:
		// The digest encodes case, so this comparison is case-sensitive.
		if HashAnswer(answer) != rec.HashedAnswer {
			return false, nil
		}
		if err := s.store.SetValidated(ctx, userID, true); err != nil {
			return false, fmt.Errorf("mark question validated: %w", err)
		}
		s.logger.Info("security question passed", slog.String("user", userID))
		return true, nil

	case CipherPending:
		// The cipher alphabet is lowercase-only, so answers compare
		// case-insensitively against the persisted plaintext.
		if rec.CipherPlain == "" || strings.ToLower(answer) != rec.CipherPlain {
			return false, nil
		}
		if err := s.store.SetCipherValidated(ctx, userID, true); err != nil {
			return false, fmt.Errorf("mark cipher validated: %w", err)
		}
		s.logger.Info("cipher challenge passed", slog.String("user", userID))
		return true, nil

	default:
		s.logger.Warn("verify called for fully validated user", slog.String("user", userID))
		return false, nil
	}
}

// HashAnswer computes the one-way digest stored and compared for security
// answers. The digest is deterministic so exact-match comparison works.
func HashAnswer(answer string) string {
	sum := sha256.Sum256([]byte(answer))
	return hex.EncodeToString(sum[:])
}
