package record

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Role identifies the kind of account an auth record belongs to.
type Role string

const (
	RoleCustomer          Role = "Customer"
	RoleFranchiseOperator Role = "FranchiseOperator"
)

// ParseRole maps client input onto a known role. Matching ignores case and
// word separators ("franchise_operator" works); anything else is rejected
// rather than silently downgraded. Empty input defaults to customer.
func ParseRole(s string) (Role, error) {
	normalized := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch normalized {
	case "", "customer":
		return RoleCustomer, nil
	case "franchiseoperator", "operator":
		return RoleFranchiseOperator, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// UserAuthRecord holds per-user multi-factor challenge progress. The answer
// is stored only as a one-way digest and the cipher fields are ground truth
// for the puzzle currently outstanding, if any.
type UserAuthRecord struct {
	UserID              string
	Name                string
	Role                Role
	SecurityQuestion    string
	HashedAnswer        string
	Validated           bool
	CipherPlain         string
	CipherShift         int
	CipherValidated     bool
	NotificationChannel string
}

// ErrNotFound signals that no auth record exists for the user.
var ErrNotFound = errors.New("auth record not found")

// Store persists auth records keyed by user ID (email). Mutations are
// per-field and isolated; concurrent writers to the same user follow
// last-write-wins semantics.
type Store interface {
	Get(ctx context.Context, userID string) (UserAuthRecord, error)
	Put(ctx context.Context, rec UserAuthRecord) error
	SetValidated(ctx context.Context, userID string, v bool) error
	SetCipherValidated(ctx context.Context, userID string, v bool) error
	SetCipherPuzzle(ctx context.Context, userID, plain string, shift int) error
	ResetValidation(ctx context.Context, userID string) error
	SetNotificationChannel(ctx context.Context, userID, channel string) error
}
