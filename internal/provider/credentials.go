package provider

import (
	"context"
	"time"

	"github.com/scootgate/scootgate/internal/record"
)

// Credential is the provider-side account record. The challenge progress
// lives in the auth record store, not here.
type Credential struct {
	Email            string
	PasswordHash     []byte
	Name             string
	Role             record.Role
	Confirmed        bool
	ConfirmationCode string
	TokenVersion     int
	CreatedAt        time.Time
}

// CredentialStore persists provider accounts.
type CredentialStore interface {
	Create(ctx context.Context, cred Credential) error
	Get(ctx context.Context, email string) (Credential, error)
	Delete(ctx context.Context, email string) error
	Confirm(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, email string, hash []byte) error
	// BumpTokenVersion invalidates all outstanding tokens and returns the
	// new version.
	BumpTokenVersion(ctx context.Context, email string) (int, error)
}
