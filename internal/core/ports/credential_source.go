package ports

import (
	"context"

	"github.com/coveradmin/insurance-portal/internal/core/domain"
)

// CredentialSource looks up principals for login. The demo list and the
// Mongo-backed store both satisfy it; selection happens in configuration,
// never via an in-code flag.
type CredentialSource interface {
	// FindByEmail returns the principal for the given email, or
	// domain.ErrPrincipalNotFound.
	FindByEmail(ctx context.Context, email string) (*domain.Principal, error)
}
