package ports

import (
	"context"

	"github.com/coveradmin/insurance-portal/internal/core/domain"
)

type AuthService interface {
	// Login validates credentials and issues a signed token. The returned
	// principal is sanitized (no password hash).
	Login(ctx context.Context, email, password string) (string, *domain.Principal, error)
}
