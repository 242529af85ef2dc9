package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/coveradmin/insurance-portal/internal/core/domain"
	"github.com/coveradmin/insurance-portal/internal/core/ports"
	"github.com/coveradmin/insurance-portal/internal/core/token"
)

// AuthService implements login: credential validation plus token issuance.
type AuthService struct {
	source ports.CredentialSource
	codec  *token.Codec
}

func NewAuthService(source ports.CredentialSource, codec *token.Codec) *AuthService {
	return &AuthService{source: source, codec: codec}
}

// Login checks the credential against the configured source and, on success,
// returns a signed token plus the sanitized principal. Unknown email and
// wrong password produce the same error so responses cannot be used to
// enumerate accounts. An inactive principal never receives a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Principal, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrMissingCredentials
	}

	principal, err := s.source.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrPrincipalNotFound {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !principal.IsActive {
		return "", nil, domain.ErrAccountDeactivated
	}

	if bcrypt.CompareHashAndPassword([]byte(principal.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	signed, _, err := s.codec.Sign(principal.ID, principal.Email, principal.Role)
	if err != nil {
		return "", nil, err
	}

	return signed, principal.Sanitized(), nil
}
