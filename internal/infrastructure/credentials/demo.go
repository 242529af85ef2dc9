// Package credentials provides the pluggable principal sources behind login.
// The demo source and the Mongo repository both satisfy ports.CredentialSource;
// deployment configuration picks one — never an in-code flag.
package credentials

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/coveradmin/insurance-portal/internal/core/domain"
)

type demoSeed struct {
	email     string
	password  string
	firstName string
	lastName  string
	role      string
	isActive  bool
}

var demoSeeds = []demoSeed{
	{"admin@insurance.com", "admin123", "Ada", "Moreno", domain.RoleAdmin, true},
	{"agent@insurance.com", "agent123", "Gabriel", "Torres", domain.RoleAgent, true},
	{"customer@insurance.com", "customer123", "Carla", "Núñez", domain.RoleCustomer, true},
	{"inactive@insurance.com", "inactive123", "Iker", "Deactivated", domain.RoleAgent, false},
}

// DemoSource is the in-memory credential list used for demos and local
// development. Passwords are bcrypt-hashed at construction; plaintext never
// survives startup.
type DemoSource struct {
	principals map[string]*domain.Principal
}

// NewDemoSource builds the demo list.
func NewDemoSource() (*DemoSource, error) {
	principals := make(map[string]*domain.Principal, len(demoSeeds))
	for i, seed := range demoSeeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash demo credential: %w", err)
		}
		principals[seed.email] = &domain.Principal{
			ID:           fmt.Sprintf("demo_%d", i+1),
			Email:        seed.email,
			FirstName:    seed.firstName,
			LastName:     seed.lastName,
			PasswordHash: string(hash),
			Role:         seed.role,
			IsActive:     seed.isActive,
		}
	}
	return &DemoSource{principals: principals}, nil
}

// FindByEmail implements ports.CredentialSource.
func (s *DemoSource) FindByEmail(_ context.Context, email string) (*domain.Principal, error) {
	p, ok := s.principals[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	clone := *p
	return &clone, nil
}
