package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/coveradmin/insurance-portal/internal/core/domain"
	"github.com/coveradmin/insurance-portal/internal/core/ports"
	"github.com/coveradmin/insurance-portal/internal/core/token"
)

const revokeTimeout = 10 * time.Second

// Blacklist records revoked tokens until their natural expiry so the access
// guard can deny them before the signature check would pass.
type Blacklist interface {
	Revoke(ctx context.Context, tokenStr string, until time.Time) error
}

// AuditQueue accepts audit events for asynchronous persistence.
type AuditQueue interface {
	Enqueue(event ports.AuditEvent)
}

// Coordinator tears a session down across every server-observable channel.
// Every step runs even when an earlier one fails: the blacklist write is
// best-effort cleanup, not the thing that revokes access.
type Coordinator struct {
	registry  *Registry
	blacklist Blacklist
	codec     *token.Codec
	audit     AuditQueue
	log       zerolog.Logger
}

func NewCoordinator(registry *Registry, blacklist Blacklist, codec *token.Codec, audit AuditQueue, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		registry:  registry,
		blacklist: blacklist,
		codec:     codec,
		audit:     audit,
		log:       log,
	}
}

// Logout ends the session behind tokenStr: drop its monitor, blacklist the
// token until its natural expiry, record the audit event. An unverifiable
// token still gets the first and last steps — it revokes nothing but the
// local state must not linger.
func (c *Coordinator) Logout(ctx context.Context, tokenStr string, eventType domain.AuditEventType) {
	c.registry.End(tokenStr)

	email, role := "", ""
	if claims, err := c.codec.Verify(tokenStr); err == nil {
		email, role = claims.Email, claims.Role
		if claims.ExpiresAt != nil {
			c.revoke(ctx, tokenStr, claims.ExpiresAt.Time)
		}
	}

	if c.audit != nil {
		c.audit.Enqueue(ports.AuditEvent{
			Type:  eventType,
			Email: email,
			Role:  role,
			At:    time.Now().UTC(),
		})
	}
}

func (c *Coordinator) revoke(ctx context.Context, tokenStr string, until time.Time) {
	if c.blacklist == nil {
		return
	}

	revokeCtx, cancel := context.WithTimeout(ctx, revokeTimeout)
	defer cancel()

	if err := c.blacklist.Revoke(revokeCtx, tokenStr, until); err != nil {
		// The client-side clear already happened; a missed blacklist write
		// only matters until the token's own expiry.
		c.log.Warn().Err(err).Msg("token blacklist write failed, continuing logout")
	}
}
