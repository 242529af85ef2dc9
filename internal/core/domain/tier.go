package domain

// Tier is the access classification assigned to a request path.
type Tier string

const (
	TierPublic       Tier = "public"
	TierAdmin        Tier = "admin"
	TierCustomer     Tier = "customer"
	TierUnclassified Tier = "unclassified"
)

// AuditEventType labels entries in the authentication audit trail.
type AuditEventType string

const (
	AuditLoginSuccess   AuditEventType = "login_success"
	AuditLoginFailure   AuditEventType = "login_failure"
	AuditLogout         AuditEventType = "logout"
	AuditSessionExpired AuditEventType = "session_expired"
)
