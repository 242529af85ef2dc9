package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/coveradmin/insurance-portal/internal/core/ports"
)

const auditCollection = "auth_events"

// AuditRepository implements ports.AuditSink using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record persists one audit event to the auth_events collection.
func (r *AuditRepository) Record(ctx context.Context, event ports.AuditEvent) error {
	doc := bson.M{
		"type":        string(event.Type),
		"email":       event.Email,
		"occurred_at": event.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.Role != "" {
		doc["role"] = event.Role
	}
	if event.RemoteIP != "" {
		doc["remote_ip"] = event.RemoteIP
	}
	if event.Reason != "" {
		doc["reason"] = event.Reason
	}

	_, err := r.db.Collection(auditCollection).InsertOne(ctx, doc)
	return err
}
