package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/conectar/admin-api/internal/core/domain"
)

const auditCollection = "audit_events"

// MongoAuditRepository appends security events. There is no read path in this
// service; the collection exists for operators and offline review.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	Action     string `bson:"action"`
	SubjectID  string `bson:"subject_id,omitempty"`
	ActorID    string `bson:"actor_id,omitempty"`
	Email      string `bson:"email,omitempty"`
	Detail     string `bson:"detail,omitempty"`
	OccurredAt int64  `bson:"occurred_at"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	doc := mongoAuditEvent{
		Action:     string(event.Action),
		SubjectID:  event.SubjectID,
		ActorID:    event.ActorID,
		Email:      event.Email,
		Detail:     event.Detail,
		OccurredAt: event.OccurredAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
