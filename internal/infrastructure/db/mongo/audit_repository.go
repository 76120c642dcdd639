package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

const auditCollection = "portal_audit"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Action     string             `bson:"action"`
	ActorID    int64              `bson:"actor_id"`
	ActorName  string             `bson:"actor_name"`
	Target     string             `bson:"target"`
	Details    bson.M             `bson:"details,omitempty"`
	At         time.Time          `bson:"at"`
	RecordedAt time.Time          `bson:"recorded_at"`
}

// EnsureIndexes creates the indexes used to browse the trail by actor and by
// target, newest first.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "target", Value: 1}, {Key: "at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("audit indexes: %w", err)
	}
	return nil
}

// Record persists an administrative action to the portal_audit collection.
func (r *AuditRepository) Record(ctx context.Context, event domain.AuditEvent) error {
	doc := auditDoc{
		Action:     string(event.Action),
		ActorID:    event.ActorID,
		ActorName:  event.ActorName,
		Target:     event.Target,
		At:         event.At.UTC(),
		RecordedAt: time.Now().UTC(),
	}
	if len(event.Details) > 0 {
		doc.Details = bson.M(event.Details)
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}
	return nil
}
