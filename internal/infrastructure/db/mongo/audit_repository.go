package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/facecheck/attendance-api/internal/core/domain"
)

const collectionAudit = "attendance_audit_log"

// AuditRepository appends recognition attempts. It has no update path.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

type mongoAuditEntry struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	AttemptID          string             `bson:"attempt_id"`
	EmployeeID         string             `bson:"employee_id,omitempty"`
	Action             string             `bson:"action"`
	RecognizerResponse bson.Raw           `bson:"recognizer_response,omitempty"`
	RawResponse        string             `bson:"raw_response,omitempty"`
	ConfidenceScore    float64            `bson:"confidence_score"`
	Success            bool               `bson:"success"`
	ErrorMessage       string             `bson:"error_message,omitempty"`
	CreatedAt          time.Time          `bson:"created_at"`
}

func (r *AuditRepository) Insert(ctx context.Context, e *domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAuditEntry{
		AttemptID:       e.AttemptID,
		EmployeeID:      e.EmployeeID,
		Action:          string(e.Action),
		ConfidenceScore: e.ConfidenceScore,
		Success:         e.Success,
		ErrorMessage:    e.ErrorMessage,
		CreatedAt:       e.CreatedAt,
	}
	if len(e.RecognizerResponse) > 0 {
		// Keep the response queryable as a subdocument; fall back to the raw
		// text when the recognizer sent something that is not a JSON object.
		var raw bson.Raw
		if err := bson.UnmarshalExtJSON(e.RecognizerResponse, false, &raw); err == nil {
			doc.RecognizerResponse = raw
		} else {
			doc.RawResponse = string(e.RecognizerResponse)
		}
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		e.ID = oid.Hex()
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the audit collection.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "attempt_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
