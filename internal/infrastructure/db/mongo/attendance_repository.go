package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/facecheck/attendance-api/internal/core/domain"
	"github.com/facecheck/attendance-api/internal/core/ports"
)

const collectionAttendance = "attendance"

type AttendanceRepository struct {
	col *mongo.Collection
}

func NewAttendanceRepository(db *mongo.Database) *AttendanceRepository {
	return &AttendanceRepository{col: db.Collection(collectionAttendance)}
}

type mongoAttendance struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	EmployeeID      string             `bson:"employee_id"`
	Date            string             `bson:"date"`
	CheckInTime     time.Time          `bson:"check_in_time"`
	Status          string             `bson:"status"`
	ConfidenceScore float64            `bson:"confidence_score"`
	Source          string             `bson:"source"`
}

func (m *mongoAttendance) toDomain() *domain.AttendanceRecord {
	return &domain.AttendanceRecord{
		ID:              m.ID.Hex(),
		EmployeeID:      m.EmployeeID,
		Date:            m.Date,
		CheckInTime:     m.CheckInTime.UTC(),
		Status:          domain.AttendanceStatus(m.Status),
		ConfidenceScore: m.ConfidenceScore,
		Source:          m.Source,
	}
}

// Create inserts a check-in. The unique (employee_id, date) index turns a
// concurrent second check-in into domain.ErrAlreadyMarked.
func (r *AttendanceRepository) Create(ctx context.Context, rec *domain.AttendanceRecord) (*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAttendance{
		EmployeeID:      rec.EmployeeID,
		Date:            rec.Date,
		CheckInTime:     rec.CheckInTime,
		Status:          string(rec.Status),
		ConfidenceScore: rec.ConfidenceScore,
		Source:          rec.Source,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyMarked
		}
		return nil, fmt.Errorf("insert attendance: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *AttendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID, date string) (*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAttendance
	err := r.col.FindOne(ctx, bson.M{"employee_id": employeeID, "date": date}).Decode(&doc)
	if err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	return doc.toDomain(), nil
}

// List applies the history filter. A start date alone selects that day.
func (r *AttendanceRepository) List(ctx context.Context, filter ports.HistoryFilter) ([]*domain.AttendanceRecord, error) {
	q := bson.M{}
	switch {
	case filter.StartDate != "" && filter.EndDate != "":
		q["date"] = bson.M{"$gte": filter.StartDate, "$lte": filter.EndDate}
	case filter.StartDate != "":
		q["date"] = filter.StartDate
	case filter.EndDate != "":
		q["date"] = bson.M{"$lte": filter.EndDate}
	}
	if filter.EmployeeID != "" {
		q["employee_id"] = filter.EmployeeID
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "check_in_time", Value: -1}})
	return r.find(ctx, q, opts)
}

func (r *AttendanceRepository) ListByDate(ctx context.Context, date string, limit int) ([]*domain.AttendanceRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "check_in_time", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{"date": date}, opts)
}

func (r *AttendanceRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	var docs []mongoAttendance
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode attendance: %w", err)
	}

	out := make([]*domain.AttendanceRecord, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// CountByStatus groups the records of one day by status.
func (r *AttendanceRepository) CountByStatus(ctx context.Context, date string) (map[domain.AttendanceStatus]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"date": date}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate attendance: %w", err)
	}

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode attendance counts: %w", err)
	}

	out := make(map[domain.AttendanceStatus]int64, len(rows))
	for _, row := range rows {
		out[domain.AttendanceStatus(row.Status)] = row.Count
	}
	return out, nil
}

// EnsureIndexes creates necessary indexes on the attendance collection.
func (r *AttendanceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("one_check_in_per_day"),
		},
		{Keys: bson.D{{Key: "date", Value: -1}, {Key: "check_in_time", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
