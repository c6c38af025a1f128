package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/facecheck/attendance-api/internal/core/domain"
	"github.com/facecheck/attendance-api/internal/core/ports"
)

const collectionEmployees = "employees"

type EmployeeRepository struct {
	col *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{col: db.Collection(collectionEmployees)}
}

type mongoEmployee struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	EmployeeCode  string             `bson:"employee_code,omitempty"`
	FullName      string             `bson:"full_name"`
	Email         string             `bson:"email,omitempty"`
	Phone         string             `bson:"phone,omitempty"`
	Department    string             `bson:"department,omitempty"`
	Designation   string             `bson:"designation,omitempty"`
	DateOfJoining string             `bson:"date_of_joining,omitempty"`
	FaceIdentity  string             `bson:"face_identity,omitempty"`
	Status        string             `bson:"status"`
	CreatedAt     time.Time          `bson:"created_at"`
}

func (m *mongoEmployee) toDomain() *domain.Employee {
	return &domain.Employee{
		ID:            m.ID.Hex(),
		EmployeeCode:  m.EmployeeCode,
		FullName:      m.FullName,
		Email:         m.Email,
		Phone:         m.Phone,
		Department:    m.Department,
		Designation:   m.Designation,
		DateOfJoining: m.DateOfJoining,
		FaceIdentity:  m.FaceIdentity,
		Status:        domain.EmployeeStatus(m.Status),
		CreatedAt:     m.CreatedAt.UTC(),
	}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoEmployee{
		EmployeeCode:  e.EmployeeCode,
		FullName:      e.FullName,
		Email:         e.Email,
		Phone:         e.Phone,
		Department:    e.Department,
		Designation:   e.Designation,
		DateOfJoining: e.DateOfJoining,
		FaceIdentity:  e.FaceIdentity,
		Status:        string(e.Status),
		CreatedAt:     e.CreatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("insert employee: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*domain.Employee, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *EmployeeRepository) FindActiveByFaceIdentity(ctx context.Context, identity string) (*domain.Employee, error) {
	return r.findOne(ctx, bson.M{"face_identity": identity, "status": string(domain.EmployeeActive)})
}

func (r *EmployeeRepository) findOne(ctx context.Context, filter bson.M) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoEmployee
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EmployeeRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Employee, error) {
	out := make(map[string]*domain.Employee, len(ids))
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return out, nil
	}
	list, err := r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, nil)
	if err != nil {
		return nil, err
	}
	for _, e := range list {
		out[e.ID] = e
	}
	return out, nil
}

func (r *EmployeeRepository) ExistsByEmailOrCode(ctx context.Context, email, code string) (bool, error) {
	var or bson.A
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if code != "" {
		or = append(or, bson.M{"employee_code": code})
	}
	if len(or) == 0 {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"$or": or}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count employees: %w", err)
	}
	return n > 0, nil
}

// List returns employees sorted by full name.
func (r *EmployeeRepository) List(ctx context.Context, filter ports.EmployeeFilter) ([]*domain.Employee, error) {
	q := bson.M{}
	if filter.Status != "" {
		q["status"] = filter.Status
	}
	if filter.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"full_name": rx},
			bson.M{"email": rx},
			bson.M{"employee_code": rx},
		}
	}
	return r.find(ctx, q, options.Find().SetSort(bson.D{{Key: "full_name", Value: 1}}))
}

func (r *EmployeeRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find employees: %w", err)
	}
	var docs []mongoEmployee
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}

	out := make([]*domain.Employee, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, id string, u ports.EmployeeUpdate) (*domain.Employee, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	unset := bson.M{}
	optional := func(field string, v *string) {
		if v == nil {
			return
		}
		// Empty optional fields are removed so sparse unique indexes ignore them.
		if *v == "" {
			unset[field] = ""
			return
		}
		set[field] = *v
	}
	if u.FullName != nil {
		set["full_name"] = *u.FullName
	}
	optional("email", u.Email)
	optional("phone", u.Phone)
	optional("department", u.Department)
	optional("designation", u.Designation)
	optional("date_of_joining", u.DateOfJoining)
	if u.Status != nil {
		set["status"] = string(*u.Status)
	}

	if len(set) == 0 && len(unset) == 0 {
		return r.FindByID(ctx, id)
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoEmployee
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("update employee: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EmployeeRepository) SetFaceIdentity(ctx context.Context, id, identity string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"face_identity": identity}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("set face identity: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EmployeeRepository) CountActive(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"status": string(domain.EmployeeActive)})
	if err != nil {
		return 0, fmt.Errorf("count active employees: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates necessary indexes on the employees collection.
func (r *EmployeeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "employee_code", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "face_identity", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "full_name", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
