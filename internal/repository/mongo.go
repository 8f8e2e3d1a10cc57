package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
)

// NewMongoDatabase connects to the MongoDB deployment at uri with a bounded pool and verifies
// the connection. Both server selection and connection establishment give up after timeout.
func NewMongoDatabase(ctx context.Context, uri string, maxPoolSize uint64, timeout time.Duration) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(maxPoolSize).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to create MongoDB client: %w", ErrConnection, err)
	}

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: failed to ping MongoDB: %w", ErrConnection, err)
	}

	return client, nil
}

// employeeDocument is the BSON shape written for an employee.
type employeeDocument struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Name             string             `bson:"name"`
	Email            string             `bson:"email"`
	PhoneNumber      string             `bson:"phoneNumber"`
	Age              int                `bson:"age"`
	Gender           string             `bson:"gender"`
	Department       int                `bson:"department"`
	Position         string             `bson:"position"`
	EmploymentStatus int                `bson:"employmentStatus"`
	EmpStatus        string             `bson:"empStatus"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        *time.Time         `bson:"updatedAt,omitempty"`
}

func newEmployeeDocument(employee models.Employee) employeeDocument {
	return employeeDocument{
		Name:             employee.Name,
		Email:            employee.Email,
		PhoneNumber:      employee.PhoneNumber,
		Age:              employee.Age,
		Gender:           employee.Gender,
		Department:       int(employee.Department),
		Position:         employee.Position,
		EmploymentStatus: int(employee.EmploymentStatus),
		EmpStatus:        employee.EmpStatus,
		CreatedAt:        employee.CreatedAt,
		UpdatedAt:        employee.UpdatedAt,
	}
}

// storedEmployee is the read shape of a document. Earlier writers stored numbers as strings
// and used fullName and phone for the name and phone number.
type storedEmployee struct {
	ID               primitive.ObjectID `bson:"_id"`
	Name             string             `bson:"name"`
	FullName         string             `bson:"fullName"`
	Email            string             `bson:"email"`
	PhoneNumber      string             `bson:"phoneNumber"`
	Phone            string             `bson:"phone"`
	Age              storedValue        `bson:"age"`
	Gender           string             `bson:"gender"`
	Department       storedValue        `bson:"department"`
	Position         string             `bson:"position"`
	EmploymentStatus storedValue        `bson:"employmentStatus"`
	EmpStatus        string             `bson:"empStatus"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        *time.Time         `bson:"updatedAt,omitempty"`
}

func (d storedEmployee) model() models.Employee {
	employee := models.Employee{
		ID:               d.ID.Hex(),
		Name:             d.Name,
		Email:            d.Email,
		PhoneNumber:      d.PhoneNumber,
		Age:              d.Age.number,
		Gender:           d.Gender,
		Department:       d.Department.department(),
		Position:         d.Position,
		EmploymentStatus: d.EmploymentStatus.employmentStatus(),
		EmpStatus:        d.EmpStatus,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}

	if employee.Name == "" {
		employee.Name = d.FullName
	}
	if employee.PhoneNumber == "" {
		employee.PhoneNumber = d.Phone
	}
	if position, ok := models.LookupPosition(d.Position); ok {
		employee.Position = position
	}

	return employee
}

// storedValue holds a field written as a BSON number, as digits or as label text.
// Text that is neither a number nor a known label decodes to zero.
type storedValue struct {
	number int
	text   string
}

func (v *storedValue) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.Int32:
		v.number = int(raw.Int32())
	case bsontype.Int64:
		v.number = int(raw.Int64())
	case bsontype.Double:
		v.number = int(raw.Double())
	case bsontype.String:
		text := strings.TrimSpace(raw.StringValue())
		if number, err := strconv.Atoi(text); err == nil {
			v.number = number
		} else {
			v.text = text
		}
	case bsontype.Null, bsontype.Undefined:
	default:
		return fmt.Errorf("unsupported BSON type %s for employee field", t)
	}

	return nil
}

func (v storedValue) department() models.Department {
	if v.text == "" {
		return models.Department(v.number)
	}
	if department, err := models.ParseDepartment(v.text); err == nil {
		return department
	}
	department, _ := models.LookupDepartment(v.text)

	return department
}

func (v storedValue) employmentStatus() models.EmploymentStatus {
	if v.text == "" {
		return models.EmploymentStatus(v.number)
	}
	status, err := models.ParseEmploymentStatus(v.text)
	if err != nil {
		return 0
	}

	return status
}

// MongoRepository is the MongoDB implementation of Store.
type MongoRepository struct {
	coll    *mongo.Collection
	metrics *metrics.Metrics
}

func NewMongoRepository(coll *mongo.Collection, metrics *metrics.Metrics) *MongoRepository {
	return &MongoRepository{coll: coll, metrics: metrics}
}

func (r *MongoRepository) observe(queryType string, startTime time.Time) {
	r.metrics.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(startTime).Seconds())
}

// InsertEmployee inserts one document and returns the generated ObjectID in hex form.
func (r *MongoRepository) InsertEmployee(ctx context.Context, employee models.Employee) (string, error) {
	defer r.observe("insert_employee", time.Now())

	result, err := r.coll.InsertOne(ctx, newEmployeeDocument(employee))
	if err != nil {
		return "", fmt.Errorf("failed to save employee: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to save employee: unexpected inserted id %v", result.InsertedID)
	}

	return oid.Hex(), nil
}

// ListEmployees returns every document in natural order. Documents left by earlier writers
// are normalised on read.
func (r *MongoRepository) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	defer r.observe("list_employees", time.Now())

	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	var docs []storedEmployee
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode employees: %w", err)
	}

	employees := make([]models.Employee, 0, len(docs))
	for _, doc := range docs {
		employees = append(employees, doc.model())
	}

	return employees, nil
}

// UpdateEmployee sets the supplied fields together with empStatus and updatedAt. The filter only
// matches when at least one supplied field differs, so unchanged values report zero modified.
func (r *MongoRepository) UpdateEmployee(
	ctx context.Context,
	identifier string,
	patch models.EmployeePatch,
	updatedAt time.Time,
) (int64, error) {
	defer r.observe("update_employee", time.Now())

	oid, err := primitive.ObjectIDFromHex(identifier)
	if err != nil {
		return 0, nil
	}

	set := bson.D{}
	differs := bson.A{}
	for _, field := range patchFields(patch) {
		set = append(set, bson.E{Key: field.column, Value: field.value})
		differs = append(differs, bson.D{{Key: field.column, Value: bson.D{{Key: "$ne", Value: field.value}}}})
	}
	if len(set) == 0 {
		return 0, nil
	}

	set = append(set,
		bson.E{Key: "empStatus", Value: models.EmpStatusEdited},
		bson.E{Key: "updatedAt", Value: updatedAt},
	)
	filter := bson.D{{Key: "_id", Value: oid}, {Key: "$or", Value: differs}}

	result, err := r.coll.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return 0, fmt.Errorf("failed to update employee data: %w", err)
	}

	return result.ModifiedCount, nil
}

// DeleteEmployee removes the document with the given identifier.
func (r *MongoRepository) DeleteEmployee(ctx context.Context, identifier string) (int64, error) {
	defer r.observe("delete_employee", time.Now())

	oid, err := primitive.ObjectIDFromHex(identifier)
	if err != nil {
		return 0, nil
	}

	result, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete employee: %w", err)
	}

	return result.DeletedCount, nil
}

// EmployeeExists reports whether a document with the given identifier is stored.
func (r *MongoRepository) EmployeeExists(ctx context.Context, identifier string) (bool, error) {
	defer r.observe("employee_exists", time.Now())

	oid, err := primitive.ObjectIDFromHex(identifier)
	if err != nil {
		return false, nil
	}

	var doc bson.M
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}},
		options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 1}})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get employee by id: %w", err)
	}

	return true, nil
}

// Ping checks the deployment behind the collection.
func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}

// patchFields lists the supplied fields of patch under their document keys.
func patchFields(patch models.EmployeePatch) []patchColumn {
	keys := map[string]string{
		"phone_number":      "phoneNumber",
		"employment_status": "employmentStatus",
	}

	fields := patchColumns(patch)
	for i := range fields {
		if key, ok := keys[fields[i].column]; ok {
			fields[i].column = key
		}
	}

	return fields
}
