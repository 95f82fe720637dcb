package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

// document is the stored shape of a task.
type document struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Task      string             `bson:"task"`
	Completed bool               `bson:"completed"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d document) toDomain() domain.Task {
	return domain.Task{
		ID:        d.ID.Hex(),
		Task:      d.Task,
		Completed: d.Completed,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

type taskRepository struct {
	collection *mongo.Collection
}

// NewTaskRepository returns a MongoDB-backed TaskRepository.
func NewTaskRepository(collection *mongo.Collection) repository.TaskRepository {
	return &taskRepository{collection: collection}
}

func (r *taskRepository) List(ctx context.Context) ([]domain.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, domain.StoreError(err)
	}
	defer cursor.Close(ctx)

	tasks := make([]domain.Task, 0)
	for cursor.Next(ctx) {
		var doc document
		if err := cursor.Decode(&doc); err != nil {
			return nil, domain.StoreError(err)
		}
		tasks = append(tasks, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, domain.StoreError(err)
	}
	return tasks, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	var doc document
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	task := doc.toDomain()
	return &task, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	// Mongo keeps millisecond precision; truncate so the returned value matches later reads.
	doc := document{
		ID:        primitive.NewObjectID(),
		Task:      task.Task,
		Completed: task.Completed,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, domain.StoreError(err)
	}

	created := doc.toDomain()
	return &created, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	set := bson.M{}
	if patch.Task != nil {
		set["task"] = *patch.Task
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc document
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	task := doc.toDomain()
	return &task, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTaskNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return domain.StoreError(err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}

func translate(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrTaskNotFound
	}
	return domain.StoreError(err)
}
