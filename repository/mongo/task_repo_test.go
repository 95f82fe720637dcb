package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fastygo/todo/repository"
	"github.com/fastygo/todo/repository/repotest"
)

// Runs against a live server only when TEST_MONGO_URI is set.
func TestTaskRepository(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(fmt.Sprintf("todo_test_%d", time.Now().UnixNano()))
	defer db.Drop(context.Background())

	var n int
	repotest.Run(t, func(t *testing.T) repository.TaskRepository {
		n++
		return NewTaskRepository(db.Collection(fmt.Sprintf("todos_%d", n)))
	})
}
