package repositories

import (
	"context"
	"fmt"
	"log"
	"time"

	"task-management-app/backend/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel/trace"
)

type TaskRepo struct {
	cli        *mongo.Client
	collection *mongo.Collection
	logger     *log.Logger
	tracer     trace.Tracer
}

// NewTaskRepo connects to MongoDB and binds the tasks collection.
func NewTaskRepo(ctx context.Context, uri, database string, logger *log.Logger, tracer trace.Tracer) (*TaskRepo, error) {
	if uri == "" {
		return nil, fmt.Errorf("MONGO_DB_URI is not set")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to MongoDB: %w", err)
	}

	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		return nil, fmt.Errorf("unable to reach MongoDB: %w", err)
	}

	taskCollection := client.Database(database).Collection("tasks")

	logger.Println("Connected to MongoDB")

	return &TaskRepo{
		cli:        client,
		collection: taskCollection,
		logger:     logger,
		tracer:     tracer,
	}, nil
}

func (tr *TaskRepo) GetAll() (domain.Tasks, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ctx, span := tr.tracer.Start(ctx, "TaskRepo.GetAll")
	defer span.End()

	return tr.find(ctx, bson.M{})
}

func (tr *TaskRepo) GetByAssignee(userId string) (domain.Tasks, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ctx, span := tr.tracer.Start(ctx, "TaskRepo.GetByAssignee")
	defer span.End()

	return tr.find(ctx, bson.M{"assignedTo": userId})
}

func (tr *TaskRepo) find(ctx context.Context, filter bson.M) (domain.Tasks, error) {
	var tasks domain.Tasks
	cursor, err := tr.collection.Find(ctx, filter)
	if err != nil {
		tr.logger.Println("Error fetching tasks:", err)
		return nil, domain.PersistenceError{Op: "TaskRepo.find", Err: err}
	}
	if err = cursor.All(ctx, &tasks); err != nil {
		tr.logger.Println("Error decoding tasks:", err)
		return nil, domain.PersistenceError{Op: "TaskRepo.find", Err: err}
	}
	return tasks, nil
}

func (tr *TaskRepo) GetById(id string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ctx, span := tr.tracer.Start(ctx, "TaskRepo.GetById")
	defer span.End()

	var task domain.Task
	err := tr.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTaskNotFound(id)
		}
		tr.logger.Println("Error fetching task:", err)
		return nil, domain.PersistenceError{Op: "TaskRepo.GetById", Err: err}
	}
	return &task, nil
}

func (tr *TaskRepo) Insert(task domain.Task) (domain.Task, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ctx, span := tr.tracer.Start(ctx, "TaskRepo.Insert")
	defer span.End()

	if task.Id == "" {
		task.Id = primitive.NewObjectID().Hex()
	}

	_, err := tr.collection.InsertOne(ctx, &task)
	if err != nil {
		tr.logger.Println("Error inserting task:", err)
		return domain.Task{}, domain.PersistenceError{Op: "TaskRepo.Insert", Err: err}
	}

	tr.logger.Println("Task inserted:", task.Id)
	return task, nil
}

// Update is a conditional write: it only replaces the document if the stored
// status still equals expectedStatus, so concurrent transitions surface as a
// conflict instead of a lost write.
func (tr *TaskRepo) Update(task *domain.Task, expectedStatus domain.Status) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ctx, span := tr.tracer.Start(ctx, "TaskRepo.Update")
	defer span.End()

	filter := bson.M{"_id": task.Id, "status": expectedStatus}
	result, err := tr.collection.ReplaceOne(ctx, filter, task)
	if err != nil {
		tr.logger.Println("Error updating task:", err)
		return domain.PersistenceError{Op: "TaskRepo.Update", Err: err}
	}

	if result.MatchedCount == 0 {
		// Either the task is gone or its status moved under us.
		count, err := tr.collection.CountDocuments(ctx, bson.M{"_id": task.Id})
		if err != nil {
			return domain.PersistenceError{Op: "TaskRepo.Update", Err: err}
		}
		if count == 0 {
			return domain.ErrTaskNotFound(task.Id)
		}
		return domain.ConflictError{Id: task.Id}
	}

	return nil
}

func (tr *TaskRepo) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ctx, span := tr.tracer.Start(ctx, "TaskRepo.Delete")
	defer span.End()

	result, err := tr.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		tr.logger.Println("Error deleting task:", err)
		return domain.PersistenceError{Op: "TaskRepo.Delete", Err: err}
	}
	if result.DeletedCount == 0 {
		return domain.ErrTaskNotFound(id)
	}
	return nil
}

func (tr *TaskRepo) Disconnect(ctx context.Context) error {
	err := tr.cli.Disconnect(ctx)
	if err != nil {
		return fmt.Errorf("error closing MongoDB connection: %w", err)
	}
	tr.logger.Println("MongoDB connection closed")
	return nil
}

func (tr *TaskRepo) Ping(ctx context.Context) error {
	err := tr.cli.Ping(ctx, readpref.Primary())
	if err != nil {
		tr.logger.Println("Error reaching MongoDB:", err)
		return err
	}
	return nil
}
