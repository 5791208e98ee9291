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

type UserRepo struct {
	cli        *mongo.Client
	collection *mongo.Collection
	logger     *log.Logger
	tracer     trace.Tracer
}

func NewUserRepo(ctx context.Context, uri, database string, logger *log.Logger, tracer trace.Tracer) (*UserRepo, error) {
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

	usersCollection := client.Database(database).Collection("users")

	logger.Println("Connected to MongoDB")

	return &UserRepo{
		cli:        client,
		collection: usersCollection,
		logger:     logger,
		tracer:     tracer,
	}, nil
}

func (ur *UserRepo) GetAll() (domain.Users, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ctx, span := ur.tracer.Start(ctx, "UserRepo.GetAll")
	defer span.End()

	return ur.find(ctx, bson.M{})
}

func (ur *UserRepo) GetByRole(role domain.Role) (domain.Users, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ctx, span := ur.tracer.Start(ctx, "UserRepo.GetByRole")
	defer span.End()

	return ur.find(ctx, bson.M{"role": role})
}

func (ur *UserRepo) find(ctx context.Context, filter bson.M) (domain.Users, error) {
	var users domain.Users
	cursor, err := ur.collection.Find(ctx, filter)
	if err != nil {
		ur.logger.Println("Error fetching users:", err)
		return nil, domain.PersistenceError{Op: "UserRepo.find", Err: err}
	}
	if err = cursor.All(ctx, &users); err != nil {
		ur.logger.Println("Error decoding users:", err)
		return nil, domain.PersistenceError{Op: "UserRepo.find", Err: err}
	}
	return users, nil
}

func (ur *UserRepo) GetById(id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ctx, span := ur.tracer.Start(ctx, "UserRepo.GetById")
	defer span.End()

	var user domain.User
	err := ur.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound(id)
		}
		ur.logger.Println("Error fetching user:", err)
		return nil, domain.PersistenceError{Op: "UserRepo.GetById", Err: err}
	}
	return &user, nil
}

func (ur *UserRepo) GetByEmail(email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ctx, span := ur.tracer.Start(ctx, "UserRepo.GetByEmail")
	defer span.End()

	var user domain.User
	err := ur.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.NotFoundError{Resource: "user"}
		}
		ur.logger.Println("Error fetching user:", err)
		return nil, domain.PersistenceError{Op: "UserRepo.GetByEmail", Err: err}
	}
	return &user, nil
}

func (ur *UserRepo) Insert(user domain.User) (domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ctx, span := ur.tracer.Start(ctx, "UserRepo.Insert")
	defer span.End()

	if user.Id == "" {
		user.Id = primitive.NewObjectID().Hex()
	}

	_, err := ur.collection.InsertOne(ctx, &user)
	if err != nil {
		ur.logger.Println("Error inserting user:", err)
		return domain.User{}, domain.PersistenceError{Op: "UserRepo.Insert", Err: err}
	}

	ur.logger.Println("User inserted:", user.Id)
	return user, nil
}

func (ur *UserRepo) Count() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ctx, span := ur.tracer.Start(ctx, "UserRepo.Count")
	defer span.End()

	count, err := ur.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, domain.PersistenceError{Op: "UserRepo.Count", Err: err}
	}
	return count, nil
}

func (ur *UserRepo) Disconnect(ctx context.Context) error {
	err := ur.cli.Disconnect(ctx)
	if err != nil {
		return fmt.Errorf("error closing MongoDB connection: %w", err)
	}
	ur.logger.Println("MongoDB connection closed")
	return nil
}
