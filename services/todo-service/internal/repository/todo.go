package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/todo-api/services/todo-service/internal/model"
)

// TodoRepository defines the interface for todo-related database operations.
//
// Every method that takes a todo id also takes the id of the caller and
// matches on both in the same query, so a todo owned by somebody else is
// indistinguishable from one that does not exist (ErrNotFound).
type TodoRepository interface {
	CreateTodo(ctx context.Context, todo *model.Todo) (*model.Todo, error)
	ListTodos(ctx context.Context, createdBy bson.ObjectID) ([]*model.Todo, error)
	GetTodo(ctx context.Context, id string, createdBy bson.ObjectID) (*model.Todo, error)
	UpdateTodo(ctx context.Context, id string, createdBy bson.ObjectID, params UpdateTodoParams) (*model.Todo, error)
	DeleteTodo(ctx context.Context, id string, createdBy bson.ObjectID) (*model.Todo, error)
}

// UpdateTodoParams replaces the completion state of a todo. Text is only
// written when not nil.
type UpdateTodoParams struct {
	Text        *string
	Completed   bool
	CompletedAt *time.Time
}

const todoCollection = "todos"

type todoMongoRepository struct {
	db *mongo.Database
}

func NewTodoMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) TodoRepository {
	collection := db.Collection(todoCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "created_by", Value: 1}, {Key: "_id", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create todo indexes")
	}

	return &todoMongoRepository{db: db}
}

func (r *todoMongoRepository) CreateTodo(ctx context.Context, todo *model.Todo) (*model.Todo, error) {
	now := time.Now()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	result, err := r.db.Collection(todoCollection).InsertOne(ctx, todo)
	if err != nil {
		return nil, mapMongoError(err)
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		todo.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return todo, nil
}

func (r *todoMongoRepository) ListTodos(ctx context.Context, createdBy bson.ObjectID) ([]*model.Todo, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.db.Collection(todoCollection).Find(ctx, bson.M{"created_by": createdBy}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	todos := []*model.Todo{}
	for cursor.Next(ctx) {
		var todo model.Todo
		if err := cursor.Decode(&todo); err != nil {
			return nil, err
		}
		todos = append(todos, &todo)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return todos, nil
}

func (r *todoMongoRepository) GetTodo(ctx context.Context, id string, createdBy bson.ObjectID) (*model.Todo, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(todoCollection).FindOne(ctx, bson.M{"_id": objectID, "created_by": createdBy})

	return decodeTodo(result)
}

func (r *todoMongoRepository) UpdateTodo(
	ctx context.Context,
	id string,
	createdBy bson.ObjectID,
	params UpdateTodoParams,
) (*model.Todo, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	updateMap := bson.M{
		"completed":    params.Completed,
		"completed_at": params.CompletedAt,
		"updated_at":   time.Now(),
	}
	if params.Text != nil {
		updateMap["text"] = *params.Text
	}

	result := r.db.Collection(todoCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID, "created_by": createdBy},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	return decodeTodo(result)
}

func (r *todoMongoRepository) DeleteTodo(ctx context.Context, id string, createdBy bson.ObjectID) (*model.Todo, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(todoCollection).FindOneAndDelete(ctx, bson.M{"_id": objectID, "created_by": createdBy})

	return decodeTodo(result)
}

func decodeTodo(result *mongo.SingleResult) (*model.Todo, error) {
	if result.Err() != nil {
		return nil, mapMongoError(result.Err())
	}

	var todo model.Todo
	if err := result.Decode(&todo); err != nil {
		return nil, err
	}

	return &todo, nil
}
