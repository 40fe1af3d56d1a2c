package repository

import (
	"context"
	"errors"

	"github.com/goaltracker/api/internal/db"
	"github.com/goaltracker/api/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already taken")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	ByUsername(ctx context.Context, username string) (*model.User, error)
	ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error)
	Users(ctx context.Context) ([]*model.User, error)
}

type userRepository struct {
	users *mongo.Collection
}

func NewUserRepository(database *db.DB) UserRepository {
	return &userRepository{users: database.Collection(db.UsersCollection)}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	result, err := r.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateUsername
		}
		return err
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *userRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *userRepository) ByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	user := &model.User{}
	err := r.users.FindOne(ctx, filter).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func (r *userRepository) Users(ctx context.Context) ([]*model.User, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
}

func (r *userRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.User, error) {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}

	cursor, err := r.users.Find(ctx, filter, findOpts...)
	if err != nil {
		return nil, err
	}

	users := []*model.User{}
	err = cursor.All(ctx, &users)
	if err != nil {
		return nil, err
	}
	return users, nil
}
