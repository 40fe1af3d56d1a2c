package repository

import (
	"context"
	"errors"
	"time"

	"github.com/goaltracker/api/internal/db"
	"github.com/goaltracker/api/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrGoalNotFound        = errors.New("goal not found")
	ErrCommentNotFound     = errors.New("comment not found")
	ErrInformationNotFound = errors.New("information not found")
)

// GoalRepository stores goals as single documents. Every mutation is one
// update against one document, so embedded comments and information entries
// change atomically with their goal.
type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, goalID string) (*model.Goal, error)
	Goals(ctx context.Context) ([]*model.Goal, error)
	Update(ctx context.Context, goalID, authorID primitive.ObjectID, update model.GoalUpdate) (*model.Goal, error)
	Delete(ctx context.Context, goalID, authorID primitive.ObjectID) (*model.Goal, error)

	PushComment(ctx context.Context, goalID primitive.ObjectID, comment *model.Comment) error
	SetCommentText(ctx context.Context, goalID, commentID, authorID primitive.ObjectID, text string) error
	PullComment(ctx context.Context, goalID, commentID, authorID primitive.ObjectID) error

	PushInformation(ctx context.Context, goalID primitive.ObjectID, info *model.Information) error
	PullInformation(ctx context.Context, goalID, infoID, authorID primitive.ObjectID) error
}

type goalRepository struct {
	goals *mongo.Collection
}

func NewGoalRepository(database *db.DB) GoalRepository {
	return &goalRepository{goals: database.Collection(db.GoalsCollection)}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	if goal.Comments == nil {
		goal.Comments = []*model.Comment{}
	}
	if goal.Information == nil {
		goal.Information = []*model.Information{}
	}

	result, err := r.goals.InsertOne(ctx, goal)
	if err != nil {
		return err
	}

	goal.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *goalRepository) ByID(ctx context.Context, goalID string) (*model.Goal, error) {
	oid, ok := objectID(goalID)
	if !ok {
		return nil, ErrGoalNotFound
	}

	goal := &model.Goal{}
	err := r.goals.FindOne(ctx, bson.M{"_id": oid}).Decode(goal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) Goals(ctx context.Context) ([]*model.Goal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.goals.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	goals := []*model.Goal{}
	err = cursor.All(ctx, &goals)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) Update(ctx context.Context, goalID, authorID primitive.ObjectID, update model.GoalUpdate) (*model.Goal, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.StartingDetails != nil {
		set["startingDetails"] = *update.StartingDetails
	}
	if update.Picture != nil {
		set["picture"] = *update.Picture
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	goal := &model.Goal{}
	err := r.goals.FindOneAndUpdate(ctx,
		bson.M{"_id": goalID, "author": authorID},
		bson.M{"$set": set},
		opts,
	).Decode(goal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) Delete(ctx context.Context, goalID, authorID primitive.ObjectID) (*model.Goal, error) {
	goal := &model.Goal{}
	err := r.goals.FindOneAndDelete(ctx, bson.M{"_id": goalID, "author": authorID}).Decode(goal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) PushComment(ctx context.Context, goalID primitive.ObjectID, comment *model.Comment) error {
	return r.push(ctx, goalID, "comments", comment)
}

func (r *goalRepository) SetCommentText(ctx context.Context, goalID, commentID, authorID primitive.ObjectID, text string) error {
	now := time.Now().UTC()

	result, err := r.goals.UpdateOne(ctx,
		bson.M{
			"_id":      goalID,
			"comments": bson.M{"$elemMatch": bson.M{"_id": commentID, "author": authorID}},
		},
		bson.M{"$set": bson.M{
			"comments.$.text":      text,
			"comments.$.updatedAt": now,
			"updatedAt":            now,
		}},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return ErrCommentNotFound
	}

	return nil
}

func (r *goalRepository) PullComment(ctx context.Context, goalID, commentID, authorID primitive.ObjectID) error {
	return r.pull(ctx, goalID, "comments", commentID, authorID, ErrCommentNotFound)
}

func (r *goalRepository) PushInformation(ctx context.Context, goalID primitive.ObjectID, info *model.Information) error {
	return r.push(ctx, goalID, "information", info)
}

func (r *goalRepository) PullInformation(ctx context.Context, goalID, infoID, authorID primitive.ObjectID) error {
	return r.pull(ctx, goalID, "information", infoID, authorID, ErrInformationNotFound)
}

func (r *goalRepository) push(ctx context.Context, goalID primitive.ObjectID, field string, entry any) error {
	result, err := r.goals.UpdateOne(ctx,
		bson.M{"_id": goalID},
		bson.M{
			"$push": bson.M{field: entry},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return ErrGoalNotFound
	}

	return nil
}

func (r *goalRepository) pull(ctx context.Context, goalID primitive.ObjectID, field string, entryID, authorID primitive.ObjectID, notFound error) error {
	result, err := r.goals.UpdateOne(ctx,
		bson.M{
			"_id": goalID,
			field: bson.M{"$elemMatch": bson.M{"_id": entryID, "author": authorID}},
		},
		bson.M{
			"$pull": bson.M{field: bson.M{"_id": entryID}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return notFound
	}

	return nil
}
