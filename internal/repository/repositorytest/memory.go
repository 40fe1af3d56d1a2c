// Package repositorytest provides in-memory repositories with the same
// semantics as the MongoDB ones, for use in tests.
package repositorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goaltracker/api/internal/model"
	"github.com/goaltracker/api/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]model.User

	// Err, when set, is returned by every call.
	Err error
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: map[primitive.ObjectID]model.User{}}
}

func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}

	for _, u := range r.users {
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) ByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrUserNotFound
	}
	u, ok := r.users[oid]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) ByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}

	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *UserRepository) ByIDs(_ context.Context, ids []primitive.ObjectID) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}

	var users []*model.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, &u)
		}
	}
	return users, nil
}

func (r *UserRepository) Users(_ context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}

	users := []*model.User{}
	for _, u := range r.users {
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

// Delete removes a user, leaving any goals that reference it in place.
func (r *UserRepository) Delete(id primitive.ObjectID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

type GoalRepository struct {
	mu    sync.RWMutex
	goals map[primitive.ObjectID]*model.Goal

	// Err, when set, is returned by every call.
	Err error
}

func NewGoalRepository() *GoalRepository {
	return &GoalRepository{goals: map[primitive.ObjectID]*model.Goal{}}
}

// clone mimics a round trip through the store: callers never share memory
// with what is stored, and read-time fields are dropped.
func clone(g *model.Goal) *model.Goal {
	c := *g
	c.Author = nil
	c.Comments = make([]*model.Comment, 0, len(g.Comments))
	for _, comment := range g.Comments {
		cc := *comment
		cc.Author = nil
		c.Comments = append(c.Comments, &cc)
	}
	c.Information = make([]*model.Information, 0, len(g.Information))
	for _, info := range g.Information {
		ic := *info
		ic.Author = nil
		c.Information = append(c.Information, &ic)
	}
	return &c
}

func (r *GoalRepository) Create(_ context.Context, goal *model.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}

	if goal.ID.IsZero() {
		goal.ID = primitive.NewObjectID()
	}
	r.goals[goal.ID] = clone(goal)
	return nil
}

func (r *GoalRepository) ByID(_ context.Context, goalID string) (*model.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}

	oid, err := primitive.ObjectIDFromHex(goalID)
	if err != nil {
		return nil, repository.ErrGoalNotFound
	}
	g, ok := r.goals[oid]
	if !ok {
		return nil, repository.ErrGoalNotFound
	}
	return clone(g), nil
}

func (r *GoalRepository) Goals(_ context.Context) ([]*model.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}

	goals := []*model.Goal{}
	for _, g := range r.goals {
		goals = append(goals, clone(g))
	}
	sort.Slice(goals, func(i, j int) bool {
		if goals[i].CreatedAt.Equal(goals[j].CreatedAt) {
			return goals[i].ID.Hex() > goals[j].ID.Hex()
		}
		return goals[i].CreatedAt.After(goals[j].CreatedAt)
	})
	return goals, nil
}

func (r *GoalRepository) owned(goalID, authorID primitive.ObjectID) (*model.Goal, error) {
	g, ok := r.goals[goalID]
	if !ok || g.AuthorID != authorID {
		return nil, repository.ErrGoalNotFound
	}
	return g, nil
}

func (r *GoalRepository) Update(_ context.Context, goalID, authorID primitive.ObjectID, update model.GoalUpdate) (*model.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	g, err := r.owned(goalID, authorID)
	if err != nil {
		return nil, err
	}
	if update.Title != nil {
		g.Title = *update.Title
	}
	if update.StartingDetails != nil {
		g.StartingDetails = *update.StartingDetails
	}
	if update.Picture != nil {
		g.Picture = *update.Picture
	}
	g.UpdatedAt = time.Now().UTC()
	return clone(g), nil
}

func (r *GoalRepository) Delete(_ context.Context, goalID, authorID primitive.ObjectID) (*model.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	g, err := r.owned(goalID, authorID)
	if err != nil {
		return nil, err
	}
	delete(r.goals, goalID)
	return clone(g), nil
}

func (r *GoalRepository) PushComment(_ context.Context, goalID primitive.ObjectID, comment *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}

	g, ok := r.goals[goalID]
	if !ok {
		return repository.ErrGoalNotFound
	}
	c := *comment
	c.Author = nil
	g.Comments = append(g.Comments, &c)
	g.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *GoalRepository) SetCommentText(_ context.Context, goalID, commentID, authorID primitive.ObjectID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}

	g, ok := r.goals[goalID]
	if !ok {
		return repository.ErrCommentNotFound
	}
	c := g.Comment(commentID)
	if c == nil || c.AuthorID != authorID {
		return repository.ErrCommentNotFound
	}
	now := time.Now().UTC()
	c.Text = text
	c.UpdatedAt = now
	g.UpdatedAt = now
	return nil
}

func (r *GoalRepository) PullComment(_ context.Context, goalID, commentID, authorID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}

	g, ok := r.goals[goalID]
	if !ok {
		return repository.ErrCommentNotFound
	}
	for i, c := range g.Comments {
		if c.ID == commentID && c.AuthorID == authorID {
			g.Comments = append(g.Comments[:i:i], g.Comments[i+1:]...)
			g.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return repository.ErrCommentNotFound
}

func (r *GoalRepository) PushInformation(_ context.Context, goalID primitive.ObjectID, info *model.Information) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}

	g, ok := r.goals[goalID]
	if !ok {
		return repository.ErrGoalNotFound
	}
	i := *info
	i.Author = nil
	g.Information = append(g.Information, &i)
	g.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *GoalRepository) PullInformation(_ context.Context, goalID, infoID, authorID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}

	g, ok := r.goals[goalID]
	if !ok {
		return repository.ErrInformationNotFound
	}
	for i, info := range g.Information {
		if info.ID == infoID && info.AuthorID == authorID {
			g.Information = append(g.Information[:i:i], g.Information[i+1:]...)
			g.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return repository.ErrInformationNotFound
}

var (
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.GoalRepository = (*GoalRepository)(nil)
)
