package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/goaltracker/api/internal/model"
	"github.com/goaltracker/api/internal/repository/repositorytest"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (s *memoryStorage) Save(_ context.Context, path string, file io.Reader, _ string) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = data
	return nil
}

func (s *memoryStorage) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	return nil
}

func (s *memoryStorage) URL(_ context.Context, path string) string {
	return "https://cdn.test/" + path
}

type fixture struct {
	users   *repositorytest.UserRepository
	goals   *repositorytest.GoalRepository
	storage *memoryStorage
	service *GoalService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := repositorytest.NewUserRepository()
	goals := repositorytest.NewGoalRepository()
	storage := newMemoryStorage()
	return &fixture{
		users:   users,
		goals:   goals,
		storage: storage,
		service: NewGoalService(goals, NewUserService(users), NewFileService(storage)),
	}
}

func (f *fixture) user(t *testing.T, username string) *model.User {
	t.Helper()
	now := time.Now().UTC()
	u := &model.User{Username: username, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) goal(t *testing.T, author *model.User, title string) *model.Goal {
	t.Helper()
	goal, err := f.service.Create(context.Background(), author, GoalInput{
		Title:           title,
		StartingDetails: "Start with syntax",
	})
	require.NoError(t, err)
	return goal
}
