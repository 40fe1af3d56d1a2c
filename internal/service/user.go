package service

import (
	"context"
	"fmt"

	"github.com/goaltracker/api/internal/model"
	"github.com/goaltracker/api/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	userRepository repository.UserRepository
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{userRepository: userRepository}
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	return s.userRepository.ByID(ctx, id)
}

func (s *UserService) Users(ctx context.Context) ([]*model.User, error) {
	return s.userRepository.Users(ctx)
}

// Hydrate replaces the stored author references of the given goals (and of
// their comments and information entries) with full users, using one lookup
// for all of them. Authors that no longer exist keep a bare reference.
func (s *UserService) Hydrate(ctx context.Context, goals ...*model.Goal) error {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, goal := range goals {
		for _, id := range goal.AuthorIDs() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	users, err := s.userRepository.ByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load authors: %w", err)
	}

	byID := make(map[primitive.ObjectID]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	resolve := func(id primitive.ObjectID) *model.User {
		if u, ok := byID[id]; ok {
			return u
		}
		return model.UserRef(id)
	}

	for _, goal := range goals {
		goal.Author = resolve(goal.AuthorID)
		for _, c := range goal.Comments {
			c.Author = resolve(c.AuthorID)
		}
		for _, info := range goal.Information {
			info.Author = resolve(info.AuthorID)
		}
	}

	return nil
}
