package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/goaltracker/api/internal/model"
	"github.com/goaltracker/api/internal/repository"
	"github.com/goaltracker/api/internal/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrForbidden is wrapped by every ownership failure below.
	ErrForbidden = errors.New("forbidden")

	ErrNotGoalAuthor        = fmt.Errorf("%w: you are not the author of this goal", ErrForbidden)
	ErrNotCommentAuthor     = fmt.Errorf("%w: you are not authorized to edit this comment", ErrForbidden)
	ErrNotInformationAuthor = fmt.Errorf("%w: you are not authorized to edit this update", ErrForbidden)

	ErrPicturesDisabled = errors.New("picture uploads are not configured")
)

const (
	MsgCommentUpdated     = "Comment updated successfully"
	MsgCommentDeleted     = "Comment deleted successfully"
	MsgInformationDeleted = "Update deleted successfully"
)

type GoalInput struct {
	Title           string
	StartingDetails string
	Picture         string
}

type InformationInput struct {
	Text    string
	Picture string
}

type GoalService struct {
	repo        repository.GoalRepository
	userService *UserService
	fileService *FileService
}

// NewGoalService wires the goal operations. fileService may be nil, in which
// case picture uploads report ErrPicturesDisabled.
func NewGoalService(repo repository.GoalRepository, userService *UserService, fileService *FileService) *GoalService {
	return &GoalService{
		repo:        repo,
		userService: userService,
		fileService: fileService,
	}
}

func (s *GoalService) Create(ctx context.Context, caller *model.User, input GoalInput) (*model.Goal, error) {
	if err := validation.RequiredText("title", input.Title); err != nil {
		return nil, err
	}
	if err := validation.RequiredText("startingDetails", input.StartingDetails); err != nil {
		return nil, err
	}
	if err := validation.PictureURL(input.Picture); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	goal := &model.Goal{
		Title:           input.Title,
		StartingDetails: input.StartingDetails,
		Picture:         input.Picture,
		AuthorID:        caller.ID,
		Comments:        []*model.Comment{},
		Information:     []*model.Information{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.repo.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	goal.Author = caller
	return goal, nil
}

// Goals returns every goal, newest first. Goals are visible to all signed-in users.
func (s *GoalService) Goals(ctx context.Context) ([]*model.Goal, error) {
	goals, err := s.repo.Goals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	err = s.userService.Hydrate(ctx, goals...)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (s *GoalService) ByID(ctx context.Context, goalID string) (*model.Goal, error) {
	goal, err := s.repo.ByID(ctx, goalID)
	if err != nil {
		return nil, err
	}

	err = s.userService.Hydrate(ctx, goal)
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// ownedGoal loads a goal and checks that caller wrote it.
func (s *GoalService) ownedGoal(ctx context.Context, caller *model.User, goalID string) (*model.Goal, error) {
	goal, err := s.repo.ByID(ctx, goalID)
	if err != nil {
		return nil, err
	}

	if goal.AuthorID != caller.ID {
		return nil, ErrNotGoalAuthor
	}

	return goal, nil
}

// Update overwrites the fields present in update. The author never changes.
func (s *GoalService) Update(ctx context.Context, caller *model.User, goalID string, update model.GoalUpdate) (*model.Goal, error) {
	goal, err := s.ownedGoal(ctx, caller, goalID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		if err := validation.RequiredText("title", *update.Title); err != nil {
			return nil, err
		}
	}
	if update.StartingDetails != nil {
		if err := validation.RequiredText("startingDetails", *update.StartingDetails); err != nil {
			return nil, err
		}
	}
	if update.Picture != nil {
		if err := validation.PictureURL(*update.Picture); err != nil {
			return nil, err
		}
	}

	if update.Empty() {
		err = s.userService.Hydrate(ctx, goal)
		if err != nil {
			return nil, err
		}
		return goal, nil
	}

	updated, err := s.repo.Update(ctx, goal.ID, caller.ID, update)
	if err != nil {
		return nil, err
	}

	err = s.userService.Hydrate(ctx, updated)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the goal with all of its comments and information entries
// and returns what was deleted.
func (s *GoalService) Delete(ctx context.Context, caller *model.User, goalID string) (*model.Goal, error) {
	goal, err := s.ownedGoal(ctx, caller, goalID)
	if err != nil {
		return nil, err
	}

	deleted, err := s.repo.Delete(ctx, goal.ID, caller.ID)
	if err != nil {
		return nil, err
	}

	err = s.userService.Hydrate(ctx, deleted)
	if err != nil {
		slog.Warn("failed to hydrate deleted goal", "error", err, "goal_id", goalID)
		deleted.Author = caller
	}

	return deleted, nil
}

func (s *GoalService) AddComment(ctx context.Context, caller *model.User, goalID, text string) (*model.Comment, error) {
	if err := validation.RequiredText("text", text); err != nil {
		return nil, err
	}

	goal, err := s.repo.ByID(ctx, goalID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	comment := &model.Comment{
		ID:        primitive.NewObjectID(),
		Text:      text,
		AuthorID:  caller.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.repo.PushComment(ctx, goal.ID, comment)
	if err != nil {
		return nil, err
	}

	comment.Author = caller
	return comment, nil
}

// comment resolves goalID/commentID and checks that caller wrote the comment.
func (s *GoalService) comment(ctx context.Context, caller *model.User, goalID, commentID string) (*model.Goal, *model.Comment, error) {
	goal, err := s.repo.ByID(ctx, goalID)
	if err != nil {
		return nil, nil, err
	}

	cid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, nil, repository.ErrCommentNotFound
	}

	comment := goal.Comment(cid)
	if comment == nil {
		return nil, nil, repository.ErrCommentNotFound
	}

	if comment.AuthorID != caller.ID {
		return nil, nil, ErrNotCommentAuthor
	}

	return goal, comment, nil
}

func (s *GoalService) EditComment(ctx context.Context, caller *model.User, goalID, commentID, text string) error {
	goal, comment, err := s.comment(ctx, caller, goalID, commentID)
	if err != nil {
		return err
	}

	if err := validation.RequiredText("text", text); err != nil {
		return err
	}

	return s.repo.SetCommentText(ctx, goal.ID, comment.ID, caller.ID, text)
}

func (s *GoalService) DeleteComment(ctx context.Context, caller *model.User, goalID, commentID string) error {
	goal, comment, err := s.comment(ctx, caller, goalID, commentID)
	if err != nil {
		return err
	}

	return s.repo.PullComment(ctx, goal.ID, comment.ID, caller.ID)
}

// AddInformation posts a progress update. Any signed-in user may post one;
// only its author may remove it.
func (s *GoalService) AddInformation(ctx context.Context, caller *model.User, goalID string, input InformationInput) (*model.Information, error) {
	if err := validation.RequiredText("text", input.Text); err != nil {
		return nil, err
	}
	if err := validation.PictureURL(input.Picture); err != nil {
		return nil, err
	}

	goal, err := s.repo.ByID(ctx, goalID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	info := &model.Information{
		ID:        primitive.NewObjectID(),
		Text:      input.Text,
		Picture:   input.Picture,
		AuthorID:  caller.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.repo.PushInformation(ctx, goal.ID, info)
	if err != nil {
		return nil, err
	}

	info.Author = caller
	return info, nil
}

func (s *GoalService) DeleteInformation(ctx context.Context, caller *model.User, goalID, infoID string) error {
	goal, err := s.repo.ByID(ctx, goalID)
	if err != nil {
		return err
	}

	iid, err := primitive.ObjectIDFromHex(infoID)
	if err != nil {
		return repository.ErrInformationNotFound
	}

	info := goal.InformationEntry(iid)
	if info == nil {
		return repository.ErrInformationNotFound
	}

	if info.AuthorID != caller.ID {
		return ErrNotInformationAuthor
	}

	return s.repo.PullInformation(ctx, goal.ID, info.ID, caller.ID)
}

// UploadPicture stores an image for the goal and points the goal's picture at it.
func (s *GoalService) UploadPicture(ctx context.Context, caller *model.User, goalID string, file multipart.File, header *multipart.FileHeader) (*model.Goal, error) {
	if s.fileService == nil {
		return nil, ErrPicturesDisabled
	}

	goal, err := s.ownedGoal(ctx, caller, goalID)
	if err != nil {
		return nil, err
	}

	stored, err := s.fileService.UploadPicture(ctx, goal.ID.Hex(), file, header)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, goal.ID, caller.ID, model.GoalUpdate{Picture: &stored.URL})
	if err != nil {
		delErr := s.fileService.Delete(ctx, stored.StoragePath)
		if delErr != nil {
			slog.Error("failed to delete picture during rollback", "error", delErr, "path", stored.StoragePath)
		}
		return nil, err
	}

	err = s.userService.Hydrate(ctx, updated)
	if err != nil {
		return nil, err
	}

	return updated, nil
}
