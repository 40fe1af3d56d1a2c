package service

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/goaltracker/api/internal/model"
	"github.com/goaltracker/api/internal/repository"
	"github.com/goaltracker/api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ptr[T any](v T) *T { return &v }

func TestCreateGoalSetsCallerAsAuthor(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	goal := f.goal(t, alice, "Learn Go")

	assert.False(t, goal.ID.IsZero())
	assert.Equal(t, alice.ID, goal.AuthorID)
	require.NotNil(t, goal.Author)
	assert.Equal(t, "alice", goal.Author.Username)
	assert.Empty(t, goal.Comments)
	assert.Empty(t, goal.Information)
}

func TestCreateGoalValidation(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	ctx := context.Background()

	_, err := f.service.Create(ctx, alice, GoalInput{StartingDetails: "details"})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)

	_, err = f.service.Create(ctx, alice, GoalInput{Title: "Learn Go"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "startingDetails", verr.Field)

	goals, err := f.service.Goals(ctx)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestGoalsNewestFirstWithAuthors(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	first := f.goal(t, alice, "First")
	second := f.goal(t, bob, "Second")
	third := f.goal(t, alice, "Third")

	goals, err := f.service.Goals(context.Background())
	require.NoError(t, err)
	require.Len(t, goals, 3)

	assert.Equal(t, []primitive.ObjectID{third.ID, second.ID, first.ID},
		[]primitive.ObjectID{goals[0].ID, goals[1].ID, goals[2].ID})
	assert.Equal(t, "alice", goals[0].Author.Username)
	assert.Equal(t, "bob", goals[1].Author.Username)
}

func TestByIDExpandsCommentAuthors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	goal := f.goal(t, alice, "Learn Go")

	_, err := f.service.AddComment(ctx, bob, goal.ID.Hex(), "Nice goal")
	require.NoError(t, err)

	got, err := f.service.ByID(ctx, goal.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Author.Username)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "bob", got.Comments[0].Author.Username)
}

func TestByIDMissingGoal(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ByID(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	_, err = f.service.ByID(context.Background(), "not-an-object-id")
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)
}

func TestByIDKeepsReferenceForDeletedAuthor(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	goal := f.goal(t, alice, "Learn Go")
	f.users.Delete(alice.ID)

	got, err := f.service.ByID(context.Background(), goal.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, got.Author)
	assert.Equal(t, alice.ID, got.Author.ID)
	assert.Empty(t, got.Author.Username)
}

func TestUpdateGoal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	goal := f.goal(t, alice, "Learn Go")

	t.Run("non author is forbidden and nothing changes", func(t *testing.T) {
		_, err := f.service.Update(ctx, bob, goal.ID.Hex(), model.GoalUpdate{Title: ptr("Hacked")})
		assert.ErrorIs(t, err, ErrForbidden)
		assert.ErrorIs(t, err, ErrNotGoalAuthor)

		got, err := f.service.ByID(ctx, goal.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, "Learn Go", got.Title)
	})

	t.Run("author overwrites only given fields", func(t *testing.T) {
		updated, err := f.service.Update(ctx, alice, goal.ID.Hex(), model.GoalUpdate{Title: ptr("Hacked")})
		require.NoError(t, err)
		assert.Equal(t, "Hacked", updated.Title)
		assert.Equal(t, "Start with syntax", updated.StartingDetails)
		assert.Equal(t, alice.ID, updated.AuthorID)
		assert.Equal(t, "alice", updated.Author.Username)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		_, err := f.service.Update(ctx, alice, goal.ID.Hex(), model.GoalUpdate{Title: ptr(" ")})
		var verr *validation.Error
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("author survives many updates", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			_, err := f.service.Update(ctx, alice, goal.ID.Hex(), model.GoalUpdate{StartingDetails: ptr(strings.Repeat("x", i+1))})
			require.NoError(t, err)
		}
		got, err := f.service.ByID(ctx, goal.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.AuthorID)
	})

	t.Run("empty update returns goal unchanged", func(t *testing.T) {
		before, err := f.service.ByID(ctx, goal.ID.Hex())
		require.NoError(t, err)

		got, err := f.service.Update(ctx, alice, goal.ID.Hex(), model.GoalUpdate{})
		require.NoError(t, err)
		assert.Equal(t, before.Title, got.Title)
		assert.Equal(t, before.UpdatedAt, got.UpdatedAt)
		assert.Equal(t, "alice", got.Author.Username)
	})

	t.Run("missing goal", func(t *testing.T) {
		_, err := f.service.Update(ctx, alice, primitive.NewObjectID().Hex(), model.GoalUpdate{Title: ptr("x")})
		assert.ErrorIs(t, err, repository.ErrGoalNotFound)
	})
}

func TestDeleteGoal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	goal := f.goal(t, alice, "Learn Go")

	_, err := f.service.AddComment(ctx, bob, goal.ID.Hex(), "Nice goal")
	require.NoError(t, err)
	_, err = f.service.AddInformation(ctx, alice, goal.ID.Hex(), InformationInput{Text: "Week one"})
	require.NoError(t, err)

	_, err = f.service.Delete(ctx, bob, goal.ID.Hex())
	assert.ErrorIs(t, err, ErrNotGoalAuthor)

	deleted, err := f.service.Delete(ctx, alice, goal.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Learn Go", deleted.Title)
	assert.Len(t, deleted.Comments, 1)
	assert.Len(t, deleted.Information, 1)

	_, err = f.service.ByID(ctx, goal.ID.Hex())
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	_, err = f.service.Delete(ctx, alice, goal.ID.Hex())
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)
}

func TestComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	carol := f.user(t, "carol")
	goal := f.goal(t, bob, "Run a marathon")

	mine, err := f.service.AddComment(ctx, alice, goal.ID.Hex(), "Nice goal")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, mine.AuthorID)
	assert.Equal(t, "alice", mine.Author.Username)

	other, err := f.service.AddComment(ctx, carol, goal.ID.Hex(), "Good luck")
	require.NoError(t, err)

	t.Run("append grows by one", func(t *testing.T) {
		got, err := f.service.ByID(ctx, goal.ID.Hex())
		require.NoError(t, err)
		assert.Len(t, got.Comments, 2)
	})

	t.Run("only the comment author can edit", func(t *testing.T) {
		err := f.service.EditComment(ctx, carol, goal.ID.Hex(), mine.ID.Hex(), "Changed")
		assert.ErrorIs(t, err, ErrNotCommentAuthor)

		// The goal author has no say over other people's comments either.
		err = f.service.EditComment(ctx, bob, goal.ID.Hex(), mine.ID.Hex(), "Changed")
		assert.ErrorIs(t, err, ErrNotCommentAuthor)

		got, err := f.service.ByID(ctx, goal.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, "Nice goal", got.Comment(mine.ID).Text)

		require.NoError(t, f.service.EditComment(ctx, alice, goal.ID.Hex(), mine.ID.Hex(), "Great goal"))
		got, err = f.service.ByID(ctx, goal.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, "Great goal", got.Comment(mine.ID).Text)
		assert.Equal(t, alice.ID, got.Comment(mine.ID).AuthorID)
	})

	t.Run("delete removes exactly one", func(t *testing.T) {
		err := f.service.DeleteComment(ctx, alice, goal.ID.Hex(), other.ID.Hex())
		assert.ErrorIs(t, err, ErrNotCommentAuthor)

		require.NoError(t, f.service.DeleteComment(ctx, alice, goal.ID.Hex(), mine.ID.Hex()))

		got, err := f.service.ByID(ctx, goal.ID.Hex())
		require.NoError(t, err)
		require.Len(t, got.Comments, 1)
		assert.Equal(t, other.ID, got.Comments[0].ID)
		assert.Equal(t, "Good luck", got.Comments[0].Text)
	})

	t.Run("missing references", func(t *testing.T) {
		err := f.service.EditComment(ctx, alice, goal.ID.Hex(), primitive.NewObjectID().Hex(), "x")
		assert.ErrorIs(t, err, repository.ErrCommentNotFound)

		err = f.service.DeleteComment(ctx, alice, goal.ID.Hex(), "bogus")
		assert.ErrorIs(t, err, repository.ErrCommentNotFound)

		_, err = f.service.AddComment(ctx, alice, primitive.NewObjectID().Hex(), "hello")
		assert.ErrorIs(t, err, repository.ErrGoalNotFound)
	})

	t.Run("empty text rejected", func(t *testing.T) {
		_, err := f.service.AddComment(ctx, alice, goal.ID.Hex(), "")
		var verr *validation.Error
		assert.ErrorAs(t, err, &verr)
	})
}

func TestInformation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	goal := f.goal(t, alice, "Learn Go")

	info, err := f.service.AddInformation(ctx, alice, goal.ID.Hex(), InformationInput{
		Text:    "Finished the tour",
		Picture: "https://cdn.example.com/tour.png",
	})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, info.AuthorID)
	assert.Equal(t, "alice", info.Author.Username)
	assert.Equal(t, "https://cdn.example.com/tour.png", info.Picture)

	keep, err := f.service.AddInformation(ctx, bob, goal.ID.Hex(), InformationInput{Text: "Cheering you on"})
	require.NoError(t, err)

	err = f.service.DeleteInformation(ctx, bob, goal.ID.Hex(), info.ID.Hex())
	assert.ErrorIs(t, err, ErrNotInformationAuthor)

	require.NoError(t, f.service.DeleteInformation(ctx, alice, goal.ID.Hex(), info.ID.Hex()))

	got, err := f.service.ByID(ctx, goal.ID.Hex())
	require.NoError(t, err)
	require.Len(t, got.Information, 1)
	assert.Equal(t, keep.ID, got.Information[0].ID)

	err = f.service.DeleteInformation(ctx, alice, goal.ID.Hex(), info.ID.Hex())
	assert.ErrorIs(t, err, repository.ErrInformationNotFound)
}

func TestStoreFailuresSurface(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	f.goals.Err = errors.New("connection refused")

	_, err := f.service.Goals(context.Background())
	assert.ErrorContains(t, err, "connection refused")

	_, err = f.service.Create(context.Background(), alice, GoalInput{Title: "a", StartingDetails: "b"})
	assert.ErrorContains(t, err, "connection refused")
}

func pictureUpload(t *testing.T, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("picture", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	header := form.File["picture"][0]
	file, err := header.Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })
	return file, header
}

func TestUploadPicture(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	goal := f.goal(t, alice, "Learn Go")
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	file, header := pictureUpload(t, "goal.png", png)
	_, err := f.service.UploadPicture(ctx, bob, goal.ID.Hex(), file, header)
	assert.ErrorIs(t, err, ErrNotGoalAuthor)

	file, header = pictureUpload(t, "goal.png", png)
	updated, err := f.service.UploadPicture(ctx, alice, goal.ID.Hex(), file, header)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(updated.Picture, "https://cdn.test/public/goal_pictures/"+goal.ID.Hex()+"/"))
	assert.Len(t, f.storage.objects, 1)

	file, header = pictureUpload(t, "notes.txt", []byte("plain text"))
	_, err = f.service.UploadPicture(ctx, alice, goal.ID.Hex(), file, header)
	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)
}

func TestUploadPictureDisabled(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	goal := f.goal(t, alice, "Learn Go")
	svc := NewGoalService(f.goals, NewUserService(f.users), nil)

	_, err := svc.UploadPicture(context.Background(), alice, goal.ID.Hex(), nil, nil)
	assert.ErrorIs(t, err, ErrPicturesDisabled)
}
