package handler

import (
	"errors"
	"net/http"

	"github.com/goaltracker/api/internal/ctxkeys"
	"github.com/goaltracker/api/internal/model"
	"github.com/goaltracker/api/internal/render"
	"github.com/goaltracker/api/internal/service"
	"github.com/goaltracker/api/internal/validation"
)

const maxPictureUpload = 10 << 20

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

type goalRequest struct {
	Title           *string `json:"title"`
	StartingDetails *string `json:"startingDetails"`
	Picture         *string `json:"picture"`
}

type commentRequest struct {
	Text string `json:"text"`
}

type informationRequest struct {
	Text    string `json:"text"`
	Picture string `json:"picture"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	goal, err := h.goalService.Create(r.Context(), user, service.GoalInput{
		Title:           deref(req.Title),
		StartingDetails: deref(req.StartingDetails),
		Picture:         deref(req.Picture),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Goals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.goalService.Goals(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Goal(w http.ResponseWriter, r *http.Request) {
	goal, err := h.goalService.ByID(r.Context(), r.PathValue("goalId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, goal)
}

// Update overwrites only the fields present in the body.
func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	goal, err := h.goalService.Update(r.Context(), user, r.PathValue("goalId"), model.GoalUpdate{
		Title:           req.Title,
		StartingDetails: req.StartingDetails,
		Picture:         req.Picture,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goal, err := h.goalService.Delete(r.Context(), user, r.PathValue("goalId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, goal)
}

// UploadPicture accepts a multipart form with the image in the "picture" field.
func (h *GoalHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxPictureUpload+(1<<20))
	err := r.ParseMultipartForm(maxPictureUpload)
	if err != nil {
		writeError(w, r, &validation.Error{Field: "picture", Message: "expected a multipart form no larger than 10MB"})
		return
	}

	file, header, err := r.FormFile("picture")
	if errors.Is(err, http.ErrMissingFile) {
		writeError(w, r, &validation.Error{Field: "picture", Message: "picture is required"})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	goal, err := h.goalService.UploadPicture(r.Context(), user, r.PathValue("goalId"), file, header)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	comment, err := h.goalService.AddComment(r.Context(), user, r.PathValue("goalId"), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, comment)
}

func (h *GoalHandler) EditComment(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	err := h.goalService.EditComment(r.Context(), user, r.PathValue("goalId"), r.PathValue("commentId"), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Message(w, http.StatusOK, service.MsgCommentUpdated)
}

func (h *GoalHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.goalService.DeleteComment(r.Context(), user, r.PathValue("goalId"), r.PathValue("commentId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Message(w, http.StatusOK, service.MsgCommentDeleted)
}

func (h *GoalHandler) AddInformation(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req informationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	info, err := h.goalService.AddInformation(r.Context(), user, r.PathValue("goalId"), service.InformationInput{
		Text:    req.Text,
		Picture: req.Picture,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, info)
}

func (h *GoalHandler) DeleteInformation(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.goalService.DeleteInformation(r.Context(), user, r.PathValue("goalId"), r.PathValue("informationId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Message(w, http.StatusOK, service.MsgInformationDeleted)
}
