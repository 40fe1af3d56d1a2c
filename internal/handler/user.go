package handler

import (
	"net/http"

	"github.com/goaltracker/api/internal/render"
	"github.com/goaltracker/api/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.Users(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, users)
}

func (h *UserHandler) User(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.ByID(r.Context(), r.PathValue("userId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, user)
}
