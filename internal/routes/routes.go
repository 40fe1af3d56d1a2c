package routes

import (
	"net/http"

	"github.com/goaltracker/api/internal/app"
	"github.com/goaltracker/api/internal/handler"
	"github.com/goaltracker/api/internal/middleware"
	"github.com/goaltracker/api/internal/render"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	users := handler.NewUserHandler(app.UserService)
	goal := handler.NewGoalHandler(app.GoalService)
	health := handler.NewHealthHandler(app.DB)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /health", health.Health)

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth(app.AuthLimiter)

	mux.HandleFunc("POST /auth/sign-up", rateLimiter(auth.SignUp))
	mux.HandleFunc("POST /auth/sign-in", rateLimiter(auth.SignIn))

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Users
	mux.HandleFunc("GET /users", middleware.RequireAuth(users.Users))
	mux.HandleFunc("GET /users/{userId}", middleware.RequireAuth(users.User))

	// Goals
	mux.HandleFunc("GET /goals", middleware.RequireAuth(goal.Goals))
	mux.HandleFunc("POST /goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /goals/{goalId}", middleware.RequireAuth(goal.Goal))
	mux.HandleFunc("PUT /goals/{goalId}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("DELETE /goals/{goalId}", middleware.RequireAuth(goal.Delete))
	mux.HandleFunc("POST /goals/{goalId}/picture", middleware.RequireAuth(goal.UploadPicture))

	// Comments
	mux.HandleFunc("POST /goals/{goalId}/comments", middleware.RequireAuth(goal.AddComment))
	mux.HandleFunc("PUT /goals/{goalId}/comments/{commentId}", middleware.RequireAuth(goal.EditComment))
	mux.HandleFunc("DELETE /goals/{goalId}/comments/{commentId}", middleware.RequireAuth(goal.DeleteComment))

	// Information
	mux.HandleFunc("POST /goals/{goalId}/information", middleware.RequireAuth(goal.AddInformation))
	mux.HandleFunc("DELETE /goals/{goalId}/information/{informationId}", middleware.RequireAuth(goal.DeleteInformation))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		render.Error(w, http.StatusNotFound, render.KindNotFound, "route not found")
	})

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.RequestLogging,
		middleware.CORS(app.Cfg.FrontendURL), // Before auth so preflights never need a token
		middleware.AuthMiddleware(app.AuthService, app.UserService),
	)

	return handler
}
