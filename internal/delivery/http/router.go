package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"studyenrollment/internal/delivery/http/controllers"
	"studyenrollment/internal/delivery/http/helpers"
	"studyenrollment/internal/delivery/http/middleware"
	"studyenrollment/internal/domain"
)

// RouterConfig holds what NewRouter needs besides the controllers.
type RouterConfig struct {
	Verifier       domain.TokenVerifier
	Logger         *slog.Logger
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes, wrapped in
// request logging and CORS.
func NewRouter(cfg RouterConfig, eventController *controllers.EventController, enrollmentController *controllers.EnrollmentController) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)

	// Events
	mux.HandleFunc("POST /events", auth(eventController.CreateEvent))
	mux.HandleFunc("GET /events/{eventID}", auth(eventController.GetEvent))
	mux.HandleFunc("PATCH /events/{eventID}/capacity", auth(eventController.UpdateCapacity))

	// Enrollments
	mux.HandleFunc("POST /events/{eventID}/enroll", auth(enrollmentController.Enroll))
	mux.HandleFunc("POST /events/{eventID}/disenroll", auth(enrollmentController.Disenroll))
	mux.HandleFunc("GET /events/{eventID}/enrollments", auth(enrollmentController.ListEnrollments))
	mux.HandleFunc("POST /events/{eventID}/enrollments/{accountID}/accept", auth(enrollmentController.AcceptEnrollment))
	mux.HandleFunc("POST /events/{eventID}/enrollments/{accountID}/reject", auth(enrollmentController.RejectEnrollment))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(cfg.Logger, middleware.CORS(cfg.AllowedOrigins, mux))
}
