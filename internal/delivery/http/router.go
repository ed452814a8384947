package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventbooking/internal/adapters/images"
	"eventbooking/internal/delivery/http/controllers"
	"eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/delivery/http/middleware"
	"eventbooking/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// uploadDir is served read-only under /images/ so stored image URLs resolve.
func NewRouter(eventController *controllers.EventController, authController *controllers.AuthController, verifier domain.TokenVerifier, uploadDir string) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier)

	// Public event reads
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEvent)

	// Organizer operations
	mux.HandleFunc("GET /events/my-events", requireAuth(eventController.ListMyEvents))
	mux.HandleFunc("GET /events/{eventID}/attendees", requireAuth(eventController.GetAttendees))
	mux.HandleFunc("POST /events", requireAuth(eventController.CreateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", requireAuth(eventController.DeleteEvent))
	mux.HandleFunc("POST /events/{eventID}/announce", requireAuth(eventController.Announce))

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Uploaded event images
	mux.Handle("GET "+images.PublicPath, http.StripPrefix(images.PublicPath, http.FileServer(http.Dir(uploadDir))))

	// Health
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
