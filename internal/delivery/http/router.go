package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"danceregistry/internal/delivery/http/controllers"
	"danceregistry/internal/delivery/http/helpers"
	"danceregistry/internal/delivery/http/middleware"
	"danceregistry/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	environment string,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	registrationController *controllers.RegistrationController,
) *http.ServeMux {
	mux := http.NewServeMux()
	admin := middleware.RequireAdmin(verifier)

	// Health
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{
			"status":      "ok",
			"environment": environment,
		})
	})

	// Auth
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("POST /auth/verify", authController.Verify)

	// Events. The active-event lookup is public; everything else is admin-only.
	mux.HandleFunc("GET /events/active", eventController.GetActiveEvent)
	mux.HandleFunc("GET /events", admin(eventController.ListEvents))
	mux.HandleFunc("POST /events", admin(eventController.CreateEvent))
	mux.HandleFunc("GET /events/{eventID}", admin(eventController.GetEventByID))
	mux.HandleFunc("PATCH /events/{eventID}", admin(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", admin(eventController.DeleteEvent))
	mux.HandleFunc("PATCH /events/{eventID}/activate", admin(eventController.ActivateEvent))

	// Registrations. Creation is public; management is admin-only.
	mux.HandleFunc("POST /registrations", registrationController.CreateRegistration)
	mux.HandleFunc("GET /registrations", admin(registrationController.ListRegistrations))
	mux.HandleFunc("GET /registrations/stats/overview", admin(registrationController.GetStats))
	mux.HandleFunc("GET /registrations/{registrationID}", admin(registrationController.GetRegistrationByID))
	mux.HandleFunc("PATCH /registrations/{registrationID}/status", admin(registrationController.UpdateRegistrationStatus))
	mux.HandleFunc("DELETE /registrations/{registrationID}", admin(registrationController.DeleteRegistration))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
