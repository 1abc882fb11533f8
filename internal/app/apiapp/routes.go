package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authsvc "github.com/SilverAnton/UserIteractionProj/internal/services/auth"
	listingsvc "github.com/SilverAnton/UserIteractionProj/internal/services/listing"
	matchessvc "github.com/SilverAnton/UserIteractionProj/internal/services/matches"
	userssvc "github.com/SilverAnton/UserIteractionProj/internal/services/users"
	"github.com/SilverAnton/UserIteractionProj/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService    *authsvc.Service
	UserService    *userssvc.Service
	MatchService   *matchessvc.Service
	ListingService *listingsvc.Service
	Logger         *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	usersHandler := handlers.NewUsersHandler(deps.UserService)
	matchHandler := handlers.NewMatchHandler(deps.MatchService)
	listHandler := handlers.NewListHandler(deps.ListingService)
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/api", func(r chi.Router) {
		r.Post("/clients/create", usersHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(authMW).Post("/clients/{id}/match", matchHandler.Handle)
		r.With(authMW).Get("/list", listHandler.Handle)
	})

	// Short aliases for the same operations.
	r.With(authMW).Post("/match", matchHandler.Handle)
	r.With(authMW).Get("/list", listHandler.Handle)
}
