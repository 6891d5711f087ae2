package routes

import (
	"github.com/Dosada05/matchday/handlers"
	"github.com/Dosada05/matchday/middleware"
	"github.com/Dosada05/matchday/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes mounts every endpoint on the given router. Public reads stay
// outside the auth group; everything that mutates state requires a bearer
// token, and admin endpoints additionally re-check the role in the service
// layer.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	teamHandler *handlers.TeamHandler,
	adminHandler *handlers.AdminTeamHandler,
	gameHandler *handlers.GameHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)

	// Auth
	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	// Teams
	router.Route("/teams", func(r chi.Router) {
		r.Get("/{teamID}", teamHandler.GetTeamByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/", teamHandler.RegisterTeam)
			r.Post("/{teamID}/payment-evidence", teamHandler.UploadPaymentEvidence)
			r.Post("/{teamID}/payment-reference", teamHandler.AttachPaymentReference)
		})
	})

	// Admin team management. The role gate here only reads the token claim;
	// the service layer re-verifies the role against the store.
	router.Route("/admin/teams", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.Authorize(string(models.RoleAdmin)))

		r.Get("/", adminHandler.ListTeams)
		r.Put("/{teamID}/approve", adminHandler.ApproveTeam)
		r.Put("/{teamID}/reject", adminHandler.RejectTeam)
		r.Put("/{teamID}/group", adminHandler.AssignLeagueGroup)
		r.Put("/{teamID}/result", adminHandler.RecordMatchResult)
		r.Delete("/{teamID}", adminHandler.DeleteTeam)
	})

	// Pickup games
	router.Route("/games", func(r chi.Router) {
		r.Get("/", gameHandler.ListGames)
		r.Get("/{gameID}", gameHandler.GetGameByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/", gameHandler.CreateGame)
			r.Post("/{gameID}/join", gameHandler.JoinGame)
			r.Delete("/{gameID}/leave", gameHandler.LeaveGame)
			r.Put("/{gameID}/cancel", gameHandler.CancelGame)
		})
	})

	// Standings
	router.Get("/leaderboard", leaderboardHandler.GetLeaderboard)

	// Live updates
	router.Get("/ws/games/{gameID}", webSocketHandler.ServeGameWs)
	router.Get("/ws/leaderboard", webSocketHandler.ServeLeaderboardWs)
}
