package routes

import (
	"github.com/Dosada05/club-system/handlers"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	memberHandler *handlers.MemberHandler,
	matchHandler *handlers.MatchHandler,
	statsHandler *handlers.StatsHandler,
	tournamentHandler *handlers.TournamentHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/members", func(r chi.Router) {
		r.Get("/", memberHandler.ListMembersHandler)
		r.Post("/{memberID}/avatar", memberHandler.UploadAvatarHandler)
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/", matchHandler.ListMatchesHandler)
		r.Post("/", matchHandler.RecordMatchHandler)
		r.Put("/{matchID}/score", matchHandler.UpdateScoreHandler)
		r.Delete("/{matchID}", matchHandler.DeleteMatchHandler)
	})

	router.Route("/stats", func(r chi.Router) {
		r.Get("/match-counts", statsHandler.MatchCountsHandler)
		r.Post("/refresh", statsHandler.RefreshHandler)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListTournamentsHandler)
		r.Get("/{tournamentID}", tournamentHandler.GetTournamentHandler)
		r.Post("/", tournamentHandler.CreateTournamentHandler)
	})

	router.Get("/ws/club", webSocketHandler.ServeClub)
	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeTournament)
}
