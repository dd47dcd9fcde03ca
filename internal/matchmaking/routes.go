package matchmaking

import (
	"github.com/gorilla/mux"

	"github.com/AnnedithB/BellaDating-sub003/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/matchmaking").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Queue
	api.HandleFunc("/queue", handler.JoinQueue).Methods("POST")
	api.HandleFunc("/queue", handler.LeaveQueue).Methods("DELETE")
	api.HandleFunc("/queue/status", handler.QueueStatus).Methods("GET")

	// On-demand proposals
	api.HandleFunc("/matches/find", handler.FindMatches).Methods("GET")
	api.HandleFunc("/matches/history", handler.MatchHistory).Methods("GET")

	// Preferences
	api.HandleFunc("/preferences", handler.GetPreferences).Methods("GET")
	api.HandleFunc("/preferences", handler.UpdatePreferences).Methods("PUT")

	// Admin
	admin := router.PathPrefix("/api/v1/admin/matchmaking").Subrouter()
	admin.Use(authMiddleware.Authenticate)
	admin.HandleFunc("/stats", handler.QueueStats).Methods("GET")
}
