package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/you/teamboard/internal/auth"
)

func NewRouter(h *Handlers, tm *auth.TokenManager) http.Handler {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware)

	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/auth/register", h.Register).Methods("POST")
	r.HandleFunc("/auth/login", h.Login).Methods("POST")

	api := r.NewRoute().Subrouter()
	api.Use(AuthMiddleware(tm))
	api.HandleFunc("/auth/me", h.Me).Methods("GET")

	api.HandleFunc("/teams", h.ListTeams).Methods("GET")
	api.HandleFunc("/teams", h.CreateTeam).Methods("POST")
	api.HandleFunc("/teams/{id}", h.UpdateTeam).Methods("PUT")
	api.HandleFunc("/teams/{id}", h.DeleteTeam).Methods("DELETE")
	api.HandleFunc("/teams/{id}/members", h.ListMembers).Methods("GET")
	api.HandleFunc("/teams/{id}/members", h.AddMember).Methods("POST")
	api.HandleFunc("/teams/{id}/members/{userId}", h.RemoveMember).Methods("DELETE")

	api.HandleFunc("/tasks", h.ListTasks).Methods("GET")
	api.HandleFunc("/tasks", h.CreateTask).Methods("POST")
	api.HandleFunc("/tasks/{id}", h.GetTask).Methods("GET")
	api.HandleFunc("/tasks/{id}", h.UpdateTask).Methods("PUT")
	api.HandleFunc("/tasks/{id}", h.DeleteTask).Methods("DELETE")

	return r
}
