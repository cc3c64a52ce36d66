package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/you/teamboard/internal/auth"
	"github.com/you/teamboard/internal/domain"
	"github.com/you/teamboard/internal/infra"
	"github.com/you/teamboard/internal/repository"
	uc "github.com/you/teamboard/internal/usecase"
)

type Handlers struct {
	Auth   *uc.AuthUsecase
	Teams  *uc.TeamUsecase
	Tasks  *uc.TaskUsecase
	Tokens *auth.TokenManager
	Log    infra.Logger
}

func NewHandlers(authUC *uc.AuthUsecase, teams *uc.TeamUsecase, tasks *uc.TaskUsecase, tokens *auth.TokenManager, log infra.Logger) *Handlers {
	return &Handlers{Auth: authUC, Teams: teams, Tasks: tasks, Tokens: tokens, Log: log}
}

type errorBody struct {
	Error      string `json:"error"`
	Field      string `json:"field,omitempty"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeEnvelope(w http.ResponseWriter, code int, msg, field string) {
	writeJSON(w, code, errorBody{Error: msg, Field: field, Status: "error", StatusCode: code})
}

// writeError is the single mapper from usecase/store errors to the wire
// envelope. Deny decisions come out as a generic 403.
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	var vErr *uc.ValidationError
	var dup *repository.DuplicateError
	switch {
	case errors.As(err, &vErr):
		writeEnvelope(w, http.StatusBadRequest, vErr.Msg, vErr.Field)
	case errors.Is(err, uc.ErrInvalidCredentials):
		writeEnvelope(w, http.StatusUnauthorized, "Invalid email or password", "")
	case errors.Is(err, uc.ErrForbidden):
		writeEnvelope(w, http.StatusForbidden, "Unauthorized", "")
	case errors.Is(err, uc.ErrNotFound):
		writeEnvelope(w, http.StatusNotFound, "Not found", "")
	case errors.Is(err, uc.ErrAlreadyMember):
		writeEnvelope(w, http.StatusBadRequest, "Member already active", "email")
	case errors.As(err, &dup):
		writeEnvelope(w, http.StatusConflict, dup.Error(), dup.Field)
	default:
		h.Log.Errorf("internal error: %v", err)
		writeEnvelope(w, http.StatusInternalServerError, "Internal server error", "")
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

func actingUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := UserID(r.Context())
	if !ok {
		writeEnvelope(w, http.StatusUnauthorized, "Missing auth token", "")
	}
	return id, ok
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in uc.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeEnvelope(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	user, err := h.Auth.Register(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	token, err := h.Tokens.Generate(user.ID, user.Email)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.Log.Infof("user registered: id=%d username=%s", user.ID, user.Username)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"user": user, "token": token})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeEnvelope(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	user, err := h.Auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	token, err := h.Tokens.Generate(user.ID, user.Email)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user, "token": token})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}
	user, err := h.Auth.Me(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (h *Handlers) ListTeams(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}
	teams, err := h.Teams.ListTeams(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if teams == nil {
		teams = []domain.Team{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": teams})
}

func (h *Handlers) CreateTeam(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}
	var in struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeEnvelope(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	team, err := h.Teams.CreateTeam(r.Context(), userID, in.Name, in.Description)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.Log.Infof("team created: id=%d by user=%d", team.ID, userID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": team})
}

func (h *Handlers) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}
	teamID, err := pathID(r, "id")
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, "Invalid team id", "")
		return
	}
	var in struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeEnvelope(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	team, err := h.Teams.UpdateTeam(r.Context(), userID, teamID, in.Name, in.Description)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": team})
}

func (h *Handlers) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}
	teamID, err := pathID(r, "id")
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, "Invalid team id", "")
		return
	}
	if err := h.Teams.DeleteTeam(r.Context(), userID, teamID); err != nil {
		h.writeError(w, err)
		return
	}
	h.Log.Infof("team deleted: id=%d by user=%d", teamID, userID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}
	teamID, err := pathID(r, "id")
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, "Invalid team id", "")
		return
	}
	members, err := h.Teams.ListMembers(r.Context(), userID, teamID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if members == nil {
		members = []domain.Member{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": members})
}

func (h *Handlers) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}
	teamID, err := pathID(r, "id")
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, "Invalid team id", "")
		return
	}
	var in struct {
		Email string      `json:"email"`
		Role  domain.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeEnvelope(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	m, err := h.Teams.AddMemberByEmail(r.Context(), userID, teamID, in.Email, in.Role)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.Log.Infof("member added: team=%d user=%d role=%s", m.TeamID, m.UserID, m.Role)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": m})
}

func (h *Handlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}
	teamID, err := pathID(r, "id")
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, "Invalid team id", "")
		return
	}
	targetID, err := pathID(r, "userId")
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, "Invalid user id", "")
		return
	}
	if err := h.Teams.RemoveMember(r.Context(), userID, teamID, targetID); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}
	teamID, err := strconv.ParseInt(r.URL.Query().Get("team_id"), 10, 64)
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, "team_id required", "team_id")
		return
	}
	tasks, err := h.Tasks.ListTasks(r.Context(), userID, teamID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": tasks})
}

func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}
	var in uc.CreateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeEnvelope(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	task, err := h.Tasks.CreateTask(r.Context(), userID, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": task})
}

func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}
	taskID, err := pathID(r, "id")
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, "Invalid task id", "")
		return
	}
	task, err := h.Tasks.GetTask(r.Context(), userID, taskID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": task})
}

func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}
	taskID, err := pathID(r, "id")
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, "Invalid task id", "")
		return
	}
	var in uc.UpdateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeEnvelope(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	task, err := h.Tasks.UpdateTask(r.Context(), userID, taskID, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": task})
}

func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}
	taskID, err := pathID(r, "id")
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, "Invalid task id", "")
		return
	}
	if err := h.Tasks.DeleteTask(r.Context(), userID, taskID); err != nil {
		h.writeError(w, err)
		return
	}
	h.Log.Infof("task deleted: id=%d by user=%d", taskID, userID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
