package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/you/teamboard/internal/domain"
)

// APIError is the server's error envelope.
type APIError struct {
	Message    string `json:"error"`
	Field      string `json:"field,omitempty"`
	StatusCode int    `json:"statusCode"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{BaseURL: baseURL, Token: token, HTTP: &http.Client{}}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf *bytes.Buffer
	if body != nil {
		buf = &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return err
		}
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Message = resp.Status
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Board caches one team's tasks and applies status changes optimistically:
// the local copy is mutated before the request goes out and restored from
// a snapshot if the server rejects it.
type Board struct {
	client *Client
	teamID int64

	mu    sync.Mutex
	tasks map[int64]domain.Task
}

func NewBoard(c *Client, teamID int64) *Board {
	return &Board{client: c, teamID: teamID, tasks: map[int64]domain.Task{}}
}

// Load replaces the cache with the server's task list.
func (b *Board) Load(ctx context.Context) error {
	var resp struct {
		Data []domain.Task `json:"data"`
	}
	if err := b.client.do(ctx, http.MethodGet, fmt.Sprintf("/tasks?team_id=%d", b.teamID), nil, &resp); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tasks = make(map[int64]domain.Task, len(resp.Data))
	for _, t := range resp.Data {
		b.tasks[t.ID] = t
	}
	return nil
}

// Task returns the cached copy of a task.
func (b *Board) Task(id int64) (domain.Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tasks[id]
	return t, ok
}

// SetStatus applies the new status locally, then confirms it with the
// server. On failure the entire pre-mutation snapshot is restored, never a
// partial merge; on success the server's copy wins.
func (b *Board) SetStatus(ctx context.Context, taskID int64, status domain.TaskStatus) error {
	b.mu.Lock()
	snapshot, ok := b.tasks[taskID]
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("task %d not cached", taskID)
	}
	optimistic := snapshot
	optimistic.Status = status
	b.tasks[taskID] = optimistic
	b.mu.Unlock()

	var resp struct {
		Data domain.Task `json:"data"`
	}
	body := map[string]domain.TaskStatus{"status": status}
	err := b.client.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", taskID), body, &resp)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.tasks[taskID] = snapshot
		return err
	}
	b.tasks[taskID] = resp.Data
	return nil
}
