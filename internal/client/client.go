// Package client talks to the task board API and keeps the signed-in session
// on disk.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/existflow/taskboard/internal/board"
	"github.com/existflow/taskboard/internal/model"
)

var ErrNotLoggedIn = errors.New("not logged in, run 'taskboard auth login' first")

// APIError is a non-2xx response from the server
type APIError struct {
	Status  int
	Message string            `json:"error"`
	Details string            `json:"details"`
	Fields  map[string]string `json:"fields"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%d %s", e.Status, e.Message)
	for k, v := range e.Fields {
		msg += fmt.Sprintf("; %s: %s", k, v)
	}
	return msg
}

// StatusOf returns the HTTP status carried by err, or 0
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Client is the API client
type Client struct {
	session     *Session
	sessionPath string
	httpClient  *http.Client
}

// New loads the session at sessionPath. serverURL, when not empty, replaces
// the stored server URL.
func New(sessionPath, serverURL string) (*Client, error) {
	s, err := loadSession(sessionPath)
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		s.ServerURL = serverURL
	}
	if s.ServerURL == "" {
		s.ServerURL = "http://localhost:8080"
	}

	return &Client{
		session:     s,
		sessionPath: sessionPath,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// IsLoggedIn returns true if a token is stored
func (c *Client) IsLoggedIn() bool {
	return c.session.Token != ""
}

// Session returns a copy of the stored session
func (c *Client) Session() Session {
	return *c.session
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := sonic.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.session.ServerURL, "/")+"/api/v1"+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := sonic.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out != nil {
		if err := sonic.Unmarshal(data, out); err != nil {
			return fmt.Errorf("invalid response: %w", err)
		}
	}
	return nil
}

func (c *Client) authed() error {
	if !c.IsLoggedIn() {
		return ErrNotLoggedIn
	}
	return nil
}

type authResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (c *Client) storeAuth(resp authResponse) error {
	c.session.Token = resp.Token
	c.session.UserID = resp.User.ID
	c.session.Username = resp.User.Username
	return saveSession(c.sessionPath, c.session)
}

// Signup creates an account and stores its token
func (c *Client) Signup(ctx context.Context, username, password, confirm string) error {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/signup", map[string]string{
		"username":        username,
		"password":        password,
		"confirmPassword": confirm,
	}, &resp)
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}
	return c.storeAuth(resp)
}

// Login authenticates with username and password and stores the token
func (c *Client) Login(ctx context.Context, username, password string) error {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return c.storeAuth(resp)
}

// Verify returns the user the stored token belongs to
func (c *Client) Verify(ctx context.Context) (*model.User, error) {
	if err := c.authed(); err != nil {
		return nil, err
	}
	var resp struct {
		User model.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/verify-token", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Logout revokes the token on the server and forgets it locally
func (c *Client) Logout(ctx context.Context) error {
	var remoteErr error
	if c.IsLoggedIn() {
		remoteErr = c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	}
	c.session.Token = ""
	c.session.UserID = ""
	c.session.Username = ""
	if err := saveSession(c.sessionPath, c.session); err != nil {
		return err
	}
	if remoteErr != nil && StatusOf(remoteErr) != http.StatusUnauthorized {
		return remoteErr
	}
	return nil
}

type idRef struct {
	ID string `json:"id"`
}

func refs(ids []string) []idRef {
	out := make([]idRef, len(ids))
	for i, id := range ids {
		out[i] = idRef{ID: id}
	}
	return out
}

// CreateBoard creates a board on top of the list
func (c *Client) CreateBoard(ctx context.Context) (*model.Board, error) {
	if err := c.authed(); err != nil {
		return nil, err
	}
	var b model.Board
	if err := c.do(ctx, http.MethodPost, "/boards", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBoards returns the boards, top first
func (c *Client) ListBoards(ctx context.Context) ([]model.Board, error) {
	if err := c.authed(); err != nil {
		return nil, err
	}
	var boards []model.Board
	if err := c.do(ctx, http.MethodGet, "/boards", nil, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// ReorderBoards submits the full top-to-bottom board order
func (c *Client) ReorderBoards(ctx context.Context, ids []string) error {
	if err := c.authed(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/boards", map[string][]idRef{"boards": refs(ids)}, nil)
}

// ListBookmarks returns the bookmarked boards, top first
func (c *Client) ListBookmarks(ctx context.Context) ([]model.Board, error) {
	if err := c.authed(); err != nil {
		return nil, err
	}
	var boards []model.Board
	if err := c.do(ctx, http.MethodGet, "/boards/bookmarks", nil, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// ReorderBookmarks submits the full top-to-bottom bookmark order
func (c *Client) ReorderBookmarks(ctx context.Context, ids []string) error {
	if err := c.authed(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/boards/bookmarks", map[string][]idRef{"boards": refs(ids)}, nil)
}

// GetBoard returns a board with its sections and tasks
func (c *Client) GetBoard(ctx context.Context, boardID string) (*model.Board, error) {
	if err := c.authed(); err != nil {
		return nil, err
	}
	var b model.Board
	if err := c.do(ctx, http.MethodGet, "/boards/"+boardID, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBoard changes board fields or its bookmark flag
func (c *Client) UpdateBoard(ctx context.Context, boardID string, u board.BoardUpdate) (*model.Board, error) {
	if err := c.authed(); err != nil {
		return nil, err
	}
	var b model.Board
	if err := c.do(ctx, http.MethodPut, "/boards/"+boardID, u, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// DeleteBoard deletes a board with its sections and tasks
func (c *Client) DeleteBoard(ctx context.Context, boardID string) error {
	if err := c.authed(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/boards/"+boardID, nil, nil)
}

// CreateSection adds a section to a board
func (c *Client) CreateSection(ctx context.Context, boardID string) (*model.Section, error) {
	if err := c.authed(); err != nil {
		return nil, err
	}
	var s model.Section
	if err := c.do(ctx, http.MethodPost, "/boards/"+boardID+"/sections", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSection changes a section's title or icon
func (c *Client) UpdateSection(ctx context.Context, boardID, sectionID string, u board.SectionUpdate) (*model.Section, error) {
	if err := c.authed(); err != nil {
		return nil, err
	}
	var s model.Section
	if err := c.do(ctx, http.MethodPut, "/boards/"+boardID+"/sections/"+sectionID, u, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSection deletes a section and its tasks
func (c *Client) DeleteSection(ctx context.Context, boardID, sectionID string) error {
	if err := c.authed(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/boards/"+boardID+"/sections/"+sectionID, nil, nil)
}

// CreateTask adds a task on top of a section
func (c *Client) CreateTask(ctx context.Context, boardID, sectionID string) (*model.Task, error) {
	if err := c.authed(); err != nil {
		return nil, err
	}
	var t model.Task
	if err := c.do(ctx, http.MethodPost, "/boards/"+boardID+"/tasks", map[string]string{"sectionId": sectionID}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTask changes a task's title or content
func (c *Client) UpdateTask(ctx context.Context, boardID, taskID string, u board.TaskUpdate) (*model.Task, error) {
	if err := c.authed(); err != nil {
		return nil, err
	}
	var t model.Task
	if err := c.do(ctx, http.MethodPut, "/boards/"+boardID+"/tasks/"+taskID, u, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTask deletes a task
func (c *Client) DeleteTask(ctx context.Context, boardID, taskID string) error {
	if err := c.authed(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/boards/"+boardID+"/tasks/"+taskID, nil, nil)
}

// MoveTask submits a task drag within or across sections
func (c *Client) MoveTask(ctx context.Context, boardID string, m board.TaskMove) error {
	if err := c.authed(); err != nil {
		return err
	}
	body := struct {
		ResourceList         []idRef `json:"resourceList"`
		DestinationList      []idRef `json:"destinationList"`
		ResourceSectionID    string  `json:"resourceSectionId"`
		DestinationSectionID string  `json:"destinationSectionId"`
	}{
		ResourceList:         refs(m.SourceIDs),
		DestinationList:      refs(m.DestinationIDs),
		ResourceSectionID:    m.SourceSectionID,
		DestinationSectionID: m.DestinationSectionID,
	}
	return c.do(ctx, http.MethodPut, "/boards/"+boardID+"/tasks/update-position", body, nil)
}
