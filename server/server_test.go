package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/existflow/taskboard/internal/auth"
	"github.com/existflow/taskboard/internal/board"
	"github.com/existflow/taskboard/internal/model"
	"github.com/existflow/taskboard/internal/store"
)

type testServer struct {
	t   *testing.T
	srv *Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := store.Open(store.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	srv := New(db, board.NewService(db, nil), auth.NewIssuer("test-secret", time.Hour))
	t.Cleanup(func() { srv.Close() })
	return &testServer{t: t, srv: srv}
}

func (ts *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		data, err := sonic.Marshal(body)
		if err != nil {
			ts.t.Fatalf("marshal: %v", err)
		}
		buf.Write(data)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.srv.Router().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) expect(rec *httptest.ResponseRecorder, status int, out any) {
	ts.t.Helper()
	if rec.Code != status {
		ts.t.Fatalf("status = %d, want %d: %s", rec.Code, status, rec.Body.String())
	}
	if out != nil {
		if err := sonic.Unmarshal(rec.Body.Bytes(), out); err != nil {
			ts.t.Fatalf("decode %s: %v", rec.Body.String(), err)
		}
	}
}

func (ts *testServer) signup(username string) string {
	ts.t.Helper()
	var resp authResponse
	ts.expect(ts.do(http.MethodPost, "/api/v1/auth/signup", "", signupRequest{
		Username: username, Password: "password1", ConfirmPassword: "password1",
	}), http.StatusCreated, &resp)
	if resp.Token == "" || resp.User == nil || resp.User.Username != username {
		ts.t.Fatalf("signup response = %+v", resp)
	}
	return resp.Token
}

func ids(boards []model.Board) []string {
	out := make([]string, len(boards))
	for i, b := range boards {
		out[i] = b.ID
	}
	return out
}

func refs(ids ...string) []idRef {
	out := make([]idRef, len(ids))
	for i, id := range ids {
		out[i] = idRef{ID: id}
	}
	return out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	ts.expect(ts.do(http.MethodGet, "/health", "", nil), http.StatusOK, nil)
}

func TestSignupValidation(t *testing.T) {
	ts := newTestServer(t)

	var resp errorResponse
	ts.expect(ts.do(http.MethodPost, "/api/v1/auth/signup", "", signupRequest{
		Username: "short", Password: "password1", ConfirmPassword: "password2",
	}), http.StatusBadRequest, &resp)
	if resp.Fields["username"] == "" || resp.Fields["confirmPassword"] == "" {
		t.Errorf("fields = %v", resp.Fields)
	}

	ts.signup("someone1")
	ts.expect(ts.do(http.MethodPost, "/api/v1/auth/signup", "", signupRequest{
		Username: "someone1", Password: "password1", ConfirmPassword: "password1",
	}), http.StatusConflict, nil)
}

func TestLoginVerifyLogout(t *testing.T) {
	ts := newTestServer(t)
	ts.signup("someone1")

	ts.expect(ts.do(http.MethodPost, "/api/v1/auth/login", "", loginRequest{
		Username: "someone1", Password: "wrong-password",
	}), http.StatusUnauthorized, nil)

	var login authResponse
	ts.expect(ts.do(http.MethodPost, "/api/v1/auth/login", "", loginRequest{
		Username: "someone1", Password: "password1",
	}), http.StatusOK, &login)

	var verify map[string]model.User
	ts.expect(ts.do(http.MethodPost, "/api/v1/auth/verify-token", login.Token, nil), http.StatusOK, &verify)
	if verify["user"].Username != "someone1" {
		t.Errorf("verify = %+v", verify)
	}

	ts.expect(ts.do(http.MethodPost, "/api/v1/auth/logout", login.Token, nil), http.StatusOK, nil)
	ts.expect(ts.do(http.MethodPost, "/api/v1/auth/verify-token", login.Token, nil), http.StatusUnauthorized, nil)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)
	ts.expect(ts.do(http.MethodGet, "/api/v1/boards", "", nil), http.StatusUnauthorized, nil)
	ts.expect(ts.do(http.MethodGet, "/api/v1/boards", "not-a-token", nil), http.StatusUnauthorized, nil)

	// a validly signed token without a session is rejected
	token, _, err := auth.NewIssuer("test-secret", time.Hour).Issue(uuid.NewString())
	if err != nil {
		t.Fatal(err)
	}
	ts.expect(ts.do(http.MethodGet, "/api/v1/boards", token, nil), http.StatusUnauthorized, nil)
}

func TestBoardOrderingFlow(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup("someone1")

	var created []model.Board
	for i := 0; i < 3; i++ {
		var b model.Board
		ts.expect(ts.do(http.MethodPost, "/api/v1/boards", token, nil), http.StatusCreated, &b)
		if b.Position != i {
			t.Fatalf("board %d position = %d", i, b.Position)
		}
		created = append(created, b)
	}
	a, b, c := created[0].ID, created[1].ID, created[2].ID

	var list []model.Board
	ts.expect(ts.do(http.MethodGet, "/api/v1/boards", token, nil), http.StatusOK, &list)
	if got := ids(list); got[0] != c || got[1] != b || got[2] != a {
		t.Fatalf("list = %v", got)
	}

	ts.expect(ts.do(http.MethodPut, "/api/v1/boards", token, reorderBoardsRequest{Boards: refs(a, c, b)}), http.StatusOK, nil)
	ts.expect(ts.do(http.MethodGet, "/api/v1/boards", token, nil), http.StatusOK, &list)
	if got := ids(list); got[0] != a || got[1] != c || got[2] != b {
		t.Fatalf("after reorder = %v", got)
	}

	var errResp errorResponse
	ts.expect(ts.do(http.MethodPut, "/api/v1/boards", token, reorderBoardsRequest{Boards: refs(a, "bogus")}), http.StatusBadRequest, &errResp)
	if len(errResp.Fields) == 0 {
		t.Errorf("expected field details: %+v", errResp)
	}

	on := true
	for _, id := range []string{b, a} {
		ts.expect(ts.do(http.MethodPut, "/api/v1/boards/"+id, token, board.BoardUpdate{Bookmark: &on}), http.StatusOK, nil)
	}
	ts.expect(ts.do(http.MethodGet, "/api/v1/boards/bookmarks", token, nil), http.StatusOK, &list)
	if got := ids(list); len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("bookmarks = %v", got)
	}

	ts.expect(ts.do(http.MethodPut, "/api/v1/boards/bookmarks", token, reorderBoardsRequest{Boards: refs(b, a)}), http.StatusOK, nil)
	ts.expect(ts.do(http.MethodGet, "/api/v1/boards/bookmarks", token, nil), http.StatusOK, &list)
	if got := ids(list); got[0] != b || got[1] != a {
		t.Fatalf("bookmarks after reorder = %v", got)
	}

	ts.expect(ts.do(http.MethodDelete, "/api/v1/boards/"+b, token, nil), http.StatusOK, nil)
	ts.expect(ts.do(http.MethodGet, "/api/v1/boards", token, nil), http.StatusOK, &list)
	if got := ids(list); len(got) != 2 || got[0] != a || got[1] != c || list[0].Position != 1 || list[1].Position != 0 {
		t.Fatalf("after delete = %+v", list)
	}
	ts.expect(ts.do(http.MethodGet, "/api/v1/boards/bookmarks", token, nil), http.StatusOK, &list)
	if len(list) != 1 || list[0].ID != a || list[0].BookmarkPosition != 0 {
		t.Fatalf("bookmarks after delete = %+v", list)
	}

	// other users cannot see the board
	other := ts.signup("someone2")
	ts.expect(ts.do(http.MethodGet, "/api/v1/boards/"+a, other, nil), http.StatusNotFound, nil)
}

func TestTaskMoveFlow(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup("someone1")

	var b model.Board
	ts.expect(ts.do(http.MethodPost, "/api/v1/boards", token, nil), http.StatusCreated, &b)
	base := "/api/v1/boards/" + b.ID

	var s1, s2 model.Section
	ts.expect(ts.do(http.MethodPost, base+"/sections", token, nil), http.StatusCreated, &s1)
	ts.expect(ts.do(http.MethodPost, base+"/sections", token, nil), http.StatusCreated, &s2)

	title := "Todo"
	ts.expect(ts.do(http.MethodPut, base+"/sections/"+s1.ID, token, board.SectionUpdate{Title: &title}), http.StatusOK, nil)

	newTask := func(section string) string {
		var task model.Task
		ts.expect(ts.do(http.MethodPost, base+"/tasks", token, createTaskRequest{SectionID: section}), http.StatusCreated, &task)
		return task.ID
	}
	moved, kept := newTask(s1.ID), newTask(s1.ID)
	dest := newTask(s2.ID)

	content := "<p>details</p>"
	ts.expect(ts.do(http.MethodPut, base+"/tasks/"+moved, token, board.TaskUpdate{Content: &content}), http.StatusOK, nil)

	ts.expect(ts.do(http.MethodPut, base+"/tasks/update-position", token, moveTaskRequest{
		ResourceList:         refs(kept),
		DestinationList:      refs(moved, dest),
		ResourceSectionID:    s1.ID,
		DestinationSectionID: s2.ID,
	}), http.StatusOK, nil)

	var got model.Board
	ts.expect(ts.do(http.MethodGet, base, token, nil), http.StatusOK, &got)
	if len(got.Sections) != 2 || got.Sections[0].Title != title {
		t.Fatalf("sections = %+v", got.Sections)
	}
	if n := len(got.Sections[0].Tasks); n != 0 {
		t.Errorf("source section kept %d tasks", n)
	}
	if n := len(got.Sections[1].Tasks); n != 3 {
		t.Fatalf("destination holds %d tasks, want 3", n)
	}
	if top := got.Sections[1].Tasks[0]; top.ID != moved || top.Content != content {
		t.Errorf("top task = %+v", top)
	}

	ts.expect(ts.do(http.MethodDelete, base+"/tasks/"+dest, token, nil), http.StatusOK, nil)
	ts.expect(ts.do(http.MethodDelete, base+"/sections/"+s1.ID, token, nil), http.StatusOK, nil)
	ts.expect(ts.do(http.MethodDelete, base+"/sections/"+s1.ID, token, nil), http.StatusNotFound, nil)
}
