package board

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/existflow/taskboard/internal/apperr"
	"github.com/existflow/taskboard/internal/model"
	"github.com/existflow/taskboard/internal/store"
)

type countingLists struct {
	Store
	evicted map[string]int
}

func (c *countingLists) Evict(ctx context.Context, userID string) {
	c.evicted[userID]++
}

type fixture struct {
	db    *store.DB
	svc   *Service
	lists *countingLists
	user  string
	ctx   context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := store.Open(store.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	lists := &countingLists{Store: db, evicted: map[string]int{}}
	f := &fixture{
		db:    db,
		svc:   NewService(db, lists),
		lists: lists,
		ctx:   context.Background(),
	}
	f.user = f.addUser(t, "owner01")
	return f
}

func (f *fixture) addUser(t *testing.T, name string) string {
	t.Helper()
	u := &model.User{ID: uuid.NewString(), Username: name, PasswordHash: "x", CreatedAt: time.Now()}
	if err := f.db.CreateUser(f.ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}

func (f *fixture) boards(t *testing.T, n int) []string {
	t.Helper()
	ids := make([]string, n)
	for i := range ids {
		b, err := f.svc.CreateBoard(f.ctx, f.user)
		if err != nil {
			t.Fatalf("CreateBoard: %v", err)
		}
		ids[i] = b.ID
	}
	return ids
}

func (f *fixture) listIDs(t *testing.T, bookmarks bool) []string {
	t.Helper()
	var (
		boards []model.Board
		err    error
	)
	if bookmarks {
		boards, err = f.svc.ListBookmarks(f.ctx, f.user)
	} else {
		boards, err = f.svc.ListBoards(f.ctx, f.user)
	}
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ids := make([]string, len(boards))
	for i, b := range boards {
		ids[i] = b.ID
		want := len(boards) - 1 - i
		got := b.Position
		if bookmarks {
			got = b.BookmarkPosition
		}
		if got != want {
			t.Errorf("%s at index %d has rank %d, want %d", b.ID, i, got, want)
		}
	}
	return ids
}

func (f *fixture) bookmark(t *testing.T, id string, on bool) {
	t.Helper()
	if _, err := f.svc.UpdateBoard(f.ctx, f.user, id, BoardUpdate{Bookmark: &on}); err != nil {
		t.Fatalf("bookmark %s=%v: %v", id, on, err)
	}
}

func wantKind(t *testing.T, err error, k apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", k)
	}
	if got := apperr.KindOf(err); got != k {
		t.Fatalf("error kind = %v, want %v (%v)", got, k, err)
	}
}

func reverse(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}

func TestCreateBoardAppendsOnTop(t *testing.T) {
	f := newFixture(t)
	ids := f.boards(t, 4)

	if got := f.listIDs(t, false); !reflect.DeepEqual(got, reverse(ids)) {
		t.Fatalf("boards = %v, want %v", got, reverse(ids))
	}

	b, err := f.svc.GetBoard(f.ctx, f.user, ids[3])
	if err != nil {
		t.Fatal(err)
	}
	if b.Position != 3 || b.Title != model.DefaultBoardTitle || b.Icon != model.DefaultIcon {
		t.Errorf("board = %+v", b)
	}
	if f.lists.evicted[f.user] != 4 {
		t.Errorf("evictions = %d, want 4", f.lists.evicted[f.user])
	}
}

func TestBoardCountIsPerUser(t *testing.T) {
	f := newFixture(t)
	f.boards(t, 2)

	other := f.addUser(t, "other01")
	b, err := f.svc.CreateBoard(f.ctx, other)
	if err != nil {
		t.Fatal(err)
	}
	if b.Position != 0 {
		t.Errorf("other user's first board position = %d, want 0", b.Position)
	}
}

func TestReorderBoards(t *testing.T) {
	f := newFixture(t)
	ids := f.boards(t, 3)
	order := []string{ids[0], ids[2], ids[1]}

	for i := 0; i < 2; i++ {
		if err := f.svc.ReorderBoards(f.ctx, f.user, order); err != nil {
			t.Fatalf("ReorderBoards: %v", err)
		}
		if got := f.listIDs(t, false); !reflect.DeepEqual(got, order) {
			t.Fatalf("pass %d: boards = %v, want %v", i, got, order)
		}
	}
}

func TestReorderBoardsValidation(t *testing.T) {
	f := newFixture(t)
	ids := f.boards(t, 3)

	t.Run("bad id", func(t *testing.T) {
		wantKind(t, f.svc.ReorderBoards(f.ctx, f.user, []string{"nope", ids[1], ids[2]}), apperr.KindValidation)
	})
	t.Run("duplicate", func(t *testing.T) {
		wantKind(t, f.svc.ReorderBoards(f.ctx, f.user, []string{ids[0], ids[0], ids[2]}), apperr.KindValidation)
	})
	t.Run("missing member", func(t *testing.T) {
		wantKind(t, f.svc.ReorderBoards(f.ctx, f.user, ids[:2]), apperr.KindValidation)
	})
	t.Run("unknown board", func(t *testing.T) {
		wantKind(t, f.svc.ReorderBoards(f.ctx, f.user, append(ids, uuid.NewString())), apperr.KindNotFound)
	})
	t.Run("other user's board", func(t *testing.T) {
		other := f.addUser(t, "other01")
		b, err := f.svc.CreateBoard(f.ctx, other)
		if err != nil {
			t.Fatal(err)
		}
		wantKind(t, f.svc.ReorderBoards(f.ctx, f.user, append(ids, b.ID)), apperr.KindNotFound)
		wantKind(t, f.svc.DeleteBoard(f.ctx, f.user, b.ID), apperr.KindNotFound)
	})
}

func TestDeleteBoardRenumbers(t *testing.T) {
	f := newFixture(t)
	ids := f.boards(t, 3) // positions x:0 y:1 z:2

	if err := f.svc.DeleteBoard(f.ctx, f.user, ids[1]); err != nil {
		t.Fatalf("DeleteBoard: %v", err)
	}
	if got, want := f.listIDs(t, false), []string{ids[2], ids[0]}; !reflect.DeepEqual(got, want) {
		t.Fatalf("boards = %v, want %v", got, want)
	}
	wantKind(t, f.svc.DeleteBoard(f.ctx, f.user, ids[1]), apperr.KindNotFound)
}

func TestDeleteBoardCascades(t *testing.T) {
	f := newFixture(t)
	id := f.boards(t, 1)[0]
	sec, err := f.svc.CreateSection(f.ctx, f.user, id)
	if err != nil {
		t.Fatal(err)
	}
	task, err := f.svc.CreateTask(f.ctx, f.user, id, sec.ID)
	if err != nil {
		t.Fatal(err)
	}

	if err := f.svc.DeleteBoard(f.ctx, f.user, id); err != nil {
		t.Fatal(err)
	}
	if _, err := f.db.GetTask(f.ctx, task.ID); err != store.ErrNotFound {
		t.Errorf("task survived board delete: %v", err)
	}
}

func TestUpdateBoardDefaults(t *testing.T) {
	f := newFixture(t)
	id := f.boards(t, 1)[0]

	title, desc, icon := "Groceries", "weekly", "🛒"
	b, err := f.svc.UpdateBoard(f.ctx, f.user, id, BoardUpdate{Title: &title, Description: &desc, Icon: &icon})
	if err != nil {
		t.Fatal(err)
	}
	if b.Title != title || b.Description != desc || b.Icon != icon {
		t.Fatalf("board = %+v", b)
	}

	empty := ""
	b, err = f.svc.UpdateBoard(f.ctx, f.user, id, BoardUpdate{Title: &empty, Description: &empty})
	if err != nil {
		t.Fatal(err)
	}
	if b.Title != model.DefaultBoardTitle || b.Description != model.DefaultBoardDescription {
		t.Errorf("cleared fields = %q / %q", b.Title, b.Description)
	}
	if b.Icon != icon {
		t.Errorf("icon changed to %q", b.Icon)
	}
}

func TestBookmarkOverlay(t *testing.T) {
	f := newFixture(t)
	ids := f.boards(t, 4)
	a, b, c, d := ids[0], ids[1], ids[2], ids[3]

	f.bookmark(t, b, true)
	f.bookmark(t, d, true)
	f.bookmark(t, a, true)
	if got, want := f.listIDs(t, true), []string{a, d, b}; !reflect.DeepEqual(got, want) {
		t.Fatalf("bookmarks = %v, want %v", got, want)
	}

	// bookmarking an already bookmarked board changes nothing
	f.bookmark(t, a, true)
	if got, want := f.listIDs(t, true), []string{a, d, b}; !reflect.DeepEqual(got, want) {
		t.Fatalf("bookmarks = %v, want %v", got, want)
	}

	f.bookmark(t, d, false)
	if got, want := f.listIDs(t, true), []string{a, b}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after unbookmark = %v, want %v", got, want)
	}

	if err := f.svc.ReorderBookmarks(f.ctx, f.user, []string{b, a}); err != nil {
		t.Fatalf("ReorderBookmarks: %v", err)
	}
	if got, want := f.listIDs(t, true), []string{b, a}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after reorder = %v, want %v", got, want)
	}

	// deleting a bookmarked board closes the gap in both orderings
	if err := f.svc.DeleteBoard(f.ctx, f.user, b); err != nil {
		t.Fatal(err)
	}
	if got, want := f.listIDs(t, true), []string{a}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after delete = %v, want %v", got, want)
	}
	if got, want := f.listIDs(t, false), []string{d, c, a}; !reflect.DeepEqual(got, want) {
		t.Fatalf("boards after delete = %v, want %v", got, want)
	}

	// bookmark reorder must name exactly the bookmarked set
	wantKind(t, f.svc.ReorderBookmarks(f.ctx, f.user, []string{a, c}), apperr.KindNotFound)
}

func TestBookmarkDoesNotTouchPosition(t *testing.T) {
	f := newFixture(t)
	ids := f.boards(t, 3)
	before := f.listIDs(t, false)

	f.bookmark(t, ids[0], true)
	f.bookmark(t, ids[2], true)
	f.bookmark(t, ids[0], false)
	f.bookmark(t, ids[0], true)

	if got := f.listIDs(t, false); !reflect.DeepEqual(got, before) {
		t.Fatalf("boards = %v, want %v", got, before)
	}
	b, err := f.svc.GetBoard(f.ctx, f.user, ids[0])
	if err != nil {
		t.Fatal(err)
	}
	if b.Position != 0 || b.BookmarkPosition != 1 {
		t.Errorf("board = position %d bookmark %d, want 0 and 1", b.Position, b.BookmarkPosition)
	}
}

type sectionFixture struct {
	*fixture
	board string
}

func newSectionFixture(t *testing.T) *sectionFixture {
	f := newFixture(t)
	return &sectionFixture{fixture: f, board: f.boards(t, 1)[0]}
}

func (f *sectionFixture) section(t *testing.T) string {
	t.Helper()
	s, err := f.svc.CreateSection(f.ctx, f.user, f.board)
	if err != nil {
		t.Fatalf("CreateSection: %v", err)
	}
	return s.ID
}

func (f *sectionFixture) tasks(t *testing.T, section string, n int) []string {
	t.Helper()
	ids := make([]string, n)
	for i := range ids {
		task, err := f.svc.CreateTask(f.ctx, f.user, f.board, section)
		if err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
		ids[i] = task.ID
	}
	return ids
}

func (f *sectionFixture) taskOrder(t *testing.T, section string) map[string]int {
	t.Helper()
	tasks, err := f.db.ListTasks(f.ctx, section)
	if err != nil {
		t.Fatal(err)
	}
	out := make(map[string]int, len(tasks))
	for _, task := range tasks {
		out[task.ID] = task.Position
	}
	return out
}

func TestTaskCreateAndDelete(t *testing.T) {
	f := newSectionFixture(t)
	s := f.section(t)
	ids := f.tasks(t, s, 3)

	if got := f.taskOrder(t, s); !reflect.DeepEqual(got, map[string]int{ids[0]: 0, ids[1]: 1, ids[2]: 2}) {
		t.Fatalf("positions = %v", got)
	}

	if err := f.svc.DeleteTask(f.ctx, f.user, f.board, ids[1]); err != nil {
		t.Fatal(err)
	}
	if got := f.taskOrder(t, s); !reflect.DeepEqual(got, map[string]int{ids[0]: 0, ids[2]: 1}) {
		t.Fatalf("positions after delete = %v", got)
	}
}

func TestMoveTaskWithinSection(t *testing.T) {
	f := newSectionFixture(t)
	s := f.section(t)
	ids := f.tasks(t, s, 3)

	order := []string{ids[0], ids[2], ids[1]}
	move := TaskMove{SourceSectionID: s, DestinationSectionID: s, SourceIDs: order, DestinationIDs: order}
	if err := f.svc.MoveTask(f.ctx, f.user, f.board, move); err != nil {
		t.Fatalf("MoveTask: %v", err)
	}
	want := map[string]int{ids[0]: 2, ids[2]: 1, ids[1]: 0}
	if got := f.taskOrder(t, s); !reflect.DeepEqual(got, want) {
		t.Fatalf("positions = %v, want %v", got, want)
	}

	move.DestinationIDs = order[:2]
	wantKind(t, f.svc.MoveTask(f.ctx, f.user, f.board, move), apperr.KindValidation)
}

func TestMoveTaskAcrossSectionsReparentsSource(t *testing.T) {
	f := newSectionFixture(t)
	s1, s2 := f.section(t), f.section(t)
	src := f.tasks(t, s1, 3) // r2, moved, r1 from bottom to top
	dst := f.tasks(t, s2, 2) // d2, d1

	r2, moved, r1 := src[0], src[1], src[2]
	d2, d1 := dst[0], dst[1]

	err := f.svc.MoveTask(f.ctx, f.user, f.board, TaskMove{
		SourceSectionID:      s1,
		DestinationSectionID: s2,
		SourceIDs:            []string{r1, r2},
		DestinationIDs:       []string{d1, moved, d2},
	})
	if err != nil {
		t.Fatalf("MoveTask: %v", err)
	}

	if got := f.taskOrder(t, s1); len(got) != 0 {
		t.Errorf("source section still holds %v", got)
	}
	want := map[string]int{d1: 2, moved: 1, d2: 0, r1: 1, r2: 0}
	if got := f.taskOrder(t, s2); !reflect.DeepEqual(got, want) {
		t.Fatalf("destination = %v, want %v", got, want)
	}
}

func TestMoveTaskValidation(t *testing.T) {
	f := newSectionFixture(t)
	s1, s2 := f.section(t), f.section(t)
	src := f.tasks(t, s1, 2)
	dst := f.tasks(t, s2, 1)

	other := newSectionFixture(t)
	foreign := other.section(t)

	tests := []struct {
		name string
		move TaskMove
		kind apperr.Kind
	}{
		{
			name: "malformed section id",
			move: TaskMove{SourceSectionID: "x", DestinationSectionID: s2},
			kind: apperr.KindValidation,
		},
		{
			name: "section on another board",
			move: TaskMove{SourceSectionID: s1, DestinationSectionID: foreign},
			kind: apperr.KindNotFound,
		},
		{
			name: "task listed twice",
			move: TaskMove{
				SourceSectionID: s1, DestinationSectionID: s2,
				SourceIDs:      []string{src[0], src[1]},
				DestinationIDs: []string{src[1], dst[0]},
			},
			kind: apperr.KindValidation,
		},
		{
			name: "task left out",
			move: TaskMove{
				SourceSectionID: s1, DestinationSectionID: s2,
				SourceIDs:      []string{src[0]},
				DestinationIDs: []string{dst[0]},
			},
			kind: apperr.KindValidation,
		},
		{
			name: "unknown task",
			move: TaskMove{
				SourceSectionID: s1, DestinationSectionID: s2,
				SourceIDs:      []string{src[0]},
				DestinationIDs: []string{src[1], dst[0], uuid.NewString()},
			},
			kind: apperr.KindNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantKind(t, f.svc.MoveTask(f.ctx, f.user, f.board, tt.move), tt.kind)
		})
	}
}

func TestSectionLifecycle(t *testing.T) {
	f := newSectionFixture(t)
	s := f.section(t)
	ids := f.tasks(t, s, 2)

	title := "Doing"
	sec, err := f.svc.UpdateSection(f.ctx, f.user, f.board, s, SectionUpdate{Title: &title})
	if err != nil {
		t.Fatal(err)
	}
	if sec.Title != title || sec.Icon != model.DefaultIcon {
		t.Errorf("section = %+v", sec)
	}

	b, err := f.svc.GetBoard(f.ctx, f.user, f.board)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Sections) != 1 || len(b.Sections[0].Tasks) != 2 || b.Sections[0].Tasks[0].ID != ids[1] {
		t.Fatalf("board sections = %+v", b.Sections)
	}

	if err := f.svc.DeleteSection(f.ctx, f.user, f.board, s); err != nil {
		t.Fatal(err)
	}
	if _, err := f.db.GetTask(f.ctx, ids[0]); err != store.ErrNotFound {
		t.Errorf("task survived section delete: %v", err)
	}
	wantKind(t, f.svc.DeleteSection(f.ctx, f.user, f.board, s), apperr.KindNotFound)
}

func TestUpdateTask(t *testing.T) {
	f := newSectionFixture(t)
	s := f.section(t)
	id := f.tasks(t, s, 1)[0]

	title, content := "Buy milk", "<p>2 litres</p>"
	task, err := f.svc.UpdateTask(f.ctx, f.user, f.board, id, TaskUpdate{Title: &title, Content: &content})
	if err != nil {
		t.Fatal(err)
	}
	if task.Title != title || task.Content != content || task.Position != 0 {
		t.Errorf("task = %+v", task)
	}

	other := f.addUser(t, "other01")
	wantKind(t, func() error {
		_, err := f.svc.UpdateTask(f.ctx, other, f.board, id, TaskUpdate{Title: &title})
		return err
	}(), apperr.KindNotFound)
}

func TestDensityAcrossOperations(t *testing.T) {
	f := newFixture(t)
	ids := f.boards(t, 5)

	steps := []func() error{
		func() error { return f.svc.DeleteBoard(f.ctx, f.user, ids[2]) },
		func() error { return f.svc.ReorderBoards(f.ctx, f.user, []string{ids[0], ids[1], ids[3], ids[4]}) },
		func() error { _, err := f.svc.CreateBoard(f.ctx, f.user); return err },
		func() error { return f.svc.DeleteBoard(f.ctx, f.user, ids[0]) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		f.listIDs(t, false)
	}
}

type brokenSections struct {
	Store
	err error
}

func (b *brokenSections) GetSection(ctx context.Context, id string) (*model.Section, error) {
	return nil, b.err
}

func TestTaskLookupSurfacesStorageFailure(t *testing.T) {
	f := newSectionFixture(t)
	s := f.section(t)
	ids := f.tasks(t, s, 1)

	svc := NewService(&brokenSections{Store: f.db, err: errors.New("disk I/O error")}, nil)
	err := svc.DeleteTask(f.ctx, f.user, f.board, ids[0])
	if !apperr.Is(err, apperr.KindStorage) {
		t.Fatalf("DeleteTask error = %v, want storage error", err)
	}

	if got := f.taskOrder(t, s); len(got) != 1 {
		t.Fatalf("task deleted despite lookup failure: %v", got)
	}
}
