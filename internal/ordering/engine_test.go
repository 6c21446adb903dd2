package ordering

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func seedBoards(f *fakeStore, user string, ids ...string) {
	for i, id := range ids {
		f.boards[id] = &fakeBoard{user: user, position: i}
	}
}

func seedTasks(f *fakeStore, section string, ids ...string) {
	for i, id := range ids {
		f.tasks[id] = &fakeTask{section: section, position: i}
	}
}

func TestNextRank(t *testing.T) {
	f := newFakeStore()
	e := NewEngine(f)
	ctx := context.Background()

	rank, err := e.NextRank(ctx, Boards("u1"))
	if err != nil {
		t.Fatalf("NextRank: %v", err)
	}
	if rank != 0 {
		t.Errorf("first board rank = %d, want 0", rank)
	}

	seedBoards(f, "u1", "a", "b", "c")
	seedBoards(f, "u2", "x")
	rank, err = e.NextRank(ctx, Boards("u1"))
	if err != nil {
		t.Fatalf("NextRank: %v", err)
	}
	if rank != 3 {
		t.Errorf("fourth board rank = %d, want 3", rank)
	}

	// the new board is presented first
	f.boards["d"] = &fakeBoard{user: "u1", position: rank}
	if got := f.descending(Boards("u1"))[0]; got != "d" {
		t.Errorf("first presented board = %s, want d", got)
	}
}

func TestReorderBoards(t *testing.T) {
	f := newFakeStore()
	seedBoards(f, "u1", "a", "b", "c")
	e := NewEngine(f)

	order := []string{"a", "c", "b"}
	if err := e.Reorder(context.Background(), Boards("u1"), order); err != nil {
		t.Fatalf("Reorder: %v", err)
	}

	want := map[string]int{"a": 2, "c": 1, "b": 0}
	if got := f.ranks(Boards("u1")); !reflect.DeepEqual(got, want) {
		t.Errorf("ranks = %v, want %v", got, want)
	}
	if got := f.descending(Boards("u1")); !reflect.DeepEqual(got, order) {
		t.Errorf("descending = %v, want %v", got, order)
	}
}

func TestReorderIsIdempotent(t *testing.T) {
	f := newFakeStore()
	seedBoards(f, "u1", "a", "b", "c", "d")
	e := NewEngine(f)
	ctx := context.Background()
	order := []string{"d", "a", "c", "b"}

	if err := e.Reorder(ctx, Boards("u1"), order); err != nil {
		t.Fatalf("first Reorder: %v", err)
	}
	first := f.ranks(Boards("u1"))
	if err := e.Reorder(ctx, Boards("u1"), order); err != nil {
		t.Fatalf("second Reorder: %v", err)
	}
	if got := f.ranks(Boards("u1")); !reflect.DeepEqual(got, first) {
		t.Errorf("resubmitted ranks = %v, want %v", got, first)
	}
}

func TestReorderStopsOnWriteFailure(t *testing.T) {
	f := newFakeStore()
	seedBoards(f, "u1", "a", "b", "c")
	f.failAfter = 2
	e := NewEngine(f)

	err := e.Reorder(context.Background(), Boards("u1"), []string{"c", "b", "a"})
	if !errors.Is(err, errWriteFailed) {
		t.Fatalf("Reorder error = %v, want %v", err, errWriteFailed)
	}
	if f.writes != 2 {
		t.Errorf("writes = %d, want 2", f.writes)
	}
	// first write applied, the rest untouched
	want := map[string]int{"a": 0, "b": 1, "c": 2}
	if got := f.ranks(Boards("u1")); !reflect.DeepEqual(got, want) {
		t.Errorf("ranks after failure = %v, want %v", got, want)
	}
}

func TestMoveTasksWithinSection(t *testing.T) {
	f := newFakeStore()
	seedTasks(f, "s1", "t0", "t1", "t2")
	e := NewEngine(f)

	order := []string{"t0", "t2", "t1"}
	if err := e.MoveTasks(context.Background(), "s1", "s1", []string{"ignored"}, order); err != nil {
		t.Fatalf("MoveTasks: %v", err)
	}
	if got := f.descending(Tasks("s1")); !reflect.DeepEqual(got, order) {
		t.Errorf("descending = %v, want %v", got, order)
	}
	if f.writes != 3 {
		t.Errorf("writes = %d, want 3 (source list must not be written)", f.writes)
	}
}

func TestMoveTasksAcrossSectionsReparentsSourceRemainder(t *testing.T) {
	f := newFakeStore()
	seedTasks(f, "s1", "r2", "t", "r1") // presented r1, t, r2
	seedTasks(f, "s2", "d2", "d1")      // presented d1, d2
	e := NewEngine(f)

	err := e.MoveTasks(context.Background(), "s1", "s2",
		[]string{"r1", "r2"},
		[]string{"d1", "t", "d2"})
	if err != nil {
		t.Fatalf("MoveTasks: %v", err)
	}

	for _, id := range []string{"d1", "t", "d2", "r1", "r2"} {
		if f.tasks[id].section != "s2" {
			t.Errorf("task %s section = %s, want s2", id, f.tasks[id].section)
		}
	}
	wantPos := map[string]int{"d1": 2, "t": 1, "d2": 0, "r1": 1, "r2": 0}
	for id, pos := range wantPos {
		if f.tasks[id].position != pos {
			t.Errorf("task %s position = %d, want %d", id, f.tasks[id].position, pos)
		}
	}
	if n, _ := f.Count(context.Background(), Tasks("s1")); n != 0 {
		t.Errorf("source section still has %d tasks", n)
	}
}

func TestRenumberAfterDeletion(t *testing.T) {
	f := newFakeStore()
	seedBoards(f, "u1", "x", "y", "z")
	e := NewEngine(f)
	delete(f.boards, "y")

	if err := e.Renumber(context.Background(), Boards("u1")); err != nil {
		t.Fatalf("Renumber: %v", err)
	}
	want := map[string]int{"x": 0, "z": 1}
	if got := f.ranks(Boards("u1")); !reflect.DeepEqual(got, want) {
		t.Errorf("ranks = %v, want %v", got, want)
	}
}

func TestRenumberSkipsExcludedMember(t *testing.T) {
	f := newFakeStore()
	seedTasks(f, "s1", "a", "b", "c", "d")
	e := NewEngine(f)

	if err := e.Renumber(context.Background(), Tasks("s1"), "b"); err != nil {
		t.Fatalf("Renumber: %v", err)
	}
	if f.tasks["a"].position != 0 || f.tasks["c"].position != 1 || f.tasks["d"].position != 2 {
		t.Errorf("unexpected positions a=%d c=%d d=%d",
			f.tasks["a"].position, f.tasks["c"].position, f.tasks["d"].position)
	}
	if f.tasks["b"].position != 1 {
		t.Errorf("excluded member was rewritten: %d", f.tasks["b"].position)
	}
}

func TestDensityAcrossOperations(t *testing.T) {
	f := newFakeStore()
	e := NewEngine(f)
	ctx := context.Background()
	p := Boards("u1")

	add := func(id string) {
		rank, err := e.NextRank(ctx, p)
		if err != nil {
			t.Fatalf("NextRank: %v", err)
		}
		f.boards[id] = &fakeBoard{user: "u1", position: rank}
	}
	remove := func(id string) {
		delete(f.boards, id)
		if err := e.Renumber(ctx, p); err != nil {
			t.Fatalf("Renumber: %v", err)
		}
	}

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		add(id)
	}
	remove("c")
	if err := e.Reorder(ctx, p, []string{"a", "b", "d", "e"}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	add("f")
	remove("a")
	remove("f")

	ranks := f.ranks(p)
	if len(ranks) != 3 || !isDense(ranks) {
		t.Errorf("ranks not dense: %v", ranks)
	}
	if got := f.descending(p); !reflect.DeepEqual(got, []string{"b", "d", "e"}) {
		t.Errorf("descending = %v", got)
	}
}
