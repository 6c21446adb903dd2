package ordering

import (
	"context"
	"errors"
	"sort"
)

var errWriteFailed = errors.New("write failed")

type fakeBoard struct {
	user        string
	position    int
	bookmark    bool
	bookmarkPos int
}

type fakeTask struct {
	section  string
	position int
}

type fakeStore struct {
	boards map[string]*fakeBoard
	tasks  map[string]*fakeTask
	writes int
	// failAfter makes the n-th write (1-based) fail when > 0
	failAfter int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		boards: map[string]*fakeBoard{},
		tasks:  map[string]*fakeTask{},
	}
}

func (f *fakeStore) Members(ctx context.Context, p Partition) ([]Member, error) {
	var out []Member
	switch p.Kind {
	case KindBoards:
		for id, b := range f.boards {
			if b.user == p.Parent {
				out = append(out, Member{ID: id, Rank: b.position})
			}
		}
	case KindBookmarks:
		for id, b := range f.boards {
			if b.user == p.Parent && b.bookmark {
				out = append(out, Member{ID: id, Rank: b.bookmarkPos})
			}
		}
	case KindTasks:
		for id, t := range f.tasks {
			if t.section == p.Parent {
				out = append(out, Member{ID: id, Rank: t.position})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeStore) Count(ctx context.Context, p Partition) (int, error) {
	m, err := f.Members(ctx, p)
	return len(m), err
}

func (f *fakeStore) Place(ctx context.Context, p Partition, id string, rank int) error {
	f.writes++
	if f.failAfter > 0 && f.writes >= f.failAfter {
		return errWriteFailed
	}
	switch p.Kind {
	case KindBoards, KindBookmarks:
		b, ok := f.boards[id]
		if !ok || b.user != p.Parent {
			return errors.New("not found")
		}
		if p.Kind == KindBoards {
			b.position = rank
		} else {
			b.bookmarkPos = rank
		}
	case KindTasks:
		t, ok := f.tasks[id]
		if !ok {
			return errors.New("not found")
		}
		t.section = p.Parent
		t.position = rank
	}
	return nil
}

// descending returns member ids of p ordered the way they are presented
func (f *fakeStore) descending(p Partition) []string {
	members, _ := f.Members(context.Background(), p)
	ids := make([]string, len(members))
	for i, m := range members {
		ids[len(members)-1-i] = m.ID
	}
	return ids
}

func (f *fakeStore) ranks(p Partition) map[string]int {
	members, _ := f.Members(context.Background(), p)
	out := make(map[string]int, len(members))
	for _, m := range members {
		out[m.ID] = m.Rank
	}
	return out
}

func isDense(ranks map[string]int) bool {
	seen := make(map[int]bool, len(ranks))
	for _, r := range ranks {
		if r < 0 || r >= len(ranks) || seen[r] {
			return false
		}
		seen[r] = true
	}
	return true
}
