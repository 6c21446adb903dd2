package ordering

import (
	"context"
	"fmt"
)

// Kind identifies which ordering field a partition maintains
type Kind int

const (
	KindBoards Kind = iota + 1
	KindBookmarks
	KindTasks
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindBoards:
		return "boards"
	case KindBookmarks:
		return "bookmarks"
	case KindTasks:
		return "tasks"
	default:
		return "unknown"
	}
}

// Partition names a set of siblings sharing one parent
type Partition struct {
	Kind   Kind
	Parent string
}

// Boards is the partition of boards owned by userID
func Boards(userID string) Partition {
	return Partition{Kind: KindBoards, Parent: userID}
}

// Bookmarks is the partition of bookmarked boards owned by userID
func Bookmarks(userID string) Partition {
	return Partition{Kind: KindBookmarks, Parent: userID}
}

// Tasks is the partition of tasks inside sectionID
func Tasks(sectionID string) Partition {
	return Partition{Kind: KindTasks, Parent: sectionID}
}

func (p Partition) String() string {
	return fmt.Sprintf("%s:%s", p.Kind, p.Parent)
}

// Member is one sibling and its current rank
type Member struct {
	ID   string
	Rank int
}

// Store persists ranks for the members of a partition.
//
// Place writes rank for id and makes id a member of p. For task partitions
// this reassigns the task's section to p.Parent. Writes are independent
// point updates; nothing spans more than one member.
type Store interface {
	// Members returns the partition's members sorted ascending by rank.
	Members(ctx context.Context, p Partition) ([]Member, error)
	Count(ctx context.Context, p Partition) (int, error)
	Place(ctx context.Context, p Partition, id string, rank int) error
}
