package model

import "time"

// Default values applied when a board is created or a field is cleared
const (
	DefaultIcon             = "📃"
	DefaultBoardTitle       = "Untitled"
	DefaultBoardDescription = "Add description here\n🟢 You can add multi-line description\n🟢 Let's start!"
)

// Board is a user-owned collection of sections
type Board struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user"`
	Icon             string    `json:"icon"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Position         int       `json:"position"`
	Bookmark         bool      `json:"bookmark"`
	BookmarkPosition int       `json:"bookmarkPosition"`
	CreatedAt        time.Time `json:"createdAt"`

	Sections []Section `json:"sections,omitempty"`
}

// NewBoard returns a board with the default icon, title and description
func NewBoard(id, userID string, position int) Board {
	return Board{
		ID:          id,
		UserID:      userID,
		Icon:        DefaultIcon,
		Title:       DefaultBoardTitle,
		Description: DefaultBoardDescription,
		Position:    position,
		CreatedAt:   time.Now().UTC(),
	}
}

// Section groups tasks inside a board. Sections carry no persisted order.
type Section struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"board"`
	Icon      string    `json:"icon"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`

	Tasks []Task `json:"tasks"`
}

// NewSection returns an empty, untitled section
func NewSection(id, boardID string) Section {
	return Section{
		ID:        id,
		BoardID:   boardID,
		Icon:      DefaultIcon,
		CreatedAt: time.Now().UTC(),
		Tasks:     []Task{},
	}
}
