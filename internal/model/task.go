package model

import "time"

// Task is a single card inside a section
type Task struct {
	ID        string    `json:"id"`
	SectionID string    `json:"section"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewTask creates an empty task at the given position
func NewTask(id, sectionID string, position int) Task {
	return Task{
		ID:        id,
		SectionID: sectionID,
		Position:  position,
		CreatedAt: time.Now().UTC(),
	}
}
