package core

import "time"

// Note is the central entity of the domain.
// Its Title doubles as the storage key: one note, one file.
type Note struct {
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// NoteInfo is the summary yielded while listing notes.
type NoteInfo struct {
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	// File is the base name of the backing file.
	File string `json:"file"`
}
