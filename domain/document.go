package domain

import (
	"time"
)

// Document is the persisted record for a user's document. IDs are
// sequential per user, assigned by the backend on create.
type Document struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentPatch carries the fields of an update. A nil field is left
// unchanged; the autosave engine always sends both, making every update a
// full overwrite (last-write-wins).
type DocumentPatch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// Overwrite builds a patch that replaces both title and content.
func Overwrite(title, content string) DocumentPatch {
	return DocumentPatch{Title: &title, Content: &content}
}

// Apply copies the set fields of the patch onto the document and bumps
// UpdatedAt.
func (p DocumentPatch) Apply(doc *Document, now time.Time) {
	if p.Title != nil {
		doc.Title = *p.Title
	}
	if p.Content != nil {
		doc.Content = *p.Content
	}
	doc.UpdatedAt = now
}
