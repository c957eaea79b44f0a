package domain

import (
	"slices"
	"time"
)

// CardStatus is the completion state of a task card.
type CardStatus string

const (
	StatusPending   CardStatus = "pending"
	StatusCompleted CardStatus = "completed"
)

// ChecklistItem is a single checkbox line on a card.
type ChecklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Attachment references a file attached to a card.
type Attachment struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FileType  string `json:"fileType"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Card is a task card with markdown description, checklist and attachments.
type Card struct {
	ItemBase
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Status       CardStatus      `json:"status" validate:"omitempty,oneof=pending completed"`
	Checklist    []ChecklistItem `json:"checklist,omitempty"`
	Attachments  []Attachment    `json:"attachments,omitempty"`
	Labels       []string        `json:"labels,omitempty"`
	DueDate      *time.Time      `json:"dueDate,omitempty"`
	ReminderDate *time.Time      `json:"reminderDate,omitempty"`
	Cover        string          `json:"cover,omitempty"`
}

// Clone deep-copies the card.
func (c *Card) Clone() Item {
	out := *c
	out.Checklist = slices.Clone(c.Checklist)
	out.Attachments = slices.Clone(c.Attachments)
	out.Labels = slices.Clone(c.Labels)
	if c.DueDate != nil {
		d := *c.DueDate
		out.DueDate = &d
	}
	if c.ReminderDate != nil {
		r := *c.ReminderDate
		out.ReminderDate = &r
	}
	return &out
}

// ChecklistProgress returns the number of completed checklist entries and the total.
func (c *Card) ChecklistProgress() (done, total int) {
	for _, ci := range c.Checklist {
		if ci.Completed {
			done++
		}
	}
	return done, len(c.Checklist)
}
