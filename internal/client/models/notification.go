package models

import (
	"time"

	"github.com/google/uuid"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a short user-facing message (a toast).
type Notification struct {
	ID          uuid.UUID
	Title       string
	Description string
	Variant     Variant
	CreatedAt   time.Time
}

func NewNotification(title, description string, variant Variant) Notification {
	return Notification{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Variant:     variant,
		CreatedAt:   time.Now(),
	}
}

func (n Notification) Destructive() bool {
	return n.Variant == VariantDestructive
}
