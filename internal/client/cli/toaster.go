package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/philosophies/internal/client/models"
)

// Toaster prints notifications as bordered boxes. Destructive ones get a
// red border. It is safe for concurrent use.
type Toaster struct {
	mu          sync.Mutex
	w           io.Writer
	box         lipgloss.Style
	destructive lipgloss.Style
	title       lipgloss.Style
}

func NewToaster(w io.Writer) *Toaster {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	return &Toaster{
		w:           w,
		box:         box.BorderForeground(lipgloss.Color("8")),
		destructive: box.BorderForeground(lipgloss.Color("196")),
		title:       lipgloss.NewStyle().Bold(true),
	}
}

func (t *Toaster) Notify(n models.Notification) {
	body := t.title.Render(n.Title)
	if n.Description != "" {
		body += "\n" + n.Description
	}
	style := t.box
	if n.Destructive() {
		style = t.destructive
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, style.Render(body))
}
