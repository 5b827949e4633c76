package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/philosophies/internal/client/guard"
	"github.com/dmitrijs2005/philosophies/internal/client/models"
	"github.com/dmitrijs2005/philosophies/internal/client/services"
)

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
)

func (a *App) header() {
	fmt.Fprintln(a.out, headerStyle.Render("Japanese Philosophies"))
	fmt.Fprintln(a.out, mutedStyle.Render("Explore the ancient wisdom and timeless teachings of Japanese philosophical traditions"))
	fmt.Fprintln(a.out)
}

// Home lists the catalogue as cards.
func (a *App) Home(ctx context.Context) error {
	a.route = guard.RouteHome

	items, err := a.catalogue.List(ctx)
	if err != nil {
		a.logger.Error(ctx, "error listing philosophies", "error", err)
		a.notify("Could not load philosophies", err.Error(), models.VariantDestructive)
		return err
	}

	a.header()
	if len(items) == 0 {
		fmt.Fprintln(a.out, mutedStyle.Render("No philosophies yet."))
		return nil
	}
	for _, p := range items {
		fmt.Fprintln(a.out, renderCard(p))
	}
	fmt.Fprintln(a.out, mutedStyle.Render("Type 'show <id>' to read more."))
	return nil
}

func renderCard(p models.Philosophy) string {
	var b strings.Builder
	b.WriteString(categoryStyle.Render(p.Category) + "\n")
	b.WriteString(titleStyle.Render(p.Title) + "\n")
	b.WriteString(p.Description + "\n")
	b.WriteString(mutedStyle.Render("id: " + p.ID))
	return cardStyle.Render(b.String())
}

// Show renders one article. An unknown id sends the user back home.
func (a *App) Show(ctx context.Context, id string) error {
	p, err := a.catalogue.Get(ctx, id)
	switch {
	case errors.Is(err, services.ErrNotFound):
		a.notify("Philosophy not found", fmt.Sprintf("There is no philosophy with id %q.", id), models.VariantDestructive)
		return a.Home(ctx)
	case err != nil:
		a.logger.Error(ctx, "error loading philosophy", "id", id, "error", err)
		a.notify("Could not load philosophy", err.Error(), models.VariantDestructive)
		return err
	}

	a.route = guard.PhilosophyRoute(id)
	fmt.Fprintln(a.out, renderDetail(p))
	return nil
}

func renderDetail(p *models.Philosophy) string {
	var b strings.Builder
	b.WriteString(categoryStyle.Render(p.Category) + "\n")
	b.WriteString(headerStyle.Render(p.Title) + "\n")
	b.WriteString(mutedStyle.Render("Image: "+imageLabel(p.Image)) + "\n\n")
	for _, para := range p.FullDescription {
		b.WriteString(para + "\n\n")
	}
	if len(p.Principles) > 0 {
		b.WriteString(titleStyle.Render("Key Principles") + "\n")
		for _, pr := range p.Principles {
			b.WriteString("  • " + pr + "\n")
		}
	}
	b.WriteString(mutedStyle.Render("Type 'list' to go back."))
	return b.String()
}

// imageLabel keeps inline data: URLs from flooding the terminal.
func imageLabel(image string) string {
	if strings.HasPrefix(image, "data:") {
		return fmt.Sprintf("uploaded image (%d bytes inline)", len(image))
	}
	return image
}
