package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/philosophies/internal/client/guard"
	"github.com/dmitrijs2005/philosophies/internal/client/models"
	"github.com/dmitrijs2005/philosophies/internal/client/services"
)

// Admin is the admin dashboard: the catalogue by id and the admin commands.
func (a *App) Admin(ctx context.Context) error {
	if !a.enter(ctx, guard.RouteAdmin) {
		return nil
	}

	items, err := a.catalogue.List(ctx)
	if err != nil {
		a.logger.Error(ctx, "error listing philosophies", "error", err)
		return err
	}

	fmt.Fprintln(a.out, headerStyle.Render("Admin"))
	for _, p := range items {
		fmt.Fprintf(a.out, "  %-20s %s\n", p.ID, p.Title)
	}
	fmt.Fprintln(a.out, mutedStyle.Render("Commands: add, edit <id>, delete <id>, upload <path>, grant <user-id> <admin|user>"))
	return nil
}

// Add runs the new-philosophy form.
func (a *App) Add(ctx context.Context) error {
	if !a.enter(ctx, guard.RouteAdmin) {
		return nil
	}
	fmt.Fprintln(a.out, titleStyle.Render("Add New Philosophy"))

	in, err := a.readPhilosophy(ctx, nil)
	if err != nil {
		return err
	}
	p, err := a.catalogue.Add(ctx, in)
	if err != nil {
		a.notify("Could not save philosophy", err.Error(), models.VariantDestructive)
		return err
	}

	a.notify("Philosophy added", fmt.Sprintf("%s has been added successfully.", p.Title), models.VariantDefault)
	fmt.Fprintf(a.out, "Saved as %s\n", guard.PhilosophyRoute(p.ID))
	return nil
}

// Edit runs the form over an existing article. Empty answers keep the
// current values.
func (a *App) Edit(ctx context.Context, id string) error {
	if !a.enter(ctx, guard.RouteAdmin) {
		return nil
	}

	p, err := a.catalogue.Get(ctx, id)
	if err != nil {
		a.notFound(ctx, id, err)
		return err
	}
	fmt.Fprintln(a.out, titleStyle.Render("Edit "+p.Title))

	current := services.InputFrom(p)
	in, err := a.readPhilosophy(ctx, &current)
	if err != nil {
		return err
	}
	updated, err := a.catalogue.Update(ctx, id, in)
	if err != nil {
		a.notify("Could not save philosophy", err.Error(), models.VariantDestructive)
		return err
	}

	a.notify("Philosophy updated", fmt.Sprintf("%s has been updated successfully.", updated.Title), models.VariantDefault)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	if !a.enter(ctx, guard.RouteAdmin) {
		return nil
	}

	p, err := a.catalogue.Get(ctx, id)
	if err != nil {
		a.notFound(ctx, id, err)
		return err
	}
	answer, err := GetSimpleText(a.reader, fmt.Sprintf("Delete %q? Type yes to confirm", p.Title), a.out)
	if err != nil {
		return err
	}
	if ans := strings.ToLower(answer); ans != "yes" && ans != "y" {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.catalogue.Delete(ctx, id); err != nil {
		a.notFound(ctx, id, err)
		return err
	}
	a.notify("Philosophy deleted", fmt.Sprintf("%s has been removed.", p.Title), models.VariantDefault)
	return nil
}

// Upload stores an image file and prints the URL to use in the form.
func (a *App) Upload(ctx context.Context, path string) error {
	if !a.enter(ctx, guard.RouteAdmin) {
		return nil
	}

	url, err := a.uploadFile(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Image URL: %s\n", url)
	return nil
}

// Grant sets the role of another user (or of the admin themselves).
func (a *App) Grant(ctx context.Context, userID, role string) error {
	if !a.enter(ctx, guard.RouteAdmin) {
		return nil
	}

	r, err := models.ParseRole(role)
	if err != nil {
		fmt.Fprintln(a.out, errorStyle.Render(err.Error()+", use admin or user"))
		return err
	}
	return a.store.SetRole(ctx, userID, r)
}

func (a *App) notFound(ctx context.Context, id string, err error) {
	if errors.Is(err, services.ErrNotFound) {
		a.notify("Philosophy not found", fmt.Sprintf("There is no philosophy with id %q.", id), models.VariantDestructive)
		return
	}
	a.logger.Error(ctx, "error loading philosophy", "id", id, "error", err)
	a.notify("Could not load philosophy", err.Error(), models.VariantDestructive)
}

func (a *App) uploadFile(ctx context.Context, path string) (string, error) {
	data, err := readImageFile(path)
	if err != nil {
		a.notify("Could not read file", err.Error(), models.VariantDestructive)
		return "", err
	}

	url, err := a.images.Upload(ctx, data)
	switch {
	case errors.Is(err, services.ErrNotImage):
		a.notify("Invalid file type", "Please select an image file", models.VariantDestructive)
	case errors.Is(err, services.ErrImageTooLarge):
		a.notify("File too large", "Please select an image smaller than 5MB", models.VariantDestructive)
	case err != nil:
		a.logger.Error(ctx, "error uploading image", "path", path, "error", err)
		a.notify("Upload failed", err.Error(), models.VariantDestructive)
	}
	return url, err
}

// readImageFile reads at most one byte past MaxImageSize, enough for the
// upload to reject an oversized file without loading all of it.
func readImageFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(io.LimitReader(f, services.MaxImageSize+1))
}
