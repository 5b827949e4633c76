package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/philosophies/internal/client/services"
)

// clearMarker entered alone on a list prompt empties the list when editing.
const clearMarker = "-"

// readPhilosophy prompts for every field of the form. With a non-nil
// current, an empty answer keeps the current value.
func (a *App) readPhilosophy(ctx context.Context, current *services.PhilosophyInput) (services.PhilosophyInput, error) {
	var in services.PhilosophyInput
	editing := current != nil
	if editing {
		in = *current
	}

	fields := []struct {
		label       string
		placeholder string
		dst         *string
	}{
		{"Title", "e.g., Mono no Aware (物の哀れ)", &in.Title},
		{"Category", "e.g., Aesthetics, Ethics, Buddhism", &in.Category},
		{"Short Description", "Brief description (will appear on cards)", &in.Description},
	}
	for _, f := range fields {
		prompt := fmt.Sprintf("%s (%s)", f.label, f.placeholder)
		if editing {
			prompt = fmt.Sprintf("%s [%s]", f.label, *f.dst)
		}
		v, err := GetSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return in, err
		}
		if v != "" || !editing {
			*f.dst = v
		}
	}

	paras, err := GetLines(a.reader, "Full Description, one paragraph per line"+keepHint(editing, len(in.FullDescription)), a.out)
	if err != nil {
		return in, err
	}
	if len(paras) > 0 || !editing {
		in.FullDescription = paras
	}

	image, err := a.readImage(ctx, in.Image, editing)
	if err != nil {
		return in, err
	}
	in.Image = image

	principles, err := GetLines(a.reader, "Key Principles (optional), one per line"+keepHint(editing, len(in.Principles)), a.out)
	if err != nil {
		return in, err
	}
	switch {
	case editing && len(principles) == 1 && principles[0] == clearMarker:
		in.Principles = nil
	case len(principles) > 0 || !editing:
		in.Principles = principles
	}
	return in, nil
}

func keepHint(editing bool, n int) string {
	if !editing {
		return ""
	}
	return fmt.Sprintf(" [%d kept if empty, %q clears]", n, clearMarker)
}

// readImage accepts an image URL or a local file path; files are uploaded
// through the image service.
func (a *App) readImage(ctx context.Context, current string, editing bool) (string, error) {
	prompt := "Image URL or path to an image file (https://example.com/image.jpg)"
	if editing {
		prompt = fmt.Sprintf("Image URL or path to an image file [%s]", imageLabel(current))
	}
	v, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}

	switch {
	case v == "" && editing:
		return current, nil
	case v == "", strings.HasPrefix(v, "http://"), strings.HasPrefix(v, "https://"), strings.HasPrefix(v, "data:"):
		return v, nil
	}
	return a.uploadFile(ctx, v)
}
