package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/philosophies/internal/client/models"
	"github.com/dmitrijs2005/philosophies/internal/common"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PhilosophyInput is the admin form. Paragraphs and principles are entered
// one per line; blank ones are dropped by Normalize.
type PhilosophyInput struct {
	Title           string   `json:"title" validate:"required,max=200"`
	Category        string   `json:"category" validate:"required,max=100"`
	Description     string   `json:"description" validate:"required,max=500"`
	FullDescription []string `json:"full_description" validate:"min=1,dive,required"`
	Image           string   `json:"image" validate:"required,url|datauri"`
	Principles      []string `json:"principles" validate:"omitempty,dive,required"`
}

// InputFrom fills a form from an existing article, for editing.
func InputFrom(p *models.Philosophy) PhilosophyInput {
	return PhilosophyInput{
		Title:           p.Title,
		Category:        p.Category,
		Description:     p.Description,
		FullDescription: append([]string(nil), p.FullDescription...),
		Image:           p.Image,
		Principles:      append([]string(nil), p.Principles...),
	}
}

func (in PhilosophyInput) Normalize() PhilosophyInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	in.Image = strings.TrimSpace(in.Image)
	in.FullDescription = dropBlank(in.FullDescription)
	in.Principles = dropBlank(in.Principles)
	return in
}

func (in PhilosophyInput) toModel(id string) *models.Philosophy {
	return &models.Philosophy{
		ID:              id,
		Title:           in.Title,
		Description:     in.Description,
		FullDescription: in.FullDescription,
		Image:           in.Image,
		Category:        in.Category,
		Principles:      in.Principles,
	}
}

func dropBlank(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return strings.ReplaceAll(name, "_", " ")
	})
	return v
}

// validationError turns validator output into one readable message that
// wraps common.ErrorValidation.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if i := strings.IndexByte(field, '['); i >= 0 {
			field = field[:i]
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "min":
			msgs = append(msgs, field+" needs at least "+fe.Param()+" entry")
		case "max":
			msgs = append(msgs, field+" is longer than "+fe.Param()+" characters")
		case "url|datauri":
			msgs = append(msgs, field+" must be a URL or an uploaded image")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return fmt.Errorf("%w: %s", common.ErrorValidation, strings.Join(msgs, "; "))
}

var (
	slugSpace   = regexp.MustCompile(`\s+`)
	slugNonWord = regexp.MustCompile(`[^\w-]+`)
	slugDashes  = regexp.MustCompile(`-{2,}`)
)

// Slug derives an article id from its title: lower case, whitespace runs
// become "-", everything but ASCII letters, digits, "_" and "-" is dropped.
// A title with nothing left gets a random id.
func Slug(title string) string {
	s := strings.ToLower(title)
	s = slugSpace.ReplaceAllString(s, "-")
	s = slugNonWord.ReplaceAllString(s, "")
	s = slugDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "philosophy-" + strings.SplitN(uuid.NewString(), "-", 2)[0]
	}
	return s
}
