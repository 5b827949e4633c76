package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/philosophies/internal/client/models"
	"github.com/dmitrijs2005/philosophies/internal/client/repositories/philosophies"
	"github.com/dmitrijs2005/philosophies/internal/client/seed"
	"github.com/dmitrijs2005/philosophies/internal/dbx"
	"github.com/dmitrijs2005/philosophies/internal/logging"
	"github.com/go-playground/validator/v10"
)

// PhilosophyService manages the article catalogue in the local database.
//
// Contract:
//   - Get and Delete return ErrNotFound for unknown ids.
//   - Add derives the id from the title (see Slug) and refuses duplicates
//     with ErrDuplicateID.
//   - Add and Update normalize the input first and reject it with an error
//     wrapping common.ErrorValidation when a required field is missing.
//   - SeedIfEmpty loads the embedded catalogue into an empty database and
//     reports how many articles it added.
type PhilosophyService interface {
	List(ctx context.Context) ([]models.Philosophy, error)
	Get(ctx context.Context, id string) (*models.Philosophy, error)
	Add(ctx context.Context, in PhilosophyInput) (*models.Philosophy, error)
	Update(ctx context.Context, id string, in PhilosophyInput) (*models.Philosophy, error)
	Delete(ctx context.Context, id string) error
	SeedIfEmpty(ctx context.Context) (int, error)
}

type philosophyService struct {
	db       *sql.DB
	validate *validator.Validate
	logger   logging.Logger
}

func NewPhilosophyService(db *sql.DB, logger logging.Logger) PhilosophyService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &philosophyService{db: db, validate: newValidator(), logger: logger}
}

func (s *philosophyService) repo(db dbx.DBTX) philosophies.Repository {
	return philosophies.NewSQLiteRepository(db)
}

func (s *philosophyService) List(ctx context.Context) ([]models.Philosophy, error) {
	return s.repo(s.db).GetAll(ctx)
}

func (s *philosophyService) Get(ctx context.Context, id string) (*models.Philosophy, error) {
	return s.repo(s.db).GetByID(ctx, id)
}

func (s *philosophyService) check(in PhilosophyInput) (PhilosophyInput, error) {
	in = in.Normalize()
	if err := s.validate.Struct(in); err != nil {
		return in, validationError(err)
	}
	return in, nil
}

func (s *philosophyService) Add(ctx context.Context, in PhilosophyInput) (*models.Philosophy, error) {
	in, err := s.check(in)
	if err != nil {
		return nil, err
	}
	p := in.toModel(Slug(in.Title))

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		_, err := r.GetByID(ctx, p.ID)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %q", ErrDuplicateID, p.ID)
		case !errors.Is(err, ErrNotFound):
			return err
		}
		return r.Upsert(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "philosophy added", "id", p.ID)
	return p, nil
}

func (s *philosophyService) Update(ctx context.Context, id string, in PhilosophyInput) (*models.Philosophy, error) {
	in, err := s.check(in)
	if err != nil {
		return nil, err
	}

	var out *models.Philosophy
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		existing, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		p := in.toModel(id)
		p.CreatedAt = existing.CreatedAt
		if err := r.Upsert(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "philosophy updated", "id", id)
	return out, nil
}

func (s *philosophyService) Delete(ctx context.Context, id string) error {
	if err := s.repo(s.db).DeleteByID(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "philosophy deleted", "id", id)
	return nil
}

func (s *philosophyService) SeedIfEmpty(ctx context.Context) (int, error) {
	items, err := seed.Philosophies()
	if err != nil {
		return 0, err
	}

	added := 0
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		n, err := r.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		for i := range items {
			if err := r.Upsert(ctx, &items[i]); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed catalogue: %w", err)
	}

	if added > 0 {
		s.logger.Info(ctx, "catalogue seeded", "count", added)
	}
	return added, nil
}
