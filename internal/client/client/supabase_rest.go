package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/philosophies/internal/client/models"
	"github.com/dmitrijs2005/philosophies/internal/common"
)

const profilesPath = "rest/v1/profiles"

// QueryProfileByID fetches the profiles row keyed by id. No row is not an
// error: it returns (nil, nil).
func (c *SupabaseClient) QueryProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty profile id", common.ErrorValidation)
	}

	bearer, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}

	var rows []profileRow
	err = c.do(ctx, request{
		method: http.MethodGet,
		path:   profilesPath,
		query: url.Values{
			"select": {"id,email,role"},
			"id":     {"eq." + id},
			"limit":  {"2"},
		},
		bearer: bearer,
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}

	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return rows[0].toModel(id)
	default:
		return nil, fmt.Errorf("%w: %d profiles for id %q", ErrBadResponse, len(rows), id)
	}
}

// UpdateProfileRole sets the role of profile id. The service decides whether
// the caller may do so; a row hidden by row-level security looks the same as
// a missing one and yields common.ErrorNotFound.
func (c *SupabaseClient) UpdateProfileRole(ctx context.Context, id string, role models.Role) error {
	if id == "" {
		return fmt.Errorf("%w: empty profile id", common.ErrorValidation)
	}

	bearer, err := c.bearer(ctx)
	if err != nil {
		return err
	}

	var rows []profileRow
	err = c.do(ctx, request{
		method:  http.MethodPatch,
		path:    profilesPath,
		query:   url.Values{"id": {"eq." + id}},
		body:    map[string]string{"role": string(role)},
		bearer:  bearer,
		headers: map[string]string{common.PreferHeaderName: "return=representation"},
	}, &rows)
	if err != nil {
		return fmt.Errorf("update profile role: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("profile %q: %w", id, common.ErrorNotFound)
	}
	return nil
}
