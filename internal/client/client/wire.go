package client

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/philosophies/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
)

// userWire is the GoTrue user object.
type userWire struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	ConfirmationSentAt *time.Time `json:"confirmation_sent_at,omitempty"`
	EmailConfirmedAt   *time.Time `json:"email_confirmed_at,omitempty"`
}

func (u *userWire) toModel() *models.User {
	if u == nil || u.ID == "" {
		return nil
	}
	return &models.User{
		ID:                 u.ID,
		Email:              u.Email,
		ConfirmationSentAt: u.ConfirmationSentAt,
		EmailConfirmedAt:   u.EmailConfirmedAt,
	}
}

func userToWire(u models.User) *userWire {
	return &userWire{
		ID:                 u.ID,
		Email:              u.Email,
		ConfirmationSentAt: u.ConfirmationSentAt,
		EmailConfirmedAt:   u.EmailConfirmedAt,
	}
}

// tokenResponse is returned by /token and, when no confirmation is needed,
// by /signup.
type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    int64     `json:"expires_at"`
	RefreshToken string    `json:"refresh_token"`
	User         *userWire `json:"user"`
}

// signUpResponse covers both shapes /signup answers with: a token response
// carrying the user, or a bare user object while confirmation is pending.
type signUpResponse struct {
	tokenResponse
	userWire
}

func (r *signUpResponse) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, &r.tokenResponse); err != nil {
		return err
	}
	return json.Unmarshal(b, &r.userWire)
}

func (r *signUpResponse) user() *models.User {
	if r.tokenResponse.User != nil {
		return r.tokenResponse.User.toModel()
	}
	return r.userWire.toModel()
}

// accessClaims are the parts of a Supabase access token the client reads.
// The token is never verified here: the service does that on every request.
type accessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

func parseAccessClaims(token string) (*accessClaims, error) {
	claims := &accessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: access token: %v", ErrBadResponse, err)
	}
	return claims, nil
}

// toSession validates a token response and converts it. Expiry comes from
// expires_at, then expires_in, then the token's exp claim. A response
// without a user object takes the identity from the token's claims.
func (r *tokenResponse) toSession(now time.Time) (*models.Session, error) {
	if r.AccessToken == "" {
		return nil, fmt.Errorf("%w: missing access_token", ErrBadResponse)
	}

	s := &models.Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    r.TokenType,
	}

	var claims *accessClaims
	switch {
	case r.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(r.ExpiresAt, 0)
	case r.ExpiresIn > 0:
		s.ExpiresAt = now.Add(time.Duration(r.ExpiresIn) * time.Second)
	default:
		c, err := parseAccessClaims(r.AccessToken)
		if err != nil {
			return nil, err
		}
		claims = c
		if c.ExpiresAt != nil {
			s.ExpiresAt = c.ExpiresAt.Time
		}
	}

	if u := r.User.toModel(); u != nil {
		s.User = *u
		return s, nil
	}

	if claims == nil {
		c, err := parseAccessClaims(r.AccessToken)
		if err != nil {
			return nil, err
		}
		claims = c
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: session without user", ErrBadResponse)
	}
	s.User = models.User{ID: claims.Subject, Email: claims.Email}
	return s, nil
}

// storedSession is the persisted form of a session in the metadata table.
type storedSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    int64     `json:"expires_at"`
	User         *userWire `json:"user"`
}

func encodeSession(s *models.Session) ([]byte, error) {
	return json.Marshal(storedSession{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresAt:    s.ExpiresAt.Unix(),
		User:         userToWire(s.User),
	})
}

func decodeSession(b []byte, now time.Time) (*models.Session, error) {
	var st storedSession
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("%w: stored session: %v", ErrBadResponse, err)
	}
	tr := tokenResponse{
		AccessToken:  st.AccessToken,
		TokenType:    st.TokenType,
		ExpiresAt:    st.ExpiresAt,
		RefreshToken: st.RefreshToken,
		User:         st.User,
	}
	return tr.toSession(now)
}

// profileRow is a row of the profiles table as PostgREST returns it.
type profileRow struct {
	ID    string  `json:"id"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

func (p profileRow) toModel(wantID string) (*models.Profile, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("%w: profile without id", ErrBadResponse)
	}
	if p.ID != wantID {
		return nil, fmt.Errorf("%w: profile id %q does not match %q", ErrBadResponse, p.ID, wantID)
	}
	out := &models.Profile{ID: p.ID}
	if p.Email != nil {
		out.Email = *p.Email
	}
	if p.Role != nil {
		out.Role = models.Role(*p.Role)
	}
	return out, nil
}

// apiErrorBody collects the error fields GoTrue and PostgREST use.
type apiErrorBody struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
}

func (b apiErrorBody) code() string {
	if b.ErrorCode != "" {
		return b.ErrorCode
	}
	raw := strings.TrimSpace(string(b.Code))
	if raw == "" || raw == "null" {
		return b.Error
	}
	if s, err := strconv.Unquote(raw); err == nil {
		return s
	}
	return raw
}

func (b apiErrorBody) message() string {
	for _, m := range []string{b.ErrorDescription, b.Msg, b.Message, b.Error} {
		if m != "" {
			return m
		}
	}
	return ""
}
