package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/philosophies/internal/client/models"
	"github.com/dmitrijs2005/philosophies/internal/common"
	"github.com/dmitrijs2005/philosophies/internal/logging"
)

const (
	sessionStorageKey = "supabase.auth.session"

	// Access tokens closer than this to expiry are refreshed before use.
	expiryLeeway = 30 * time.Second

	maxErrorBody = 64 << 10
)

// SessionStorage persists the session between runs. The metadata
// repository satisfies it.
type SessionStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// SupabaseClient talks to a Supabase project: GoTrue for auth and PostgREST
// for the profiles table.
//
// The session is guarded by mu. Listeners registered with OnAuthStateChange
// are invoked with mu held, so a listener that calls back into the client
// synchronously deadlocks; defer such work to another scheduling turn.
type SupabaseClient struct {
	baseURL *url.URL
	anonKey string
	http    *http.Client
	storage SessionStorage
	logger  logging.Logger
	now     func() time.Time

	mu      sync.Mutex
	session *models.Session
	loaded  bool

	lmu       sync.RWMutex
	listeners map[uint64]AuthStateListener
	nextID    uint64
}

var _ Client = (*SupabaseClient)(nil)

type Option func(*SupabaseClient)

func WithHTTPClient(c *http.Client) Option {
	return func(s *SupabaseClient) { s.http = c }
}

func WithSessionStorage(st SessionStorage) Option {
	return func(s *SupabaseClient) { s.storage = st }
}

func WithLogger(l logging.Logger) Option {
	return func(s *SupabaseClient) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *SupabaseClient) { s.now = now }
}

// NewSupabaseClient builds a client for the project at baseURL
// (e.g. https://abc.supabase.co) using its anon key.
func NewSupabaseClient(baseURL, anonKey string, opts ...Option) (*SupabaseClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse supabase url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("supabase url %q must be absolute", baseURL)
	}

	c := &SupabaseClient{
		baseURL:   u,
		anonKey:   anonKey,
		http:      &http.Client{Timeout: 30 * time.Second},
		logger:    logging.Discard(),
		now:       time.Now,
		listeners: make(map[uint64]AuthStateListener),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type subscription struct {
	once   sync.Once
	cancel func()
}

func (s *subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

// OnAuthStateChange registers listener for session changes. Listeners are
// called in registration order.
func (c *SupabaseClient) OnAuthStateChange(listener AuthStateListener) Subscription {
	c.lmu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = listener
	c.lmu.Unlock()

	return &subscription{cancel: func() {
		c.lmu.Lock()
		delete(c.listeners, id)
		c.lmu.Unlock()
	}}
}

// emit notifies listeners. Callers hold c.mu.
func (c *SupabaseClient) emit(event models.AuthEvent, s *models.Session) {
	c.lmu.RLock()
	ids := make([]uint64, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	ls := make([]AuthStateListener, 0, len(ids))
	for _, id := range ids {
		ls = append(ls, c.listeners[id])
	}
	c.lmu.RUnlock()

	for _, l := range ls {
		l(event, s.Clone())
	}
}

func (c *SupabaseClient) Close() error {
	c.lmu.Lock()
	c.listeners = make(map[uint64]AuthStateListener)
	c.lmu.Unlock()
	c.http.CloseIdleConnections()
	return nil
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	bearer  string
	headers map[string]string
}

// do sends r and decodes a successful JSON answer into out (if non-nil).
// Transport failures wrap ErrUnavailable; error statuses become *APIError.
func (c *SupabaseClient) do(ctx context.Context, r request, out any) error {
	u := c.baseURL.JoinPath(r.path)
	if r.query != nil {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return err
	}

	bearer := r.bearer
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set(common.APIKeyHeaderName, c.anonKey)
	req.Header.Set(common.AuthorizationHeaderName, "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrBadResponse, r.method, r.path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	apiErr := &APIError{Status: resp.StatusCode}
	var b apiErrorBody
	if err := json.Unmarshal(raw, &b); err == nil {
		apiErr.Code = b.code()
		apiErr.Message = b.message()
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// isSessionGone reports whether err means the service no longer knows the
// session, as opposed to being unreachable.
func isSessionGone(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	}
	return false
}
