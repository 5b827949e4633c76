package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/philosophies/internal/client/client"
	"github.com/dmitrijs2005/philosophies/internal/client/models"
	"github.com/dmitrijs2005/philosophies/internal/logging"
)

// Provider is the part of the auth and data service the store uses.
// client.SupabaseClient implements it.
type Provider interface {
	GetSession(ctx context.Context) (*models.Session, error)
	OnAuthStateChange(listener client.AuthStateListener) client.Subscription

	SignInWithPassword(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password, redirectTo string) (*models.SignUpResult, error)
	SignOut(ctx context.Context) error
	UpdatePassword(ctx context.Context, newPassword string) error

	QueryProfileByID(ctx context.Context, id string) (*models.Profile, error)
	UpdateProfileRole(ctx context.Context, id string, role models.Role) error
}

// Scheduler runs a task on a later turn, never on the caller's stack.
// loop.Loop implements it.
type Scheduler interface {
	Post(task func()) bool
}

// Notifier shows a notification to the user.
type Notifier interface {
	Notify(n models.Notification)
}

type NotifierFunc func(n models.Notification)

func (f NotifierFunc) Notify(n models.Notification) { f(n) }

// State is a snapshot of the store. Values are copies.
type State struct {
	Session *models.Session
	User    *models.User
	Profile *models.Profile

	// ProfileResolved is false while the profile of User is being fetched.
	ProfileResolved bool
	IsAdmin         bool

	// Loading is true until the initial session check completes and while
	// an auth action is in flight.
	Loading bool
}

type Option func(*Store)

func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithRedirectURL sets where confirmation emails send the user back to.
func WithRedirectURL(u string) Option {
	return func(s *Store) { s.redirectURL = u }
}

// Store is the session context owned by the application root.
type Store struct {
	provider    Provider
	scheduler   Scheduler
	logger      logging.Logger
	notifier    Notifier
	redirectURL string

	ctx    context.Context
	cancel context.CancelFunc

	mu              sync.Mutex
	session         *models.Session
	user            *models.User
	profile         *models.Profile
	profileResolved bool
	initialized     bool
	pending         int
	generation      uint64
	events          uint64
	changed         chan struct{}

	started bool
	closed  bool
	sub     client.Subscription
}

func NewStore(provider Provider, scheduler Scheduler, logger logging.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		provider:  provider,
		scheduler: scheduler,
		logger:    logger,
		notifier:  NotifierFunc(func(models.Notification) {}),
		ctx:       ctx,
		cancel:    cancel,
		changed:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start subscribes to auth changes and then checks for an existing session.
// It returns once that check has resolved. A failed check is logged and the
// store carries on signed out.
func (s *Store) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	sub := s.provider.OnAuthStateChange(s.handleAuthEvent)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	s.sub = sub
	seen := s.events
	s.mu.Unlock()

	sess, err := s.provider.GetSession(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case err != nil:
		s.logger.Error(ctx, "error initializing auth", "error", err)
	case s.events != seen:
		// an auth event arrived during the check and is at least as recent
		s.logger.Debug(ctx, "initial session superseded by auth event")
	default:
		s.applyLocked(sess)
	}
	s.initialized = true
	s.broadcastLocked()
}

// Close unsubscribes from auth changes and stops pending profile loads
// from being applied. Safe to call more than once and before Start.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	sub := s.sub
	s.sub = nil
	s.generation++
	s.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	s.cancel()
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() State {
	st := State{
		Session:         s.session.Clone(),
		ProfileResolved: s.profileResolved,
		IsAdmin:         s.profile.IsAdmin(),
		Loading:         !s.initialized || s.pending > 0,
	}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	if s.profile != nil {
		p := *s.profile
		st.Profile = &p
	}
	return st
}

// Changed returns a channel closed at the next state change. Call it again
// after it fires to keep watching.
func (s *Store) Changed() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

func (s *Store) broadcastLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}

// handleAuthEvent runs inside the provider's notification frame, so it
// only records the change and posts any provider calls to the scheduler.
func (s *Store) handleAuthEvent(event models.AuthEvent, sess *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.logger.Info(s.ctx, "auth state changed", "event", string(event))
	s.events++
	s.applyLocked(sess)
	s.broadcastLocked()
}

// applyLocked commits sess and, when the identity changed, resets the
// profile and schedules a load for the new identity.
func (s *Store) applyLocked(sess *models.Session) {
	next := sess.Identity()
	if next == nil {
		s.session = nil
	} else {
		s.session = sess.Clone()
	}

	prevID := ""
	if s.user != nil {
		prevID = s.user.ID
	}
	s.user = next

	nextID := ""
	if next != nil {
		nextID = next.ID
	}
	if prevID == nextID {
		return
	}

	s.generation++
	s.profile = nil
	s.profileResolved = false
	if next != nil {
		s.scheduleProfileLocked(nextID)
	}
}

func (s *Store) scheduleProfileLocked(id string) {
	gen := s.generation
	if !s.scheduler.Post(func() { s.loadProfile(gen, id) }) {
		s.logger.Warn(s.ctx, "scheduler closed, profile not loaded", "user_id", id)
		s.profileResolved = true
	}
}

// loadProfile fetches the profile of id and applies it unless the identity
// changed since the load was scheduled.
func (s *Store) loadProfile(gen uint64, id string) {
	p, err := s.provider.QueryProfileByID(s.ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logger.Debug(s.ctx, "discarding stale profile response", "user_id", id)
		return
	}

	switch {
	case err != nil:
		s.logger.Warn(s.ctx, "profile fetch error", "user_id", id, "error", err)
		s.profile = nil
	case p == nil:
		s.logger.Info(s.ctx, "no profile for user", "user_id", id)
		s.profile = nil
	default:
		s.profile = p
	}
	s.profileResolved = true
	s.broadcastLocked()
}

// reloadProfile schedules a fresh fetch for the current user, superseding
// any fetch in flight. The current profile stays visible meanwhile.
func (s *Store) reloadProfile() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.closed {
		return
	}
	s.generation++
	s.scheduleProfileLocked(s.user.ID)
}

// begin marks an action in flight and returns the function that ends it.
func (s *Store) begin() func() {
	s.mu.Lock()
	s.pending++
	s.broadcastLocked()
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.pending--
		s.broadcastLocked()
		s.mu.Unlock()
	}
}

func (s *Store) notify(title, description string, v models.Variant) {
	s.notifier.Notify(models.NewNotification(title, description, v))
}
