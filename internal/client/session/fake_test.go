package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/philosophies/internal/client/client"
	"github.com/dmitrijs2005/philosophies/internal/client/models"
)

var errProviderLocked = errors.New("provider lock held: re-entrant call")

type listenerEntry struct {
	id int
	fn client.AuthStateListener
}

// fakeProvider mimics the real client: listeners run with mu held, and
// data calls take mu, so calling back from a listener is detectable.
type fakeProvider struct {
	mu sync.Mutex

	listeners []listenerEntry
	nextID    int
	calls     []string

	session   *models.Session
	getErr    error
	duringGet func()

	profiles     map[string]*models.Profile
	profileErr   error
	profileCalls []string
	reentrant    int
	blocking     bool

	signInErr   error
	duringCall  func()
	signInEmits *models.Session

	signUpResult   *models.SignUpResult
	signUpErr      error
	signUpRedirect string

	signOutErr error
	signOuts   int

	updatePwErr error
	passwords   []string

	roleErr     error
	roleUpdates map[string]models.Role
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		profiles:    map[string]*models.Profile{},
		roleUpdates: map[string]models.Role{},
	}
}

type fakeSub struct {
	p  *fakeProvider
	id int
}

func (s fakeSub) Unsubscribe() {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	for i, l := range s.p.listeners {
		if l.id == s.id {
			s.p.listeners = append(s.p.listeners[:i], s.p.listeners[i+1:]...)
			return
		}
	}
}

func (p *fakeProvider) OnAuthStateChange(l client.AuthStateListener) client.Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "subscribe")
	p.nextID++
	p.listeners = append(p.listeners, listenerEntry{id: p.nextID, fn: l})
	return fakeSub{p: p, id: p.nextID}
}

func (p *fakeProvider) listenerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.listeners)
}

func (p *fakeProvider) emit(event models.AuthEvent, s *models.Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.emitLocked(event, s)
}

func (p *fakeProvider) emitLocked(event models.AuthEvent, s *models.Session) {
	p.session = s.Clone()
	ls := append([]listenerEntry(nil), p.listeners...)
	for _, l := range ls {
		l.fn(event, s.Clone())
	}
}

func (p *fakeProvider) GetSession(context.Context) (*models.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "getSession")
	if p.duringGet != nil {
		p.duringGet()
	}
	if p.getErr != nil {
		return nil, p.getErr
	}
	return p.session.Clone(), nil
}

func (p *fakeProvider) lock() bool {
	if p.blocking {
		p.mu.Lock()
		return true
	}
	if !p.mu.TryLock() {
		p.reentrant++
		return false
	}
	return true
}

func (p *fakeProvider) QueryProfileByID(_ context.Context, id string) (*models.Profile, error) {
	if !p.lock() {
		return nil, errProviderLocked
	}
	defer p.mu.Unlock()
	p.profileCalls = append(p.profileCalls, id)
	if p.profileErr != nil {
		return nil, p.profileErr
	}
	if pr, ok := p.profiles[id]; ok {
		c := *pr
		return &c, nil
	}
	return nil, nil
}

func (p *fakeProvider) profileCallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.profileCalls)
}

func (p *fakeProvider) SignInWithPassword(context.Context, string, string) error {
	if p.duringCall != nil {
		p.duringCall()
	}
	if p.signInErr != nil {
		return p.signInErr
	}
	if p.signInEmits != nil {
		p.emit(models.EventSignedIn, p.signInEmits)
	}
	return nil
}

func (p *fakeProvider) SignUp(_ context.Context, _, _, redirectTo string) (*models.SignUpResult, error) {
	if p.duringCall != nil {
		p.duringCall()
	}
	p.signUpRedirect = redirectTo
	return p.signUpResult, p.signUpErr
}

func (p *fakeProvider) SignOut(context.Context) error {
	if p.duringCall != nil {
		p.duringCall()
	}
	p.signOuts++
	p.emit(models.EventSignedOut, nil)
	return p.signOutErr
}

func (p *fakeProvider) UpdatePassword(_ context.Context, pw string) error {
	p.passwords = append(p.passwords, pw)
	return p.updatePwErr
}

func (p *fakeProvider) UpdateProfileRole(_ context.Context, id string, role models.Role) error {
	if p.roleErr != nil {
		return p.roleErr
	}
	p.roleUpdates[id] = role
	p.mu.Lock()
	if pr, ok := p.profiles[id]; ok {
		pr.Role = role
	}
	p.mu.Unlock()
	return nil
}

// manualScheduler queues tasks until the test runs them.
type manualScheduler struct {
	tasks  []func()
	closed bool
}

func (m *manualScheduler) Post(task func()) bool {
	if m.closed {
		return false
	}
	m.tasks = append(m.tasks, task)
	return true
}

func (m *manualScheduler) runAll() {
	for len(m.tasks) > 0 {
		t := m.tasks[0]
		m.tasks = m.tasks[1:]
		t()
	}
}

type recorder struct {
	mu  sync.Mutex
	got []models.Notification
}

func (r *recorder) Notify(n models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *recorder) titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.got))
	for _, n := range r.got {
		out = append(out, n.Title)
	}
	return out
}

func (r *recorder) last() models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.got) == 0 {
		return models.Notification{}
	}
	return r.got[len(r.got)-1]
}

func sessionFor(id string) *models.Session {
	return &models.Session{
		AccessToken:  "at-" + id,
		RefreshToken: "rt-" + id,
		User:         models.User{ID: id, Email: id + "@example.com"},
	}
}
