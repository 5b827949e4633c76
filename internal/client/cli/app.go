package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/dmitrijs2005/philosophies/internal/client/client"
	"github.com/dmitrijs2005/philosophies/internal/client/config"
	"github.com/dmitrijs2005/philosophies/internal/client/guard"
	"github.com/dmitrijs2005/philosophies/internal/client/loop"
	"github.com/dmitrijs2005/philosophies/internal/client/models"
	"github.com/dmitrijs2005/philosophies/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/philosophies/internal/client/services"
	"github.com/dmitrijs2005/philosophies/internal/client/session"
	"github.com/dmitrijs2005/philosophies/internal/logging"
)

// sessionStore is the part of session.Store the pages use.
type sessionStore interface {
	guard.Source
	Start(ctx context.Context)
	Close()
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) (*models.SignUpResult, error)
	SignOut(ctx context.Context)
	ChangePassword(ctx context.Context, password, confirm string) error
	SetRole(ctx context.Context, userID string, role models.Role) error
}

type App struct {
	config    *config.Config
	logger    logging.Logger
	store     sessionStore
	guard     *guard.Guard
	toaster   *Toaster
	catalogue services.PhilosophyService
	images    services.ImageService
	reader    *bufio.Reader
	out       io.Writer
	route     string

	closers   []func()
	closeOnce sync.Once
	loop      *loop.Loop
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	provider, err := client.NewSupabaseClient(c.SupabaseURL, c.SupabaseAnonKey,
		client.WithHTTPClient(&http.Client{Timeout: c.RequestTimeout}),
		client.WithSessionStorage(metadata.NewSQLiteRepository(db)),
		client.WithLogger(logger.With("component", "supabase")),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	images, err := services.NewImageService(ctx, c.Storage, logger.With("component", "images"))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	toaster := NewToaster(os.Stdout)
	events := loop.New(logger.With("component", "loop"))
	store := session.NewStore(provider, events, logger.With("component", "session"),
		session.WithNotifier(toaster),
		session.WithRedirectURL(c.SiteURL),
	)

	app := newApp(c, logger, store, toaster,
		services.NewPhilosophyService(db, logger.With("component", "catalogue")),
		images, bufio.NewReader(os.Stdin), os.Stdout)
	app.loop = events
	app.closers = []func(){
		store.Close,
		events.Close,
		func() { _ = provider.Close() },
		func() { _ = db.Close() },
	}
	return app, nil
}

func newApp(c *config.Config, logger logging.Logger, store sessionStore, toaster *Toaster,
	catalogue services.PhilosophyService, images services.ImageService, reader *bufio.Reader, out io.Writer) *App {
	if logger == nil {
		logger = logging.Discard()
	}
	return &App{
		config:    c,
		logger:    logger,
		store:     store,
		guard:     guard.New(store, toaster, logger.With("component", "guard")),
		toaster:   toaster,
		catalogue: catalogue,
		images:    images,
		reader:    reader,
		out:       out,
		route:     guard.RouteHome,
	}
}

// Run starts the session machinery in the background, seeds an empty
// catalogue and serves the REPL until the user leaves.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if a.loop != nil {
		a.loop.Start(ctx)
	}
	go a.store.Start(ctx)

	if n, err := a.catalogue.SeedIfEmpty(ctx); err != nil {
		a.logger.Error(ctx, "error seeding catalogue", "error", err)
	} else if n > 0 {
		a.logger.Info(ctx, "catalogue seeded", "count", n)
	}

	fmt.Fprintln(a.out, "Welcome to the Japanese Philosophies CLI (type 'help' for commands)")
	_ = a.Home(ctx)
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) Close() {
	a.closeOnce.Do(func() {
		for _, fn := range a.closers {
			fn()
		}
	})
}

func (a *App) isSignedIn() bool {
	return a.store.State().User != nil
}

func (a *App) isAdmin() bool {
	return a.store.State().IsAdmin
}

func (a *App) status() string {
	st := a.store.State()
	who := "guest"
	switch {
	case st.User != nil && st.IsAdmin:
		who = st.User.Email + " admin"
	case st.User != nil:
		who = st.User.Email
	case st.Loading:
		who = "..."
	}
	return fmt.Sprintf("%s (%s)", a.route, who)
}

func (a *App) notify(title, description string, v models.Variant) {
	a.toaster.Notify(models.NewNotification(title, description, v))
}

// enter runs the guard for path. It reports whether the page may render;
// otherwise the app has already moved to the redirect target, or the check
// is still pending and the current page stays.
func (a *App) enter(ctx context.Context, path string) bool {
	p := guard.PolicyFor(path)
	if d := guard.Evaluate(a.store.State(), p); !d.Terminal() {
		fmt.Fprintln(a.out, "Checking access...")
	}

	if a.config.GuardTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.GuardTimeout)
		defer cancel()
	}
	d := a.guard.Check(ctx, p)

	switch {
	case d.Allowed():
		a.route = path
		return true
	case d.Redirect == guard.RouteAuth:
		a.route = guard.RouteAuth
		fmt.Fprintln(a.out, "Please sign in to continue (signin, signup).")
	case d.Redirect == guard.RouteHome:
		if p == guard.RequireSignedOut {
			fmt.Fprintln(a.out, "You are already signed in.")
		}
		_ = a.Home(ctx)
	default:
		fmt.Fprintln(a.out, "Still checking your access, please try again in a moment.")
	}
	return false
}
