package auth

import (
	"context"
	"net/http"
	"slices"
	"sync"

	"github.com/oneee-playground/crackdash/internal/api"
	"github.com/oneee-playground/crackdash/internal/notify"
	"github.com/oneee-playground/crackdash/internal/session"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	loginRoute   = "login"
	landingRoute = "jobs"
)

type Client interface {
	Login(ctx context.Context, username, password string) (api.LoginResult, error)
	Logout(ctx context.Context) error
}

// Redirector moves the operator to a named route.
type Redirector interface {
	Redirect(name string) error
}

type Gateway struct {
	log      *zap.Logger
	client   Client
	store    *session.Store
	notifier notify.Publisher

	mu       sync.Mutex
	redirect Redirector
	// warned is set once the login notice was shown for the current
	// anonymous period.
	warned bool
}

func NewGateway(log *zap.Logger, client Client, store *session.Store, notifier notify.Publisher) *Gateway {
	return &Gateway{
		log:      log,
		client:   client,
		store:    store,
		notifier: notifier,
	}
}

// SetRedirector installs the navigator. The navigator consults the
// gateway for authorization, so it can only be wired after both exist.
func (g *Gateway) SetRedirector(r Redirector) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.redirect = r
}

func (g *Gateway) Login(ctx context.Context, username, password string) error {
	res, err := g.client.Login(ctx, username, password)
	if err != nil {
		g.notifier.Publish(notify.LevelError, "Login failed.")
		return errors.Wrap(err, "logging in")
	}

	if err := g.store.Create(res.Token, username, session.Role(res.Role)); err != nil {
		g.notifier.Publish(notify.LevelError, "Login failed.")
		return errors.Wrap(err, "creating session")
	}

	g.mu.Lock()
	g.warned = false
	g.mu.Unlock()

	g.log.Info("logged in", zap.String("username", username), zap.String("role", res.Role))
	g.notifier.Publish(notify.LevelSuccess, "Login successful.")
	g.navigate(landingRoute)

	return nil
}

// Logout keeps the session when the server could not be told.
func (g *Gateway) Logout(ctx context.Context) error {
	if err := g.client.Logout(ctx); err != nil {
		g.notifier.Publish(notify.LevelError, "An error occured while trying to log you out.")
		return errors.Wrap(err, "logging out")
	}

	if err := g.store.Destroy(); err != nil {
		return errors.Wrap(err, "destroying session")
	}

	g.log.Info("logged out")
	g.navigate(loginRoute)

	return nil
}

func (g *Gateway) IsAuthenticated() bool {
	return g.store.IsAuthenticated()
}

// IsAuthorized reports whether the operator is logged in with one of roles.
func (g *Gateway) IsAuthorized(roles ...session.Role) bool {
	sess, ok := g.store.Current()
	if !ok {
		return false
	}
	return slices.Contains(roles, sess.Role)
}

// HandleUnauthorized reacts to a 401 from the queue server. It is meant
// to be installed with api.UnauthorizedMiddleware.
func (g *Gateway) HandleUnauthorized(req *http.Request) {
	active, err := g.store.Expire()
	if err != nil {
		g.log.Warn("expiring session", zap.Error(err))
	}
	if active {
		g.log.Info("session rejected by server", zap.String("path", req.URL.Path))
	}

	g.navigate(loginRoute)

	if req.URL.Path == api.LoginPath {
		return
	}

	g.mu.Lock()
	notice := !g.warned
	g.warned = true
	g.mu.Unlock()

	if notice {
		g.notifier.Publish(notify.LevelWarning, "You need to login first.")
	}
}

func (g *Gateway) navigate(name string) {
	g.mu.Lock()
	r := g.redirect
	g.mu.Unlock()

	if r == nil {
		return
	}
	if err := r.Redirect(name); err != nil {
		g.log.Warn("redirecting", zap.String("route", name), zap.Error(err))
	}
}
