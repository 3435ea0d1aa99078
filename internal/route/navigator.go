package route

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/julienschmidt/httprouter"
	"github.com/oneee-playground/crackdash/internal/notify"
	"github.com/oneee-playground/crackdash/internal/session"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	loginRoute    = "login"
	forbiddenText = "Ah ah ah! You didn't say the magic word!"
)

var (
	ErrUnknownRoute  = errors.New("no route matches path")
	ErrLoginRequired = errors.New("login required")
	ErrForbidden     = errors.New("role not authorized for route")
)

type Authorizer interface {
	IsAuthenticated() bool
	IsAuthorized(roles ...session.Role) bool
}

// Location is a resolved navigation target.
type Location struct {
	Route  Route
	Path   string
	Params map[string]string
}

type matchKey struct{}

// Navigator resolves paths against the declared routes and applies the
// role guard before every move.
type Navigator struct {
	log      *zap.Logger
	auth     Authorizer
	notifier notify.Publisher

	router *httprouter.Router
	byName map[string]Route

	mu      sync.RWMutex
	current Location
}

func NewNavigator(log *zap.Logger, routes []Route, auth Authorizer, notifier notify.Publisher) (*Navigator, error) {
	n := &Navigator{
		log:      log,
		auth:     auth,
		notifier: notifier,
		router:   httprouter.New(),
		byName:   make(map[string]Route, len(routes)),
	}

	for _, r := range routes {
		if _, dup := n.byName[r.Name]; dup {
			return nil, errors.Errorf("route %q declared twice", r.Name)
		}
		if err := n.register(r); err != nil {
			return nil, err
		}
		n.byName[r.Name] = r
	}

	return n, nil
}

// register adds r to the tree. httprouter panics on conflicting paths.
func (n *Navigator) register(r Route) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Errorf("registering route %q: %v", r.Name, rec)
		}
	}()

	n.router.GET(r.Path, func(_ http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		loc := req.Context().Value(matchKey{}).(*Location)
		loc.Route = r
		for _, p := range ps {
			loc.Params[p.Key] = p.Value
		}
	})

	return nil
}

// Resolve finds the route declared for path without navigating.
func (n *Navigator) Resolve(path string) (Location, error) {
	handle, ps, _ := n.router.Lookup(http.MethodGet, path)
	if handle == nil {
		return Location{}, errors.Wrap(ErrUnknownRoute, path)
	}

	loc := &Location{Path: path, Params: make(map[string]string, len(ps))}
	req := (&http.Request{}).WithContext(context.WithValue(context.Background(), matchKey{}, loc))
	handle(nil, req, ps)

	return *loc, nil
}

// Go navigates to path. The current location is unchanged unless the
// guard lets the move through, except that an anonymous operator is
// sent to the login route.
func (n *Navigator) Go(path string) error {
	loc, err := n.Resolve(path)
	if err != nil {
		return err
	}

	roles := loc.Route.AuthorizedRoles
	if len(roles) > 0 && !n.auth.IsAuthorized(roles...) {
		if n.auth.IsAuthenticated() {
			n.notifier.Publish(notify.LevelWarning, forbiddenText)
			return ErrForbidden
		}

		if err := n.Redirect(loginRoute); err != nil {
			return err
		}
		return ErrLoginRequired
	}

	n.mu.Lock()
	n.current = loc
	n.mu.Unlock()

	n.log.Debug("navigated", zap.String("route", loc.Route.Name), zap.String("path", path))
	return nil
}

// Redirect navigates to a named route without parameters.
func (n *Navigator) Redirect(name string) error {
	path, err := n.Link(name)
	if err != nil {
		return err
	}
	return n.Go(path)
}

// Link builds the path of a named route. Parameter values are given as
// alternating names and values.
func (n *Navigator) Link(name string, params ...string) (string, error) {
	r, ok := n.byName[name]
	if !ok {
		return "", errors.Wrap(ErrUnknownRoute, name)
	}
	return fill(r.Path, params)
}

func (n *Navigator) Current() Location {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

func fill(pattern string, params []string) (string, error) {
	if len(params)%2 != 0 {
		return "", errors.New("params must be name/value pairs")
	}

	values := make(map[string]string, len(params)/2)
	for i := 0; i < len(params); i += 2 {
		values[params[i]] = params[i+1]
	}

	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") && !strings.HasPrefix(seg, "*") {
			continue
		}

		v, ok := values[seg[1:]]
		if !ok {
			return "", errors.Errorf("missing value for %s in %s", seg, pattern)
		}
		segments[i] = v
	}

	return strings.Join(segments, "/"), nil
}
