package route

import "github.com/oneee-playground/crackdash/internal/session"

// Route is a named place in the console. An empty AuthorizedRoles set
// leaves the route open to anyone.
type Route struct {
	Name            string
	Path            string
	AuthorizedRoles []session.Role
}

var (
	writers = []session.Role{session.RoleAdministrator, session.RoleStandard}
	admins  = []session.Role{session.RoleAdministrator}
)

func DefaultRoutes() []Route {
	return []Route{
		{Name: "login", Path: "/login"},
		{Name: "jobs", Path: "/jobs", AuthorizedRoles: session.AllRoles},
		{Name: "jobs.new", Path: "/jobs/new", AuthorizedRoles: writers},
		{Name: "jobs.detail", Path: "/jobs/view/:id", AuthorizedRoles: session.AllRoles},
		{Name: "resources", Path: "/resources", AuthorizedRoles: session.AllRoles},
		{Name: "resources.connect", Path: "/resources/connect/:manager", AuthorizedRoles: admins},
		{Name: "tools", Path: "/tools", AuthorizedRoles: session.AllRoles},
	}
}
