package session

type Role string

const (
	RoleAdministrator Role = "Administrator"
	RoleStandard      Role = "Standard User"
	RoleReadOnly      Role = "Read-Only"
)

// AllRoles lists every role, most privileged first.
var AllRoles = []Role{RoleAdministrator, RoleStandard, RoleReadOnly}

// Session is the identity of the logged in operator.
type Session struct {
	Token    string
	Username string
	Role     Role
}

// Complete reports whether every field is set.
func (s Session) Complete() bool {
	return s.Token != "" && s.Username != "" && s.Role != ""
}

type Storage interface {
	Save(s Session) error
	Load() (Session, error)
	Clear() error
}
