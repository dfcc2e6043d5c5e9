package user

// Roles
const (
	RoleStudent   = "student"
	RoleProfessor = "professor"
)

var AllRoles = []string{RoleStudent, RoleProfessor}

// User is the server-owned account; the client holds a transient copy for
// the lifetime of the session.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}

func (u User) IsProfessor() bool {
	return u.Role == RoleProfessor
}

func KnownRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
