package domain

// Role — роль пользователя, приходит от бэкенда вместе с токеном.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// User — идентичность аутентифицированного пользователя.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// IsAdmin — true для административной роли (управление статусами заказов).
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Session — активная сессия: пользователь + bearer-токен.
// В один момент времени активна не более одной сессии.
type Session struct {
	Token string
	User  User
}

// Credentials — данные формы входа.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration — данные формы регистрации.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// AuthResult — ответ бэкенда на login/register.
type AuthResult struct {
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user"`
}
