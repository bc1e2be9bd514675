package domain

import "time"

// Role определяет уровень доступа пользователя.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User описывает учётную запись покупателя или администратора.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	PhoneNumber  string
	Address      string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const (
	maxUserNameLen = 50
	maxEmailLen    = 100
)

// DisplayName возвращает отображаемое имя пользователя.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// Validate проверяет заполненность ключевых полей учётной записи.
func (u *User) Validate() []error {
	var errs []error
	if u.FirstName == "" || len(u.FirstName) > maxUserNameLen {
		errs = append(errs, ErrUserNameInvalid)
	}
	if u.LastName == "" || len(u.LastName) > maxUserNameLen {
		errs = append(errs, ErrUserNameInvalid)
	}
	if u.Email == "" || len(u.Email) > maxEmailLen {
		errs = append(errs, ErrEmailInvalid)
	}
	return errs
}

// Identity — проверенная внешним слоем аутентификации пара (userID, role),
// которой доверяют все операции корзины и заказа.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Role   Role
}

// IsAdmin сообщает, имеет ли субъект административные права.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
