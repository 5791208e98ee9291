package domain

import (
	"encoding/json"
	"io"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

func (r Role) String() string {
	return string(r)
}

func RoleFromString(s string) (Role, error) {
	switch s {
	case "admin":
		return RoleAdmin, nil
	case "employee":
		return RoleEmployee, nil
	default:
		return "", ErrInvalidRole(s)
	}
}

// Actor is the authenticated identity attached to every mutating request.
// The auth middleware verifies the claim; everything below trusts it.
type Actor struct {
	Id   string
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

type User struct {
	Id        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"`
	Role      Role      `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type Users []*User

func (u *Users) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(u)
}

func (u *User) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(u)
}

func (u *User) FromJSON(r io.Reader) error {
	d := json.NewDecoder(r)
	return d.Decode(u)
}

// UserRef is the display summary a task's actor references resolve to.
type UserRef struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Ref() *UserRef {
	return &UserRef{Id: u.Id, Name: u.Name, Email: u.Email}
}

type UserRepository interface {
	GetAll() (Users, error)
	GetByRole(role Role) (Users, error)
	GetById(id string) (*User, error)
	GetByEmail(email string) (*User, error)
	Insert(user User) (User, error)
	Count() (int64, error)
}
