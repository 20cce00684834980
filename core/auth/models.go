package auth

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/portal/core"
)

// RoleTeacher is the only role of the portal.
const RoleTeacher = "teacher"

type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	PasswordHash []byte `json:"-"`
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

type Credentials struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return validate.Struct(c)
}

type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Session is what a client holds after authenticating.
type Session struct {
	User     User      `json:"user"`
	Tokens   Tokens    `json:"tokens"`
	IssuedAt time.Time `json:"issuedAt"`
}

// SessionRecord is the server-side state of an issued session, keyed by its access token.
type SessionRecord struct {
	AccessToken  string
	RefreshToken string
	UserID       string
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

func (r SessionRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
