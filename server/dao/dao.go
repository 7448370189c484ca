// Package dao provides data access objects for use in the Verbly server.
package dao

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dekarrin/verbly/internal/world"
	"github.com/google/uuid"
)

// Store holds all the repositories.
type Store interface {
	Users() UserRepository
	Sessions() SessionRepository
	Commands() CommandRepository
	Close() error
}

// UserRepository holds the accounts of the people who play.
type UserRepository interface {
	// Create creates a new User. All attributes except for auto-generated
	// fields are taken from the provided User.
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)
	Close() error
}

// SessionRepository holds games in progress.
type SessionRepository interface {
	// Create creates a new Session. ID, Created, and Modified are assigned by
	// the repository.
	Create(ctx context.Context, s Session) (Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (Session, error)

	// GetAllByUser returns the sessions of the given user, oldest first. It is
	// not an error for there to be none.
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]Session, error)
	Update(ctx context.Context, id uuid.UUID, s Session) (Session, error)
	Delete(ctx context.Context, id uuid.UUID) (Session, error)
	Close() error
}

// CommandRepository holds the history of input given in each session.
type CommandRepository interface {
	// Create creates a new Command. ID and Created are assigned by the
	// repository. Seq must be unique within the session.
	Create(ctx context.Context, c Command) (Command, error)

	// GetAllBySession returns the commands of a session ordered by Seq. It is
	// not an error for there to be none.
	GetAllBySession(ctx context.Context, sessionID uuid.UUID) ([]Command, error)

	// DeleteAllBySession removes the history of a session and returns how many
	// commands were removed.
	DeleteAllBySession(ctx context.Context, sessionID uuid.UUID) (int, error)
	Close() error
}

// Role is what a user is allowed to do.
type Role int

const (
	Guest Role = iota
	Unverified
	Normal

	Admin Role = 100
)

func (r Role) String() string {
	switch r {
	case Guest:
		return "guest"
	case Unverified:
		return "unverified"
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

// ParseRole parses the name of a Role.
func ParseRole(s string) (Role, error) {
	check := strings.ToLower(s)
	switch check {
	case "guest":
		return Guest, nil
	case "unverified":
		return Unverified, nil
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Guest, fmt.Errorf("must be one of 'guest', 'unverified', 'normal', or 'admin'")
	}
}

// User is an account on the server.
type User struct {
	ID             uuid.UUID
	Username       string
	Password       string // base64 of the bcrypt hash
	Email          *mail.Address
	Role           Role
	Created        time.Time
	Modified       time.Time
	LastLogoutTime time.Time
	LastLoginTime  time.Time
}

// Session is one game being played by a user.
type Session struct {
	ID     uuid.UUID
	UserID uuid.UUID

	// World is the name the world was loaded under.
	World string

	State world.State

	// Over is set once the player quits. No more commands are accepted after
	// that.
	Over bool

	// Commands is how many commands have been recorded for the session.
	Commands int

	Created  time.Time
	Modified time.Time
}

// Command is one line of input given in a session along with what the game
// said back.
type Command struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Seq       int
	Input     string
	Output    string

	// Template is the command template that matched, or empty if nothing did.
	Template string
	Matched  bool
	Created  time.Time
}
