package api

import (
	"time"

	"github.com/dekarrin/verbly/server/dao"
)

// note that these are *not* the DAO models; those are distinct and closer to
// the DB format they are in. Rather these are the models that are received from
// and sent to the client.

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type InfoModel struct {
	Version struct {
		Server string `json:"server"`
		Verbly string `json:"verbly"`
	} `json:"version"`
}

type UserModel struct {
	URI            string `json:"uri"`
	ID             string `json:"id,omitempty"`
	Username       string `json:"username,omitempty"`
	Password       string `json:"password,omitempty"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
	Created        string `json:"created,omitempty"`
	Modified       string `json:"modified,omitempty"`
	LastLogoutTime string `json:"last_logout,omitempty"`
	LastLoginTime  string `json:"last_login,omitempty"`
}

type WorldsModel struct {
	Worlds []string `json:"worlds"`
}

type CreateSessionRequest struct {
	World string `json:"world"`
}

type SessionModel struct {
	URI      string `json:"uri"`
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	World    string `json:"world"`
	Room     string `json:"room"`
	Context  string `json:"context,omitempty"`
	Over     bool   `json:"over"`
	Commands int    `json:"commands"`
	Created  string `json:"created"`
	Modified string `json:"modified"`
}

type CreateSessionResponse struct {
	Session SessionModel `json:"session"`
	Intro   string       `json:"intro"`
}

type CommandRequest struct {
	Input string `json:"input"`
}

type CommandModel struct {
	Seq      int    `json:"seq"`
	Input    string `json:"input"`
	Output   string `json:"output"`
	Template string `json:"template,omitempty"`
	Matched  bool   `json:"matched"`
	Over     bool   `json:"over,omitempty"`
	Created  string `json:"created"`
}

func userModel(u dao.User) UserModel {
	m := UserModel{
		URI:            PathPrefix + "/users/" + u.ID.String(),
		ID:             u.ID.String(),
		Username:       u.Username,
		Role:           u.Role.String(),
		Created:        u.Created.Format(time.RFC3339),
		Modified:       u.Modified.Format(time.RFC3339),
		LastLogoutTime: u.LastLogoutTime.Format(time.RFC3339),
		LastLoginTime:  u.LastLoginTime.Format(time.RFC3339),
	}
	if u.Email != nil {
		m.Email = u.Email.Address
	}
	return m
}

func sessionModel(s dao.Session) SessionModel {
	return SessionModel{
		URI:      PathPrefix + "/sessions/" + s.ID.String(),
		ID:       s.ID.String(),
		UserID:   s.UserID.String(),
		World:    s.World,
		Room:     s.State.Room,
		Context:  s.State.Scope,
		Over:     s.Over,
		Commands: s.Commands,
		Created:  s.Created.Format(time.RFC3339),
		Modified: s.Modified.Format(time.RFC3339),
	}
}

func commandModel(c dao.Command) CommandModel {
	return CommandModel{
		Seq:      c.Seq,
		Input:    c.Input,
		Output:   c.Output,
		Template: c.Template,
		Matched:  c.Matched,
		Created:  c.Created.Format(time.RFC3339),
	}
}
