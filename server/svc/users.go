package svc

import (
	"context"
	"encoding/base64"
	"errors"
	"net/mail"
	"time"

	"github.com/dekarrin/verbly/server/dao"
	"github.com/dekarrin/verbly/server/serr"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// userErr converts an error from the users repository into one the API layer
// understands. A missing user becomes notFound.
func userErr(msg string, err error, notFound error) error {
	if errors.Is(err, dao.ErrNotFound) {
		return notFound
	}
	return serr.WrapDB(msg, err)
}

func parseUserID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, serr.New("ID is not valid", serr.ErrBadArgument)
	}
	return uid, nil
}

// stamp loads the user with the given ID, applies mark to it, and saves it.
func (svc *Service) stamp(ctx context.Context, id uuid.UUID, mark func(*dao.User)) (dao.User, error) {
	users := svc.DB.Users()
	u, err := users.GetByID(ctx, id)
	if err != nil {
		return dao.User{}, userErr("could not retrieve user", err, serr.ErrNotFound)
	}
	mark(&u)
	u, err = users.Update(ctx, u.ID, u)
	if err != nil {
		return dao.User{}, userErr("could not update user", err, serr.ErrNotFound)
	}
	return u, nil
}

// Login checks username and password and gives the matching user. A missing
// user and a wrong password both give serr.ErrBadCredentials.
func (svc *Service) Login(ctx context.Context, username, password string) (dao.User, error) {
	u, err := svc.DB.Users().GetByUsername(ctx, username)
	if err != nil {
		return dao.User{}, userErr("", err, serr.ErrBadCredentials)
	}

	hash, err := base64.StdEncoding.DecodeString(u.Password)
	if err != nil {
		return dao.User{}, serr.New("stored password is corrupt", err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dao.User{}, serr.ErrBadCredentials
		}
		return dao.User{}, serr.New("could not check password", err)
	}

	return svc.stamp(ctx, u.ID, func(u *dao.User) { u.LastLoginTime = time.Now() })
}

// Logout records that the user logged out. Every token issued to them before
// now stops being valid.
func (svc *Service) Logout(ctx context.Context, who uuid.UUID) (dao.User, error) {
	return svc.stamp(ctx, who, func(u *dao.User) { u.LastLogoutTime = time.Now() })
}

// GetAllUsers gives every user.
func (svc *Service) GetAllUsers(ctx context.Context) ([]dao.User, error) {
	users, err := svc.DB.Users().GetAll(ctx)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}
	return users, nil
}

// GetUser gives the user with the given ID. A malformed ID gives
// serr.ErrBadArgument and an unknown one gives serr.ErrNotFound.
func (svc *Service) GetUser(ctx context.Context, id string) (dao.User, error) {
	uid, err := parseUserID(id)
	if err != nil {
		return dao.User{}, err
	}
	u, err := svc.DB.Users().GetByID(ctx, uid)
	if err != nil {
		return dao.User{}, userErr("could not get user", err, serr.ErrNotFound)
	}
	return u, nil
}

func (svc *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), svc.hashCost())
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", serr.New("password is too long", err, serr.ErrBadArgument)
		}
		return "", serr.New("password could not be encrypted", err)
	}
	return base64.StdEncoding.EncodeToString(hash), nil
}

// CreateUser adds a user. Username and password are required and email is
// optional. A taken username gives serr.ErrAlreadyExists.
func (svc *Service) CreateUser(ctx context.Context, username, password, email string, role dao.Role) (dao.User, error) {
	switch {
	case username == "":
		return dao.User{}, serr.New("username cannot be blank", serr.ErrBadArgument)
	case password == "":
		return dao.User{}, serr.New("password cannot be blank", serr.ErrBadArgument)
	}

	u := dao.User{Username: username, Role: role}
	if email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil {
			return dao.User{}, serr.New("email is not valid", err, serr.ErrBadArgument)
		}
		u.Email = addr
	}

	users := svc.DB.Users()
	if _, err := users.GetByUsername(ctx, username); err == nil {
		return dao.User{}, serr.New("a user with that username already exists", serr.ErrAlreadyExists)
	} else if !errors.Is(err, dao.ErrNotFound) {
		return dao.User{}, serr.WrapDB("", err)
	}

	var err error
	if u.Password, err = svc.hashPassword(password); err != nil {
		return dao.User{}, err
	}

	created, err := users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.User{}, serr.ErrAlreadyExists
		}
		return dao.User{}, serr.WrapDB("could not create user", err)
	}
	return created, nil
}

// DeleteUser removes a user and every session they own, and gives the user as
// it was.
func (svc *Service) DeleteUser(ctx context.Context, id string) (dao.User, error) {
	uid, err := parseUserID(id)
	if err != nil {
		return dao.User{}, err
	}

	owned, err := svc.DB.Sessions().GetAllByUser(ctx, uid)
	if err != nil {
		return dao.User{}, serr.WrapDB("could not get sessions of user", err)
	}
	for _, s := range owned {
		if err := svc.removeSession(ctx, s.ID); err != nil {
			return dao.User{}, err
		}
	}

	u, err := svc.DB.Users().Delete(ctx, uid)
	if err != nil {
		return dao.User{}, userErr("could not delete user", err, serr.ErrNotFound)
	}
	return u, nil
}
