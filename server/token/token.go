// Package token issues and checks the JWT bearer tokens that clients of the
// Verbly server authenticate with.
//
// Tokens are signed with HS512 using a key made from the server secret, the
// user's password hash, and the time the user last logged out, so changing the
// password or logging out invalidates every token issued before.
package token

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dekarrin/verbly/server/dao"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer is the iss claim of every token.
const Issuer = "vbs"

// Lifetime is how long a token is valid after it is issued.
const Lifetime = time.Hour

var (
	errNoHeader  = errors.New("no authorization header present")
	errNotBearer = errors.New("authorization header not in Bearer format")
)

// Get gives the token in the Authorization header of req, which must use the
// Bearer scheme.
func Get(req *http.Request) (string, error) {
	header := strings.TrimSpace(req.Header.Get("Authorization"))
	if header == "" {
		return "", errNoHeader
	}

	scheme, tok, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(tok) == "" {
		return "", errNotBearer
	}
	return strings.TrimSpace(tok), nil
}

// Validate checks tok and returns the user it was issued to.
func Validate(ctx context.Context, tok string, secret []byte, users dao.UserRepository) (dao.User, error) {
	var user dao.User

	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		// the user is needed to build the key
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}

		id, err := uuid.Parse(subj)
		if err != nil {
			return nil, fmt.Errorf("cannot parse subject UUID: %w", err)
		}

		user, err = users.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				return nil, fmt.Errorf("subject does not exist")
			}
			return nil, fmt.Errorf("subject could not be validated")
		}

		return signingKey(secret, user), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(Issuer), jwt.WithLeeway(time.Minute))

	if err != nil {
		return dao.User{}, err
	}

	return user, nil
}

// Generate creates a new signed token for u.
func Generate(secret []byte, u dao.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   u.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(Lifetime)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(signingKey(secret, u))
}

func signingKey(secret []byte, u dao.User) []byte {
	key := make([]byte, 0, len(secret)+len(u.Password)+20)
	key = append(key, secret...)
	key = append(key, u.Password...)
	return strconv.AppendInt(key, u.LastLogoutTime.UnixMicro(), 10)
}
