package token

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dekarrin/verbly/server/dao"
	"github.com/dekarrin/verbly/server/dao/inmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func Test_Get(t *testing.T) {
	testCases := []struct {
		name      string
		header    string
		expect    string
		expectErr bool
	}{
		{name: "bearer token", header: "Bearer abc.def.ghi", expect: "abc.def.ghi"},
		{name: "scheme is case-insensitive", header: "bearer abc", expect: "abc"},
		{name: "no header", header: "", expectErr: true},
		{name: "basic auth", header: "Basic dXNlcjpwYXNz", expectErr: true},
		{name: "no token", header: "Bearer", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			req := httptest.NewRequest("GET", "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			actual, err := Get(req)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_GenerateAndValidate(t *testing.T) {
	ctx := context.Background()
	users := inmem.NewUsersRepository()
	user, err := users.Create(ctx, dao.User{Username: "crow", Password: "hash"})
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		assert := assert.New(t)

		tok, err := Generate(testSecret, user)
		if !assert.NoError(err) {
			return
		}

		actual, err := Validate(ctx, tok, testSecret, users)
		assert.NoError(err)
		assert.Equal(user.ID, actual.ID)
	})

	t.Run("wrong secret", func(t *testing.T) {
		assert := assert.New(t)

		tok, err := Generate([]byte("some other secret entirely, really"), user)
		if !assert.NoError(err) {
			return
		}

		_, err = Validate(ctx, tok, testSecret, users)
		assert.Error(err)
	})

	t.Run("logout invalidates", func(t *testing.T) {
		assert := assert.New(t)

		tok, err := Generate(testSecret, user)
		if !assert.NoError(err) {
			return
		}

		loggedOut := user
		loggedOut.LastLogoutTime = user.LastLogoutTime.Add(time.Hour)
		_, err = users.Update(ctx, user.ID, loggedOut)
		if !assert.NoError(err) {
			return
		}
		defer users.Update(ctx, user.ID, user)

		_, err = Validate(ctx, tok, testSecret, users)
		assert.Error(err)
	})

	t.Run("garbage", func(t *testing.T) {
		assert := assert.New(t)

		_, err := Validate(ctx, "not-a-token", testSecret, users)
		assert.Error(err)
	})
}
