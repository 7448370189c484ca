package inmem

import (
	"context"
	"testing"

	"github.com/dekarrin/verbly/internal/world"
	"github.com/dekarrin/verbly/server/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_UsersRepository(t *testing.T) {
	testCases := []struct {
		name      string
		existing  []string
		create    string
		expectErr error
	}{
		{
			name:   "new user",
			create: "crow",
		},
		{
			name:      "duplicate username",
			existing:  []string{"crow"},
			create:    "crow",
			expectErr: dao.ErrConstraintViolation,
		},
		{
			name:     "different username",
			existing: []string{"raven"},
			create:   "crow",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			ctx := context.Background()
			repo := NewUsersRepository()

			for _, name := range tc.existing {
				_, err := repo.Create(ctx, dao.User{Username: name})
				if !assert.NoError(err) {
					return
				}
			}

			actual, err := repo.Create(ctx, dao.User{Username: tc.create})
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			if !assert.NoError(err) {
				return
			}

			got, err := repo.GetByUsername(ctx, tc.create)
			assert.NoError(err)
			assert.Equal(actual.ID, got.ID)
		})
	}
}

func Test_SessionsRepository_StateIsCopied(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewSessionsRepository()

	st := world.State{Room: "hall", Vars: map[string]string{"a": "1"}}
	created, err := repo.Create(ctx, dao.Session{UserID: uuid.New(), State: st})
	if !assert.NoError(err) {
		return
	}

	created.State.Vars["a"] = "2"
	st.Vars["a"] = "3"

	got, err := repo.GetByID(ctx, created.ID)
	assert.NoError(err)
	assert.Equal("1", got.State.Vars["a"])
}

func Test_SessionsRepository_GetAllByUser(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewSessionsRepository()

	user := uuid.New()
	first, _ := repo.Create(ctx, dao.Session{UserID: user, World: "one"})
	second, _ := repo.Create(ctx, dao.Session{UserID: user, World: "two"})
	_, _ = repo.Create(ctx, dao.Session{UserID: uuid.New(), World: "other"})

	all, err := repo.GetAllByUser(ctx, user)
	assert.NoError(err)
	if assert.Len(all, 2) {
		assert.Equal(first.ID, all[0].ID)
		assert.Equal(second.ID, all[1].ID)
	}

	_, err = repo.Delete(ctx, first.ID)
	assert.NoError(err)

	all, err = repo.GetAllByUser(ctx, user)
	assert.NoError(err)
	assert.Len(all, 1)

	none, err := repo.GetAllByUser(ctx, uuid.New())
	assert.NoError(err)
	assert.Empty(none)
}

func Test_CommandsRepository(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	st := NewDatastore()

	sesh, err := st.Sessions().Create(ctx, dao.Session{UserID: uuid.New()})
	if !assert.NoError(err) {
		return
	}

	for _, seq := range []int{2, 0, 1} {
		_, err := st.Commands().Create(ctx, dao.Command{SessionID: sesh.ID, Seq: seq})
		assert.NoError(err)
	}

	_, err = st.Commands().Create(ctx, dao.Command{SessionID: sesh.ID, Seq: 1})
	assert.ErrorIs(err, dao.ErrConstraintViolation)

	_, err = st.Commands().Create(ctx, dao.Command{SessionID: uuid.New(), Seq: 0})
	assert.ErrorIs(err, dao.ErrConstraintViolation)

	all, err := st.Commands().GetAllBySession(ctx, sesh.ID)
	assert.NoError(err)
	if assert.Len(all, 3) {
		assert.Equal([]int{0, 1, 2}, []int{all[0].Seq, all[1].Seq, all[2].Seq})
	}

	n, err := st.Commands().DeleteAllBySession(ctx, sesh.ID)
	assert.NoError(err)
	assert.Equal(3, n)

	assert.NoError(st.Close())
}
