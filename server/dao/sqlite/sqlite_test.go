package sqlite

import (
	"context"
	"net/mail"
	"testing"

	"github.com/dekarrin/verbly/internal/world"
	"github.com/dekarrin/verbly/server/dao"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) dao.Store {
	st, err := NewDatastore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func Test_Users(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	st := newTestStore(t)

	email, _ := mail.ParseAddress("crow@example.com")
	created, err := st.Users().Create(ctx, dao.User{
		Username: "crow",
		Password: "hash",
		Email:    email,
		Role:     dao.Admin,
	})
	if !assert.NoError(err) {
		return
	}
	assert.Equal("crow", created.Username)
	assert.Equal(dao.Admin, created.Role)
	assert.Equal("crow@example.com", created.Email.Address)
	assert.False(created.Created.IsZero())
	assert.True(created.LastLoginTime.IsZero())

	_, err = st.Users().Create(ctx, dao.User{Username: "crow", Password: "other"})
	assert.ErrorIs(err, dao.ErrConstraintViolation)

	byName, err := st.Users().GetByUsername(ctx, "crow")
	assert.NoError(err)
	assert.Equal(created.ID, byName.ID)

	created.Username = "raven"
	updated, err := st.Users().Update(ctx, created.ID, created)
	assert.NoError(err)
	assert.Equal("raven", updated.Username)

	all, err := st.Users().GetAll(ctx)
	assert.NoError(err)
	assert.Len(all, 1)

	_, err = st.Users().Delete(ctx, created.ID)
	assert.NoError(err)

	_, err = st.Users().GetByID(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)
}

func Test_SessionsAndCommands(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	st := newTestStore(t)

	user, err := st.Users().Create(ctx, dao.User{Username: "crow", Password: "hash"})
	if !assert.NoError(err) {
		return
	}

	state := world.State{
		Room:      "hall",
		Scope:     "hall.dark",
		RoomItems: map[string]world.Bag{},
		Vars:      map[string]string{"lit": "no"},
	}
	state.Inventory.Add(world.NewItem("lamp"))

	sesh, err := st.Sessions().Create(ctx, dao.Session{UserID: user.ID, World: "demo", State: state})
	if !assert.NoError(err) {
		return
	}
	assert.Equal("demo", sesh.World)
	assert.Equal("hall", sesh.State.Room)
	assert.Equal("hall.dark", sesh.State.Scope)
	assert.True(sesh.State.Inventory.Contains("lamp"))
	assert.Equal("no", sesh.State.Vars["lit"])

	sesh.Over = true
	sesh.Commands = 2
	sesh, err = st.Sessions().Update(ctx, sesh.ID, sesh)
	assert.NoError(err)
	assert.True(sesh.Over)
	assert.Equal(2, sesh.Commands)

	list, err := st.Sessions().GetAllByUser(ctx, user.ID)
	assert.NoError(err)
	assert.Len(list, 1)

	// out of order on purpose
	for _, seq := range []int{1, 0} {
		_, err := st.Commands().Create(ctx, dao.Command{SessionID: sesh.ID, Seq: seq, Input: "look", Output: "A hall.", Matched: true, Template: "look"})
		assert.NoError(err)
	}

	_, err = st.Commands().Create(ctx, dao.Command{SessionID: sesh.ID, Seq: 1})
	assert.ErrorIs(err, dao.ErrConstraintViolation)

	_, err = st.Commands().Create(ctx, dao.Command{SessionID: user.ID, Seq: 0})
	assert.ErrorIs(err, dao.ErrConstraintViolation)

	cmds, err := st.Commands().GetAllBySession(ctx, sesh.ID)
	assert.NoError(err)
	if assert.Len(cmds, 2) {
		assert.Equal(0, cmds[0].Seq)
		assert.Equal(1, cmds[1].Seq)
		assert.True(cmds[1].Matched)
		assert.Equal("look", cmds[1].Template)
	}

	n, err := st.Commands().DeleteAllBySession(ctx, sesh.ID)
	assert.NoError(err)
	assert.Equal(2, n)

	_, err = st.Sessions().Delete(ctx, sesh.ID)
	assert.NoError(err)

	_, err = st.Sessions().GetByID(ctx, sesh.ID)
	assert.ErrorIs(err, dao.ErrNotFound)
}
