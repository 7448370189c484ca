package svc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dekarrin/verbly/command"
	"github.com/dekarrin/verbly/internal/game"
	"github.com/dekarrin/verbly/internal/vbw"
	"github.com/dekarrin/verbly/internal/world"
	"github.com/dekarrin/verbly/server/dao"
	"github.com/dekarrin/verbly/server/serr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OutputWidth is the line width of game output returned by the server.
const OutputWidth = 80

// CreateSession starts a new game in the named world for user. The world's
// introduction is recorded as the session's first command, with Seq 0 and no
// input.
//
// The returned error, if non-nil, will match serr.ErrBadArgument if there is
// no world with that name and serr.ErrDB if there was a problem with the DB.
func (svc *Service) CreateSession(ctx context.Context, user dao.User, worldName string) (dao.Session, dao.Command, error) {
	wd, ok := svc.Worlds[worldName]
	if !ok {
		return dao.Session{}, dao.Command{}, serr.New(fmt.Sprintf("no world named %q", worldName), serr.ErrBadArgument)
	}

	st := wd.World.NewState()
	var intro string
	err := svc.play(wd, st, func(g *game.Game) error {
		return g.Intro()
	}, &intro)
	if err != nil {
		return dao.Session{}, dao.Command{}, serr.New("could not start game", err)
	}

	sesh, err := svc.DB.Sessions().Create(ctx, dao.Session{
		UserID: user.ID,
		World:  worldName,
		State:  *st,
	})
	if err != nil {
		return dao.Session{}, dao.Command{}, serr.WrapDB("could not create session", err)
	}

	cmd, err := svc.DB.Commands().Create(ctx, dao.Command{
		SessionID: sesh.ID,
		Seq:       0,
		Output:    intro,
	})
	if err != nil {
		return dao.Session{}, dao.Command{}, serr.WrapDB("could not record introduction", err)
	}

	return sesh, cmd, nil
}

// GetSession returns the session with the given ID. Only its owner or an admin
// may get it.
//
// The returned error, if non-nil, will match serr.ErrNotFound if there is no
// such session, serr.ErrPermissions if user may not see it, and serr.ErrDB if
// there was a problem with the DB.
func (svc *Service) GetSession(ctx context.Context, user dao.User, id uuid.UUID) (dao.Session, error) {
	sesh, err := svc.DB.Sessions().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Session{}, serr.ErrNotFound
		}
		return dao.Session{}, serr.WrapDB("could not get session", err)
	}

	if sesh.UserID != user.ID && user.Role != dao.Admin {
		return dao.Session{}, serr.ErrPermissions
	}

	return sesh, nil
}

// GetSessions returns every session owned by user, oldest first.
func (svc *Service) GetSessions(ctx context.Context, user dao.User) ([]dao.Session, error) {
	seshes, err := svc.DB.Sessions().GetAllByUser(ctx, user.ID)
	if err != nil {
		return nil, serr.WrapDB("could not get sessions", err)
	}
	return seshes, nil
}

// DeleteSession removes a session and its history. Only its owner or an admin
// may delete it.
//
// The returned error matches the same errors as GetSession.
func (svc *Service) DeleteSession(ctx context.Context, user dao.User, id uuid.UUID) (dao.Session, error) {
	sesh, err := svc.GetSession(ctx, user, id)
	if err != nil {
		return dao.Session{}, err
	}

	unlock := svc.lockSession(id)
	defer unlock()

	if err := svc.removeSession(ctx, id); err != nil {
		return dao.Session{}, err
	}
	svc.forgetSession(id)

	return sesh, nil
}

func (svc *Service) removeSession(ctx context.Context, id uuid.UUID) error {
	if _, err := svc.DB.Commands().DeleteAllBySession(ctx, id); err != nil {
		return serr.WrapDB("could not delete session history", err)
	}
	if _, err := svc.DB.Sessions().Delete(ctx, id); err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return serr.ErrNotFound
		}
		return serr.WrapDB("could not delete session", err)
	}
	return nil
}

// SubmitCommand gives one line of input to the game in a session and records
// what happened. Commands in the same session are run one at a time. Quitting
// ends the session.
//
// The returned error, if non-nil, will match serr.ErrSessionOver if the player
// already quit, serr.ErrBadArgument if input is blank, and otherwise the same
// errors as GetSession.
func (svc *Service) SubmitCommand(ctx context.Context, user dao.User, id uuid.UUID, input string) (dao.Command, dao.Session, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return dao.Command{}, dao.Session{}, serr.New("input cannot be blank", serr.ErrBadArgument)
	}

	// ownership is checked before waiting on the lock
	if _, err := svc.GetSession(ctx, user, id); err != nil {
		return dao.Command{}, dao.Session{}, err
	}

	unlock := svc.lockSession(id)
	defer unlock()

	// reload now that no one else is playing it
	sesh, err := svc.GetSession(ctx, user, id)
	if err != nil {
		return dao.Command{}, dao.Session{}, err
	}
	if sesh.Over {
		return dao.Command{}, sesh, serr.ErrSessionOver
	}

	wd, ok := svc.Worlds[sesh.World]
	if !ok {
		return dao.Command{}, sesh, serr.New(fmt.Sprintf("world %q is no longer loaded", sesh.World))
	}

	st := sesh.State.Copy()
	var outcome command.Outcome
	var output string
	err = svc.play(wd, st, func(g *game.Game) error {
		var err error
		outcome, err = g.Exec(input)
		if errors.Is(err, command.ErrQuit) {
			sesh.Over = true
			return nil
		}
		return err
	}, &output)
	if err != nil {
		return dao.Command{}, sesh, serr.New("game error", err)
	}

	sesh.State = *st
	sesh.Commands++
	sesh, err = svc.DB.Sessions().Update(ctx, sesh.ID, sesh)
	if err != nil {
		return dao.Command{}, dao.Session{}, serr.WrapDB("could not save session", err)
	}

	rec := dao.Command{
		SessionID: sesh.ID,
		Seq:       sesh.Commands,
		Input:     input,
		Output:    output,
		Matched:   outcome.Matched,
	}
	if outcome.Matched {
		rec.Template = outcome.Pattern.Original()
	}

	rec, err = svc.DB.Commands().Create(ctx, rec)
	if err != nil {
		return dao.Command{}, sesh, serr.WrapDB("could not record command", err)
	}

	return rec, sesh, nil
}

// GetCommands returns the history of a session ordered by Seq. The returned
// error matches the same errors as GetSession.
func (svc *Service) GetCommands(ctx context.Context, user dao.User, id uuid.UUID) ([]dao.Command, error) {
	if _, err := svc.GetSession(ctx, user, id); err != nil {
		return nil, err
	}

	cmds, err := svc.DB.Commands().GetAllBySession(ctx, id)
	if err != nil {
		return nil, serr.WrapDB("could not get session history", err)
	}
	return cmds, nil
}

// play builds a game of wd on st, runs fn, and stores everything the game
// printed in output. st is modified in place.
func (svc *Service) play(wd vbw.WorldData, st *world.State, fn func(g *game.Game) error, output *string) error {
	var sb strings.Builder
	ioDev := game.IODevice{
		Width: OutputWidth,
		Output: func(s string, a ...interface{}) error {
			sb.WriteString(fmt.Sprintf(s, a...))
			return nil
		},
	}

	g, err := game.New(wd.World, st, wd.Commands, ioDev, game.Options{
		Help:   true,
		Logger: svc.logger().Named("game"),
	})
	if err != nil {
		return err
	}
	defer g.Close()

	if err := fn(g); err != nil {
		svc.logger().Debug("game returned error", zap.Error(err))
		return err
	}

	*output = strings.TrimRight(sb.String(), "\n")
	return nil
}
