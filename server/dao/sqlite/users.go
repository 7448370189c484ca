package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/dekarrin/verbly/server/dao"
	"github.com/google/uuid"
)

// UsersDB is the dao.UserRepository of a sqlite store.
type UsersDB struct {
	db *sql.DB
}

const userColumns = `id, username, password, role, email, created, modified, last_logout_time, last_login_time`

func (repo *UsersDB) Create(ctx context.Context, user dao.User) (dao.User, error) {
	id, err := newID()
	if err != nil {
		return dao.User{}, err
	}

	now := dbTime(time.Now())
	_, err = exec(ctx, repo.db, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		id.String(), user.Username, user.Password, user.Role.String(), dbEmail(user.Email),
		now, now, now, 0,
	)
	if err != nil {
		return dao.User{}, err
	}
	return repo.GetByID(ctx, id)
}

func (repo *UsersDB) GetAll(ctx context.Context) ([]dao.User, error) {
	return queryAll(ctx, repo.db, scanUser, `SELECT `+userColumns+` FROM users ORDER BY id;`)
}

func (repo *UsersDB) GetByUsername(ctx context.Context, username string) (dao.User, error) {
	return scanUser(repo.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?;`, username))
}

func (repo *UsersDB) GetByID(ctx context.Context, id uuid.UUID) (dao.User, error) {
	return scanUser(repo.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?;`, id.String()))
}

// Update replaces every field but Created.
func (repo *UsersDB) Update(ctx context.Context, id uuid.UUID, user dao.User) (dao.User, error) {
	err := execOne(ctx, repo.db, `UPDATE users SET id=?, username=?, password=?, role=?, email=?, last_logout_time=?, last_login_time=?, modified=? WHERE id=?;`,
		user.ID.String(), user.Username, user.Password, user.Role.String(), dbEmail(user.Email),
		dbTime(user.LastLogoutTime), dbTime(user.LastLoginTime), dbTime(time.Now()),
		id.String(),
	)
	if err != nil {
		return dao.User{}, err
	}
	return repo.GetByID(ctx, user.ID)
}

func (repo *UsersDB) Delete(ctx context.Context, id uuid.UUID) (dao.User, error) {
	old, err := repo.GetByID(ctx, id)
	if err != nil {
		return old, err
	}
	return old, execOne(ctx, repo.db, `DELETE FROM users WHERE id = ?;`, id.String())
}

func (repo *UsersDB) Close() error {
	return nil
}

func scanUser(row scanner) (dao.User, error) {
	var (
		u                                dao.User
		id, role, email                  string
		created, modified, logout, login int64
	)

	err := row.Scan(&id, &u.Username, &u.Password, &role, &email, &created, &modified, &logout, &login)
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}

	if u.ID, err = uuid.Parse(id); err != nil {
		return u, decodeErr("user ID", id, err)
	}
	if u.Role, err = dao.ParseRole(role); err != nil {
		return u, decodeErr("role", role, err)
	}
	if u.Email, err = fromDBEmail(email); err != nil {
		return u, decodeErr("email", email, err)
	}
	u.Created = fromDBTime(created)
	u.Modified = fromDBTime(modified)
	u.LastLogoutTime = fromDBTime(logout)
	u.LastLoginTime = fromDBTime(login)

	return u, nil
}
