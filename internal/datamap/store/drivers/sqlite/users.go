package sqlite

import (
	"context"
	"time"

	"github.com/privacydesk/datamapd/internal/datamap/domain"
	"github.com/privacydesk/datamapd/internal/datamap/store"
)

type usersRepo struct {
	q dbtx
}

func (r *usersRepo) CreateUser(ctx context.Context, email, passwordHash string) (domain.User, error) {
	now := time.Now()
	createdAt := formatTime(now)

	res, err := r.q.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, created_at) VALUES (?, ?, ?)`,
		email, passwordHash, createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, store.ErrAlreadyExists
		}
		return domain.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, err
	}

	return domain.User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    parseTime(createdAt),
	}, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = ?`,
		email,
	)
	return scanUser(row)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	var createdAt string

	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt); err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.CreatedAt = parseTime(createdAt)
	return u, nil
}
