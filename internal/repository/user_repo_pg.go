package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/airtrips/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	GetByCredentials(ctx context.Context, handle, password string) (*domain.User, error)
}

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

func (r *PGUserRepository) GetByCredentials(ctx context.Context, handle, password string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, `SELECT uid, handle, name FROM customers WHERE handle = $1 AND password = $2`, handle, password).
		Scan(&u.ID, &u.Handle, &u.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, translateErr(err)
	}
	return &u, nil
}

var _ UserRepository = (*PGUserRepository)(nil)
