package repository

import (
	"github.com/jackc/pgx/v4/pgxpool"
)

// Repository groups the Postgres-backed stores sharing one pool.
type Repository struct {
	db   *pgxpool.Pool
	Blog *BlogRepo
	User *UserRepo
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db:   db,
		Blog: NewBlogRepository(db),
		User: NewUserRepository(db),
	}
}

func (r *Repository) Close() {
	r.db.Close()
}
