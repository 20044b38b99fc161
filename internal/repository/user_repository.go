package repository

import (
	"context"
	"errors"
	"fmt"

	"hrblog/internal/domain/models"
	"hrblog/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type UserRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewUserRepository(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveUser inserts the user or refreshes its email, name and admin flag.
func (r *UserRepo) SaveUser(ctx context.Context, user models.User) error {
	const op = "repository.user_repository.SaveUser"

	query, args, err := r.sb.Insert("users").
		Columns("id", "email", "display_name", "is_admin").
		Values(user.ID, user.Email, user.DisplayName, user.IsAdmin).
		Suffix("ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, display_name = EXCLUDED.display_name, is_admin = EXCLUDED.is_admin").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, userID string) (models.User, error) {
	const op = "repository.user_repository.GetUserByID"

	query, args, err := r.sb.Select("id", "email", "display_name", "is_admin", "created_at").
		From("users").
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var user models.User
	err = r.db.QueryRow(ctx, query, args...).Scan(&user.ID, &user.Email, &user.DisplayName, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (r *UserRepo) IsAdmin(ctx context.Context, userID string) (bool, error) {
	const op = "repository.user_repository.IsAdmin"

	query, args, err := r.sb.Select("is_admin").From("users").Where(sq.Eq{"id": userID}).ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var isAdmin bool
	err = r.db.QueryRow(ctx, query, args...).Scan(&isAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return isAdmin, nil
}
