package data

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/scribbly/notes-api/internal/data/pgxutil"
	"github.com/scribbly/notes-api/internal/domain/model"
	apperrors "github.com/scribbly/notes-api/internal/errors"
)

// UserRepo provides database operations for identity records.
// It implements ports.UserStore.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

const userColumns = `id, username, email, hashed_password, created_at, updated_at`

// Create inserts a new user. Uniqueness of username and email is enforced
// by the table's unique constraints; a violation surfaces as a Conflict
// AppError so concurrent signups resolve race-free at the store.
func (r *UserRepo) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if req == nil {
		return nil, errors.New("create user request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (username, email, hashed_password, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING `+userColumns,
			strings.TrimSpace(req.Username),
			strings.TrimSpace(req.Email),
			req.HashedPassword,
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// FindByIdentifier resolves a user by username or email.
func (r *UserRepo) FindByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	return r.getByQuery(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE username = $1 OR email = $1`,
		identifier,
	)
}

// FindByID resolves a user by primary key.
func (r *UserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getByQuery(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE id = $1`,
		id,
	)
}

func (r *UserRepo) getByQuery(ctx context.Context, query string, arg any) (*model.User, error) {
	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, arg)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}
