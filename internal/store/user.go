package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/wecare-app/apiserver/types"
)

const pqUniqueViolation = "23505"

// UserRepository handles persistence for user accounts.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	const query = `
		SELECT id, name, email, password_hash, role, phone_number, address, photo, created_at, updated_at
		FROM users
		WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	const query = `
		SELECT id, name, email, password_hash, role, phone_number, address, photo, created_at, updated_at
		FROM users
		WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// Create inserts a new user. The unique index on email serializes
// concurrent registrations for the same address; a violation is reported
// as ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `
		INSERT INTO users (name, email, password_hash, role, phone_number, address, photo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.db.QueryRowContext(
		ctx,
		query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.PhoneNumber,
		user.Address,
		user.Photo,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return types.User{}, ErrDuplicateEmail
		}
		return types.User{}, err
	}
	return user, nil
}

// UpdateProfile overwrites the mutable profile fields of the user keyed by
// email. When passwordHash is empty the stored hash is kept as is.
func (r *UserRepository) UpdateProfile(ctx context.Context, email string, update types.ProfileUpdate, passwordHash string) (types.UpdateResult, error) {
	const query = `
		UPDATE users
		SET name = $1,
			phone_number = $2,
			address = $3,
			photo = $4,
			password_hash = CASE WHEN $5 <> '' THEN $5 ELSE password_hash END,
			updated_at = $6
		WHERE email = $7`
	result, err := r.db.ExecContext(
		ctx,
		query,
		update.Name,
		update.PhoneNumber,
		update.Address,
		update.Photo,
		passwordHash,
		time.Now(),
		email,
	)
	if err != nil {
		return types.UpdateResult{}, err
	}
	return rowsUpdated(result)
}

// UpdateRole overwrites the role of the user identified by id.
func (r *UserRepository) UpdateRole(ctx context.Context, id int, role string) (types.UpdateResult, error) {
	const query = `
		UPDATE users
		SET role = $1,
			updated_at = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, role, time.Now(), id)
	if err != nil {
		return types.UpdateResult{}, err
	}
	return rowsUpdated(result)
}

func (r *UserRepository) scanOne(row *sql.Row) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.PhoneNumber,
		&user.Address,
		&user.Photo,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func rowsUpdated(result sql.Result) (types.UpdateResult, error) {
	affected, err := result.RowsAffected()
	if err != nil {
		return types.UpdateResult{}, err
	}
	if affected == 0 {
		return types.UpdateResult{}, ErrNotFound
	}
	return types.UpdateResult{MatchedCount: affected, ModifiedCount: affected}, nil
}
