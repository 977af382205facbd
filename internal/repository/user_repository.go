package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/aquarhone/aquabook/internal/model"
	"github.com/aquarhone/aquabook/internal/utils"
)

// UserRepo provides CRUD operations on the users table. Role sets are
// stored as a JSON array in the roles column.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// UserUpdate carries the optional fields of a partial user update.
// Nil pointers (and a nil Roles slice) leave the column untouched.
type UserUpdate struct {
	Email    *string
	Password *string
	Roles    []string
}

// Create hashes the password, inserts the user and returns its ID.
// Roles defaulting is the caller's responsibility.
func (r *UserRepo) Create(ctx context.Context, email, password string, roles []string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	rolesJSON, err := json.Marshal(roles)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, roles) VALUES (?,?,?)",
		email, hash, rolesJSON)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,roles,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,roles,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id))
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,email,password_hash,roles,created_at,updated_at FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		var rolesJSON []byte
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &rolesJSON, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(rolesJSON, &u.Roles); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update applies the non-nil fields of upd to the user and returns the
// updated record. Passwords are re-hashed with the given cost. Returns
// sql.ErrNoRows when the user does not exist.
func (r *UserRepo) Update(ctx context.Context, id uint64, upd UserUpdate, cost int) (model.User, error) {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	if upd.Email != nil {
		sets = append(sets, "email=?")
		args = append(args, strings.ToLower(strings.TrimSpace(*upd.Email)))
	}
	if upd.Password != nil {
		hash, err := utils.HashPassword(*upd.Password, cost)
		if err != nil {
			return model.User{}, err
		}
		sets = append(sets, "password_hash=?")
		args = append(args, hash)
	}
	if upd.Roles != nil {
		rolesJSON, err := json.Marshal(upd.Roles)
		if err != nil {
			return model.User{}, err
		}
		sets = append(sets, "roles=?")
		args = append(args, rolesJSON)
	}
	if len(sets) > 0 {
		args = append(args, id)
		// A missing user surfaces as sql.ErrNoRows from the readback.
		if _, err := r.DB.ExecContext(ctx,
			"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id=?", args...); err != nil {
			if isDuplicateKey(err) {
				return model.User{}, ErrEmailExists
			}
			return model.User{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a user. Returns sql.ErrNoRows when no row matched.
// Reservation rows cascade at the database level.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	var rolesJSON []byte
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &rolesJSON, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return u, err
	}
	if err := json.Unmarshal(rolesJSON, &u.Roles); err != nil {
		return u, err
	}
	return u, nil
}
