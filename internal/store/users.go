package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/adamwonghui/Warehouse-Management-System/internal/model"
)

const userColumns = `id, username, password_hash, role, department, phone, email,
	is_active, last_login, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	u := &model.User{}
	var department, phone, email sql.NullString
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role,
		&department, &phone, &email, &u.IsActive, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Department = department.String
	u.Phone = phone.String
	u.Email = email.String
	return u, nil
}

// CreateUser creates a new user. Duplicate usernames are rejected.
func CreateUser(ctx context.Context, db *sql.DB, username, passwordHash, role string) (*model.User, error) {
	var exists int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ?`, username,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking username: %w", err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("username %q already taken: %w", username, ErrInvalidArgument)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)`,
		username, passwordHash, role,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID, or nil if it does not exist.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByUsername returns a user by username, or nil if it does not exist.
func GetUserByUsername(ctx context.Context, db *sql.DB, username string) (*model.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by username: %w", err)
	}
	return u, nil
}

// ListUsers returns all users.
func ListUsers(ctx context.Context, db *sql.DB) ([]model.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateUserRole updates a user's role.
func UpdateUserRole(ctx context.Context, db *sql.DB, id int64, role string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
		role, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating user role: %w", err)
	}
	return nil
}

// UpdateUserProfile updates a user's contact fields. Nil fields are left
// untouched.
func UpdateUserProfile(ctx context.Context, db *sql.DB, id int64, department, phone, email *string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var curDept, curPhone, curEmail sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT department, phone, email FROM users WHERE id = ?`, id,
	).Scan(&curDept, &curPhone, &curEmail)
	if err == sql.ErrNoRows {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("loading user: %w", err)
	}

	dept, ph, em := curDept.String, curPhone.String, curEmail.String
	if department != nil {
		dept = *department
	}
	if phone != nil {
		ph = *phone
	}
	if email != nil {
		em = *email
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET department = ?, phone = ?, email = ?, updated_at = ? WHERE id = ?`,
		dept, ph, em, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating user profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing profile update: %w", err)
	}
	return nil
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// SetUserActive enables or disables a user account. Disabled users cannot
// log in.
func SetUserActive(ctx context.Context, db *sql.DB, id int64, active bool) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting user active flag: %w", err)
	}
	return nil
}

// TouchLastLogin records a successful login.
func TouchLastLogin(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating last login: %w", err)
	}
	return nil
}

// DeleteUser removes a user account.
func DeleteUser(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}
