package store

import (
	"context"
	"fmt"
)

// FindUserByEmail returns the user row for the given email, or ErrNotFound.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (map[string]any, error) {
	sqlStr := fmt.Sprintf(
		"SELECT id, email, password_hash, name, created_at FROM users WHERE email = %s",
		s.Dialect.Placeholder(1))
	return QueryRow(ctx, s.DB, sqlStr, email)
}

// CreateUser inserts a user row. A duplicate email maps to ErrUniqueViolation.
func (s *Store) CreateUser(ctx context.Context, user map[string]any) error {
	d := s.Dialect
	sqlStr := fmt.Sprintf(
		"INSERT INTO users (id, email, password_hash, name) VALUES (%s, %s, %s, %s)",
		d.Placeholder(1), d.Placeholder(2), d.Placeholder(3), d.Placeholder(4))
	_, err := Exec(ctx, s.DB, sqlStr,
		user["id"], user["email"], user["password_hash"], user["name"])
	if err != nil {
		return d.MapError(err)
	}
	return nil
}
