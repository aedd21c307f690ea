package store

import (
	"context"
	"fmt"
	"strings"
)

// Bootstrap creates the fixed system tables if they don't exist.
func (s *Store) Bootstrap(ctx context.Context) error {
	// Statements run one at a time; pgx's prepared mode rejects batches.
	for _, stmt := range strings.Split(s.Dialect.TablesSQL(), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
	}
	return nil
}
