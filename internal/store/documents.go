package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Documents are stored as one JSON blob per (collection, id). Reads return
// the decoded body with id and timestamps attached.

func (s *Store) ListDocuments(ctx context.Context, collection string) ([]map[string]any, error) {
	sqlStr := fmt.Sprintf(
		"SELECT id, data, created_at, updated_at FROM documents WHERE collection = %s ORDER BY created_at DESC",
		s.Dialect.Placeholder(1))
	rows, err := QueryRows(ctx, s.DB, sqlStr, collection)
	if err != nil {
		return nil, err
	}
	docs := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		doc, err := decodeDocument(row)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *Store) GetDocument(ctx context.Context, collection, id string) (map[string]any, error) {
	d := s.Dialect
	sqlStr := fmt.Sprintf(
		"SELECT id, data, created_at, updated_at FROM documents WHERE collection = %s AND id = %s",
		d.Placeholder(1), d.Placeholder(2))
	row, err := QueryRow(ctx, s.DB, sqlStr, collection, id)
	if err != nil {
		return nil, err
	}
	return decodeDocument(row)
}

func (s *Store) CreateDocument(ctx context.Context, collection, id string, data map[string]any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	d := s.Dialect
	sqlStr := fmt.Sprintf(
		"INSERT INTO documents (collection, id, data) VALUES (%s, %s, %s)",
		d.Placeholder(1), d.Placeholder(2), d.Placeholder(3))
	_, err = Exec(ctx, s.DB, sqlStr, collection, id, string(body))
	if err != nil {
		return d.MapError(err)
	}
	return nil
}

func (s *Store) UpdateDocument(ctx context.Context, collection, id string, data map[string]any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	d := s.Dialect
	sqlStr := fmt.Sprintf(
		"UPDATE documents SET data = %s, updated_at = %s WHERE collection = %s AND id = %s",
		d.Placeholder(1), d.NowExpr(), d.Placeholder(2), d.Placeholder(3))
	n, err := Exec(ctx, s.DB, sqlStr, string(body), collection, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteDocument(ctx context.Context, collection, id string) error {
	d := s.Dialect
	sqlStr := fmt.Sprintf(
		"DELETE FROM documents WHERE collection = %s AND id = %s",
		d.Placeholder(1), d.Placeholder(2))
	n, err := Exec(ctx, s.DB, sqlStr, collection, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeDocument(row map[string]any) (map[string]any, error) {
	doc := map[string]any{}
	if raw, ok := row["data"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
	}
	doc["id"] = row["id"]
	doc["created_at"] = row["created_at"]
	doc["updated_at"] = row["updated_at"]
	return doc, nil
}
