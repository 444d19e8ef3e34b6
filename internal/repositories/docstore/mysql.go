package docstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

// MySQL stores documents in a single table keyed by (collection, id)
// with the body held in a JSON column. Predicates compile to
// JSON_EXTRACT comparisons and partial updates to JSON_MERGE_PATCH, so
// the merge semantics match the in-memory store exactly.
type MySQL struct {
	db *sql.DB
}

const documentsSchema = `
CREATE TABLE IF NOT EXISTS documents (
	collection VARCHAR(64) NOT NULL,
	id CHAR(36) NOT NULL,
	doc JSON NOT NULL,
	PRIMARY KEY (collection, id)
)`

func ConnectMySQL(dsn string) (*MySQL, error) {
	fmt.Println("Connecting to MySQL...")

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB connection: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", ErrUnavailable)
	}

	if _, err = db.Exec(documentsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure documents table: %w", err)
	}

	fmt.Println("✅ Connected to MySQL")
	return &MySQL{db: db}, nil
}

func (s *MySQL) Close() error {
	return s.db.Close()
}

func (s *MySQL) Query(ctx context.Context, collection string, preds ...Predicate) ([]Document, error) {
	query := "SELECT id, doc FROM documents WHERE collection = ?"
	args := []interface{}{collection}

	for _, p := range preds {
		clause, clauseArgs, err := predicateSQL(p)
		if err != nil {
			return nil, err
		}
		query += " AND " + clause
		args = append(args, clauseArgs...)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "query documents")
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, classify(err, "scan document row")
		}
		doc, err := decodeRow(id, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, classify(rows.Err(), "iterate document rows")
}

func (s *MySQL) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT doc FROM documents WHERE collection = ? AND id = ?",
		collection, id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return nil, classify(err, "get document")
	}
	return decodeRow(id, raw)
}

func (s *MySQL) Create(ctx context.Context, collection string, doc Document) (string, error) {
	id := uuid.NewString()

	stored := cloneDocument(doc)
	stored["id"] = id
	raw, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO documents (collection, id, doc) VALUES (?, ?, ?)",
		collection, id, raw,
	)
	if err != nil {
		return "", classify(err, "insert document")
	}
	return id, nil
}

func (s *MySQL) Update(ctx context.Context, collection, id string, partial Document) error {
	patch := cloneDocument(partial)
	delete(patch, "id")
	raw, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to encode patch: %w", err)
	}

	var exists bool
	err = s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM documents WHERE collection = ? AND id = ?)",
		collection, id,
	).Scan(&exists)
	if err != nil {
		return classify(err, "check document existence")
	}
	if !exists {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE documents SET doc = JSON_MERGE_PATCH(doc, CAST(? AS JSON)) WHERE collection = ? AND id = ?",
		raw, collection, id,
	)
	return classify(err, "patch document")
}

func (s *MySQL) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND id = ?",
		collection, id,
	)
	return classify(err, "delete document")
}

func decodeRow(id string, raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	doc["id"] = id
	return doc, nil
}

func predicateSQL(p Predicate) (string, []interface{}, error) {
	path := "$." + p.Field

	switch p.Op {
	case OpEqual:
		switch v := p.Value.(type) {
		case bool:
			lit := "false"
			if v {
				lit = "true"
			}
			return "JSON_EXTRACT(doc, ?) = CAST(? AS JSON)", []interface{}{path, lit}, nil
		case string:
			return "JSON_UNQUOTE(JSON_EXTRACT(doc, ?)) = ?", []interface{}{path, v}, nil
		default:
			return "JSON_EXTRACT(doc, ?) = ?", []interface{}{path, p.Value}, nil
		}
	case OpIn:
		values, ok := p.Value.([]interface{})
		if !ok {
			return "", nil, fmt.Errorf("membership predicate on %q needs a value slice", p.Field)
		}
		if len(values) == 0 {
			return "FALSE", nil, nil
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(values)), ",")
		args := append([]interface{}{path}, values...)
		return fmt.Sprintf("JSON_UNQUOTE(JSON_EXTRACT(doc, ?)) IN (%s)", placeholders), args, nil
	case OpContains:
		s, ok := p.Value.(string)
		if !ok {
			return "", nil, fmt.Errorf("contains predicate on %q needs a string value", p.Field)
		}
		return "JSON_CONTAINS(JSON_EXTRACT(doc, ?), JSON_QUOTE(?))", []interface{}{path, s}, nil
	default:
		return "", nil, fmt.Errorf("unsupported predicate op %q", p.Op)
	}
}

func classify(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", msg, ErrUnavailable)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
