package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLiteTodoStore implements TodoStore backed by a SQLite database.
type SQLiteTodoStore struct {
	db *sql.DB
}

// NewSQLiteTodoStore returns a new SQLiteTodoStore.
func NewSQLiteTodoStore(db *sql.DB) *SQLiteTodoStore {
	return &SQLiteTodoStore{db: db}
}

func (s *SQLiteTodoStore) Create(ctx context.Context, text string) (*Todo, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO todos (text, completed) VALUES (?, 0) RETURNING id, text, completed`, text)
	t, err := scanTodo(row)
	if err != nil {
		return nil, fmt.Errorf("inserting todo: %w", err)
	}
	return t, nil
}

func (s *SQLiteTodoStore) Get(ctx context.Context, id int64) (*Todo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, text, completed FROM todos WHERE id = ?`, id)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting todo %d: %w", id, err)
	}
	return t, nil
}

func (s *SQLiteTodoStore) List(ctx context.Context) ([]*Todo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, text, completed FROM todos ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	todos := make([]*Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning todo row: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating todo rows: %w", err)
	}
	return todos, nil
}

// Update reads and writes inside one transaction so concurrent partial
// updates do not lose fields.
func (s *SQLiteTodoStore) Update(ctx context.Context, id int64, update UpdateTodo) (*Todo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update todo %d: %w", id, err)
	}
	defer tx.Rollback() //nolint:errcheck

	current, err := scanTodo(tx.QueryRowContext(ctx, `SELECT id, text, completed FROM todos WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTodoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading todo %d: %w", id, err)
	}

	next := update.Apply(*current)
	if _, err := tx.ExecContext(ctx,
		`UPDATE todos SET text = ?, completed = ? WHERE id = ?`,
		next.Text, next.Completed, id,
	); err != nil {
		return nil, fmt.Errorf("updating todo %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update todo %d: %w", id, err)
	}
	return &next, nil
}

func (s *SQLiteTodoStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting todo %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting todo %d: %w", id, err)
	}
	if n == 0 {
		return ErrTodoNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*Todo, error) {
	var t Todo
	if err := row.Scan(&t.ID, &t.Text, &t.Completed); err != nil {
		return nil, err
	}
	return &t, nil
}
