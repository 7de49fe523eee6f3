package supabase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"sparrow-backend/internal/database"
	"sparrow-backend/internal/models"
	"sparrow-backend/internal/store"
)

// DatabaseClient stores projects and sessions in SQL tables. It works against
// the Supabase Postgres instance or a local sqlite file.
type DatabaseClient struct {
	db     *sql.DB
	driver string
	sq     sq.StatementBuilderType
}

func NewDatabaseClient(driver, dsn string) (*DatabaseClient, error) {
	db, err := database.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	return NewDatabaseClientFromDB(db, driver), nil
}

func NewDatabaseClientFromDB(db *sql.DB, driver string) *DatabaseClient {
	return &DatabaseClient{db: db, driver: driver, sq: database.Builder(driver)}
}

// DB exposes the underlying pool, e.g. for the migrator.
func (d *DatabaseClient) DB() *sql.DB { return d.db }

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

func (d *DatabaseClient) LoadProject(ctx context.Context, key string) (*models.Project, error) {
	q, args, err := d.sq.Select("id", "name", "description", "created_at", "last_modified").
		From("projects").Where(sq.Eq{"storage_key": key}).ToSql()
	if err != nil {
		return nil, err
	}

	var p models.Project
	var created, modified string
	err = d.db.QueryRowContext(ctx, q, args...).Scan(&p.ID, &p.Name, &p.Description, &created, &modified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if p.CreatedAt, err = database.ParseTime(created); err != nil {
		return nil, fmt.Errorf("project %s created_at: %w", key, err)
	}
	if p.LastModified, err = database.ParseTime(modified); err != nil {
		return nil, fmt.Errorf("project %s last_modified: %w", key, err)
	}

	q, args, err = d.sq.Select("id", "name", "content", "language", "last_modified").
		From("project_files").Where(sq.Eq{"storage_key": key}).OrderBy("seq").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := d.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list project files: %w", err)
	}
	defer rows.Close()

	p.Files = []models.ProjectFile{}
	for rows.Next() {
		var f models.ProjectFile
		var fm string
		if err := rows.Scan(&f.ID, &f.Name, &f.Content, &f.Language, &fm); err != nil {
			return nil, fmt.Errorf("failed to scan project file: %w", err)
		}
		if f.LastModified, err = database.ParseTime(fm); err != nil {
			return nil, fmt.Errorf("file %s last_modified: %w", f.Name, err)
		}
		p.Files = append(p.Files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveProject writes the project row and replaces its files in one transaction.
func (d *DatabaseClient) SaveProject(ctx context.Context, key string, p *models.Project) error {
	return database.WithTx(ctx, d.db, func(tx *sql.Tx) error {
		q, args, err := d.sq.Insert("projects").
			Columns("storage_key", "id", "name", "description", "created_at", "last_modified").
			Values(key, p.ID, p.Name, p.Description, database.FormatTime(p.CreatedAt), database.FormatTime(p.LastModified)).
			Suffix("ON CONFLICT (storage_key) DO UPDATE SET id = excluded.id, name = excluded.name, " +
				"description = excluded.description, created_at = excluded.created_at, last_modified = excluded.last_modified").
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("failed to upsert project: %w", err)
		}

		if err := d.execTx(ctx, tx, d.sq.Delete("project_files").Where(sq.Eq{"storage_key": key})); err != nil {
			return fmt.Errorf("failed to clear project files: %w", err)
		}
		if len(p.Files) == 0 {
			return nil
		}

		ins := d.sq.Insert("project_files").
			Columns("storage_key", "seq", "id", "name", "content", "language", "last_modified")
		for i, f := range p.Files {
			ins = ins.Values(key, i, f.ID, f.Name, f.Content, f.Language, database.FormatTime(f.LastModified))
		}
		if err := d.execTx(ctx, tx, ins); err != nil {
			return fmt.Errorf("failed to insert project files: %w", err)
		}
		return nil
	})
}

func (d *DatabaseClient) ListProjects(ctx context.Context) ([]models.ProjectSummary, error) {
	q, args, err := d.sq.Select("p.storage_key", "p.id", "p.name", "p.created_at", "p.last_modified",
		"(SELECT COUNT(*) FROM project_files f WHERE f.storage_key = p.storage_key)").
		From("projects p").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := d.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	out := []models.ProjectSummary{}
	for rows.Next() {
		var s models.ProjectSummary
		var created, modified string
		if err := rows.Scan(&s.Key, &s.ID, &s.Name, &created, &modified, &s.FileCount); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		s.CreatedAt, _ = database.ParseTime(created)
		s.LastModified, _ = database.ParseTime(modified)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	store.SortProjects(out)
	return out, nil
}

func (d *DatabaseClient) DeleteProject(ctx context.Context, key string) error {
	return database.WithTx(ctx, d.db, func(tx *sql.Tx) error {
		if err := d.execTx(ctx, tx, d.sq.Delete("project_files").Where(sq.Eq{"storage_key": key})); err != nil {
			return fmt.Errorf("failed to delete project files: %w", err)
		}
		q, args, err := d.sq.Delete("projects").Where(sq.Eq{"storage_key": key}).ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (d *DatabaseClient) LoadSession(ctx context.Context, id string) (*models.ChatSession, error) {
	q, args, err := d.sq.Select("id", "title", "project_key", "state", "created_at", "last_modified").
		From("chat_sessions").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	var s models.ChatSession
	var created, modified string
	err = d.db.QueryRowContext(ctx, q, args...).Scan(&s.ID, &s.Title, &s.ProjectKey, &s.State, &created, &modified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	s.CreatedAt, _ = database.ParseTime(created)
	s.LastModified, _ = database.ParseTime(modified)

	q, args, err = d.sq.Select("id", "role", "content", "kind", "created_at").
		From("chat_messages").Where(sq.Eq{"session_id": id}).OrderBy("seq").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := d.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	s.Messages = []models.Message{}
	for rows.Next() {
		var m models.Message
		var role, ts string
		if err := rows.Scan(&m.ID, &role, &m.Content, &m.Kind, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Role = models.Role(role)
		m.Timestamp, _ = database.ParseTime(ts)
		s.Messages = append(s.Messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (d *DatabaseClient) SaveSession(ctx context.Context, s *models.ChatSession) error {
	return database.WithTx(ctx, d.db, func(tx *sql.Tx) error {
		q, args, err := d.sq.Insert("chat_sessions").
			Columns("id", "title", "project_key", "state", "created_at", "last_modified").
			Values(s.ID, s.Title, s.ProjectKey, s.State, database.FormatTime(s.CreatedAt), database.FormatTime(s.LastModified)).
			Suffix("ON CONFLICT (id) DO UPDATE SET title = excluded.title, project_key = excluded.project_key, " +
				"state = excluded.state, last_modified = excluded.last_modified").
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("failed to upsert session: %w", err)
		}

		if err := d.execTx(ctx, tx, d.sq.Delete("chat_messages").Where(sq.Eq{"session_id": s.ID})); err != nil {
			return fmt.Errorf("failed to clear messages: %w", err)
		}
		if len(s.Messages) == 0 {
			return nil
		}
		ins := d.sq.Insert("chat_messages").Columns("session_id", "seq", "id", "role", "content", "kind", "created_at")
		for i, m := range s.Messages {
			ins = ins.Values(s.ID, i, m.ID, string(m.Role), m.Content, m.Kind, database.FormatTime(m.Timestamp))
		}
		if err := d.execTx(ctx, tx, ins); err != nil {
			return fmt.Errorf("failed to insert messages: %w", err)
		}
		return nil
	})
}

func (d *DatabaseClient) ListSessions(ctx context.Context) ([]models.SessionSummary, error) {
	q, args, err := d.sq.Select("s.id", "s.title", "s.project_key", "s.created_at", "s.last_modified",
		"(SELECT COUNT(*) FROM chat_messages m WHERE m.session_id = s.id)").
		From("chat_sessions s").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := d.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	out := []models.SessionSummary{}
	for rows.Next() {
		var s models.SessionSummary
		var created, modified string
		if err := rows.Scan(&s.ID, &s.Title, &s.ProjectKey, &created, &modified, &s.MessageCount); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.CreatedAt, _ = database.ParseTime(created)
		s.LastModified, _ = database.ParseTime(modified)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	store.SortSessions(out)
	return out, nil
}

func (d *DatabaseClient) execTx(ctx context.Context, tx *sql.Tx, b sq.Sqlizer) error {
	q, args, err := b.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, q, args...)
	return err
}
