package project

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	Create(ctx context.Context, p *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	Delete(ctx context.Context, id string) error
	Rename(ctx context.Context, id, name string) error
	SaveSnapshot(ctx context.Context, projectID string, state []byte) (*Snapshot, error)
	LatestSnapshot(ctx context.Context, projectID string) (*Snapshot, error)
	GetSnapshot(ctx context.Context, projectID string, version int) (*Snapshot, error)
	ListSnapshots(ctx context.Context, projectID string) ([]*Snapshot, error)
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, p *Project) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, p.ID, p.Name, p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Project, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at FROM projects WHERE id = ?
	`, id)
	return scanProject(row)
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at FROM projects ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		var p Project
		var createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.Name, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	return err
}

func (r *SQLiteRepository) Rename(ctx context.Context, id, name string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE projects SET name = ?, updated_at = ? WHERE id = ?
	`, name, time.Now().UTC().Format(time.RFC3339), id)
	return err
}

// SaveSnapshot appends a new version for the project. Versions are assigned
// inside a transaction so concurrent saves cannot collide on the
// (project_id, version) key.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, projectID string, state []byte) (*Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var version int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(version), 0) + 1 FROM project_snapshots WHERE project_id = ?
	`, projectID).Scan(&version)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO project_snapshots (project_id, version, state, created_at)
		VALUES (?, ?, ?, ?)
	`, projectID, version, string(state), now.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE projects SET updated_at = ? WHERE id = ?
	`, now.Format(time.RFC3339), projectID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &Snapshot{ProjectID: projectID, Version: version, State: state, CreatedAt: now}, nil
}

func (r *SQLiteRepository) LatestSnapshot(ctx context.Context, projectID string) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT project_id, version, state, created_at FROM project_snapshots
		WHERE project_id = ? ORDER BY version DESC LIMIT 1
	`, projectID)
	return scanSnapshot(row)
}

func (r *SQLiteRepository) GetSnapshot(ctx context.Context, projectID string, version int) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT project_id, version, state, created_at FROM project_snapshots
		WHERE project_id = ? AND version = ?
	`, projectID, version)
	return scanSnapshot(row)
}

func (r *SQLiteRepository) ListSnapshots(ctx context.Context, projectID string) ([]*Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT project_id, version, created_at FROM project_snapshots
		WHERE project_id = ? ORDER BY version DESC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []*Snapshot
	for rows.Next() {
		var s Snapshot
		var createdAt string
		if err := rows.Scan(&s.ProjectID, &s.Version, &createdAt); err != nil {
			return nil, err
		}
		s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		snapshots = append(snapshots, &s)
	}
	return snapshots, rows.Err()
}

func scanProject(row *sql.Row) (*Project, error) {
	var p Project
	var createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.Name, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}

func scanSnapshot(row *sql.Row) (*Snapshot, error) {
	var s Snapshot
	var state, createdAt string
	err := row.Scan(&s.ProjectID, &s.Version, &state, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.State = []byte(state)
	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &s, nil
}
