package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"envrisk/internal/domain"
	"envrisk/internal/ports"
)

// SiteRepository

func (db *DB) CreateSite(ctx context.Context, site domain.Site) (string, error) {
	var id string
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO sites (name, latitude, longitude, country)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, site.Name, site.Latitude, site.Longitude, site.Country).Scan(&id)
	return id, err
}

func (db *DB) GetSite(ctx context.Context, id string) (domain.Site, error) {
	var site domain.Site
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, latitude, longitude, country, created_at
		FROM sites WHERE id = $1
	`, id).Scan(&site.ID, &site.Name, &site.Latitude, &site.Longitude, &site.Country, &site.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Site{}, ports.ErrNotFound
	}
	return site, err
}

// AssessmentRepository

func (db *DB) CreateAssessment(ctx context.Context, a domain.Assessment) (string, error) {
	var id string
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO assessments (site_id, country, kind, project_type, collect, status, progress, input)
		VALUES ($1, $2, $3, $4, $5, 'queued', 0, $6)
		RETURNING id
	`, a.SiteID, a.Country, a.Kind, a.ProjectType, a.Collect, a.Input).Scan(&id)
	if err != nil {
		return "", err
	}
	// create job row
	_, err = db.Pool.Exec(ctx, `INSERT INTO assessment_jobs (assessment_id) VALUES ($1)`, id)
	return id, err
}

func (db *DB) GetAssessment(ctx context.Context, id string) (domain.Assessment, error) {
	var a domain.Assessment
	err := db.Pool.QueryRow(ctx, `
		SELECT id, site_id, country, kind, project_type, collect, status, progress, degraded, input, result, created_at
		FROM assessments WHERE id = $1
	`, id).Scan(&a.ID, &a.SiteID, &a.Country, &a.Kind, &a.ProjectType, &a.Collect,
		&a.Status, &a.Progress, &a.Degraded, &a.Input, &a.Result, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Assessment{}, ports.ErrNotFound
	}
	return a, err
}

func (db *DB) AssessmentStatus(ctx context.Context, id string) (string, float64, error) {
	var status string
	var progress float64
	err := db.Pool.QueryRow(ctx, `SELECT status, progress FROM assessments WHERE id = $1`, id).Scan(&status, &progress)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", 0, ports.ErrNotFound
	}
	return status, progress, err
}

func (db *DB) StoreResult(ctx context.Context, id string, result []byte, degraded bool) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE assessments SET result = $2, degraded = $3 WHERE id = $1
	`, id, result, degraded)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return nil
}
