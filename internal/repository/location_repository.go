package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"happy-jasmine/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrLocationNotFound = notFound("location")
)

const locationColumns = `id, name, description, latitude, longitude, category, created_at, updated_at`

// LocationRepository defines the interface for location data access
type LocationRepository interface {
	Create(ctx context.Context, location *domain.Location) error
	Update(ctx context.Context, id uuid.UUID, patch domain.LocationPatch) (*domain.Location, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Location, error)
	List(ctx context.Context, filter domain.LocationFilter, page domain.Page) ([]*domain.Location, int, error)
}

type locationRepository struct {
	db *sql.DB
}

// NewLocationRepository creates a new instance of LocationRepository
func NewLocationRepository(db *sql.DB) LocationRepository {
	return &locationRepository{db: db}
}

func scanLocation(row rowScanner) (*domain.Location, error) {
	location := &domain.Location{}
	var category string
	err := row.Scan(
		&location.ID,
		&location.Name,
		&location.Description,
		&location.Latitude,
		&location.Longitude,
		&category,
		&location.CreatedAt,
		&location.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	location.Category = domain.LocationCategory(category)
	return location, nil
}

// Create inserts a new location
func (r *locationRepository) Create(ctx context.Context, location *domain.Location) error {
	if location.ID == uuid.Nil {
		location.ID = uuid.New()
	}

	query := `
		INSERT INTO locations (id, name, description, latitude, longitude, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + locationColumns

	created, err := scanLocation(r.db.QueryRowContext(
		ctx,
		query,
		location.ID,
		location.Name,
		location.Description,
		location.Latitude,
		location.Longitude,
		string(location.Category),
	))
	if err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}

	*location = *created
	return nil
}

// Update changes only the columns set in patch and returns the updated row
func (r *locationRepository) Update(ctx context.Context, id uuid.UUID, patch domain.LocationPatch) (*domain.Location, error) {
	var set setClause

	if patch.Name.Set {
		set.add("name", patch.Name.Value)
	}
	if patch.Description.Set {
		set.add("description", patch.Description.Value)
	}
	if patch.Latitude.Set {
		set.add("latitude", patch.Latitude.Value)
	}
	if patch.Longitude.Set {
		set.add("longitude", patch.Longitude.Value)
	}
	if patch.Category.Set {
		set.add("category", string(patch.Category.Value))
	}

	if set.empty() {
		return r.FindByID(ctx, id)
	}

	assignments, idIndex := set.build()
	query := fmt.Sprintf(`UPDATE locations SET %s WHERE id = $%d RETURNING %s`, assignments, idIndex, locationColumns)

	location, err := scanLocation(r.db.QueryRowContext(ctx, query, append(set.args, id)...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to update location: %w", err)
	}

	return location, nil
}

// Delete removes a location
func (r *locationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrLocationNotFound
	}

	return nil
}

// FindByID retrieves a location by ID
func (r *locationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`

	location, err := scanLocation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to find location by ID: %w", err)
	}

	return location, nil
}

// List returns one page of locations, newest first, optionally of a single category
func (r *locationRepository) List(ctx context.Context, filter domain.LocationFilter, page domain.Page) ([]*domain.Location, int, error) {
	page = domain.NormalizePage(page)

	whereClause := ""
	args := []any{}
	argIndex := 1

	if filter.Category != "" {
		whereClause = fmt.Sprintf("WHERE category = $%d", argIndex)
		args = append(args, string(filter.Category))
		argIndex++
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM locations %s", whereClause)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count locations: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM locations
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, locationColumns, whereClause, argIndex, argIndex+1)

	args = append(args, page.Limit(), page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	locations := []*domain.Location{}
	for rows.Next() {
		location, err := scanLocation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, location)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating locations: %w", err)
	}

	return locations, total, nil
}
