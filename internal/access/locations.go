package access

import (
	"context"
	"strings"

	"happy-jasmine/internal/domain"
	"happy-jasmine/internal/repository"
	"happy-jasmine/internal/result"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Locations is the map marker accessor
type Locations struct {
	repo   repository.LocationRepository
	logger *zap.Logger
}

// NewLocations creates a Locations accessor
func NewLocations(repo repository.LocationRepository, logger *zap.Logger) *Locations {
	return &Locations{repo: repo, logger: logger}
}

// List returns one page of locations, optionally filtered by category
func (l *Locations) List(ctx context.Context, filter domain.LocationFilter, page domain.Page) result.Result[[]*domain.Location] {
	if filter.Category != "" && !filter.Category.Valid() {
		return invalid[[]*domain.Location]("unknown location category %q", filter.Category)
	}
	locations, total, err := l.repo.List(ctx, filter, page)
	if err != nil {
		return failure[[]*domain.Location](l.logger, "list locations", err)
	}
	return result.OkWithCount(locations, total)
}

// Get returns one location by id
func (l *Locations) Get(ctx context.Context, id uuid.UUID) result.Result[*domain.Location] {
	location, err := l.repo.FindByID(ctx, id)
	if err != nil {
		return failure[*domain.Location](l.logger, "get location", err, zap.String("location_id", id.String()))
	}
	return result.Ok(location)
}

// Create validates coordinates and category, then stores the location
func (l *Locations) Create(ctx context.Context, location *domain.Location) result.Result[*domain.Location] {
	if location == nil || strings.TrimSpace(location.Name) == "" {
		return invalid[*domain.Location]("location name is required")
	}
	if !location.Category.Valid() {
		return invalid[*domain.Location]("unknown location category %q", location.Category)
	}
	if !validCoordinates(location.Latitude, location.Longitude) {
		return invalid[*domain.Location]("coordinates out of range")
	}
	if err := l.repo.Create(ctx, location); err != nil {
		return failure[*domain.Location](l.logger, "create location", err)
	}
	return result.Ok(location)
}

// Update applies a partial update to a location
func (l *Locations) Update(ctx context.Context, id uuid.UUID, patch domain.LocationPatch) result.Result[*domain.Location] {
	if patch.Category.Set && !patch.Category.Value.Valid() {
		return invalid[*domain.Location]("unknown location category %q", patch.Category.Value)
	}
	if patch.Name.Set && strings.TrimSpace(patch.Name.Value) == "" {
		return invalid[*domain.Location]("location name cannot be empty")
	}
	if (patch.Latitude.Set && !validCoordinates(patch.Latitude.Value, 0)) ||
		(patch.Longitude.Set && !validCoordinates(0, patch.Longitude.Value)) {
		return invalid[*domain.Location]("coordinates out of range")
	}
	location, err := l.repo.Update(ctx, id, patch)
	if err != nil {
		return failure[*domain.Location](l.logger, "update location", err, zap.String("location_id", id.String()))
	}
	return result.Ok(location)
}

// Delete removes a location
func (l *Locations) Delete(ctx context.Context, id uuid.UUID) result.Result[result.Empty] {
	if err := l.repo.Delete(ctx, id); err != nil {
		return failure[result.Empty](l.logger, "delete location", err, zap.String("location_id", id.String()))
	}
	return result.Ok(result.Empty{})
}

func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
