package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/muradsh/artmarket/internal/domain"
	"github.com/muradsh/artmarket/internal/repository"
)

type CatalogUseCase interface {
	ListWorkshops(ctx context.Context, availableOnly bool) ([]domain.Workshop, error)
	GetWorkshop(ctx context.Context, id string) (*domain.Workshop, error)
	CreateWorkshop(ctx context.Context, artistID string, input CreateWorkshopInput) (*domain.Workshop, error)
	SetWorkshopAvailability(ctx context.Context, id, artistID string, available bool) (*domain.Workshop, error)
	ListArtworks(ctx context.Context) ([]domain.Artwork, error)
	GetArtwork(ctx context.Context, id string) (*domain.Artwork, error)
	CreateArtwork(ctx context.Context, artistID string, input CreateArtworkInput) (*domain.Artwork, error)
	RefreshWorkshopsCache(ctx context.Context) error
}

type Cache interface {
	GetWorkshops(ctx context.Context) ([]domain.Workshop, error)
	SetWorkshops(ctx context.Context, workshops []domain.Workshop) error
	InvalidateWorkshops(ctx context.Context) error
}

type CatalogService struct {
	workshops repository.WorkshopRepository
	artworks  repository.ArtworkRepository
	cache     Cache
}

type CreateWorkshopInput struct {
	Name       string    `json:"name"`
	Location   string    `json:"location"`
	PriceCents int64     `json:"price_cents"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Capacity   int       `json:"capacity"`
}

type CreateArtworkInput struct {
	Title      string `json:"title"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

func NewCatalogService(workshops repository.WorkshopRepository, artworks repository.ArtworkRepository, cache Cache) *CatalogService {
	return &CatalogService{workshops: workshops, artworks: artworks, cache: cache}
}

// ListWorkshops serves the unfiltered listing from cache when possible.
func (s *CatalogService) ListWorkshops(ctx context.Context, availableOnly bool) ([]domain.Workshop, error) {
	if s.cache != nil && !availableOnly {
		if cached, err := s.cache.GetWorkshops(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	workshops, err := s.workshops.List(ctx, availableOnly)
	if err != nil {
		return nil, err
	}
	if s.cache != nil && !availableOnly {
		_ = s.cache.SetWorkshops(ctx, workshops)
	}
	return workshops, nil
}

func (s *CatalogService) GetWorkshop(ctx context.Context, id string) (*domain.Workshop, error) {
	return s.workshops.GetByID(ctx, id)
}

func (s *CatalogService) CreateWorkshop(ctx context.Context, artistID string, input CreateWorkshopInput) (*domain.Workshop, error) {
	if artistID == "" {
		return nil, errors.New("artist id is required")
	}
	if input.Name == "" {
		return nil, errors.New("name is required")
	}
	if !input.StartTime.Before(input.EndTime) {
		return nil, errors.New("start time must be before end time")
	}
	if input.Capacity < 1 {
		return nil, errors.New("capacity must be at least 1")
	}
	if input.PriceCents < 0 {
		return nil, errors.New("price must not be negative")
	}

	workshop := &domain.Workshop{
		ID:           uuid.NewString(),
		ArtistID:     artistID,
		Name:         input.Name,
		Location:     input.Location,
		PriceCents:   input.PriceCents,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		Capacity:     input.Capacity,
		Availability: true,
	}
	if err := s.workshops.Create(ctx, workshop); err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateWorkshops(ctx)
	}
	return workshop, nil
}

// SetWorkshopAvailability flips the operator-controlled availability flag.
// Only the owning artist may toggle it.
func (s *CatalogService) SetWorkshopAvailability(ctx context.Context, id, artistID string, available bool) (*domain.Workshop, error) {
	current, err := s.workshops.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.ArtistID != artistID {
		return nil, domain.ErrForbidden
	}

	updated, err := s.workshops.SetAvailability(ctx, id, available)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateWorkshops(ctx)
	}
	return updated, nil
}

func (s *CatalogService) ListArtworks(ctx context.Context) ([]domain.Artwork, error) {
	return s.artworks.List(ctx)
}

func (s *CatalogService) GetArtwork(ctx context.Context, id string) (*domain.Artwork, error) {
	return s.artworks.GetByID(ctx, id)
}

// CreateArtwork registers a stock-bearing artwork owned by the calling artist.
func (s *CatalogService) CreateArtwork(ctx context.Context, artistID string, input CreateArtworkInput) (*domain.Artwork, error) {
	if artistID == "" {
		return nil, errors.New("artist id is required")
	}
	if input.Title == "" {
		return nil, errors.New("title is required")
	}
	if input.Quantity < 0 {
		return nil, errors.New("quantity must not be negative")
	}
	if input.PriceCents < 0 {
		return nil, errors.New("price must not be negative")
	}

	artwork := &domain.Artwork{
		ID:         uuid.NewString(),
		ArtistID:   artistID,
		Title:      input.Title,
		Quantity:   input.Quantity,
		PriceCents: input.PriceCents,
	}
	if err := s.artworks.Create(ctx, artwork); err != nil {
		return nil, err
	}
	return artwork, nil
}

// RefreshWorkshopsCache repopulates the workshop list cache from the database.
// The worker calls this on a timer.
func (s *CatalogService) RefreshWorkshopsCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	workshops, err := s.workshops.List(ctx, false)
	if err != nil {
		return err
	}
	return s.cache.SetWorkshops(ctx, workshops)
}

var _ CatalogUseCase = (*CatalogService)(nil)
