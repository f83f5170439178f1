package tours

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"deluxetours/internal/shared/config"
	"deluxetours/pkg/cache"
)

var ErrInvalidDate = errors.New("invalid availability date")

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

type Service interface {
	CreateTour(ctx context.Context, req *CreateTourRequest) (*TourResponse, error)
	UpdateTour(ctx context.Context, id string, req *UpdateTourRequest) (*TourResponse, error)
	DeleteTour(ctx context.Context, id string) error
	GetTour(ctx context.Context, id string) (*TourResponse, error)
	GetTourBySlug(ctx context.Context, slug string) (*TourResponse, error)
	ListTours(ctx context.Context, query *TourListQuery) (*TourListResponse, error)
	ListFeatured(ctx context.Context, limit int) ([]TourResponse, error)
	SetAvailability(ctx context.Context, tourID string, req *SetAvailabilityRequest) error
	CheckAvailability(ctx context.Context, tourID string, date time.Time, travelers int) (*AvailabilityCheckResponse, error)
}

type service struct {
	repo   Repository
	cache  cache.Service
	config *config.Config
}

func NewService(repo Repository, cacheService cache.Service, cfg *config.Config) Service {
	return &service{
		repo:   repo,
		cache:  cacheService,
		config: cfg,
	}
}

func (s *service) CreateTour(ctx context.Context, req *CreateTourRequest) (*TourResponse, error) {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	tour := &Tour{
		Title:          req.Title,
		Slug:           slugify(req.Title),
		Description:    req.Description,
		Category:       req.Category,
		Destination:    req.Destination,
		Country:        req.Country,
		DurationDays:   req.DurationDays,
		DurationNights: req.DurationNights,
		Price:          req.Price,
		DiscountPrice:  req.DiscountPrice,
		MaxGroupSize:   req.MaxGroupSize,
		MainImage:      req.MainImage,
		IsFeatured:     req.IsFeatured,
		IsActive:       active,
	}

	if err := s.repo.Create(ctx, tour); err != nil {
		if errors.Is(err, ErrSlugTaken) {
			tour.Slug = fmt.Sprintf("%s-%s", tour.Slug, randomSuffix(4))
			if err := s.repo.Create(ctx, tour); err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	if len(req.Availability) > 0 {
		entries, err := parseAvailabilityInputs(tour.ID.String(), req.Availability)
		if err != nil {
			return nil, err
		}
		for i := range entries {
			entries[i].TourID = tour.ID
		}
		if err := s.repo.UpsertAvailability(ctx, tour.ID.String(), entries); err != nil {
			return nil, err
		}
	}

	s.invalidateCache(ctx)

	created, err := s.repo.GetByID(ctx, tour.ID.String())
	if err != nil {
		return nil, err
	}
	resp := created.ToResponse()
	return &resp, nil
}

func (s *service) UpdateTour(ctx context.Context, id string, req *UpdateTourRequest) (*TourResponse, error) {
	tour, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		tour.Title = *req.Title
		tour.Slug = slugify(*req.Title)
	}
	if req.Description != nil {
		tour.Description = *req.Description
	}
	if req.Category != nil {
		tour.Category = *req.Category
	}
	if req.Destination != nil {
		tour.Destination = *req.Destination
	}
	if req.Country != nil {
		tour.Country = *req.Country
	}
	if req.DurationDays != nil {
		tour.DurationDays = *req.DurationDays
	}
	if req.DurationNights != nil {
		tour.DurationNights = *req.DurationNights
	}
	if req.Price != nil {
		tour.Price = *req.Price
	}
	if req.DiscountPrice != nil {
		if *req.DiscountPrice == 0 {
			tour.DiscountPrice = nil
		} else {
			tour.DiscountPrice = req.DiscountPrice
		}
	}
	if req.MaxGroupSize != nil {
		tour.MaxGroupSize = *req.MaxGroupSize
	}
	if req.MainImage != nil {
		tour.MainImage = *req.MainImage
	}
	if req.IsFeatured != nil {
		tour.IsFeatured = *req.IsFeatured
	}
	if req.IsActive != nil {
		tour.IsActive = *req.IsActive
	}

	// Save would also write the preloaded availability rows; update scoped
	// columns instead.
	tour.Availability = nil
	if err := s.repo.Update(ctx, tour); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := updated.ToResponse()
	return &resp, nil
}

func (s *service) DeleteTour(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *service) GetTour(ctx context.Context, id string) (*TourResponse, error) {
	var resp TourResponse
	key := cache.TourKey(id)
	err := s.cache.GetOrSet(ctx, key, s.config.Redis.TourCacheTTL, func() (interface{}, error) {
		tour, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return tour.ToResponse(), nil
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *service) GetTourBySlug(ctx context.Context, slug string) (*TourResponse, error) {
	tour, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := tour.ToResponse()
	return &resp, nil
}

func (s *service) ListTours(ctx context.Context, query *TourListQuery) (*TourListResponse, error) {
	query.Normalize()

	tours, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}

	resp := &TourListResponse{
		Tours:      make([]TourResponse, 0, len(tours)),
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: calculateTotalPages(total, query.Limit),
	}
	for i := range tours {
		resp.Tours = append(resp.Tours, tours[i].ToResponse())
	}
	return resp, nil
}

func (s *service) ListFeatured(ctx context.Context, limit int) ([]TourResponse, error) {
	if limit < 1 || limit > 50 {
		limit = 6
	}
	tours, err := s.repo.ListFeatured(ctx, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]TourResponse, 0, len(tours))
	for i := range tours {
		resp = append(resp, tours[i].ToResponse())
	}
	return resp, nil
}

func (s *service) SetAvailability(ctx context.Context, tourID string, req *SetAvailabilityRequest) error {
	tour, err := s.repo.GetByID(ctx, tourID)
	if err != nil {
		return err
	}

	entries, err := parseAvailabilityInputs(tourID, req.Entries)
	if err != nil {
		return err
	}
	for i := range entries {
		entries[i].TourID = tour.ID
	}

	if err := s.repo.UpsertAvailability(ctx, tourID, entries); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *service) CheckAvailability(ctx context.Context, tourID string, date time.Time, travelers int) (*AvailabilityCheckResponse, error) {
	tour, err := s.repo.GetByID(ctx, tourID)
	if err != nil {
		return nil, err
	}

	avail, err := s.repo.GetAvailability(ctx, tourID, date)
	if err != nil {
		return nil, err
	}

	return &AvailabilityCheckResponse{
		Available:      avail.SpotsAvailable >= travelers,
		SpotsAvailable: avail.SpotsAvailable,
		UnitPrice:      tour.EffectivePrice(),
	}, nil
}

func (s *service) invalidateCache(ctx context.Context) {
	// Cache staleness is preferable to failing the write.
	_ = s.cache.DeletePattern(ctx, cache.TourPattern())
}

func parseAvailabilityInputs(tourID string, inputs []AvailabilityInput) ([]TourAvailability, error) {
	entries := make([]TourAvailability, 0, len(inputs))
	for _, in := range inputs {
		date, err := ParseAvailabilityDate(in.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, in.Date)
		}
		entries = append(entries, TourAvailability{
			Date:           date,
			SpotsAvailable: in.SpotsAvailable,
		})
	}
	return entries, nil
}

func slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func randomSuffix(n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			b[i] = 'x'
			continue
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b)
}

func calculateTotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
