package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pawhaven/platform/internal/dto"
	apperrors "github.com/pawhaven/platform/internal/errors"
	"github.com/pawhaven/platform/internal/model"
	"github.com/pawhaven/platform/pkg/cache"
	ctxutil "github.com/pawhaven/platform/pkg/context"
	"github.com/pawhaven/platform/pkg/logger"
	"gorm.io/gorm"
)

type PetStore interface {
	CountByStatus(ctx context.Context, status string) (int64, error)
	GetFeatured(ctx context.Context, limit int) ([]model.Pet, error)
}

type ShelterCounter interface {
	CountShelters(ctx context.Context) (int64, error)
}

type NewsletterStore interface {
	Subscribe(ctx context.Context, email string) error
}

// Navbar counts render on every page, so they are memoized briefly instead
// of hitting the database per request
const navCountsCacheKey = "nav_counts"
const navCountsCacheTTL = 30 * time.Second

// PageService backs the public pages: navbar aggregates, the featured pet
// strip and the newsletter signup.
type PageService struct {
	pets       PetStore
	shelters   ShelterCounter
	newsletter NewsletterStore
	counts     *cache.Cache
}

func NewPageService(pets PetStore, shelters ShelterCounter, newsletter NewsletterStore) *PageService {
	return &PageService{
		pets:       pets,
		shelters:   shelters,
		newsletter: newsletter,
		counts:     cache.NewCache(),
	}
}

// NavCounts returns the navbar badge numbers. Best effort: a failing count
// renders as zero rather than failing the page.
func (s *PageService) NavCounts(ctx context.Context) dto.NavCounts {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "NavCounts")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if cached, found := s.counts.Get(navCountsCacheKey); found {
		if counts, ok := cached.(dto.NavCounts); ok {
			return counts
		}
	}

	var counts dto.NavCounts
	complete := true

	if available, err := s.pets.CountByStatus(ctx, model.PetStatusAvailable); err == nil {
		counts.AvailablePets = available
	} else {
		complete = false
		logger.WarnWithContext(ctx, "Pet count unavailable").Err(err).Log()
	}

	if shelters, err := s.shelters.CountShelters(ctx); err == nil {
		counts.Shelters = shelters
	} else {
		complete = false
		logger.WarnWithContext(ctx, "Shelter count unavailable").Err(err).Log()
	}

	// Partial results are served but not cached
	if complete {
		s.counts.Set(navCountsCacheKey, counts, navCountsCacheTTL)
	}

	return counts
}

// FeaturedPets returns the newest available pets as view models
func (s *PageService) FeaturedPets(ctx context.Context, limit int) ([]dto.PetView, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "FeaturedPets")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	pets, err := s.pets.GetFeatured(ctx, limit)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	views := make([]dto.PetView, 0, len(pets))
	for _, pet := range pets {
		views = append(views, dto.PetView{
			ID:        pet.ID,
			Name:      pet.Name,
			Species:   pet.Species,
			Breed:     pet.Breed,
			AgeMonths: pet.AgeMonths,
			Shelter:   pet.Shelter.ShelterName,
		})
	}
	return views, nil
}

// SubscribeNewsletter validates and stores a newsletter signup
func (s *PageService) SubscribeNewsletter(ctx context.Context, email string) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "SubscribeNewsletter")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperrors.ErrEmailRequired
	}
	if !emailSyntax.MatchString(email) {
		return apperrors.ErrEmailInvalid
	}

	if err := s.newsletter.Subscribe(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrAlreadySubscribed
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Newsletter subscription added").
		String("email", email).
		Log()

	return nil
}
