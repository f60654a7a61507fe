package service

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/pawhaven/platform/internal/errors"
	"github.com/pawhaven/platform/internal/model"
	"gorm.io/gorm"
)

type fakePetStore struct {
	available  int64
	countCalls int
	pets       []model.Pet
	err        error
}

func (s *fakePetStore) CountByStatus(_ context.Context, _ string) (int64, error) {
	s.countCalls++
	return s.available, s.err
}

func (s *fakePetStore) GetFeatured(_ context.Context, limit int) ([]model.Pet, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.pets) > limit {
		return s.pets[:limit], nil
	}
	return s.pets, nil
}

type fakeShelterCounter struct {
	count int64
	err   error
}

func (s *fakeShelterCounter) CountShelters(_ context.Context) (int64, error) {
	return s.count, s.err
}

type fakeNewsletterStore struct {
	subscribed []string
	err        error
}

func (s *fakeNewsletterStore) Subscribe(_ context.Context, email string) error {
	if s.err != nil {
		return s.err
	}
	s.subscribed = append(s.subscribed, email)
	return nil
}

func TestNavCounts(t *testing.T) {
	pets := &fakePetStore{available: 12}
	pages := NewPageService(pets, &fakeShelterCounter{count: 3}, &fakeNewsletterStore{})

	counts := pages.NavCounts(context.Background())
	if counts.AvailablePets != 12 || counts.Shelters != 3 {
		t.Errorf("Unexpected counts: %+v", counts)
	}
}

func TestNavCountsCached(t *testing.T) {
	pets := &fakePetStore{available: 12}
	pages := NewPageService(pets, &fakeShelterCounter{count: 3}, &fakeNewsletterStore{})

	pages.NavCounts(context.Background())
	pages.NavCounts(context.Background())

	if pets.countCalls != 1 {
		t.Errorf("Expected a single backing query within the cache window, got %d", pets.countCalls)
	}
}

func TestNavCountsBestEffort(t *testing.T) {
	pets := &fakePetStore{err: errors.New("db down")}
	pages := NewPageService(pets, &fakeShelterCounter{count: 3}, &fakeNewsletterStore{})

	counts := pages.NavCounts(context.Background())
	if counts.AvailablePets != 0 {
		t.Errorf("Failing count must render as zero, got %d", counts.AvailablePets)
	}
	if counts.Shelters != 3 {
		t.Errorf("Healthy count must still be served, got %d", counts.Shelters)
	}
}

func TestFeaturedPets(t *testing.T) {
	pets := &fakePetStore{pets: []model.Pet{
		{Name: "Rex", Species: "dog", Breed: "Labrador", AgeMonths: 18, Shelter: model.Shelter{ShelterName: "Happy Paws"}},
		{Name: "Mia", Species: "cat", AgeMonths: 6},
	}}
	pages := NewPageService(pets, &fakeShelterCounter{}, &fakeNewsletterStore{})

	views, err := pages.FeaturedPets(context.Background(), 6)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("Expected 2 views, got %d", len(views))
	}
	if views[0].Name != "Rex" || views[0].Shelter != "Happy Paws" {
		t.Errorf("Unexpected first view: %+v", views[0])
	}
	if views[1].Shelter != "" {
		t.Errorf("Expected empty shelter name, got %q", views[1].Shelter)
	}
}

func TestSubscribeNewsletter(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		storeErr error
		expected error
	}{
		{
			name:  "Valid email",
			email: "Jane@Example.com",
		},
		{
			name:     "Empty email",
			email:    "   ",
			expected: apperrors.ErrEmailRequired,
		},
		{
			name:     "Malformed email",
			email:    "nope",
			expected: apperrors.ErrEmailInvalid,
		},
		{
			name:     "Duplicate",
			email:    "jane@example.com",
			storeErr: gorm.ErrDuplicatedKey,
			expected: apperrors.ErrAlreadySubscribed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeNewsletterStore{err: tt.storeErr}
			pages := NewPageService(&fakePetStore{}, &fakeShelterCounter{}, store)

			err := pages.SubscribeNewsletter(context.Background(), tt.email)
			if tt.expected != nil {
				if !errors.Is(err, tt.expected) {
					t.Errorf("Expected %v, got %v", tt.expected, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(store.subscribed) != 1 || store.subscribed[0] != "jane@example.com" {
				t.Errorf("Expected lowercased stored email, got %v", store.subscribed)
			}
		})
	}
}
