package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/waitlist-app/database"
	"github.com/yeremiapane/waitlist-app/models"
	"github.com/yeremiapane/waitlist-app/utils"
)

type VenueService struct {
	store *database.Store
}

func NewVenueService(store *database.Store) *VenueService {
	return &VenueService{store: store}
}

// CreateVenue -> names are unique, a second venue with the same name is a conflict
func (s *VenueService) CreateVenue(ctx context.Context, name string) (*models.Venue, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("venue name is required: %w", ErrInvalid)
	}

	venue := &models.Venue{Name: name}
	if err := s.store.Insert(ctx, venue); err != nil {
		return nil, classify("create venue", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"venue_id": venue.ID,
		"name":     venue.Name,
	}).Info("venue created")
	return venue, nil
}

func (s *VenueService) GetVenue(ctx context.Context, id uint) (*models.Venue, error) {
	venue, err := s.store.GetVenue(ctx, id)
	if err != nil {
		return nil, classify("get venue", lookupErr(err, "venue %d", id))
	}
	return venue, nil
}

func (s *VenueService) ListVenues(ctx context.Context, page database.Page) ([]models.Venue, error) {
	venues, err := s.store.FindVenues(ctx, page)
	if err != nil {
		return nil, classify("list venues", err)
	}
	return venues, nil
}
