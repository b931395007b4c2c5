package service

import (
	"context"
	"errors"
	"strings"

	"github.com/privacydesk/datamapd/internal/datamap/domain"
	"github.com/privacydesk/datamapd/internal/datamap/store"
	"github.com/privacydesk/datamapd/pkg/slogx"
)

var (
	ErrMissingFields = errors.New("title and department are required")

	// ErrMappingNotFound covers both a genuinely absent record and one owned
	// by a different user; the two cases must stay indistinguishable.
	ErrMappingNotFound = errors.New("data mapping not found")
)

// MappingInput carries the client-mutable fields of a data mapping.
type MappingInput struct {
	Title           string
	Description     string
	Department      string
	DataSubjectType string
}

func (in MappingInput) validate() error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Department) == "" {
		return ErrMissingFields
	}
	return nil
}

// MappingService is owner-scoped CRUD over data mappings. The owner ID comes
// from the verified token, never from the request body.
type MappingService struct {
	Store store.Store
}

// Create validates and stores a new mapping, returning its assigned ID.
func (s *MappingService) Create(ctx context.Context, ownerID int64, in MappingInput) (int64, error) {
	log := slogx.FromContext(ctx)

	if err := in.validate(); err != nil {
		return 0, err
	}

	id, err := s.Store.Mappings().CreateMapping(ctx, ownerID, domain.DataMapping{
		Title:           in.Title,
		Description:     in.Description,
		Department:      in.Department,
		DataSubjectType: in.DataSubjectType,
	})
	if err != nil {
		log.Error("failed to create data mapping", "owner_id", ownerID, "err", err)
		return 0, err
	}

	log.Info("data mapping created", "owner_id", ownerID, "mapping_id", id)
	return id, nil
}

// List returns the owner's mappings, newest first.
func (s *MappingService) List(ctx context.Context, ownerID int64) ([]domain.DataMapping, error) {
	return s.Store.Mappings().ListMappings(ctx, ownerID)
}

// Get returns a single owned mapping.
func (s *MappingService) Get(ctx context.Context, ownerID, id int64) (domain.DataMapping, error) {
	m, err := s.Store.Mappings().GetMappingByID(ctx, ownerID, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.DataMapping{}, ErrMappingNotFound
	}
	return m, err
}

// Update rewrites the mutable fields of an owned mapping.
func (s *MappingService) Update(ctx context.Context, ownerID, id int64, in MappingInput) error {
	if err := in.validate(); err != nil {
		return err
	}

	err := s.Store.Mappings().UpdateMapping(ctx, ownerID, id, domain.DataMapping{
		Title:           in.Title,
		Description:     in.Description,
		Department:      in.Department,
		DataSubjectType: in.DataSubjectType,
	})
	if errors.Is(err, store.ErrNotFound) {
		return ErrMappingNotFound
	}
	return err
}

// Delete removes an owned mapping.
func (s *MappingService) Delete(ctx context.Context, ownerID, id int64) error {
	err := s.Store.Mappings().DeleteMapping(ctx, ownerID, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrMappingNotFound
	}
	return err
}
