package service

import (
	"context"
	"errors"
	"strings"

	"github.com/xxiimcha/lifeec-mobile/internal/apperror"
	"github.com/xxiimcha/lifeec-mobile/internal/model"
	"github.com/xxiimcha/lifeec-mobile/internal/repository"
)

// ResidentStore is the persistence for resident records
type ResidentStore interface {
	Create(ctx context.Context, resident *model.Resident) error
	FindByID(ctx context.Context, id string) (*model.Resident, error)
	List(ctx context.Context) ([]model.Resident, error)
	Save(ctx context.Context, resident *model.Resident) error
	Delete(ctx context.Context, id string) (bool, error)
}

// ResidentInput is an uploaded resident record
type ResidentInput struct {
	Name                  string
	Age                   int
	Gender                string
	Contact               string
	EmergencyContactName  string
	EmergencyContactPhone string
}

// ResidentService manages resident records
type ResidentService struct {
	residents ResidentStore
}

// NewResidentService creates a resident service
func NewResidentService(residents ResidentStore) *ResidentService {
	return &ResidentService{residents: residents}
}

// Upload validates and stores a resident record. Every field is required.
func (s *ResidentService) Upload(ctx context.Context, in ResidentInput) (*model.Resident, error) {
	fields := map[string]string{}
	required := map[string]string{
		"name":                  in.Name,
		"gender":                in.Gender,
		"contact":               in.Contact,
		"emergencyContactName":  in.EmergencyContactName,
		"emergencyContactPhone": in.EmergencyContactPhone,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			fields[field] = field + " is required"
		}
	}
	if in.Age <= 0 {
		fields["age"] = "age must be a positive number"
	}
	if len(fields) > 0 {
		return nil, apperror.Validation("All fields are required", fields)
	}

	resident := &model.Resident{
		Name:    strings.TrimSpace(in.Name),
		Age:     in.Age,
		Gender:  in.Gender,
		Contact: in.Contact,
		EmergencyContact: model.EmergencyContact{
			Name:  in.EmergencyContactName,
			Phone: in.EmergencyContactPhone,
		},
	}
	if err := s.residents.Create(ctx, resident); err != nil {
		return nil, apperror.Store("Error saving document", err)
	}
	return resident, nil
}

// List returns every resident
func (s *ResidentService) List(ctx context.Context) ([]model.Resident, error) {
	residents, err := s.residents.List(ctx)
	if err != nil {
		return nil, apperror.Store("Error fetching residents", err)
	}
	return residents, nil
}

// Get returns one resident
func (s *ResidentService) Get(ctx context.Context, id string) (*model.Resident, error) {
	resident, err := s.residents.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Resident not found")
	}
	if err != nil {
		return nil, apperror.Store("Error retrieving resident data", err)
	}
	return resident, nil
}

// Update overwrites the non-empty fields of an existing resident
func (s *ResidentService) Update(ctx context.Context, id string, in ResidentInput) (*model.Resident, error) {
	if in.Age < 0 {
		return nil, apperror.Validation("Validation failed", map[string]string{
			"age": "age must be a positive number",
		})
	}
	resident, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		resident.Name = name
	}
	if in.Age > 0 {
		resident.Age = in.Age
	}
	if in.Gender != "" {
		resident.Gender = in.Gender
	}
	if in.Contact != "" {
		resident.Contact = in.Contact
	}
	if in.EmergencyContactName != "" {
		resident.EmergencyContact.Name = in.EmergencyContactName
	}
	if in.EmergencyContactPhone != "" {
		resident.EmergencyContact.Phone = in.EmergencyContactPhone
	}

	if err := s.residents.Save(ctx, resident); err != nil {
		return nil, apperror.Store("Error updating resident", err)
	}
	return resident, nil
}

// Delete removes a resident
func (s *ResidentService) Delete(ctx context.Context, id string) error {
	deleted, err := s.residents.Delete(ctx, id)
	if err != nil {
		return apperror.Store("Error deleting resident", err)
	}
	if !deleted {
		return apperror.NotFound("Resident not found")
	}
	return nil
}
