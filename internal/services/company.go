package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prepdeck/prepdeck-backend/internal/apierr"
	"github.com/prepdeck/prepdeck-backend/internal/logger"
	"github.com/prepdeck/prepdeck-backend/internal/repos"
	"github.com/prepdeck/prepdeck-backend/internal/types"
)

// CompanyUpdate is a partial update: nil fields keep their prior values.
type CompanyUpdate struct {
	Name        *string            `json:"name,omitempty"`
	Website     *string            `json:"website,omitempty"`
	Industry    *string            `json:"industry,omitempty"`
	Location    *string            `json:"location,omitempty"`
	Description *string            `json:"description,omitempty"`
	LinkedIn    *string            `json:"linkedIn,omitempty"`
	CareersPage *string            `json:"careersPage,omitempty"`
	Type        *types.CompanyType `json:"type,omitempty"`
	SalaryBand  *types.SalaryBand  `json:"averageSalaryBand,omitempty"`
}

type CompanyService interface {
	Create(ctx context.Context, company *types.Company) (*types.Company, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Company, error)
	ListAll(ctx context.Context) ([]*types.Company, error)
	Update(ctx context.Context, id uuid.UUID, update CompanyUpdate) (*types.Company, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type companyService struct {
	db          *gorm.DB
	log         *logger.Logger
	companyRepo repos.CompanyRepo
}

func NewCompanyService(db *gorm.DB, baseLog *logger.Logger, companyRepo repos.CompanyRepo) CompanyService {
	return &companyService{
		db:          db,
		log:         baseLog.With("service", "CompanyService"),
		companyRepo: companyRepo,
	}
}

func (s *companyService) Create(ctx context.Context, company *types.Company) (*types.Company, error) {
	company.Name = strings.TrimSpace(company.Name)
	if company.Name == "" {
		return nil, apierr.Validation("name is required")
	}
	if strings.TrimSpace(company.Website) == "" {
		return nil, apierr.Validation("website is required")
	}
	if company.Type == "" {
		company.Type = types.CompanyStartup
	} else if !company.Type.Valid() {
		return nil, apierr.Validation("type %q is not a recognized company type", string(company.Type))
	}
	if company.SalaryBand == "" {
		company.SalaryBand = types.SalaryUnder2
	} else if !company.SalaryBand.Valid() {
		return nil, apierr.Validation("averageSalaryBand %q is not a recognized salary band", string(company.SalaryBand))
	}

	company.ID = uuid.New()
	now := time.Now().UTC()
	company.CreatedAt = now
	company.UpdatedAt = now

	created, err := s.companyRepo.Create(ctx, nil, company)
	if err != nil {
		s.log.Error("Failed to create company", "error", err)
		return nil, apierr.Store(err)
	}
	s.log.Info("Company created", "company_id", created.ID, "name", created.Name)
	return created, nil
}

func (s *companyService) Get(ctx context.Context, id uuid.UUID) (*types.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, apierr.Store(err)
	}
	if company == nil {
		return nil, apierr.NotFound("company")
	}
	return company, nil
}

func (s *companyService) ListAll(ctx context.Context) ([]*types.Company, error) {
	results, err := s.companyRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, apierr.Store(err)
	}
	return results, nil
}

func (s *companyService) Update(ctx context.Context, id uuid.UUID, update CompanyUpdate) (*types.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, apierr.Store(err)
	}
	if company == nil {
		return nil, apierr.NotFound("company")
	}

	if update.Name != nil {
		company.Name = strings.TrimSpace(*update.Name)
	}
	if update.Website != nil {
		company.Website = strings.TrimSpace(*update.Website)
	}
	if update.Industry != nil {
		company.Industry = *update.Industry
	}
	if update.Location != nil {
		company.Location = *update.Location
	}
	if update.Description != nil {
		company.Description = *update.Description
	}
	if update.LinkedIn != nil {
		company.LinkedIn = *update.LinkedIn
	}
	if update.CareersPage != nil {
		company.CareersPage = *update.CareersPage
	}
	if update.Type != nil {
		company.Type = *update.Type
	}
	if update.SalaryBand != nil {
		company.SalaryBand = *update.SalaryBand
	}

	if company.Name == "" {
		return nil, apierr.Validation("name is required")
	}
	if company.Website == "" {
		return nil, apierr.Validation("website is required")
	}
	if !company.Type.Valid() {
		return nil, apierr.Validation("type %q is not a recognized company type", string(company.Type))
	}
	if !company.SalaryBand.Valid() {
		return nil, apierr.Validation("averageSalaryBand %q is not a recognized salary band", string(company.SalaryBand))
	}
	company.UpdatedAt = time.Now().UTC()

	saved, err := s.companyRepo.Update(ctx, nil, company)
	if err != nil {
		s.log.Error("Failed to update company", "company_id", id, "error", err)
		return nil, apierr.Store(err)
	}
	return saved, nil
}

func (s *companyService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.companyRepo.DeleteByID(ctx, nil, id)
	if err != nil {
		return apierr.Store(err)
	}
	if !deleted {
		return apierr.NotFound("company")
	}
	return nil
}
