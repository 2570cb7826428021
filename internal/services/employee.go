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

// EmployeeUpdate is a partial update: nil fields keep their prior values.
// Moving an employee to another company revalidates the target.
type EmployeeUpdate struct {
	CompanyID    *uuid.UUID `json:"company_id,omitempty"`
	FullName     *string    `json:"fullName,omitempty"`
	Email        *string    `json:"email,omitempty"`
	Designation  *string    `json:"designation,omitempty"`
	LinkedIn     *string    `json:"linkedIn,omitempty"`
	Twitter      *string    `json:"twitter,omitempty"`
	GitHub       *string    `json:"github,omitempty"`
	PhoneNumber  *string    `json:"phoneNumber,omitempty"`
	SuccessLevel *int       `json:"successLevel,omitempty"`
}

type EmployeeService interface {
	// Create registers the employee; avatarImage may be nil, in which case an
	// initials avatar is generated.
	Create(ctx context.Context, employee *types.Employee, avatarImage []byte) (*types.Employee, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Employee, error)
	ListAll(ctx context.Context) ([]*types.Employee, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*types.Employee, error)
	Update(ctx context.Context, id uuid.UUID, update EmployeeUpdate) (*types.Employee, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type employeeService struct {
	db            *gorm.DB
	log           *logger.Logger
	employeeRepo  repos.EmployeeRepo
	companyRepo   repos.CompanyRepo
	avatarService AvatarService
}

func NewEmployeeService(db *gorm.DB, baseLog *logger.Logger, employeeRepo repos.EmployeeRepo, companyRepo repos.CompanyRepo, avatarService AvatarService) EmployeeService {
	return &employeeService{
		db:            db,
		log:           baseLog.With("service", "EmployeeService"),
		employeeRepo:  employeeRepo,
		companyRepo:   companyRepo,
		avatarService: avatarService,
	}
}

func (s *employeeService) Create(ctx context.Context, employee *types.Employee, avatarImage []byte) (*types.Employee, error) {
	employee.FullName = strings.TrimSpace(employee.FullName)
	if employee.FullName == "" {
		return nil, apierr.Validation("fullName is required")
	}
	if strings.TrimSpace(employee.Designation) == "" {
		return nil, apierr.Validation("designation is required")
	}
	if employee.CompanyID == uuid.Nil {
		return nil, apierr.Validation("company_id is required")
	}
	if employee.SuccessLevel == 0 {
		employee.SuccessLevel = 5
	}
	if employee.SuccessLevel < 1 || employee.SuccessLevel > 10 {
		return nil, apierr.Validation("successLevel must be between 1 and 10")
	}
	employee.Email = strings.ToLower(strings.TrimSpace(employee.Email))

	company, err := s.companyRepo.GetByID(ctx, nil, employee.CompanyID)
	if err != nil {
		return nil, apierr.Store(err)
	}
	if company == nil {
		return nil, apierr.NotFound("company")
	}

	employee.ID = uuid.New()
	now := time.Now().UTC()
	employee.CreatedAt = now
	employee.UpdatedAt = now

	if s.avatarService != nil {
		if len(avatarImage) > 0 {
			if err := s.avatarService.SetUploadedAvatar(ctx, employee, avatarImage); err != nil {
				return nil, apierr.Upload(err)
			}
		} else {
			if err := s.avatarService.SetGeneratedAvatar(ctx, employee); err != nil {
				// A missing generated avatar should not block registration.
				s.log.Warn("Failed to generate employee avatar", "error", err)
			}
		}
	}

	created, err := s.employeeRepo.Create(ctx, nil, employee)
	if err != nil {
		s.log.Error("Failed to create employee", "error", err)
		return nil, apierr.Store(err)
	}
	s.log.Info("Employee created", "employee_id", created.ID, "company_id", created.CompanyID)
	return created, nil
}

func (s *employeeService) Get(ctx context.Context, id uuid.UUID) (*types.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, apierr.Store(err)
	}
	if employee == nil {
		return nil, apierr.NotFound("employee")
	}
	return employee, nil
}

func (s *employeeService) ListAll(ctx context.Context) ([]*types.Employee, error) {
	results, err := s.employeeRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, apierr.Store(err)
	}
	return results, nil
}

func (s *employeeService) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*types.Employee, error) {
	results, err := s.employeeRepo.ListByCompanyID(ctx, nil, companyID)
	if err != nil {
		return nil, apierr.Store(err)
	}
	return results, nil
}

func (s *employeeService) Update(ctx context.Context, id uuid.UUID, update EmployeeUpdate) (*types.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, apierr.Store(err)
	}
	if employee == nil {
		return nil, apierr.NotFound("employee")
	}

	if update.CompanyID != nil && *update.CompanyID != employee.CompanyID {
		if *update.CompanyID == uuid.Nil {
			return nil, apierr.Validation("company_id is required")
		}
		company, err := s.companyRepo.GetByID(ctx, nil, *update.CompanyID)
		if err != nil {
			return nil, apierr.Store(err)
		}
		if company == nil {
			return nil, apierr.NotFound("company")
		}
		employee.CompanyID = *update.CompanyID
	}
	if update.FullName != nil {
		employee.FullName = strings.TrimSpace(*update.FullName)
	}
	if update.Email != nil {
		employee.Email = strings.ToLower(strings.TrimSpace(*update.Email))
	}
	if update.Designation != nil {
		employee.Designation = strings.TrimSpace(*update.Designation)
	}
	if update.LinkedIn != nil {
		employee.LinkedIn = *update.LinkedIn
	}
	if update.Twitter != nil {
		employee.Twitter = *update.Twitter
	}
	if update.GitHub != nil {
		employee.GitHub = *update.GitHub
	}
	if update.PhoneNumber != nil {
		employee.PhoneNumber = *update.PhoneNumber
	}
	if update.SuccessLevel != nil {
		employee.SuccessLevel = *update.SuccessLevel
	}

	if employee.FullName == "" {
		return nil, apierr.Validation("fullName is required")
	}
	if employee.Designation == "" {
		return nil, apierr.Validation("designation is required")
	}
	if employee.SuccessLevel < 1 || employee.SuccessLevel > 10 {
		return nil, apierr.Validation("successLevel must be between 1 and 10")
	}
	employee.UpdatedAt = time.Now().UTC()

	// The preloaded association must not ride along into Save.
	employee.Company = nil

	saved, err := s.employeeRepo.Update(ctx, nil, employee)
	if err != nil {
		s.log.Error("Failed to update employee", "employee_id", id, "error", err)
		return nil, apierr.Store(err)
	}
	return saved, nil
}

func (s *employeeService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.employeeRepo.DeleteByID(ctx, nil, id)
	if err != nil {
		return apierr.Store(err)
	}
	if !deleted {
		return apierr.NotFound("employee")
	}
	return nil
}
