package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prepdeck/prepdeck-backend/internal/logger"
	"github.com/prepdeck/prepdeck-backend/internal/types"
)

type EmployeeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, employee *types.Employee) (*types.Employee, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Employee, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Employee, error)
	ListByCompanyID(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.Employee, error)
	Update(ctx context.Context, tx *gorm.DB, employee *types.Employee) (*types.Employee, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)
}

type employeeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmployeeRepo(db *gorm.DB, baseLog *logger.Logger) EmployeeRepo {
	return &employeeRepo{db: db, log: baseLog.With("repo", "EmployeeRepo")}
}

func (r *employeeRepo) Create(ctx context.Context, tx *gorm.DB, employee *types.Employee) (*types.Employee, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(employee).Error; err != nil {
		return nil, err
	}
	return employee, nil
}

func (r *employeeRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Employee, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var employee types.Employee
	if err := transaction.WithContext(ctx).Preload("Company").First(&employee, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Employee, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Employee
	if err := transaction.WithContext(ctx).Order("full_name ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *employeeRepo) ListByCompanyID(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.Employee, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Employee
	if err := transaction.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("full_name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *employeeRepo) Update(ctx context.Context, tx *gorm.DB, employee *types.Employee) (*types.Employee, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Save(employee).Error; err != nil {
		return nil, err
	}
	return employee, nil
}

func (r *employeeRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.Employee{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
