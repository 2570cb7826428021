package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/prepdeck/prepdeck-backend/internal/apierr"
	"github.com/prepdeck/prepdeck-backend/internal/logger"
	"github.com/prepdeck/prepdeck-backend/internal/repos"
	"github.com/prepdeck/prepdeck-backend/internal/types"
)

func newCompanyDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newTestDB(t)
	require.NoError(t, db.Exec(`
		CREATE TABLE company (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			website TEXT NOT NULL,
			industry TEXT,
			location TEXT,
			description TEXT,
			linkedin TEXT,
			careers_page TEXT,
			type TEXT NOT NULL DEFAULT 'Startup',
			salary_band TEXT NOT NULL DEFAULT 'Under 2 LPA',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`).Error)
	require.NoError(t, db.Exec(`
		CREATE TABLE employee (
			id TEXT PRIMARY KEY,
			company_id TEXT NOT NULL REFERENCES company(id) ON DELETE CASCADE,
			full_name TEXT NOT NULL,
			email TEXT,
			designation TEXT NOT NULL,
			linkedin TEXT,
			twitter TEXT,
			github TEXT,
			phone_number TEXT,
			success_level INTEGER NOT NULL DEFAULT 5,
			avatar_key TEXT,
			avatar_url TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`).Error)
	return db
}

func newCompanyService(t *testing.T, db *gorm.DB) CompanyService {
	t.Helper()
	log := logger.NewNop()
	return NewCompanyService(db, log, repos.NewCompanyRepo(db, log))
}

func sampleCompany() *types.Company {
	return &types.Company{
		Name:    "Acme Corp",
		Website: "https://acme.example.com",
		Type:    types.CompanyProduct,
	}
}

func TestCompanyCreateAndGet(t *testing.T) {
	db := newCompanyDB(t)
	svc := newCompanyService(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleCompany())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, types.CompanyProduct, created.Type)
	assert.Equal(t, types.SalaryUnder2, created.SalaryBand)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.Name)
}

func TestCompanyCreateValidation(t *testing.T) {
	db := newCompanyDB(t)
	svc := newCompanyService(t, db)
	ctx := context.Background()

	_, err := svc.Create(ctx, &types.Company{Website: "https://x.example.com"})
	assert.True(t, apierr.IsCode(err, apierr.CodeValidation))

	_, err = svc.Create(ctx, &types.Company{Name: "No Site"})
	assert.True(t, apierr.IsCode(err, apierr.CodeValidation))

	bad := sampleCompany()
	bad.Type = "Cooperative"
	_, err = svc.Create(ctx, bad)
	assert.True(t, apierr.IsCode(err, apierr.CodeValidation))

	bad = sampleCompany()
	bad.SalaryBand = "1 million"
	_, err = svc.Create(ctx, bad)
	assert.True(t, apierr.IsCode(err, apierr.CodeValidation))
}

func TestCompanyUpdatePartial(t *testing.T) {
	db := newCompanyDB(t)
	svc := newCompanyService(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleCompany())
	require.NoError(t, err)

	location := "Berlin"
	band := types.Salary5To10
	updated, err := svc.Update(ctx, created.ID, CompanyUpdate{
		Location:   &location,
		SalaryBand: &band,
	})
	require.NoError(t, err)
	assert.Equal(t, "Berlin", updated.Location)
	assert.Equal(t, types.Salary5To10, updated.SalaryBand)
	// Untouched fields keep their prior values.
	assert.Equal(t, "Acme Corp", updated.Name)
	assert.Equal(t, "https://acme.example.com", updated.Website)
	assert.Equal(t, types.CompanyProduct, updated.Type)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Berlin", got.Location)
}

func TestCompanyUpdateValidation(t *testing.T) {
	db := newCompanyDB(t)
	svc := newCompanyService(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleCompany())
	require.NoError(t, err)

	empty := "   "
	_, err = svc.Update(ctx, created.ID, CompanyUpdate{Name: &empty})
	assert.True(t, apierr.IsCode(err, apierr.CodeValidation))

	badType := types.CompanyType("Cooperative")
	_, err = svc.Update(ctx, created.ID, CompanyUpdate{Type: &badType})
	assert.True(t, apierr.IsCode(err, apierr.CodeValidation))

	name := "Still Acme"
	_, err = svc.Update(ctx, uuid.New(), CompanyUpdate{Name: &name})
	assert.True(t, apierr.IsCode(err, apierr.CodeNotFound))

	// A rejected update must not have been persisted.
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.Name)
	assert.Equal(t, types.CompanyProduct, got.Type)
}

func TestCompanyDelete(t *testing.T) {
	db := newCompanyDB(t)
	svc := newCompanyService(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleCompany())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	err = svc.Delete(ctx, created.ID)
	assert.True(t, apierr.IsCode(err, apierr.CodeNotFound))
}

func newEmployeeService(t *testing.T, db *gorm.DB, avatars AvatarService) EmployeeService {
	t.Helper()
	log := logger.NewNop()
	return NewEmployeeService(db, log, repos.NewEmployeeRepo(db, log), repos.NewCompanyRepo(db, log), avatars)
}

func TestEmployeeCreateRequiresCompany(t *testing.T) {
	db := newCompanyDB(t)
	svc := newEmployeeService(t, db, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, &types.Employee{
		CompanyID:   uuid.New(),
		FullName:    "Jordan Rivers",
		Designation: "Engineer",
	}, nil)
	require.Error(t, err)
	assert.True(t, apierr.IsCode(err, apierr.CodeNotFound))
}

func TestEmployeeCreateAndList(t *testing.T) {
	db := newCompanyDB(t)
	companySvc := newCompanyService(t, db)
	svc := newEmployeeService(t, db, nil)
	ctx := context.Background()

	company, err := companySvc.Create(ctx, sampleCompany())
	require.NoError(t, err)

	created, err := svc.Create(ctx, &types.Employee{
		CompanyID:   company.ID,
		FullName:    "  Jordan Rivers  ",
		Email:       "Jordan@Example.COM",
		Designation: "Engineer",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Jordan Rivers", created.FullName)
	assert.Equal(t, "jordan@example.com", created.Email)
	assert.Equal(t, 5, created.SuccessLevel)

	byCompany, err := svc.ListByCompany(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, byCompany, 1)
	assert.Equal(t, created.ID, byCompany[0].ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Company)
	assert.Equal(t, "Acme Corp", got.Company.Name)
}

func TestEmployeeCreateValidation(t *testing.T) {
	db := newCompanyDB(t)
	companySvc := newCompanyService(t, db)
	svc := newEmployeeService(t, db, nil)
	ctx := context.Background()

	company, err := companySvc.Create(ctx, sampleCompany())
	require.NoError(t, err)

	_, err = svc.Create(ctx, &types.Employee{CompanyID: company.ID, Designation: "Engineer"}, nil)
	assert.True(t, apierr.IsCode(err, apierr.CodeValidation))

	_, err = svc.Create(ctx, &types.Employee{CompanyID: company.ID, FullName: "J"}, nil)
	assert.True(t, apierr.IsCode(err, apierr.CodeValidation))

	_, err = svc.Create(ctx, &types.Employee{
		CompanyID: company.ID, FullName: "J", Designation: "E", SuccessLevel: 11,
	}, nil)
	assert.True(t, apierr.IsCode(err, apierr.CodeValidation))
}

func TestEmployeeUpdatePartial(t *testing.T) {
	db := newCompanyDB(t)
	companySvc := newCompanyService(t, db)
	svc := newEmployeeService(t, db, nil)
	ctx := context.Background()

	company, err := companySvc.Create(ctx, sampleCompany())
	require.NoError(t, err)

	created, err := svc.Create(ctx, &types.Employee{
		CompanyID:   company.ID,
		FullName:    "Jordan Rivers",
		Designation: "Engineer",
	}, nil)
	require.NoError(t, err)

	designation := "Staff Engineer"
	level := 8
	email := "Jordan.Rivers@Example.COM"
	updated, err := svc.Update(ctx, created.ID, EmployeeUpdate{
		Designation:  &designation,
		SuccessLevel: &level,
		Email:        &email,
	})
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", updated.Designation)
	assert.Equal(t, 8, updated.SuccessLevel)
	assert.Equal(t, "jordan.rivers@example.com", updated.Email)
	assert.Equal(t, "Jordan Rivers", updated.FullName)
	assert.Equal(t, company.ID, updated.CompanyID)
}

func TestEmployeeUpdateMoveToCompany(t *testing.T) {
	db := newCompanyDB(t)
	companySvc := newCompanyService(t, db)
	svc := newEmployeeService(t, db, nil)
	ctx := context.Background()

	first, err := companySvc.Create(ctx, sampleCompany())
	require.NoError(t, err)
	second, err := companySvc.Create(ctx, &types.Company{
		Name:    "Globex",
		Website: "https://globex.example.com",
	})
	require.NoError(t, err)

	created, err := svc.Create(ctx, &types.Employee{
		CompanyID:   first.ID,
		FullName:    "Jordan Rivers",
		Designation: "Engineer",
	}, nil)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, EmployeeUpdate{CompanyID: &second.ID})
	require.NoError(t, err)
	assert.Equal(t, second.ID, updated.CompanyID)

	// The move must land in company listings.
	moved, err := svc.ListByCompany(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, moved, 1)
	remaining, err := svc.ListByCompany(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// Moving to an unknown company is rejected.
	ghost := uuid.New()
	_, err = svc.Update(ctx, created.ID, EmployeeUpdate{CompanyID: &ghost})
	assert.True(t, apierr.IsCode(err, apierr.CodeNotFound))
}

func TestEmployeeUpdateValidation(t *testing.T) {
	db := newCompanyDB(t)
	companySvc := newCompanyService(t, db)
	svc := newEmployeeService(t, db, nil)
	ctx := context.Background()

	company, err := companySvc.Create(ctx, sampleCompany())
	require.NoError(t, err)
	created, err := svc.Create(ctx, &types.Employee{
		CompanyID:   company.ID,
		FullName:    "Jordan Rivers",
		Designation: "Engineer",
	}, nil)
	require.NoError(t, err)

	empty := " "
	_, err = svc.Update(ctx, created.ID, EmployeeUpdate{FullName: &empty})
	assert.True(t, apierr.IsCode(err, apierr.CodeValidation))

	level := 11
	_, err = svc.Update(ctx, created.ID, EmployeeUpdate{SuccessLevel: &level})
	assert.True(t, apierr.IsCode(err, apierr.CodeValidation))

	name := "New Name"
	_, err = svc.Update(ctx, uuid.New(), EmployeeUpdate{FullName: &name})
	assert.True(t, apierr.IsCode(err, apierr.CodeNotFound))
}

func TestEmployeeGeneratedAvatar(t *testing.T) {
	db := newCompanyDB(t)
	companySvc := newCompanyService(t, db)
	bucket := &fakeBucket{}
	svc := newEmployeeService(t, db, NewAvatarService(logger.NewNop(), bucket))
	ctx := context.Background()

	company, err := companySvc.Create(ctx, sampleCompany())
	require.NoError(t, err)

	created, err := svc.Create(ctx, &types.Employee{
		CompanyID:   company.ID,
		FullName:    "Jordan Rivers",
		Designation: "Engineer",
	}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, created.AvatarKey)
	assert.Contains(t, created.AvatarURL, "employee_avatar/"+created.ID.String())
	require.Len(t, bucket.uploaded, 1)
}
