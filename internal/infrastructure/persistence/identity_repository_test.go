package persistence

import (
	"context"
	"testing"

	"github.com/edusaas/backend/internal/domain/identity"
	"github.com/edusaas/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistration(t *testing.T, name, email string) (*identity.Institution, *identity.AdminAccount, *identity.UserRole) {
	t.Helper()
	inst, err := identity.NewInstitution(name, email)
	require.NoError(t, err)
	account, err := identity.NewAdminAccount(inst.ID, email, "Jane Owner", "s3cretpass")
	require.NoError(t, err)
	return inst, account, identity.NewUserRole(account.ID, inst.ID, identity.RoleInstitutionAdmin)
}

func TestGormRegistrationRepository_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("writes institution, account and role", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormRegistrationRepository(db)
		inst, account, role := newRegistration(t, "Sunrise Academy", "owner@sunrise.test")

		require.NoError(t, repo.Register(ctx, inst, account, role))

		found, err := NewGormInstitutionRepository(db).FindByID(ctx, inst.ID)
		require.NoError(t, err)
		assert.Equal(t, "Sunrise Academy", found.Name)

		acc, err := NewGormAdminAccountRepository(db).FindByEmail(ctx, "OWNER@sunrise.test")
		require.NoError(t, err)
		assert.Equal(t, inst.ID, acc.InstitutionID)

		ok, err := NewGormUserRoleRepository(db).HasRole(ctx, account.ID, inst.ID, identity.RoleInstitutionAdmin)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("duplicate email rolls back the whole registration", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormRegistrationRepository(db)
		inst1, acc1, role1 := newRegistration(t, "First School", "dup@school.test")
		require.NoError(t, repo.Register(ctx, inst1, acc1, role1))

		inst2, acc2, role2 := newRegistration(t, "Second School", "dup@school.test")
		err := repo.Register(ctx, inst2, acc2, role2)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)

		_, err = NewGormInstitutionRepository(db).FindByID(ctx, inst2.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormInstitutionRepository_Subdomain(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormInstitutionRepository(db)

	inst, err := identity.NewInstitution("Sunrise Academy", "owner@sunrise.test")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, inst))

	other, err := identity.NewInstitution("Other Academy", "owner@other.test")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, other))

	exists, err := repo.ExistsBySubdomain(ctx, "sunrise")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, inst.SetSubdomain("sunrise"))
	require.NoError(t, repo.Save(ctx, inst))

	exists, err = repo.ExistsBySubdomain(ctx, "sunrise")
	require.NoError(t, err)
	assert.True(t, exists)

	found, err := repo.FindBySubdomain(ctx, "sunrise")
	require.NoError(t, err)
	assert.Equal(t, inst.ID, found.ID)

	require.NoError(t, other.SetSubdomain("sunrise"))
	assert.ErrorIs(t, repo.Save(ctx, other), shared.ErrAlreadyExists)
}

func TestGormInstitutionRepository_OptimisticLock(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormInstitutionRepository(db)

	inst, err := identity.NewInstitution("Sunrise Academy", "owner@sunrise.test")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, inst))

	first, err := repo.FindByID(ctx, inst.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, inst.ID)
	require.NoError(t, err)

	require.NoError(t, first.Rename("Sunrise Music School"))
	require.NoError(t, repo.Save(ctx, first))

	require.NoError(t, second.SetContactEmail("late@sunrise.test"))
	assert.ErrorIs(t, repo.Save(ctx, second), shared.ErrConcurrencyConflict)

	stored, err := repo.FindByID(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sunrise Music School", stored.Name)
	assert.Equal(t, "owner@sunrise.test", stored.ContactEmail)
	assert.Equal(t, 2, stored.GetVersion())
}

func TestGormUserRoleRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormUserRoleRepository(db)

	userID, instID := uuid.New(), uuid.New()
	require.NoError(t, repo.Save(ctx, identity.NewUserRole(userID, instID, identity.RoleInstitutionAdmin)))

	roles, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, instID, roles[0].InstitutionID)

	ok, err := repo.HasRole(ctx, userID, uuid.New(), identity.RoleInstitutionAdmin)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGormAdminAccountRepository_NotFound(t *testing.T) {
	repo := NewGormAdminAccountRepository(setupTestDB(t))

	_, err := repo.FindByEmail(context.Background(), "nobody@nowhere.test")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	exists, err := repo.ExistsByEmail(context.Background(), "nobody@nowhere.test")
	require.NoError(t, err)
	assert.False(t, exists)
}
