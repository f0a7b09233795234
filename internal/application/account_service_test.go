package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink-backend/internal/domain/entity"
	repo "github.com/bloodlink/bloodlink-backend/internal/domain/repository"
	"github.com/bloodlink/bloodlink-backend/internal/infrastructure/memory"
	"github.com/bloodlink/bloodlink-backend/pkg/apperr"
	"github.com/bloodlink/bloodlink-backend/pkg/helpers"
)

func newAccountFixture(t *testing.T) (*AccountService, *memory.AccountStore) {
	t.Helper()
	accounts := memory.NewAccountStore()
	jwt := helpers.NewJWTManager("test-access", "test-refresh", time.Hour, 24*time.Hour)
	svc := NewAccountService(accounts, jwt, nil, nil, "", nil, nil)
	return svc, accounts
}

func registerInput(email string) RegisterInput {
	return RegisterInput{
		Email:      email,
		Password:   "secret123",
		Name:       "Test User",
		BloodGroup: "A+",
		District:   "Dhaka",
		Upazila:    "Savar",
	}
}

func TestRegisterDefaultsToActiveDonor(t *testing.T) {
	svc, _ := newAccountFixture(t)

	a, err := svc.Register(context.Background(), registerInput("new@example.com"))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleDonor, a.Role)
	assert.Equal(t, entity.AccountActive, a.Status)
	assert.NotEqual(t, "secret123", a.PasswordHash)
	assert.True(t, helpers.CompareHashAndPassword(a.PasswordHash, "secret123"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, accounts := newAccountFixture(t)

	_, err := svc.Register(context.Background(), registerInput("dup@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerInput("dup@example.com"))
	require.Error(t, err)
	assert.Equal(t, apperr.AlreadyExists, apperr.KindOf(err))
	assert.Equal(t, 1, accounts.Len())
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc, _ := newAccountFixture(t)

	a, err := svc.Register(context.Background(), registerInput("  Mixed@Example.COM "))
	require.NoError(t, err)
	assert.Equal(t, "mixed@example.com", a.Email)
}

func TestRegisterRejectsUnknownBloodGroup(t *testing.T) {
	svc, _ := newAccountFixture(t)

	in := registerInput("x@example.com")
	in.BloodGroup = "Z+"
	_, err := svc.Register(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, apperr.Invalid, apperr.KindOf(err))
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAccountFixture(t)
	_, err := svc.Register(context.Background(), registerInput("u@example.com"))
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "u@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))
}

func TestLoginIssuesUsableTokenPair(t *testing.T) {
	svc, _ := newAccountFixture(t)
	_, err := svc.Register(context.Background(), registerInput("u@example.com"))
	require.NoError(t, err)

	a, pair, err := svc.Login(context.Background(), "u@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "u@example.com", a.Email)
	require.NotEmpty(t, pair.AccessToken)

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u@example.com", claims.Email)

	refreshed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestBlockedAccountMayStillLogIn(t *testing.T) {
	svc, accounts := newAccountFixture(t)
	a, err := svc.Register(context.Background(), registerInput("b@example.com"))
	require.NoError(t, err)

	a.Status = entity.AccountBlocked
	require.NoError(t, accounts.Update(context.Background(), a))

	_, _, err = svc.Login(context.Background(), "b@example.com", "secret123")
	assert.NoError(t, err)
}

func TestUpdateRoleRequiresAdmin(t *testing.T) {
	svc, accounts := newAccountFixture(t)
	target := seedAccount(t, accounts, "target@example.com", entity.RoleDonor, entity.AccountActive)
	seedAccount(t, accounts, "donor@example.com", entity.RoleDonor, entity.AccountActive)
	seedAccount(t, accounts, "vol@example.com", entity.RoleVolunteer, entity.AccountActive)
	seedAccount(t, accounts, "admin@example.com", entity.RoleAdmin, entity.AccountActive)

	_, err := svc.UpdateRole(context.Background(), "donor@example.com", target.ID, entity.RoleVolunteer)
	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	_, err = svc.UpdateRole(context.Background(), "vol@example.com", target.ID, entity.RoleVolunteer)
	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	updated, err := svc.UpdateRole(context.Background(), "admin@example.com", target.ID, entity.RoleVolunteer)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVolunteer, updated.Role)
}

func TestUpdateStatusRequiresAdmin(t *testing.T) {
	svc, accounts := newAccountFixture(t)
	target := seedAccount(t, accounts, "target@example.com", entity.RoleDonor, entity.AccountActive)
	seedAccount(t, accounts, "admin@example.com", entity.RoleAdmin, entity.AccountActive)

	updated, err := svc.UpdateStatus(context.Background(), "admin@example.com", target.ID, entity.AccountBlocked)
	require.NoError(t, err)
	assert.Equal(t, entity.AccountBlocked, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), "target@example.com", target.ID, entity.AccountActive)
	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
}

func TestUpdateProfileOwnerOnly(t *testing.T) {
	svc, accounts := newAccountFixture(t)
	target := seedAccount(t, accounts, "owner@example.com", entity.RoleDonor, entity.AccountActive)
	seedAccount(t, accounts, "other@example.com", entity.RoleDonor, entity.AccountActive)

	name := "Stolen"
	_, err := svc.UpdateProfile(context.Background(), "other@example.com", target.ID, entity.ProfilePatch{Name: &name})
	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	name = "Renamed"
	updated, err := svc.UpdateProfile(context.Background(), "owner@example.com", target.ID, entity.ProfilePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	// allow-list: identity untouched
	assert.Equal(t, "owner@example.com", updated.Email)
	assert.Equal(t, entity.RoleDonor, updated.Role)
}

func TestListRequiresAdmin(t *testing.T) {
	svc, accounts := newAccountFixture(t)
	seedAccount(t, accounts, "donor@example.com", entity.RoleDonor, entity.AccountActive)
	seedAccount(t, accounts, "admin@example.com", entity.RoleAdmin, entity.AccountActive)

	_, _, err := svc.List(context.Background(), "donor@example.com", repo.AccountFilter{}, repoPage(1, 10))
	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	all, total, err := svc.List(context.Background(), "admin@example.com", repo.AccountFilter{}, repoPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, all, 2)
}

func TestSearchDonorsFiltersInactiveAndStaff(t *testing.T) {
	svc, accounts := newAccountFixture(t)

	active := seedAccount(t, accounts, "active@example.com", entity.RoleDonor, entity.AccountActive)
	active.BloodGroup = "O+"
	require.NoError(t, accounts.Update(context.Background(), active))

	blocked := seedAccount(t, accounts, "blocked@example.com", entity.RoleDonor, entity.AccountBlocked)
	blocked.BloodGroup = "O+"
	require.NoError(t, accounts.Update(context.Background(), blocked))

	vol := seedAccount(t, accounts, "vol@example.com", entity.RoleVolunteer, entity.AccountActive)
	vol.BloodGroup = "O+"
	require.NoError(t, accounts.Update(context.Background(), vol))

	donors, err := svc.SearchDonors(context.Background(), repo.DonorFilter{BloodGroup: "O+"})
	require.NoError(t, err)
	require.Len(t, donors, 1)
	assert.Equal(t, "active@example.com", donors[0].Email)
}
