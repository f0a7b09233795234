package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink-backend/internal/domain/entity"
	"github.com/bloodlink/bloodlink-backend/internal/infrastructure/memory"
	"github.com/bloodlink/bloodlink-backend/pkg/apperr"
)

func seedAccount(t *testing.T, accounts *memory.AccountStore, email string, role entity.Role, status entity.AccountStatus) *entity.Account {
	t.Helper()
	a := &entity.Account{
		Email:  email,
		Name:   "Test " + email,
		Role:   role,
		Status: status,
	}
	require.NoError(t, accounts.Insert(context.Background(), a))
	return a
}

func newDonationFixture(t *testing.T) (*DonationService, *memory.AccountStore, *memory.DonationStore) {
	t.Helper()
	accounts := memory.NewAccountStore()
	donations := memory.NewDonationStore()
	svc := NewDonationService(donations, accounts, nil, "", nil, nil)
	return svc, accounts, donations
}

func validInput() CreateDonationInput {
	return CreateDonationInput{
		RecipientName: "Rahim Uddin",
		District:      "Dhaka",
		Upazila:       "Savar",
		HospitalName:  "Enam Medical",
		FullAddress:   "Savar, Dhaka",
		BloodGroup:    "O+",
		DonationDate:  "2026-09-10",
		DonationTime:  "10:00",
	}
}

func TestCreateForcesPendingStatus(t *testing.T) {
	svc, accounts, _ := newDonationFixture(t)
	seedAccount(t, accounts, "donor@example.com", entity.RoleDonor, entity.AccountActive)

	d, err := svc.Create(context.Background(), "donor@example.com", validInput())
	require.NoError(t, err)
	assert.Equal(t, entity.DonationPending, d.Status)
	assert.Equal(t, "donor@example.com", d.RequesterEmail)
	assert.NotEmpty(t, d.ID)
}

func TestCreateBlockedAccountLeavesStoreUntouched(t *testing.T) {
	svc, accounts, donations := newDonationFixture(t)
	seedAccount(t, accounts, "blocked@example.com", entity.RoleDonor, entity.AccountBlocked)

	_, err := svc.Create(context.Background(), "blocked@example.com", validInput())
	require.Error(t, err)
	assert.Equal(t, apperr.AccountBlocked, apperr.KindOf(err))
	assert.Equal(t, 0, donations.Len())
}

func TestCreateUnknownCallerIsUnauthenticated(t *testing.T) {
	svc, _, _ := newDonationFixture(t)
	_, err := svc.Create(context.Background(), "ghost@example.com", validInput())
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))
}

func TestUpdateNonOwnerForbidden(t *testing.T) {
	svc, accounts, _ := newDonationFixture(t)
	seedAccount(t, accounts, "owner@example.com", entity.RoleDonor, entity.AccountActive)
	seedAccount(t, accounts, "other@example.com", entity.RoleDonor, entity.AccountActive)

	d, err := svc.Create(context.Background(), "owner@example.com", validInput())
	require.NoError(t, err)

	name := "Hijacked"
	_, err = svc.Update(context.Background(), "other@example.com", d.ID, entity.DonationPatch{RecipientName: &name})
	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	stored, err := svc.Get(context.Background(), "owner@example.com", d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rahim Uddin", stored.RecipientName)
}

func TestUpdateAdminMayEditButCannotMoveStatusOrOwnership(t *testing.T) {
	svc, accounts, donations := newDonationFixture(t)
	seedAccount(t, accounts, "owner@example.com", entity.RoleDonor, entity.AccountActive)
	seedAccount(t, accounts, "admin@example.com", entity.RoleAdmin, entity.AccountActive)

	d, err := svc.Create(context.Background(), "owner@example.com", validInput())
	require.NoError(t, err)

	hospital := "Square Hospital"
	updated, err := svc.Update(context.Background(), "admin@example.com", d.ID, entity.DonationPatch{HospitalName: &hospital})
	require.NoError(t, err)
	assert.Equal(t, "Square Hospital", updated.HospitalName)
	assert.Equal(t, "owner@example.com", updated.RequesterEmail)
	assert.Equal(t, entity.DonationPending, updated.Status)

	stored, err := donations.GetByID(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", stored.RequesterEmail)
	assert.Equal(t, entity.DonationPending, stored.Status)
}

func TestTransitionByDonorForbidden(t *testing.T) {
	svc, accounts, _ := newDonationFixture(t)
	seedAccount(t, accounts, "owner@example.com", entity.RoleDonor, entity.AccountActive)

	d, err := svc.Create(context.Background(), "owner@example.com", validInput())
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), "owner@example.com", d.ID, entity.DonationInProgress)
	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
}

func TestTransitionToNonSuccessorLeavesStateUnchanged(t *testing.T) {
	svc, accounts, donations := newDonationFixture(t)
	seedAccount(t, accounts, "owner@example.com", entity.RoleDonor, entity.AccountActive)
	seedAccount(t, accounts, "vol@example.com", entity.RoleVolunteer, entity.AccountActive)

	d, err := svc.Create(context.Background(), "owner@example.com", validInput())
	require.NoError(t, err)

	// pending -> completed skips inprogress
	_, err = svc.Transition(context.Background(), "vol@example.com", d.ID, entity.DonationCompleted)
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidTransition, apperr.KindOf(err))

	stored, err := donations.GetByID(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DonationPending, stored.Status)
}

func TestTransitionMissingRequestIsNotFound(t *testing.T) {
	svc, accounts, _ := newDonationFixture(t)
	seedAccount(t, accounts, "vol@example.com", entity.RoleVolunteer, entity.AccountActive)

	_, err := svc.Transition(context.Background(), "vol@example.com", "nope", entity.DonationInProgress)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestConcurrentTransitionsExactlyOneWins(t *testing.T) {
	svc, accounts, donations := newDonationFixture(t)
	seedAccount(t, accounts, "owner@example.com", entity.RoleDonor, entity.AccountActive)
	seedAccount(t, accounts, "vol1@example.com", entity.RoleVolunteer, entity.AccountActive)
	seedAccount(t, accounts, "vol2@example.com", entity.RoleVolunteer, entity.AccountActive)

	d, err := svc.Create(context.Background(), "owner@example.com", validInput())
	require.NoError(t, err)

	results := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i, caller := range []string{"vol1@example.com", "vol2@example.com"} {
		go func(i int, caller string) {
			defer wg.Done()
			_, results[i] = svc.Transition(context.Background(), caller, d.ID, entity.DonationInProgress)
		}(i, caller)
	}
	wg.Wait()

	wins, conflicts := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case apperr.IsKind(err, apperr.Conflict):
			conflicts++
			assert.True(t, apperr.Retryable(err))
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)

	stored, err := donations.GetByID(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DonationInProgress, stored.Status)
}

func TestLifecycleScenario(t *testing.T) {
	svc, accounts, _ := newDonationFixture(t)
	seedAccount(t, accounts, "u1@example.com", entity.RoleDonor, entity.AccountActive)
	seedAccount(t, accounts, "u2@example.com", entity.RoleDonor, entity.AccountActive)
	seedAccount(t, accounts, "vol@example.com", entity.RoleVolunteer, entity.AccountActive)

	d, err := svc.Create(context.Background(), "u1@example.com", validInput())
	require.NoError(t, err)
	assert.Equal(t, entity.DonationPending, d.Status)

	moved, err := svc.Transition(context.Background(), "vol@example.com", d.ID, entity.DonationInProgress)
	require.NoError(t, err)
	assert.Equal(t, entity.DonationInProgress, moved.Status)

	name := "Someone Else"
	_, err = svc.Update(context.Background(), "u2@example.com", d.ID, entity.DonationPatch{RecipientName: &name})
	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	done, err := svc.Transition(context.Background(), "vol@example.com", d.ID, entity.DonationCompleted)
	require.NoError(t, err)
	assert.Equal(t, entity.DonationCompleted, done.Status)

	// terminal: nothing moves out of completed
	_, err = svc.Transition(context.Background(), "vol@example.com", d.ID, entity.DonationCanceled)
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidTransition, apperr.KindOf(err))
}

func TestDeleteOwnerAndAdminOnly(t *testing.T) {
	svc, accounts, donations := newDonationFixture(t)
	seedAccount(t, accounts, "owner@example.com", entity.RoleDonor, entity.AccountActive)
	seedAccount(t, accounts, "other@example.com", entity.RoleDonor, entity.AccountActive)
	seedAccount(t, accounts, "admin@example.com", entity.RoleAdmin, entity.AccountActive)

	d1, err := svc.Create(context.Background(), "owner@example.com", validInput())
	require.NoError(t, err)
	d2, err := svc.Create(context.Background(), "owner@example.com", validInput())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "other@example.com", d1.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	require.NoError(t, svc.Delete(context.Background(), "owner@example.com", d1.ID))
	require.NoError(t, svc.Delete(context.Background(), "admin@example.com", d2.ID))
	assert.Equal(t, 0, donations.Len())
}

func TestListMineOnlyReturnsCallers(t *testing.T) {
	svc, accounts, _ := newDonationFixture(t)
	seedAccount(t, accounts, "a@example.com", entity.RoleDonor, entity.AccountActive)
	seedAccount(t, accounts, "b@example.com", entity.RoleDonor, entity.AccountActive)

	_, err := svc.Create(context.Background(), "a@example.com", validInput())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "a@example.com", validInput())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "b@example.com", validInput())
	require.NoError(t, err)

	mine, total, err := svc.ListMine(context.Background(), "a@example.com", "", repoPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, d := range mine {
		assert.Equal(t, "a@example.com", d.RequesterEmail)
	}
}

func TestListAllRequiresStaff(t *testing.T) {
	svc, accounts, _ := newDonationFixture(t)
	seedAccount(t, accounts, "donor@example.com", entity.RoleDonor, entity.AccountActive)
	seedAccount(t, accounts, "vol@example.com", entity.RoleVolunteer, entity.AccountActive)

	_, _, err := svc.ListAll(context.Background(), "donor@example.com", donationFilter(), repoPage(1, 10))
	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	_, _, err = svc.ListAll(context.Background(), "vol@example.com", donationFilter(), repoPage(1, 10))
	assert.NoError(t, err)
}

func TestSummaryCountsByStatus(t *testing.T) {
	svc, accounts, _ := newDonationFixture(t)
	seedAccount(t, accounts, "owner@example.com", entity.RoleDonor, entity.AccountActive)
	seedAccount(t, accounts, "vol@example.com", entity.RoleVolunteer, entity.AccountActive)

	d1, err := svc.Create(context.Background(), "owner@example.com", validInput())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "owner@example.com", validInput())
	require.NoError(t, err)
	_, err = svc.Transition(context.Background(), "vol@example.com", d1.ID, entity.DonationInProgress)
	require.NoError(t, err)

	sum, err := svc.Summary(context.Background(), "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Totals[entity.DonationPending])
	assert.Equal(t, 1, sum.Totals[entity.DonationInProgress])
	assert.Len(t, sum.Recent, 2)
}
