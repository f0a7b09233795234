package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to DonationStatus
		ok       bool
	}{
		{DonationPending, DonationInProgress, true},
		{DonationPending, DonationCanceled, true},
		{DonationPending, DonationCompleted, false},
		{DonationPending, DonationPending, false},

		{DonationInProgress, DonationCompleted, true},
		{DonationInProgress, DonationCanceled, true},
		{DonationInProgress, DonationPending, false},

		{DonationCompleted, DonationPending, false},
		{DonationCompleted, DonationInProgress, false},
		{DonationCompleted, DonationCanceled, false},

		{DonationCanceled, DonationPending, false},
		{DonationCanceled, DonationInProgress, false},
		{DonationCanceled, DonationCompleted, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, DonationPending.Terminal())
	assert.False(t, DonationInProgress.Terminal())
	assert.True(t, DonationCompleted.Terminal())
	assert.True(t, DonationCanceled.Terminal())
}

func TestDonationPatchLeavesIdentityAndStatusAlone(t *testing.T) {
	d := &DonationRequest{
		ID:             "d1",
		RequesterEmail: "owner@example.com",
		RecipientName:  "Old Name",
		Status:         DonationPending,
	}
	name := "New Name"
	hospital := "City Hospital"
	DonationPatch{RecipientName: &name, HospitalName: &hospital}.Apply(d)

	assert.Equal(t, "d1", d.ID)
	assert.Equal(t, "owner@example.com", d.RequesterEmail)
	assert.Equal(t, DonationPending, d.Status)
	assert.Equal(t, "New Name", d.RecipientName)
	assert.Equal(t, "City Hospital", d.HospitalName)
}

func TestProfilePatchAllowList(t *testing.T) {
	a := &Account{
		Email:  "a@example.com",
		Name:   "Before",
		Role:   RoleDonor,
		Status: AccountActive,
	}
	name := "After"
	bg := "O+"
	ProfilePatch{Name: &name, BloodGroup: &bg}.Apply(a)

	assert.Equal(t, "a@example.com", a.Email)
	assert.Equal(t, RoleDonor, a.Role)
	assert.Equal(t, AccountActive, a.Status)
	assert.Equal(t, "After", a.Name)
	assert.Equal(t, "O+", a.BloodGroup)
}
