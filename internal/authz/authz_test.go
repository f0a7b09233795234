package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink-backend/internal/domain/entity"
	"github.com/bloodlink/bloodlink-backend/pkg/apperr"
)

func account(email string, role entity.Role) *entity.Account {
	return &entity.Account{Email: email, Role: role, Status: entity.AccountActive}
}

func TestDecideNilCaller(t *testing.T) {
	for _, rule := range []Rule{AnyAuthenticated, VolunteerOrAdmin, AdminOnly, OwnerOrAdmin} {
		err := Decide(nil, rule, "someone@example.com")
		require.Error(t, err, rule.String())
		assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err), rule.String())
	}
}

func TestDecideMatrix(t *testing.T) {
	donor := account("donor@example.com", entity.RoleDonor)
	volunteer := account("vol@example.com", entity.RoleVolunteer)
	admin := account("admin@example.com", entity.RoleAdmin)

	cases := []struct {
		name   string
		caller *entity.Account
		rule   Rule
		owner  string
		allow  bool
	}{
		{"any admits donor", donor, AnyAuthenticated, "", true},
		{"any admits admin", admin, AnyAuthenticated, "", true},

		{"staff rejects donor", donor, VolunteerOrAdmin, "", false},
		{"staff admits volunteer", volunteer, VolunteerOrAdmin, "", true},
		{"staff admits admin", admin, VolunteerOrAdmin, "", true},

		{"admin-only rejects donor", donor, AdminOnly, "", false},
		{"admin-only rejects volunteer", volunteer, AdminOnly, "", false},
		{"admin-only admits admin", admin, AdminOnly, "", true},

		{"owner admits owner", donor, OwnerOrAdmin, "donor@example.com", true},
		{"owner rejects non-owner", donor, OwnerOrAdmin, "other@example.com", false},
		{"owner rejects volunteer non-owner", volunteer, OwnerOrAdmin, "other@example.com", false},
		{"owner admits admin on any resource", admin, OwnerOrAdmin, "other@example.com", true},
		{"owner rejects empty owner", donor, OwnerOrAdmin, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Decide(tc.caller, tc.rule, tc.owner)
			if tc.allow {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
		})
	}
}

func TestDenyIsNotRetryable(t *testing.T) {
	err := Decide(account("d@example.com", entity.RoleDonor), AdminOnly, "")
	require.Error(t, err)
	assert.False(t, apperr.Retryable(err))
}
