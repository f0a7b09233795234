// Package authz is the authorization engine: a pure decision component over
// already-fetched state. The caller (the application service) is responsible
// for loading the account and, for ownership rules, the target resource; the
// engine itself never touches storage, so a deny can never leave a partial
// mutation behind.
package authz

import (
	"github.com/bloodlink/bloodlink-backend/internal/domain/entity"
	"github.com/bloodlink/bloodlink-backend/pkg/apperr"
)

// Rule is the closed set of access rules an operation can be classified
// under. Keeping the set small and tagged per action replaces the scattered
// per-route guards this grew out of.
type Rule int

const (
	// AnyAuthenticated admits every resolved account.
	AnyAuthenticated Rule = iota
	// VolunteerOrAdmin admits staff; used for status transitions and
	// management listings.
	VolunteerOrAdmin
	// AdminOnly admits admins; used for role/status changes on accounts.
	AdminOnly
	// OwnerOrAdmin admits the resource's creator or any admin; used for
	// content edits and deletion of a specific donation request.
	OwnerOrAdmin
)

func (r Rule) String() string {
	switch r {
	case AnyAuthenticated:
		return "any-authenticated"
	case VolunteerOrAdmin:
		return "volunteer-or-admin"
	case AdminOnly:
		return "admin-only"
	case OwnerOrAdmin:
		return "owner-or-admin"
	default:
		return "unknown"
	}
}

// Decide returns nil when caller may perform an operation classified under
// rule, or a kinded error describing the denial. resourceOwner is the owning
// identity of the target resource and is only consulted for OwnerOrAdmin.
//
// A nil caller means the identity could not be resolved to an account and is
// always Unauthenticated, regardless of rule.
func Decide(caller *entity.Account, rule Rule, resourceOwner string) error {
	if caller == nil {
		return apperr.New(apperr.Unauthenticated, "no account for caller identity")
	}

	switch rule {
	case AnyAuthenticated:
		return nil
	case VolunteerOrAdmin:
		if caller.IsStaff() {
			return nil
		}
		return apperr.New(apperr.Forbidden, "requires volunteer or admin role")
	case AdminOnly:
		if caller.IsAdmin() {
			return nil
		}
		return apperr.New(apperr.Forbidden, "requires admin role")
	case OwnerOrAdmin:
		if caller.IsAdmin() || (resourceOwner != "" && resourceOwner == caller.Email) {
			return nil
		}
		return apperr.New(apperr.Forbidden, "not the owner of this resource")
	default:
		return apperr.New(apperr.Forbidden, "unknown rule")
	}
}
