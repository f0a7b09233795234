package entity

import "time"

// Role is the authorization role attached to an account. Every registered
// account starts as a donor; volunteers and admins are promoted by an admin.
type Role string

const (
	RoleDonor     Role = "donor"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleVolunteer, RoleAdmin:
		return true
	}
	return false
}

// AccountStatus gates write access: blocked accounts cannot post new
// donation requests.
type AccountStatus string

const (
	AccountActive  AccountStatus = "active"
	AccountBlocked AccountStatus = "blocked"
)

func (s AccountStatus) Valid() bool {
	return s == AccountActive || s == AccountBlocked
}

// Account is a registered participant. Email is the identity key and is
// immutable after registration; profile fields are mutable by the owner only,
// role and status by admins only.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Phone        string
	BloodGroup   string
	District     string
	Upazila      string
	PhotoURL     string
	Role         Role
	Status       AccountStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a *Account) IsAdmin() bool   { return a.Role == RoleAdmin }
func (a *Account) IsStaff() bool   { return a.Role == RoleVolunteer || a.Role == RoleAdmin }
func (a *Account) IsBlocked() bool { return a.Status == AccountBlocked }

// ProfilePatch holds the only account fields an owner may change. Everything
// else (email, role, status) goes through its own dedicated operation.
type ProfilePatch struct {
	Name       *string
	Phone      *string
	BloodGroup *string
	District   *string
	Upazila    *string
	PhotoURL   *string
}

// Apply copies the set fields onto the account.
func (p ProfilePatch) Apply(a *Account) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Phone != nil {
		a.Phone = *p.Phone
	}
	if p.BloodGroup != nil {
		a.BloodGroup = *p.BloodGroup
	}
	if p.District != nil {
		a.District = *p.District
	}
	if p.Upazila != nil {
		a.Upazila = *p.Upazila
	}
	if p.PhotoURL != nil {
		a.PhotoURL = *p.PhotoURL
	}
}
