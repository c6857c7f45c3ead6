package models

import "time"

// Role is the normalised role label of a user document.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
	RoleTrainer    Role = "trainer"
	RoleUnlabeled  Role = ""
	// RoleUnknown is a populated role label outside the known set.
	RoleUnknown    Role = "unknown"
)

// IsStaff reports whether the role can run lessons.
func (r Role) IsStaff() bool {
	return r == RoleInstructor || r == RoleAdmin || r == RoleTrainer
}

// UserRecord is a member or staff document from the users collection.
type UserRecord struct {
	ID               string     `json:"id"`
	Role             Role       `json:"role"`
	Status           string     `json:"status,omitempty"`
	MembershipType   string     `json:"membership_type,omitempty"`
	RemainingClasses int        `json:"remaining_classes"`
	PackageExpiry    *time.Time `json:"package_expiry,omitempty"`
	IsActive         *bool      `json:"is_active,omitempty"`
	Email            string     `json:"email,omitempty"`
	DisplayName      string     `json:"display_name,omitempty"`
	Name             string     `json:"name,omitempty"`
	FirstName        string     `json:"first_name,omitempty"`
	FCMToken         string     `json:"-"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
	Raw              Document   `json:"-"`
}

// IsMember reports whether the user's package is tracked: role unset or customer.
func (u UserRecord) IsMember() bool {
	return u.Role == RoleCustomer || u.Role == RoleUnlabeled
}

// IsCustomer reports whether the user counts toward member statistics.
func (u UserRecord) IsCustomer() bool {
	return u.Role == RoleCustomer
}

// FullName returns the best available human-readable name.
func (u UserRecord) FullName() string {
	switch {
	case u.DisplayName != "":
		return u.DisplayName
	case u.Name != "":
		return u.Name
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}
