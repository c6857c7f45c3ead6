package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/studio-console-api/internal/models"
)

// PackageBucket names one of the three expiration outcomes.
type PackageBucket string

const (
	BucketExpiredWithCredits PackageBucket = "expired_with_credits"
	BucketExpiringSoon       PackageBucket = "expiring_soon"
	BucketRecentlyExpired    PackageBucket = "recently_expired"
)

// Actions attached to classified packages.
const (
	ActionResetCredits = "reset_credits"
	ActionNotify       = "notify"
	ActionNone         = "none"
)

// expiringSoonDays is the inclusive upper bound of the expiring-soon window.
const expiringSoonDays = 7

// unlimitedMembership packages carry no credits and never expire into a reset.
const unlimitedMembership = "unlimited"

var inactiveMemberStatuses = map[string]struct{}{
	"deleted":             {},
	"frozen":              {},
	"cancelled":           {},
	"permanently_deleted": {},
	"inactive":            {},
	"rejected":            {},
}

// PackageEntry is one classified membership.
type PackageEntry struct {
	UserID           string        `json:"user_id"`
	Name             string        `json:"name"`
	Email            string        `json:"email,omitempty"`
	MembershipType   string        `json:"membership_type,omitempty"`
	RemainingClasses int           `json:"remaining_classes"`
	ExpiryDate       time.Time     `json:"expiry_date"`
	DaysDifference   int           `json:"days_difference"`
	DaysExpired      int           `json:"days_expired,omitempty"`
	DaysLeft         int           `json:"days_left"`
	Bucket           PackageBucket `json:"bucket"`
	Action           string        `json:"action"`
	Message          string        `json:"message"`
}

// PackageReport holds the three mutually exclusive buckets.
type PackageReport struct {
	ExpiredWithCredits []PackageEntry `json:"expired_with_credits"`
	ExpiringSoon       []PackageEntry `json:"expiring_soon"`
	RecentlyExpired    []PackageEntry `json:"recently_expired"`
}

// Total is the number of classified memberships.
func (r PackageReport) Total() int {
	return len(r.ExpiredWithCredits) + len(r.ExpiringSoon) + len(r.RecentlyExpired)
}

// PackageEligible reports whether a user's package is subject to expiration tracking.
func PackageEligible(u models.UserRecord) bool {
	if !u.IsMember() {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(u.MembershipType), unlimitedMembership) {
		return false
	}
	if _, inactive := inactiveMemberStatuses[u.Status]; inactive {
		return false
	}
	if u.IsActive != nil && !*u.IsActive {
		return false
	}
	return true
}

// DaysUntil is the ceiling of the day difference between now and expiry; negative once expired.
func DaysUntil(expiry, now time.Time) int {
	diff := expiry.Sub(now)
	return int(math.Ceil(float64(diff) / float64(24*time.Hour)))
}

// ClassifyPackage places a membership in at most one bucket.
func ClassifyPackage(u models.UserRecord, now time.Time) (PackageEntry, bool) {
	if !PackageEligible(u) || u.PackageExpiry == nil {
		return PackageEntry{}, false
	}
	days := DaysUntil(*u.PackageExpiry, now)
	entry := PackageEntry{
		UserID:           u.ID,
		Name:             u.FullName(),
		Email:            u.Email,
		MembershipType:   u.MembershipType,
		RemainingClasses: u.RemainingClasses,
		ExpiryDate:       *u.PackageExpiry,
		DaysDifference:   days,
	}

	switch {
	case days < 0 && u.RemainingClasses > 0:
		entry.Bucket = BucketExpiredWithCredits
		entry.DaysExpired = -days
		entry.Action = ActionResetCredits
		entry.Message = fmt.Sprintf("Package expired %s ago with %d unused classes", pluralDays(-days), u.RemainingClasses)
	case days >= 0 && days <= expiringSoonDays && u.RemainingClasses > 0:
		entry.Bucket = BucketExpiringSoon
		entry.DaysLeft = days
		entry.Action = ActionNotify
		if days == 0 {
			entry.Message = "Package expires today"
		} else {
			entry.Message = fmt.Sprintf("Package expires in %s", pluralDays(days))
		}
	case days < 0 && u.RemainingClasses == 0:
		entry.Bucket = BucketRecentlyExpired
		entry.DaysExpired = -days
		entry.Action = ActionNone
		entry.Message = fmt.Sprintf("Package expired %s ago, credits already cleared", pluralDays(-days))
	default:
		return PackageEntry{}, false
	}
	return entry, true
}

// ClassifyPackages runs ClassifyPackage over every user. Buckets are ordered by expiry date.
func ClassifyPackages(users []models.UserRecord, now time.Time) PackageReport {
	report := PackageReport{
		ExpiredWithCredits: []PackageEntry{},
		ExpiringSoon:       []PackageEntry{},
		RecentlyExpired:    []PackageEntry{},
	}
	for _, u := range users {
		entry, ok := ClassifyPackage(u, now)
		if !ok {
			continue
		}
		switch entry.Bucket {
		case BucketExpiredWithCredits:
			report.ExpiredWithCredits = append(report.ExpiredWithCredits, entry)
		case BucketExpiringSoon:
			report.ExpiringSoon = append(report.ExpiringSoon, entry)
		case BucketRecentlyExpired:
			report.RecentlyExpired = append(report.RecentlyExpired, entry)
		}
	}
	for _, bucket := range [][]PackageEntry{report.ExpiredWithCredits, report.ExpiringSoon, report.RecentlyExpired} {
		sortByExpiry(bucket)
	}
	return report
}

func sortByExpiry(entries []PackageEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].ExpiryDate.Equal(entries[j].ExpiryDate) {
			return entries[i].ExpiryDate.Before(entries[j].ExpiryDate)
		}
		return entries[i].UserID < entries[j].UserID
	})
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
