package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/studio-console-api/internal/models"
)

// Snapshot is a fully materialised set of decoded records taken at one point in time.
type Snapshot struct {
	Lessons      []models.LessonRecord
	Transactions []models.TransactionRecord
	Users        []models.UserRecord
	Equipment    []models.EquipmentRecord
}

// OverviewStats is the landing-page summary of the console.
type OverviewStats struct {
	TotalMembers          int             `json:"total_members"`
	ActiveMembers         int             `json:"active_members"`
	NewMembersThisMonth   int             `json:"new_members_this_month"`
	ActiveTrainers        int             `json:"active_trainers"`
	TodayLessons          int             `json:"today_lessons"`
	WeekLessons           int             `json:"week_lessons"`
	TodayParticipants     int              `json:"today_participants"`
	EquipmentTotal        int              `json:"equipment_total"`
	EquipmentMaintenance  int              `json:"equipment_maintenance"`
	PackagesNeedingAction int              `json:"packages_needing_action"`
	Finance               *OverviewFinance `json:"finance,omitempty"`
}

// OverviewFinance holds the month's money figures. Callers without finance access get the
// overview with this block removed.
type OverviewFinance struct {
	MonthlyIncome    decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses  decimal.Decimal `json:"monthly_expenses"`
	MonthlyNetProfit decimal.Decimal `json:"monthly_net_profit"`
	PendingPayments  decimal.Decimal `json:"pending_payments"`
}

// WithoutFinance returns a copy of the stats with the finance block removed.
func (s OverviewStats) WithoutFinance() OverviewStats {
	s.Finance = nil
	return s
}

// Overview computes the landing-page summary.
func Overview(s Snapshot, now time.Time) OverviewStats {
	w := NewWindow(now)
	var stats OverviewStats

	for _, u := range s.Users {
		if EligibleTrainer(u) {
			stats.ActiveTrainers++
		}
		if !u.IsCustomer() {
			continue
		}
		stats.TotalMembers++
		if memberActive(u) {
			stats.ActiveMembers++
		}
		if u.CreatedAt != nil && w.ThisMonth(*u.CreatedAt) {
			stats.NewMembersThisMonth++
		}
	}

	for _, lesson := range s.Lessons {
		if lesson.Excluded() {
			continue
		}
		if IsToday(lesson, w) {
			stats.TodayLessons++
			stats.TodayParticipants += lesson.ParticipantCount()
		}
		if lesson.IsRecurring() || (lesson.HasFixedDate() && w.ThisWeek(*lesson.ScheduledDate)) {
			stats.WeekLessons++
		}
	}

	finance := SummarizeFinance(s.Transactions, MonthFilter(now))
	stats.Finance = &OverviewFinance{
		MonthlyIncome:    finance.TotalIncome,
		MonthlyExpenses:  finance.TotalExpenses,
		MonthlyNetProfit: finance.NetProfit,
		PendingPayments:  finance.PendingPayments,
	}

	for _, item := range s.Equipment {
		stats.EquipmentTotal += item.Quantity
		if item.NeedsMaintenance() {
			stats.EquipmentMaintenance += item.Quantity
		}
	}

	packages := ClassifyPackages(s.Users, now)
	stats.PackagesNeedingAction = len(packages.ExpiredWithCredits) + len(packages.ExpiringSoon)
	return stats
}

func memberActive(u models.UserRecord) bool {
	if _, inactive := inactiveMemberStatuses[u.Status]; inactive {
		return false
	}
	return u.IsActive == nil || *u.IsActive
}
