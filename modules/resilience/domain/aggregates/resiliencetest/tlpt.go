package resiliencetest

import "time"

// TLPTIntervalYears is the maximum gap between two threat-led penetration tests.
const TLPTIntervalYears = 3

type TLPTStatus struct {
	LastTestID    string     `json:"last_test_id,omitempty"`
	LastExecuted  *time.Time `json:"last_executed,omitempty"`
	NextDue       time.Time  `json:"next_due"`
	DueNow        bool       `json:"due_now"`
	DaysRemaining int        `json:"days_remaining"`
}

// NextTLPTDue is three years after the most recent completed TLPT. Without
// one the test is due today.
func NextTLPTDue(tests []Test, now time.Time) TLPTStatus {
	today := truncateDay(now)
	var last *Test
	for i := range tests {
		t := tests[i]
		if !t.IsTLPT() || t.status != StatusCompleted || t.executedDate == nil {
			continue
		}
		if last == nil || t.executedDate.After(*last.executedDate) {
			last = &tests[i]
		}
	}
	if last == nil {
		return TLPTStatus{NextDue: today, DueNow: true}
	}
	executed := truncateDay(*last.executedDate)
	due := executed.AddDate(TLPTIntervalYears, 0, 0)
	days := int(due.Sub(today).Hours() / 24)
	return TLPTStatus{
		LastTestID:    last.id.String(),
		LastExecuted:  &executed,
		NextDue:       due,
		DueNow:        days <= 0,
		DaysRemaining: days,
	}
}
