package incident

import "time"

const (
	InitialAfterClassification = 4 * time.Hour
	InitialAfterDetection      = 24 * time.Hour
	IntermediateAfterInitial   = 72 * time.Hour
)

type Deadline struct {
	Kind        NotificationKind `json:"kind"`
	Due         *time.Time       `json:"due"`
	SubmittedAt *time.Time       `json:"submitted_at"`
	Overdue     bool             `json:"overdue"`
}

// Deadlines returns the reporting schedule of a major incident as seen at
// now. Each due time depends on the previous report, so later deadlines
// stay nil until the earlier report is submitted. Minor or unclassified
// incidents have no deadlines.
func (i Incident) Deadlines(now time.Time) []Deadline {
	if !i.major || i.classifiedAt == nil {
		return nil
	}

	initialDue := i.classifiedAt.Add(InitialAfterClassification)
	if latest := i.detectedAt.Add(InitialAfterDetection); latest.Before(initialDue) {
		initialDue = latest
	}
	var intermediateDue, finalDue *time.Time
	if i.initialAt != nil {
		due := i.initialAt.Add(IntermediateAfterInitial)
		intermediateDue = &due
	}
	if i.intermediateAt != nil {
		due := i.intermediateAt.AddDate(0, 1, 0)
		finalDue = &due
	}

	return []Deadline{
		deadline(NotificationInitial, &initialDue, i.initialAt, now),
		deadline(NotificationIntermediate, intermediateDue, i.intermediateAt, now),
		deadline(NotificationFinal, finalDue, i.finalAt, now),
	}
}

func deadline(kind NotificationKind, due, submitted *time.Time, now time.Time) Deadline {
	return Deadline{
		Kind:        kind,
		Due:         due,
		SubmittedAt: submitted,
		Overdue:     due != nil && submitted == nil && now.After(*due),
	}
}

// IsOverdue reports whether any pending report of an open incident is late.
func (i Incident) IsOverdue(now time.Time) bool {
	if !i.IsOpen() {
		return false
	}
	for _, d := range i.Deadlines(now) {
		if d.Overdue {
			return true
		}
	}
	return false
}

// NextDeadline returns the earliest pending deadline, if any.
func (i Incident) NextDeadline(now time.Time) (Deadline, bool) {
	for _, d := range i.Deadlines(now) {
		if d.Due != nil && d.SubmittedAt == nil {
			return d, true
		}
	}
	return Deadline{}, false
}
