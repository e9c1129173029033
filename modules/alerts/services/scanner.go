package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/dora-register/modules/alerts/domain/aggregates/alert"
	"github.com/iota-uz/dora-register/modules/contracts/domain/aggregates/contract"
	"github.com/iota-uz/dora-register/modules/incidents/domain/aggregates/incident"
	"github.com/iota-uz/dora-register/modules/maturity/domain/aggregates/snapshot"
	"github.com/iota-uz/dora-register/modules/resilience/domain/aggregates/finding"
	"github.com/iota-uz/dora-register/modules/resilience/domain/aggregates/resiliencetest"
)

const (
	dateLayout = "2006-01-02"

	// incidentLeadTime raises a warning before a reporting deadline passes.
	incidentLeadTime = 24 * time.Hour
	// tlptLeadDays raises a notice this long before the next TLPT is due.
	tlptLeadDays = 90
	// contractCriticalDays escalates an expiring contract to critical.
	contractCriticalDays = 30
)

type ContractSource interface {
	ListExpiring(ctx context.Context, within int) ([]contract.Contract, error)
}

type IncidentSource interface {
	List(ctx context.Context, params *incident.FindParams) ([]incident.Incident, int64, error)
}

type FindingSource interface {
	ListOverdue(ctx context.Context, now time.Time) ([]finding.Finding, error)
}

type TLPTSource interface {
	TLPTStatus(ctx context.Context) (resiliencetest.TLPTStatus, error)
}

// Scanner turns the compliance state of one tenant into alert notices.
// Every notice carries a dedupe key derived from the fact it reports, so
// a scan can run any number of times.
type Scanner struct {
	contracts  ContractSource
	incidents  IncidentSource
	findings   FindingSource
	tlpt       TLPTSource
	expiryDays int
	now        func() time.Time
}

func NewScanner(contracts ContractSource, incidents IncidentSource, findings FindingSource, tlpt TLPTSource, expiryDays int) *Scanner {
	return &Scanner{
		contracts:  contracts,
		incidents:  incidents,
		findings:   findings,
		tlpt:       tlpt,
		expiryDays: expiryDays,
		now:        time.Now,
	}
}

func (s *Scanner) Scan(ctx context.Context) ([]alert.Notice, error) {
	now := s.now().UTC()
	var out []alert.Notice
	steps := []func(context.Context, time.Time) ([]alert.Notice, error){
		s.scanContracts,
		s.scanIncidents,
		s.scanFindings,
		s.scanTLPT,
	}
	for _, step := range steps {
		notices, err := step(ctx, now)
		if err != nil {
			return nil, err
		}
		out = append(out, notices...)
	}
	return out, nil
}

func (s *Scanner) scanContracts(ctx context.Context, now time.Time) ([]alert.Notice, error) {
	items, err := s.contracts.ListExpiring(ctx, s.expiryDays)
	if err != nil {
		return nil, fmt.Errorf("scan contracts: %w", err)
	}
	out := make([]alert.Notice, 0, len(items))
	for _, c := range items {
		days, ok := c.DaysUntilEnd(now)
		if !ok || c.EndDate() == nil {
			continue
		}
		severity := alert.SeverityWarning
		if c.SupportsCriticalFunction() || days <= contractCriticalDays {
			severity = alert.SeverityCritical
		}
		end := c.EndDate().Format(dateLayout)
		out = append(out, alert.Notice{
			Kind:        alert.KindContractExpiring,
			Severity:    severity,
			SubjectType: "contract",
			SubjectID:   c.ID().String(),
			Message:     fmt.Sprintf("Contract %s ends on %s (%d days left)", c.Reference(), end, days),
			DedupeKey:   fmt.Sprintf("%s:%s:%s", alert.KindContractExpiring, c.ID(), end),
		})
	}
	return out, nil
}

func (s *Scanner) scanIncidents(ctx context.Context, now time.Time) ([]alert.Notice, error) {
	major := true
	items, _, err := s.incidents.List(ctx, &incident.FindParams{Major: &major, Open: true})
	if err != nil {
		return nil, fmt.Errorf("scan incidents: %w", err)
	}
	var out []alert.Notice
	for _, i := range items {
		d, ok := i.NextDeadline(now)
		if !ok {
			continue
		}
		var (
			severity alert.Severity
			state    string
			message  string
		)
		switch {
		case d.Overdue:
			severity, state = alert.SeverityCritical, "overdue"
			message = fmt.Sprintf("Incident %s: the %s report was due %s", i.Reference(), d.Kind, d.Due.UTC().Format(time.RFC3339))
		case d.Due.Sub(now) <= incidentLeadTime:
			severity, state = alert.SeverityWarning, "due"
			message = fmt.Sprintf("Incident %s: the %s report is due %s", i.Reference(), d.Kind, d.Due.UTC().Format(time.RFC3339))
		default:
			continue
		}
		out = append(out, alert.Notice{
			Kind:        alert.KindIncidentDeadline,
			Severity:    severity,
			SubjectType: "incident",
			SubjectID:   i.ID().String(),
			Message:     message,
			DedupeKey:   fmt.Sprintf("%s:%s:%s:%s", alert.KindIncidentDeadline, i.ID(), d.Kind, state),
		})
	}
	return out, nil
}

func (s *Scanner) scanFindings(ctx context.Context, now time.Time) ([]alert.Notice, error) {
	items, err := s.findings.ListOverdue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("scan findings: %w", err)
	}
	out := make([]alert.Notice, 0, len(items))
	for _, f := range items {
		severity := alert.SeverityWarning
		if f.Severity() == finding.SeverityCritical || f.Severity() == finding.SeverityHigh {
			severity = alert.SeverityCritical
		}
		due := "unset"
		if f.DueDate() != nil {
			due = f.DueDate().Format(dateLayout)
		}
		out = append(out, alert.Notice{
			Kind:        alert.KindFindingOverdue,
			Severity:    severity,
			SubjectType: "finding",
			SubjectID:   f.ID().String(),
			Message:     fmt.Sprintf("Finding %q (%s) is past its remediation date %s", f.Title(), f.Severity(), due),
			DedupeKey:   fmt.Sprintf("%s:%s:%s", alert.KindFindingOverdue, f.ID(), due),
		})
	}
	return out, nil
}

func (s *Scanner) scanTLPT(ctx context.Context, now time.Time) ([]alert.Notice, error) {
	status, err := s.tlpt.TLPTStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan tlpt: %w", err)
	}
	if !status.DueNow && status.DaysRemaining > tlptLeadDays {
		return nil, nil
	}
	due := status.NextDue.Format(dateLayout)
	n := alert.Notice{
		Kind:        alert.KindTLPTDue,
		Severity:    alert.SeverityWarning,
		SubjectType: "organization",
		Message:     fmt.Sprintf("Threat-led penetration test due on %s (%d days left)", due, status.DaysRemaining),
		DedupeKey:   fmt.Sprintf("%s:%s", alert.KindTLPTDue, due),
	}
	if status.DueNow {
		n.Severity = alert.SeverityCritical
		n.Message = fmt.Sprintf("Threat-led penetration test is due since %s", due)
		if status.LastExecuted == nil {
			n.Message = "No threat-led penetration test has been completed"
			n.DedupeKey = fmt.Sprintf("%s:never", alert.KindTLPTDue)
		}
	}
	return []alert.Notice{n}, nil
}

// SnapshotNotice reports a freshly persisted maturity snapshot.
func SnapshotNotice(snap snapshot.Snapshot) alert.Notice {
	return alert.Notice{
		Kind:        alert.KindSnapshotTaken,
		Severity:    alert.SeverityInfo,
		SubjectType: "maturity_snapshot",
		SubjectID:   snap.ID().String(),
		Message:     fmt.Sprintf("Maturity snapshot taken: %s%% overall (%s)", snap.Overall().StringFixed(1), snap.Level()),
		DedupeKey:   fmt.Sprintf("%s:%s", alert.KindSnapshotTaken, snapshotKey(snap)),
	}
}

func snapshotKey(snap snapshot.Snapshot) string {
	if snap.ID() != uuid.Nil {
		return snap.ID().String()
	}
	return snap.TakenAt().UTC().Format(time.RFC3339)
}
