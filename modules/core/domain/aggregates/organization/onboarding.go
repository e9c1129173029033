package organization

import (
	"encoding/json"
	"slices"
)

type Step string

const (
	StepProfile     Step = "profile"
	StepEntities    Step = "entities"
	StepICTServices Step = "ict_services"
	StepTeam        Step = "team"
	StepReview      Step = "review"
	StepCompleted   Step = "completed"
)

// Steps lists the wizard steps a user submits, in order.
var Steps = []Step{StepProfile, StepEntities, StepICTServices, StepTeam, StepReview}

func ParseStep(v string) (Step, bool) {
	s := Step(v)
	if s == StepCompleted || slices.Contains(Steps, s) {
		return s, true
	}
	return "", false
}

// Onboarding tracks which wizard steps were submitted and the payload of each.
type Onboarding struct {
	Completed []Step
	Data      map[Step]json.RawMessage
	Finished  bool
}

func (o Onboarding) IsDone(s Step) bool {
	return slices.Contains(o.Completed, s)
}

// Current is the first step not yet submitted, or StepCompleted.
func (o Onboarding) Current() Step {
	if o.Finished {
		return StepCompleted
	}
	for _, s := range Steps {
		if !o.IsDone(s) {
			return s
		}
	}
	return StepReview
}

// Progress is the share of submitted steps in [0, 1].
func (o Onboarding) Progress() float64 {
	done := 0
	for _, s := range Steps {
		if o.IsDone(s) {
			done++
		}
	}
	return float64(done) / float64(len(Steps))
}

// CanSubmit reports whether every step before s is complete. Earlier steps
// may always be re-submitted.
func (o Onboarding) CanSubmit(s Step) bool {
	idx := slices.Index(Steps, s)
	if idx < 0 {
		return false
	}
	for _, prev := range Steps[:idx] {
		if !o.IsDone(prev) {
			return false
		}
	}
	return true
}

// Submit records payload for s. The caller checks CanSubmit first.
func (o Onboarding) Submit(s Step, payload json.RawMessage) Onboarding {
	data := make(map[Step]json.RawMessage, len(o.Data)+1)
	for k, v := range o.Data {
		data[k] = v
	}
	if len(payload) > 0 {
		data[s] = payload
	}
	completed := slices.Clone(o.Completed)
	if !slices.Contains(completed, s) {
		completed = append(completed, s)
	}
	slices.SortFunc(completed, func(a, b Step) int {
		return slices.Index(Steps, a) - slices.Index(Steps, b)
	})
	return Onboarding{Completed: completed, Data: data, Finished: o.Finished}
}

func (o Onboarding) AllSubmitted() bool {
	for _, s := range Steps {
		if !o.IsDone(s) {
			return false
		}
	}
	return true
}
