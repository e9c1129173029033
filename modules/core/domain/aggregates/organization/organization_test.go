package organization

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestOnboarding_StepOrder(t *testing.T) {
	ob := New(uuid.New()).Onboarding()
	require.Equal(t, StepProfile, ob.Current())
	require.True(t, ob.CanSubmit(StepProfile))
	require.False(t, ob.CanSubmit(StepEntities))
	require.False(t, ob.CanSubmit(StepCompleted))

	ob = ob.Submit(StepProfile, nil)
	ob = ob.Submit(StepEntities, json.RawMessage(`{"entities":[]}`))
	require.Equal(t, StepICTServices, ob.Current())
	require.InDelta(t, 0.4, ob.Progress(), 1e-9)
	require.True(t, ob.CanSubmit(StepProfile), "going back is allowed")
	require.False(t, ob.CanSubmit(StepTeam))

	ob = ob.Submit(StepProfile, nil)
	require.Equal(t, []Step{StepProfile, StepEntities}, ob.Completed)
	require.JSONEq(t, `{"entities":[]}`, string(ob.Data[StepEntities]))
}

func TestOnboarding_AllSubmitted(t *testing.T) {
	ob := Onboarding{}
	for _, s := range Steps {
		require.False(t, ob.AllSubmitted())
		ob = ob.Submit(s, nil)
	}
	require.True(t, ob.AllSubmitted())
	require.Equal(t, StepReview, ob.Current())
	require.InDelta(t, 1.0, ob.Progress(), 1e-9)

	ob.Finished = true
	require.Equal(t, StepCompleted, ob.Current())
}

func TestParseStep(t *testing.T) {
	s, ok := ParseStep("ict_services")
	require.True(t, ok)
	require.Equal(t, StepICTServices, s)
	_, ok = ParseStep("billing")
	require.False(t, ok)
}

func TestProfileDTO_Ok(t *testing.T) {
	dto := ProfileDTO{
		Name:       " Acme Bank ",
		LEI:        "5493001kjtiigc8y1r12",
		EntityType: "credit_institution",
		Country:    "de",
		Size:       "large",
	}
	errs, ok := dto.Ok()
	require.True(t, ok, errs)
	require.Equal(t, "Acme Bank", dto.Name)
	require.Equal(t, "5493001KJTIIGC8Y1R12", dto.LEI)

	dto.ParentLEI = dto.LEI
	errs, ok = dto.Ok()
	require.False(t, ok)
	require.Contains(t, errs, "ParentLEI")

	bad := ProfileDTO{Name: "x", LEI: "5493001KJTIIGC8Y1R13", EntityType: "bank", Country: "XX"}
	errs, ok = bad.Ok()
	require.False(t, ok)
	require.Contains(t, errs, "LEI")
	require.Contains(t, errs, "EntityType")
	require.Contains(t, errs, "Country")
}

func TestDecodeStep(t *testing.T) {
	errs, err := DecodeStep(StepTeam, json.RawMessage(`{"members":[{"name":"Ana","email":"ana@example.com","role":"editor"}]}`))
	require.NoError(t, err)
	require.Empty(t, errs)

	errs, err = DecodeStep(StepICTServices, json.RawMessage(`{"services":[]}`))
	require.NoError(t, err)
	require.Contains(t, errs, "Services")

	_, err = DecodeStep(StepReview, json.RawMessage(`{`))
	require.ErrorIs(t, err, ErrInvalidPayload)

	_, err = DecodeStep(StepProfile, nil)
	require.ErrorIs(t, err, ErrUnknownStep)
}
