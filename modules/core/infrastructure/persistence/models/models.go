package models

import "time"

type Organization struct {
	ID                 string
	Name               string
	LEI                string
	EntityType         string
	Country            string
	CompetentAuthority string
	Size               string
	ParentLEI          string
	OnboardingSteps    []string
	OnboardingData     []byte
	OnboardingFinished bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
