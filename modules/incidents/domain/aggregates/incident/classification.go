package incident

// Materiality thresholds for major ICT-related incidents.
const (
	ClientsPercentThreshold   = 10.0
	ClientsCountThreshold     = 100000
	DurationHoursThreshold    = 24.0
	DowntimeHoursThreshold    = 2.0
	MemberStatesThreshold     = 2
	EconomicImpactThreshold   = 100000
	requiredSecondaryCriteria = 2
)

type DataLoss string

const (
	DataLossNone            DataLoss = "none"
	DataLossAvailability    DataLoss = "availability"
	DataLossAuthenticity    DataLoss = "authenticity"
	DataLossIntegrity       DataLoss = "integrity"
	DataLossConfidentiality DataLoss = "confidentiality"
)

// Criterion names a materiality threshold that an incident met.
type Criterion string

const (
	CriterionClients         Criterion = "clients"
	CriterionDataLosses      Criterion = "data_losses"
	CriterionReputational    Criterion = "reputational_impact"
	CriterionDuration        Criterion = "duration_downtime"
	CriterionGeographical    Criterion = "geographical_spread"
	CriterionEconomic        Criterion = "economic_impact"
	CriterionMaliciousBreach Criterion = "malicious_access_data_loss"
)

// Criteria are the classification inputs recorded for an incident.
type Criteria struct {
	CriticalServicesAffected bool     `json:"critical_services_affected"`
	ClientsAffected          int64    `json:"clients_affected" validate:"gte=0"`
	ClientsAffectedPercent   float64  `json:"clients_affected_percent" validate:"gte=0,lte=100"`
	CounterpartsAffected     int64    `json:"counterparts_affected" validate:"gte=0"`
	DataLoss                 DataLoss `json:"data_loss" validate:"omitempty,oneof=none availability authenticity integrity confidentiality"`
	MaliciousAccess          bool     `json:"malicious_access"`
	ReputationalImpact       bool     `json:"reputational_impact"`
	DurationHours            float64  `json:"duration_hours" validate:"gte=0"`
	DowntimeHours            float64  `json:"downtime_hours" validate:"gte=0"`
	MemberStatesAffected     int      `json:"member_states_affected" validate:"gte=0,lte=30"`
	EconomicImpactEUR        int64    `json:"economic_impact_eur" validate:"gte=0"`
}

func (c Criteria) hasDataLoss() bool {
	return c.DataLoss != "" && c.DataLoss != DataLossNone
}

// Classification is the outcome of evaluating Criteria.
type Classification struct {
	Major bool        `json:"major"`
	Met   []Criterion `json:"met"`
}

// Classify applies the major incident test: critical services must be
// affected, and either a malicious breach caused data losses or at least
// two other thresholds were met.
func (c Criteria) Classify() Classification {
	met := make([]Criterion, 0, 6)
	if c.ClientsAffectedPercent > ClientsPercentThreshold || c.ClientsAffected > ClientsCountThreshold {
		met = append(met, CriterionClients)
	}
	if c.hasDataLoss() {
		met = append(met, CriterionDataLosses)
	}
	if c.ReputationalImpact {
		met = append(met, CriterionReputational)
	}
	if c.DurationHours > DurationHoursThreshold || c.DowntimeHours > DowntimeHoursThreshold {
		met = append(met, CriterionDuration)
	}
	if c.MemberStatesAffected >= MemberStatesThreshold {
		met = append(met, CriterionGeographical)
	}
	if c.EconomicImpactEUR > EconomicImpactThreshold {
		met = append(met, CriterionEconomic)
	}

	breach := c.MaliciousAccess && c.hasDataLoss()
	if breach {
		met = append(met, CriterionMaliciousBreach)
	}
	secondary := len(met)
	if breach {
		secondary--
	}
	return Classification{
		Major: c.CriticalServicesAffected && (breach || secondary >= requiredSecondaryCriteria),
		Met:   met,
	}
}
