package model

// TargetGroupDefinition is reference data for one WOTC or state-program
// target group. Immutable lookup table, injected into the engine at
// construction time.
type TargetGroupDefinition struct {
	Code              string  `json:"code" bson:"_id"`
	Name              string  `json:"name" bson:"name"`
	MaxCredit         float64 `json:"maxCredit" bson:"maxCredit"`
	QualifiedWageCap  float64 `json:"qualifiedWageCap" bson:"qualifiedWageCap"`
	HoursRequired     float64 `json:"hoursRequired" bson:"hoursRequired"`
	SecondYearWageCap float64 `json:"secondYearWageCap,omitempty" bson:"secondYearWageCap,omitempty"` // multi-year programs only
}

// MultiYear reports whether the group carries a second-year schedule
func (d *TargetGroupDefinition) MultiYear() bool {
	return d.SecondYearWageCap > 0
}

// DefaultTargetGroups returns the federal WOTC table. Callers may extend the
// map with state-program codes before handing it to the engine.
func DefaultTargetGroups() map[string]TargetGroupDefinition {
	groups := []TargetGroupDefinition{
		{Code: "IV-A", Name: "TANF Recipient", MaxCredit: 2400, QualifiedWageCap: 6000, HoursRequired: 120},
		{Code: "V", Name: "Qualified Veteran", MaxCredit: 5600, QualifiedWageCap: 14000, HoursRequired: 120},
		{Code: "V-DISAB", Name: "Disabled Veteran", MaxCredit: 9600, QualifiedWageCap: 24000, HoursRequired: 120},
		{Code: "EX-FELON", Name: "Qualified Ex-Felon", MaxCredit: 2400, QualifiedWageCap: 6000, HoursRequired: 120},
		{Code: "DCR", Name: "Designated Community Resident", MaxCredit: 2400, QualifiedWageCap: 6000, HoursRequired: 120},
		{Code: "VOC-REHAB", Name: "Vocational Rehabilitation Referral", MaxCredit: 2400, QualifiedWageCap: 6000, HoursRequired: 120},
		{Code: "SUMMER-YOUTH", Name: "Summer Youth Employee", MaxCredit: 1200, QualifiedWageCap: 3000, HoursRequired: 120},
		{Code: "SNAP", Name: "SNAP Recipient", MaxCredit: 2400, QualifiedWageCap: 6000, HoursRequired: 120},
		{Code: "SSI", Name: "SSI Recipient", MaxCredit: 2400, QualifiedWageCap: 6000, HoursRequired: 120},
		{Code: "IV-B", Name: "Long-Term Family Assistance Recipient", MaxCredit: 9000, QualifiedWageCap: 10000, HoursRequired: 120, SecondYearWageCap: 10000},
		{Code: "LTU", Name: "Long-Term Unemployment Recipient", MaxCredit: 2400, QualifiedWageCap: 6000, HoursRequired: 120},
	}

	table := make(map[string]TargetGroupDefinition, len(groups))
	for _, g := range groups {
		table[g.Code] = g
	}
	return table
}
