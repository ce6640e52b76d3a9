package extract

import (
	"gostat/domain/core"
	"gostat/domain/dataset"
	"gostat/domain/mapping"
)

// SurvivalData holds aligned time-to-event observations
type SurvivalData struct {
	Times  []float64
	Events []float64
	Groups []string // nil unless a group column was requested
}

// ExtractSurvival pulls (time, event) pairs and, when groupVar is set, the
// group label of each row. Rows missing any requested value are dropped.
func ExtractSurvival(rows dataset.Records, timeVar, eventVar, groupVar string) (*SurvivalData, error) {
	cols, err := extractAligned(rows,
		role{mapping.RoleTimeVar, timeVar},
		role{mapping.RoleEventVar, eventVar},
	)
	if err != nil {
		return nil, err
	}
	if groupVar == "" {
		return &SurvivalData{Times: cols[0], Events: cols[1]}, nil
	}
	if !rows.HasColumn(groupVar) {
		return nil, core.NewUnknownColumnError(groupVar)
	}

	data := &SurvivalData{Times: []float64{}, Events: []float64{}, Groups: []string{}}
	for _, row := range rows {
		t, tk := dataset.Numeric(row[timeVar])
		e, ek := dataset.Numeric(row[eventVar])
		label, ok := dataset.Label(row[groupVar])
		if tk != dataset.KindNumeric || ek != dataset.KindNumeric || !ok {
			continue
		}
		data.Times = append(data.Times, t)
		data.Events = append(data.Events, e)
		data.Groups = append(data.Groups, label)
	}
	return data, nil
}
