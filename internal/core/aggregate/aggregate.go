package aggregate

import (
	"sort"
	"strings"

	"mgnrega/internal/core/csvparse"
)

// Build filters rows to state and finYear, groups them by district and
// returns one record per district in first seen order
func Build(rows []csvparse.Row, state, finYear string) []DistrictRecord {
	var order []string
	groups := map[string][]csvparse.Row{}

	for _, r := range rows {
		if strings.TrimSpace(r[ColState]) != state || r[ColFinYear] != finYear {
			continue
		}
		name := strings.TrimSpace(r[ColDistrict])
		if name == "" {
			continue
		}
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], r)
	}

	out := make([]DistrictRecord, 0, len(order))
	for _, name := range order {
		out = append(out, buildDistrict(name, state, groups[name]))
	}
	return out
}

func buildDistrict(name, state string, rows []csvparse.Row) DistrictRecord {
	sorted := make([]csvparse.Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		yi, yj := sorted[i][ColFinYear], sorted[j][ColFinYear]
		if yi != yj {
			return yi > yj
		}
		return MonthIndex(sorted[i][ColMonth]) > MonthIndex(sorted[j][ColMonth])
	})
	if len(sorted) > HistoryLimit {
		sorted = sorted[:HistoryLimit]
	}

	history := make([]MonthlySnapshot, len(sorted))
	for i, r := range sorted {
		history[i] = Snapshot(r)
	}

	rec := DistrictRecord{
		DistrictName:          name,
		StateName:             state,
		HistoricalData:        history,
		PerformanceIndicators: PlaceholderIndicators,
	}
	if len(history) > 0 {
		rec.CurrentMonthData = history[0]
	}
	return rec
}

// Snapshot maps one export row onto a MonthlySnapshot
func Snapshot(r csvparse.Row) MonthlySnapshot {
	return MonthlySnapshot{
		Month:               strings.TrimSpace(r[ColMonth]),
		Year:                strings.TrimSpace(r[ColFinYear]),
		JobCardsIssued:      Number(r[ColJobCards]),
		WorkersRegistered:   Number(r[ColWorkers]),
		HouseholdsEmployed:  Number(r[ColHouseholds]),
		PersonDaysGenerated: Number(r[ColPersonDays]),
		AverageWageRate:     Number(r[ColAvgWage]),
		TotalExpenditure:    Number(r[ColTotalExp]),
		WomenParticipation:  Number(r[ColWomenDays]),
		SCParticipation:     Number(r[ColSCDays]),
		STParticipation:     Number(r[ColSTDays]),
		CompletedWorks:      Number(r[ColCompletedWorks]),
		OngoingWorks:        Number(r[ColOngoingWorks]),
	}
}
