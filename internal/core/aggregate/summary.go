package aggregate

// StateSummary rolls every district's current snapshot up to state level
type StateSummary struct {
	StateName                string  `json:"stateName"`
	FinYear                  string  `json:"finYear"`
	LatestMonth              string  `json:"latestMonth"`
	DistrictCount            int     `json:"districtCount"`
	TotalJobCardsIssued      float64 `json:"totalJobCardsIssued"`
	TotalWorkersRegistered   float64 `json:"totalWorkersRegistered"`
	TotalHouseholdsEmployed  float64 `json:"totalHouseholdsEmployed"`
	TotalPersonDaysGenerated float64 `json:"totalPersonDaysGenerated"`
	TotalExpenditure         float64 `json:"totalExpenditure"`
	TotalWomenParticipation  float64 `json:"totalWomenParticipation"`
	TotalSCParticipation     float64 `json:"totalSCParticipation"`
	TotalSTParticipation     float64 `json:"totalSTParticipation"`
	TotalCompletedWorks      float64 `json:"totalCompletedWorks"`
	TotalOngoingWorks        float64 `json:"totalOngoingWorks"`
	AverageWageRate          float64 `json:"averageWageRate"`
}

// Summarize totals CurrentMonthData across recs
// AverageWageRate is the plain mean of the district averages
func Summarize(state, finYear string, recs []DistrictRecord) StateSummary {
	s := StateSummary{StateName: state, FinYear: finYear, DistrictCount: len(recs)}
	if len(recs) == 0 {
		return s
	}

	var (
		wage       float64
		latestYear string
		latestIdx  = -2
	)
	for _, r := range recs {
		c := r.CurrentMonthData
		s.TotalJobCardsIssued += c.JobCardsIssued
		s.TotalWorkersRegistered += c.WorkersRegistered
		s.TotalHouseholdsEmployed += c.HouseholdsEmployed
		s.TotalPersonDaysGenerated += c.PersonDaysGenerated
		s.TotalExpenditure += c.TotalExpenditure
		s.TotalWomenParticipation += c.WomenParticipation
		s.TotalSCParticipation += c.SCParticipation
		s.TotalSTParticipation += c.STParticipation
		s.TotalCompletedWorks += c.CompletedWorks
		s.TotalOngoingWorks += c.OngoingWorks
		wage += c.AverageWageRate

		idx := MonthIndex(c.Month)
		if c.Year > latestYear || (c.Year == latestYear && idx > latestIdx) {
			latestYear, latestIdx, s.LatestMonth = c.Year, idx, c.Month
		}
	}
	s.AverageWageRate = wage / float64(len(recs))
	return s
}
