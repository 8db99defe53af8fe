// Package aggregate folds parsed export rows into per district records
// Output is deterministic for a fixed input, state and fiscal year
package aggregate

// Column names exactly as they appear in the statistics export header
const (
	ColState          = "state_name"
	ColDistrict       = "district_name"
	ColFinYear        = "fin_year"
	ColMonth          = "month"
	ColJobCards       = "Total_No_of_JobCards_issued"
	ColWorkers        = "Total_No_of_Workers"
	ColHouseholds     = "Total_Households_Worked"
	ColPersonDays     = "Persondays_of_Central_Liability_so_far"
	ColAvgWage        = "Average_Wage_rate_per_day_per_person"
	ColTotalExp       = "Total_Exp"
	ColWomenDays      = "Women_Persondays"
	ColSCDays         = "SC_persondays"
	ColSTDays         = "ST_persondays"
	ColCompletedWorks = "Number_of_Completed_Works"
	ColOngoingWorks   = "Number_of_Ongoing_Works"
)

// HistoryLimit bounds DistrictRecord.HistoricalData
const HistoryLimit = 12

// MonthlySnapshot is one district's metrics for one reporting month
// Numeric fields are always finite and non-negative
type MonthlySnapshot struct {
	Month               string  `json:"month"`
	Year                string  `json:"year"`
	JobCardsIssued      float64 `json:"jobCardsIssued"`
	WorkersRegistered   float64 `json:"workersRegistered"`
	HouseholdsEmployed  float64 `json:"householdsEmployed"`
	PersonDaysGenerated float64 `json:"personDaysGenerated"`
	AverageWageRate     float64 `json:"averageWageRate"`
	TotalExpenditure    float64 `json:"totalExpenditure"`
	WomenParticipation  float64 `json:"womenParticipation"`
	SCParticipation     float64 `json:"scParticipation"`
	STParticipation     float64 `json:"stParticipation"`
	CompletedWorks      float64 `json:"completedWorks"`
	OngoingWorks        float64 `json:"ongoingWorks"`
}

// PerformanceIndicators holds 1..5 scores per indicator
type PerformanceIndicators struct {
	EmploymentGeneration int `json:"employmentGeneration"`
	TimelyPayment        int `json:"timelyPayment"`
	WorkCompletion       int `json:"workCompletion"`
	WomenParticipation   int `json:"womenParticipation"`
	SocialInclusion      int `json:"socialInclusion"`
}

// PlaceholderIndicators are fixed scores; they are not computed from the snapshots yet
var PlaceholderIndicators = PerformanceIndicators{
	EmploymentGeneration: 4,
	TimelyPayment:        4,
	WorkCompletion:       3,
	WomenParticipation:   4,
	SocialInclusion:      4,
}

// DistrictRecord is the aggregated view of one district within one state
type DistrictRecord struct {
	DistrictName          string                `json:"districtName"`
	StateName             string                `json:"stateName"`
	CurrentMonthData      MonthlySnapshot       `json:"currentMonthData"`
	HistoricalData        []MonthlySnapshot     `json:"historicalData"`
	PerformanceIndicators PerformanceIndicators `json:"performanceIndicators"`
}
