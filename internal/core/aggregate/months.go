package aggregate

import "strings"

// monthIndex is calendar order; both short and long labels resolve
var monthIndex = map[string]int{
	"jan": 0, "january": 0,
	"feb": 1, "february": 1,
	"mar": 2, "march": 2,
	"apr": 3, "april": 3,
	"may": 4,
	"jun": 5, "june": 5,
	"jul": 6, "july": 6,
	"aug": 7, "august": 7,
	"sep": 8, "sept": 8, "september": 8,
	"oct": 9, "october": 9,
	"nov": 10, "november": 10,
	"dec": 11, "december": 11,
}

// MonthIndex returns 0..11 for a month label, or -1 when unrecognized
func MonthIndex(label string) int {
	if i, ok := monthIndex[strings.ToLower(strings.TrimSpace(label))]; ok {
		return i
	}
	return -1
}
