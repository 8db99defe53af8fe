package domain

import (
	"sort"
	"strings"
)

// Cache keys; the cache itself never looks inside them.
// Parts join with '_', which is ambiguous for names containing '_'. Census state
// and district names never do, and the format matches keys already persisted.

// RecordsKey keys the full aggregated dataset for a state and fiscal year
func RecordsKey(state, finYear string) string { return "records_" + state + "_" + finYear }

// DistrictKey keys one district record
func DistrictKey(state, district string) string { return "district_" + state + "_" + district }

// StateKey keys the state rollup
func StateKey(state string) string { return "state_" + state }

// NamesKey keys the sorted district name list
func NamesKey(state string) string { return "districts_" + state }

// CompareKey keys a comparison; the name list is sorted and de-duplicated so order does not matter
func CompareKey(state string, districts []string) string {
	return "comparative_" + state + "_" + strings.Join(NormalizeNames(districts), ",")
}

// NormalizeNames trims, drops blanks and duplicates, and sorts bytewise
func NormalizeNames(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, n := range in {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
