// Package service answers district queries through the result cache
package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"mgnrega/internal/core/aggregate"
	"mgnrega/internal/core/csvparse"
	"mgnrega/internal/platform/cache"
	perr "mgnrega/internal/platform/errors"
	"mgnrega/internal/platform/logger"
	"mgnrega/internal/services/districts/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Service defines the district service contract
type Service interface {
	domain.ServicePort
	domain.AdminPort
	domain.CacheStats
	domain.WarmPort
}

// Svc implements Service; every read goes through the cache
type Svc struct {
	cache   *cache.Cache
	src     domain.Source
	finYear string
	log     *logger.Logger
}

var _ Service = (*Svc)(nil)

// New constructs the service for one fiscal year
func New(c *cache.Cache, src domain.Source, finYear string) *Svc {
	if c == nil {
		panic("districts.Service requires a non nil cache")
	}
	if src == nil {
		panic("districts.Service requires a non nil source")
	}
	if strings.TrimSpace(finYear) == "" {
		panic("districts.Service requires a fiscal year")
	}
	return &Svc{cache: c, src: src, finYear: finYear, log: logger.Named("districts")}
}

// FinYear returns the fiscal year label records are filtered to
func (s *Svc) FinYear() string { return s.finYear }

func stateArg(state string) (string, error) {
	state = strings.TrimSpace(state)
	if state == "" {
		return "", perr.WithField(perr.InvalidArgf("state is required"), "state")
	}
	return state, nil
}

// Records fetches, parses, and aggregates the export for state
func (s *Svc) Records(ctx context.Context, state string) ([]domain.DistrictRecord, error) {
	state, err := stateArg(state)
	if err != nil {
		return nil, err
	}
	return cache.GetAs(ctx, s.cache, domain.RecordsKey(state, s.finYear), func(ctx context.Context) ([]domain.DistrictRecord, error) {
		start := time.Now()
		text, err := s.src.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		rows, err := csvparse.Parse(text)
		if err != nil {
			return nil, err
		}
		recs := aggregate.Build(rows, state, s.finYear)
		logger.C(ctx).Info().
			Str("state", state).
			Str("fin_year", s.finYear).
			Int("rows", len(rows)).
			Int("districts", len(recs)).
			Dur("elapsed", time.Since(start)).
			Msg("records aggregated")
		return recs, nil
	})
}

// District returns one district; an unknown name is NotFound, never a zero record
func (s *Svc) District(ctx context.Context, state, district string) (domain.DistrictRecord, error) {
	state, err := stateArg(state)
	if err != nil {
		return domain.DistrictRecord{}, err
	}
	district = strings.TrimSpace(district)
	if district == "" {
		return domain.DistrictRecord{}, perr.WithField(perr.InvalidArgf("district is required"), "district")
	}
	return cache.GetAs(ctx, s.cache, domain.DistrictKey(state, district), func(ctx context.Context) (domain.DistrictRecord, error) {
		recs, err := s.Records(ctx, state)
		if err != nil {
			return domain.DistrictRecord{}, err
		}
		for _, r := range recs {
			if r.DistrictName == district {
				return r, nil
			}
		}
		return domain.DistrictRecord{}, perr.NotFoundf("district %q not found in %s", district, state)
	})
}

// Compare returns the named districts sorted by name. Unknown names are skipped
// without notice, so a result shorter than the request is partial; NotFound only
// when none of them match
func (s *Svc) Compare(ctx context.Context, state string, districts []string) ([]domain.DistrictRecord, error) {
	state, err := stateArg(state)
	if err != nil {
		return nil, err
	}
	names := domain.NormalizeNames(districts)
	switch {
	case len(names) == 0:
		return nil, perr.WithField(perr.InvalidArgf("at least one district is required"), "districts")
	case len(names) > domain.MaxCompare:
		return nil, perr.WithField(perr.InvalidArgf("at most %d districts can be compared", domain.MaxCompare), "districts")
	}

	return cache.GetAs(ctx, s.cache, domain.CompareKey(state, names), func(ctx context.Context) ([]domain.DistrictRecord, error) {
		recs, err := s.Records(ctx, state)
		if err != nil {
			return nil, err
		}
		want := make(map[string]struct{}, len(names))
		for _, n := range names {
			want[n] = struct{}{}
		}
		out := make([]domain.DistrictRecord, 0, len(names))
		for _, r := range recs {
			if _, ok := want[r.DistrictName]; ok {
				out = append(out, r)
			}
		}
		if len(out) == 0 {
			return nil, perr.NotFoundf("none of the requested districts exist in %s", state)
		}
		sortRecords(out)
		return out, nil
	})
}

// StateSummary rolls up every district's current month
func (s *Svc) StateSummary(ctx context.Context, state string) (domain.StateSummary, error) {
	state, err := stateArg(state)
	if err != nil {
		return domain.StateSummary{}, err
	}
	return cache.GetAs(ctx, s.cache, domain.StateKey(state), func(ctx context.Context) (domain.StateSummary, error) {
		recs, err := s.Records(ctx, state)
		if err != nil {
			return domain.StateSummary{}, err
		}
		if len(recs) == 0 {
			return domain.StateSummary{}, perr.NotFoundf("no districts for %s in %s", state, s.finYear)
		}
		return aggregate.Summarize(state, s.finYear, recs), nil
	})
}

// DistrictNames returns every district name in English collation order
func (s *Svc) DistrictNames(ctx context.Context, state string) ([]string, error) {
	state, err := stateArg(state)
	if err != nil {
		return nil, err
	}
	return cache.GetAs(ctx, s.cache, domain.NamesKey(state), func(ctx context.Context) ([]string, error) {
		recs, err := s.Records(ctx, state)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(recs))
		for _, r := range recs {
			names = append(names, r.DistrictName)
		}
		collate.New(language.English).SortStrings(names)
		return names, nil
	})
}

// Invalidate drops key; an empty key drops everything
func (s *Svc) Invalidate(ctx context.Context, key string) domain.InvalidateResult {
	key = strings.TrimSpace(key)
	if key == "" {
		return s.InvalidateAll(ctx)
	}
	_, existed := s.cache.Peek(key)
	s.cache.Clear(ctx, key)
	logger.C(ctx).Info().Str("key", key).Bool("existed", existed).Msg("cache key invalidated")
	return domain.InvalidateResult{Key: key, Existed: existed, Remaining: s.cache.Len()}
}

// InvalidateAll drops every cached entry
func (s *Svc) InvalidateAll(ctx context.Context) domain.InvalidateResult {
	n := s.cache.Len()
	s.cache.ClearAll(ctx)
	logger.C(ctx).Info().Int("dropped", n).Msg("cache cleared")
	return domain.InvalidateResult{All: true, Existed: n > 0, Remaining: s.cache.Len()}
}

// CacheInfo lists cached keys with their age
func (s *Svc) CacheInfo() domain.CacheInfo {
	keys := s.cache.Keys()
	info := domain.CacheInfo{TTL: s.cache.TTL().String(), Count: len(keys), Keys: make([]domain.CacheKey, 0, len(keys))}
	for _, k := range keys {
		e, ok := s.cache.Peek(k)
		if !ok {
			continue // cleared between Keys and Peek
		}
		info.Keys = append(info.Keys, domain.CacheKey{Key: k, StoredAt: e.Timestamp, Fresh: s.cache.IsFresh(k)})
	}
	return info
}

// Stale reports whether any of the state's standing entries needs recomputation
func (s *Svc) Stale(state string) bool {
	state, err := stateArg(state)
	if err != nil {
		return false
	}
	for _, k := range []string{domain.RecordsKey(state, s.finYear), domain.StateKey(state), domain.NamesKey(state)} {
		if !s.cache.IsFresh(k) {
			return true
		}
	}
	return false
}

// Warm fills the records, summary and name entries for state
func (s *Svc) Warm(ctx context.Context, state string) error {
	recs, err := s.Records(ctx, state)
	if err != nil {
		return err
	}
	if len(recs) > 0 {
		if _, err := s.StateSummary(ctx, state); err != nil {
			return err
		}
	}
	_, err = s.DistrictNames(ctx, state)
	return err
}

// Entries reports how many keys are cached
func (s *Svc) Entries() int { return s.cache.Len() }

func sortRecords(recs []domain.DistrictRecord) {
	col := collate.New(language.English)
	sort.SliceStable(recs, func(i, j int) bool {
		return col.CompareString(recs[i].DistrictName, recs[j].DistrictName) < 0
	})
}
