// Package archive flattens aggregated district history into clickhouse rows
// so every ingest run leaves an append only trail of what was served
package archive

import (
	"context"
	"fmt"
	"time"

	"mgnrega/internal/core/aggregate"
	perr "mgnrega/internal/platform/errors"
	"mgnrega/internal/platform/logger"
	"mgnrega/internal/platform/store"

	"github.com/google/uuid"
)

// Table is the snapshot table
const Table = "district_snapshots"

// DefaultBatch bounds rows per native insert
const DefaultBatch = 5000

var columns = []string{
	"run_id", "archived_at", "state_name", "district_name", "fin_year", "month", "month_index", "is_current",
	"job_cards_issued", "workers_registered", "households_employed", "person_days_generated",
	"average_wage_rate", "total_expenditure", "women_participation", "sc_participation",
	"st_participation", "completed_works", "ongoing_works",
}

const ddl = `CREATE TABLE IF NOT EXISTS ` + Table + ` (
	run_id                UUID,
	archived_at           DateTime64(3, 'UTC'),
	state_name            LowCardinality(String),
	district_name         String,
	fin_year              LowCardinality(String),
	month                 LowCardinality(String),
	month_index           Int8,
	is_current            UInt8,
	job_cards_issued      Float64,
	workers_registered    Float64,
	households_employed   Float64,
	person_days_generated Float64,
	average_wage_rate     Float64,
	total_expenditure     Float64,
	women_participation   Float64,
	sc_participation      Float64,
	st_participation      Float64,
	completed_works       Float64,
	ongoing_works         Float64
) ENGINE = MergeTree
ORDER BY (state_name, district_name, fin_year, month_index, archived_at)`

// RunSummary describes one archived run
type RunSummary struct {
	RunID      string    `json:"runId"`
	ArchivedAt time.Time `json:"archivedAt"`
	Rows       uint64    `json:"rows"`
}

// Archiver writes snapshot rows through the clickhouse seam
type Archiver struct {
	ch    store.Clickhouse
	batch int
	now   func() time.Time
}

// New binds an archiver; batch <= 0 uses DefaultBatch
func New(ch store.Clickhouse, batch int) *Archiver {
	if ch == nil {
		panic("archive.Archiver requires a clickhouse seam")
	}
	if batch <= 0 {
		batch = DefaultBatch
	}
	return &Archiver{ch: ch, batch: batch, now: time.Now}
}

// NewRunID returns a time ordered run id
func NewRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// EnsureSchema creates the snapshot table when missing
func (a *Archiver) EnsureSchema(ctx context.Context) error {
	if err := a.ch.Exec(ctx, ddl); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "create "+Table)
	}
	return nil
}

// Rows flattens recs into insert rows, one per historical snapshot
func Rows(runID string, at time.Time, finYear string, recs []aggregate.DistrictRecord) [][]any {
	var out [][]any
	for _, r := range recs {
		for i, s := range r.HistoricalData {
			out = append(out, []any{
				runID, at.UTC(), r.StateName, r.DistrictName, finYear, s.Month,
				int8(aggregate.MonthIndex(s.Month)), boolByte(i == 0),
				s.JobCardsIssued, s.WorkersRegistered, s.HouseholdsEmployed, s.PersonDaysGenerated,
				s.AverageWageRate, s.TotalExpenditure, s.WomenParticipation, s.SCParticipation,
				s.STParticipation, s.CompletedWorks, s.OngoingWorks,
			})
		}
	}
	return out
}

// Write archives recs under runID and returns the number of rows sent
func (a *Archiver) Write(ctx context.Context, runID, finYear string, recs []aggregate.DistrictRecord) (int, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return 0, perr.WithField(perr.InvalidArgf("run id %q is not a uuid", runID), "run_id")
	}
	rows := Rows(runID, a.now(), finYear, recs)
	for start := 0; start < len(rows); start += a.batch {
		end := min(start+a.batch, len(rows))
		if err := a.ch.Insert(ctx, Table, columns, rows[start:end]); err != nil {
			return start, perr.Wrapf(err, perr.ErrorCodeDB, "insert %s rows %d..%d", Table, start, end)
		}
	}
	logger.C(ctx).Info().
		Str("run_id", runID).
		Int("districts", len(recs)).
		Int("rows", len(rows)).
		Msg("snapshots archived")
	return len(rows), nil
}

// Runs lists the most recent runs, newest first
func (a *Archiver) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	q := fmt.Sprintf(`SELECT toString(run_id), max(archived_at), count()
FROM %s
GROUP BY run_id
ORDER BY max(archived_at) DESC
LIMIT %d`, Table, limit)

	rs, err := a.ch.Query(ctx, q)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "list runs")
	}
	return store.Many(rs, func(r store.Row) (RunSummary, error) {
		var s RunSummary
		err := r.Scan(&s.RunID, &s.ArchivedAt, &s.Rows)
		return s, err
	})
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
