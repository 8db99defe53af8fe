package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"mgnrega/internal/adapters/source"
	"mgnrega/internal/core/version"
	"mgnrega/internal/modkit/repokit"
	"mgnrega/internal/platform/cache"
	"mgnrega/internal/platform/config"
	perr "mgnrega/internal/platform/errors"
	"mgnrega/internal/platform/logger"
	"mgnrega/internal/platform/store"
	"mgnrega/internal/services/archive"
	"mgnrega/internal/services/districts/domain"
	dsvc "mgnrega/internal/services/districts/service"
)

// report is what the command prints
type report struct {
	RunID     string                  `json:"runId"`
	State     string                  `json:"state"`
	FinYear   string                  `json:"finYear"`
	Summary   *domain.StateSummary    `json:"summary,omitempty"`
	Districts []domain.DistrictRecord `json:"districts"`
	Archived  int                     `json:"archived,omitempty"`
}

func main() {
	logger.Init(logger.FromEnv())
	l := logger.Get()

	root := config.New()
	mgCfg := root.Prefix("MGNREGA_")

	var (
		fSource  = flag.String("source", mgCfg.MayString("SOURCE", ""), "csv export: path, file:// or http(s) url, - for stdin")
		fState   = flag.String("state", mgCfg.MayString("STATE", "MAHARASHTRA"), "state_name to keep")
		fYear    = flag.String("year", mgCfg.MayString("FIN_YEAR", "2024-2025"), "fin_year to keep")
		fOut     = flag.String("out", "", "write the json report here instead of stdout")
		fWarm    = flag.Bool("warm", false, "store results in the configured cache backend")
		fArchive = flag.Bool("archive", false, "append snapshots to clickhouse (SERVICE_CLICKHOUSE_DBURL)")
		fRuns    = flag.Int("runs", 0, "list the last n archived runs and exit")
	)
	flag.Parse()
	state := strings.TrimSpace(*fState)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := archive.NewRunID()
	ctx = logger.WithState(logger.WithRun(ctx, runID), state)
	lg := logger.C(ctx)
	lg.Info().Str("version", version.For("mgnrega-ingest").Version).Msg("ingest starting")

	// the store is only needed for a database cache backend or the archive
	cs := cache.SettingsFrom(root)
	var st *store.Store
	if *fArchive || *fRuns > 0 || (*fWarm && cs.Backend != cache.BackendFile) {
		var err error
		st, err = store.Open(ctx, store.FromEnv(root, "ingest"), store.WithLogger(*l))
		if err != nil {
			lg.Fatal().Err(err).Msg("store.Open failed")
		}
		if err := repokit.Guard(ctx, st); err != nil {
			lg.Fatal().Err(err).Msg("store unreachable")
		}
		defer func() {
			if err := st.Close(context.Background()); err != nil {
				lg.Error().Err(err).Msg("failed to close store")
			}
		}()
	}

	if *fRuns > 0 {
		listRuns(ctx, st, *fRuns)
		return
	}

	src, err := openSource(*fSource)
	if err != nil {
		lg.Fatal().Err(err).Msg("source")
	}

	opts := cache.Options{TTL: cs.TTL, Logger: logger.Named("cache")}
	if *fWarm {
		if opts.Persister, err = cs.Persister(ctx, st); err != nil {
			lg.Fatal().Err(err).Str("backend", cs.Backend).Msg("cache persister")
		}
	}
	c := cache.New(ctx, opts)
	if *fWarm {
		// a warm run always refetches the state level keys
		for _, k := range []string{domain.RecordsKey(state, *fYear), domain.StateKey(state), domain.NamesKey(state)} {
			c.Clear(ctx, k)
		}
	}
	svc := dsvc.New(c, src, *fYear)

	// warm fills records, summary and names in one pass; the reads below are cache hits
	if err := svc.Warm(ctx, state); err != nil {
		lg.Fatal().Err(err).Msg("aggregate")
	}
	recs, err := svc.Records(ctx, state)
	if err != nil {
		lg.Fatal().Err(err).Msg("records")
	}
	rep := report{RunID: runID, State: state, FinYear: *fYear, Districts: recs}

	if len(recs) > 0 {
		sum, err := svc.StateSummary(ctx, state)
		if err != nil {
			lg.Fatal().Err(err).Msg("summary")
		}
		rep.Summary = &sum
	} else {
		lg.Warn().Str("fin_year", *fYear).Msg("no districts matched")
	}

	if *fArchive {
		if st.CH == nil {
			lg.Fatal().Msg("-archive needs SERVICE_CLICKHOUSE_DBURL")
		}
		a := archive.New(st.CH, 0)
		if err := a.EnsureSchema(ctx); err != nil {
			lg.Fatal().Err(err).Msg("archive schema")
		}
		if rep.Archived, err = a.Write(ctx, runID, *fYear, recs); err != nil {
			lg.Fatal().Err(err).Msg("archive write")
		}
	}

	if err := writeReport(*fOut, rep); err != nil {
		lg.Fatal().Err(err).Msg("write report")
	}
	lg.Info().Int("districts", len(recs)).Int("cached", c.Len()).Bool("warm", *fWarm).Msg("ingest done")
}

func openSource(loc string) (domain.Source, error) {
	if loc == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "read stdin")
		}
		return source.Static(b), nil
	}
	cfg := config.New().Prefix("MGNREGA_")
	return source.Open(loc, cfg.MayDuration("SOURCE_TIMEOUT", source.DefaultTimeout), cfg.MayString("SOURCE_MIRROR_DIR", ""))
}

func writeReport(path string, rep report) error {
	var w io.Writer = os.Stdout
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func listRuns(ctx context.Context, st *store.Store, n int) {
	lg := logger.C(ctx)
	if st.CH == nil {
		lg.Fatal().Msg("-runs needs SERVICE_CLICKHOUSE_DBURL")
	}
	runs, err := archive.New(st.CH, 0).Runs(ctx, n)
	if err != nil {
		lg.Fatal().Err(err).Msg("list runs")
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(runs); err != nil {
		lg.Fatal().Err(err).Msg("write runs")
	}
}
