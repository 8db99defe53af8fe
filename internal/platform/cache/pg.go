package cache

import (
	"context"
	"time"

	"mgnrega/internal/modkit/repokit"
	perr "mgnrega/internal/platform/errors"
	"mgnrega/internal/platform/store"

	sq "github.com/Masterminds/squirrel"
)

// pgTable holds one row per namespace
const pgTable = "cache_blobs"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PGPersister keeps the blob in a jsonb column
type PGPersister struct {
	db        repokit.TxRunner
	namespace string
	timeout   time.Duration
}

// NewPGPersister binds to db; an empty namespace uses DefaultNamespace
func NewPGPersister(db store.TxRunner, namespace string, stmtTimeout time.Duration) *PGPersister {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &PGPersister{
		db:        repokit.WithBeginHooks(db, repokit.StatementTimeout(stmtTimeout)),
		namespace: namespace,
		timeout:   stmtTimeout,
	}
}

// EnsureSchema creates the blob table when missing
func (p *PGPersister) EnsureSchema(ctx context.Context) error {
	_, err := p.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+pgTable+` (
		namespace  text PRIMARY KEY,
		payload    jsonb NOT NULL,
		updated_at timestamptz NOT NULL DEFAULT now()
	)`)
	return perr.FromPostgres(err, "create cache table")
}

// Load returns the payload row; a missing row or table is ErrNoBlob
func (p *PGPersister) Load(ctx context.Context) ([]byte, error) {
	sql, args, err := psql.Select("payload::text").
		From(pgTable).
		Where(sq.Eq{"namespace": p.namespace}).
		ToSql()
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "build cache select")
	}
	payload, err := store.Scalar[string](ctx, p.db, sql, args...)
	switch {
	case perr.IsNotFound(err), perr.IsUndefinedTable(err):
		return nil, ErrNoBlob
	case err != nil:
		return nil, perr.FromPostgres(err, "load cache blob")
	}
	return []byte(payload), nil
}

// Save upserts the payload row, retrying transient contention
func (p *PGPersister) Save(ctx context.Context, blob []byte) error {
	sql, args, err := psql.Insert(pgTable).
		Columns("namespace", "payload", "updated_at").
		Values(p.namespace, string(blob), sq.Expr("now()")).
		Suffix("ON CONFLICT (namespace) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "build cache upsert")
	}
	err = repokit.RetryTx(ctx, p.db, 3, func(q repokit.Queryer) error {
		_, err := q.Exec(ctx, sql, args...)
		return err
	})
	return perr.FromPostgres(err, "save cache blob")
}
