package repokit

import (
	"context"
	"time"

	perr "mgnrega/internal/platform/errors"
)

// DefaultGuardTimeout bounds Guard when ctx carries no deadline
const DefaultGuardTimeout = 5 * time.Second

type guarder interface {
	Guard(context.Context) error
}

// Guard pings every opened backend, an unset backend is not an error
func Guard(ctx context.Context, st guarder) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultGuardTimeout)
		defer cancel()
	}
	if err := st.Guard(ctx); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "dependency guard failed")
	}
	return nil
}

// MustGuard is Guard for server startup, a bad url fails fast
func MustGuard(ctx context.Context, st guarder) {
	if err := Guard(ctx, st); err != nil {
		panic(err)
	}
}
