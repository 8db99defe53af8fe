package version

import (
	"testing"

	kit "mgnrega/internal/platform/testkit"
)

func TestInfo(t *testing.T) {
	if got := Info(); got.Service != "mgnrega-api" || got.Version != "dev" {
		t.Fatalf("info = %+v", got)
	}
	kit.Swap(t, &version, "v0.1.0")
	kit.Swap(t, &commit, "abc123")
	if got := For("mgnrega-ingest"); got.Service != "mgnrega-ingest" || got.Version != "v0.1.0" || got.Commit != "abc123" {
		t.Fatalf("for = %+v", got)
	}
}
