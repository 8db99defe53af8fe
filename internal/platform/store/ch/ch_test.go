package ch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mgnrega/internal/platform/testkit"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

func TestBuildClientInfo(t *testing.T) {
	info := BuildClientInfo("", " ingest ")
	if len(info.Products) < 2 {
		t.Fatalf("products = %+v", info.Products)
	}
	if info.Products[0].Name != "mgnrega" || info.Products[0].Version != "ingest" {
		t.Fatalf("first product = %+v", info.Products[0])
	}
	if !strings.HasPrefix(info.Products[1].Version, "go") {
		t.Fatalf("go product = %+v", info.Products[1])
	}
}

func TestOpen_EmptyDSN(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "  "}); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
}

func TestOpen_DialErrorAndClientInfo(t *testing.T) {
	var seen *clickhouse.Options
	testkit.Swap(t, &dial, func(o *clickhouse.Options) (driver.Conn, error) {
		seen = o
		return nil, errors.New("no server")
	})

	_, err := Open(context.Background(), Config{URL: "clickhouse://default@localhost:9000/mgnrega", App: "mgnrega", Role: "ingest"})
	if err == nil || err.Error() != "no server" {
		t.Fatalf("err = %v", err)
	}
	if seen == nil || seen.Auth.Database != "mgnrega" {
		t.Fatalf("dsn not parsed: %+v", seen)
	}
	if seen.ClientInfo.Products[0].Version != "ingest" {
		t.Fatalf("client info not applied: %+v", seen.ClientInfo)
	}
}

func TestOpen_ParseError(t *testing.T) {
	testkit.Swap(t, &parseDSN, func(string) (*clickhouse.Options, error) { return nil, errors.New("bad dsn") })
	if _, err := Open(context.Background(), Config{URL: "x"}); err == nil {
		t.Fatalf("expected parse error")
	}
}
