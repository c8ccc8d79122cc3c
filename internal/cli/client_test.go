package cli

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/TayDa64/CryptoEmpire/internal/api"
	"github.com/TayDa64/CryptoEmpire/internal/config"
	"github.com/TayDa64/CryptoEmpire/internal/game"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := game.NewService(logger, nil, 0)
	srv := api.New(config.APIConfig{}, logger, svc, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return NewClient(ts.URL + "/")
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	c := NewClient("http://empire.example:8080/")
	if c.BaseURL != "http://empire.example:8080" {
		t.Fatalf("base url = %q", c.BaseURL)
	}
}

func TestClientState(t *testing.T) {
	c := newTestClient(t)
	st, err := c.State(context.Background())
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if st.Funds != 10000 || len(st.Assets) != 7 {
		t.Fatalf("unexpected state: funds=%v assets=%d", st.Funds, len(st.Assets))
	}
}

func TestClientOrder(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	st, err := c.Order(ctx, "eth", "buy", 2)
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if st.Funds != 6000 || st.TotalTrades != 1 {
		t.Fatalf("funds=%v trades=%d after buy", st.Funds, st.TotalTrades)
	}

	if _, err := c.Order(ctx, "btc", "buy", 10); err == nil {
		t.Fatalf("expected error for unaffordable order")
	} else if !strings.Contains(err.Error(), "api status 400") {
		t.Fatalf("err = %v", err)
	}
}

func TestClientAssetDetail(t *testing.T) {
	c := newTestClient(t)
	detail, err := c.Asset(context.Background(), "btc")
	if err != nil {
		t.Fatalf("asset: %v", err)
	}
	if detail.Asset.ID != "btc" || detail.Asset.Price != 30000 {
		t.Fatalf("asset = %+v", detail.Asset)
	}

	if _, err := c.Asset(context.Background(), "nope"); err == nil {
		t.Fatalf("expected error for unknown asset")
	} else if !strings.Contains(err.Error(), "api status 404") {
		t.Fatalf("err = %v", err)
	}
}

func TestClientSelectLocation(t *testing.T) {
	c := newTestClient(t)
	st, err := c.SelectLocation(context.Background(), "market4")
	if err != nil {
		t.Fatalf("select location: %v", err)
	}
	if st.CurrentLocation.ID != "market4" {
		t.Fatalf("location = %q", st.CurrentLocation.ID)
	}
}

func TestClientStartMining(t *testing.T) {
	c := newTestClient(t)
	st, err := c.StartMining(context.Background(), "gpu")
	if err != nil {
		t.Fatalf("start mining: %v", err)
	}
	if len(st.MiningOperations) != 1 || st.MiningOperations[0].Duration != 60*time.Second {
		t.Fatalf("operations = %+v", st.MiningOperations)
	}
}
