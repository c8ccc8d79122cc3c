package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/TayDa64/CryptoEmpire/internal/config"
	"github.com/TayDa64/CryptoEmpire/internal/game"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := game.NewService(logger, nil, 0)
	s := New(config.APIConfig{}, logger, svc, nil)
	s.subscribeDelay = time.Millisecond
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeState(t *testing.T, resp *http.Response) game.State {
	t.Helper()
	var st game.State
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return st
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestGetState(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/state")
	if err != nil {
		t.Fatalf("GET /v1/state: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	st := decodeState(t, resp)
	if st.Funds != 10000 || len(st.Assets) != 7 {
		t.Fatalf("unexpected state: funds=%v assets=%d", st.Funds, len(st.Assets))
	}
}

func TestAssetDetail(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/assets/btc")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out struct {
		Asset  game.Asset `json:"asset"`
		Series []any      `json:"series"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Asset.ID != "btc" || out.Asset.Price != 30000 {
		t.Fatalf("asset = %+v", out.Asset)
	}

	resp2, err := http.Get(ts.URL + "/v1/assets/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown asset status = %d", resp2.StatusCode)
	}
}

func TestTradeFlow(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/v1/asset/select", `{"id":"eth"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("select status = %d", resp.StatusCode)
	}

	resp = postJSON(t, ts, "/v1/trade/quantity", `{"quantity":2}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("quantity status = %d", resp.StatusCode)
	}

	resp = postJSON(t, ts, "/v1/trade", `{"side":"buy"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("trade status = %d", resp.StatusCode)
	}
	st := decodeState(t, resp)
	if st.Funds != 6000 {
		t.Fatalf("funds = %v, want 6000", st.Funds)
	}
	if st.TotalTrades != 1 {
		t.Fatalf("total trades = %d", st.TotalTrades)
	}
}

func TestTradeRejections(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/v1/trade", `{"side":"hold"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad side status = %d", resp.StatusCode)
	}

	resp = postJSON(t, ts, "/v1/trade", `{"side":"buy"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("no selection status = %d", resp.StatusCode)
	}

	resp = postJSON(t, ts, "/v1/asset/select", `{"id":"btc"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("select status = %d", resp.StatusCode)
	}
	resp = postJSON(t, ts, "/v1/trade/quantity", `{"quantity":5}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("quantity status = %d", resp.StatusCode)
	}
	resp = postJSON(t, ts, "/v1/trade", `{"side":"buy"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("insufficient funds status = %d", resp.StatusCode)
	}
}

func TestSelectLocationEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/v1/location", `{"id":"market3"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	st := decodeState(t, resp)
	if st.CurrentLocation.ID != "market3" {
		t.Fatalf("location = %q", st.CurrentLocation.ID)
	}

	resp = postJSON(t, ts, "/v1/location", `{"id":"nowhere"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown location status = %d", resp.StatusCode)
	}
}

func TestCraftEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/v1/craft", `{"asset_id":"miningRig"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing ingredients status = %d", resp.StatusCode)
	}
	resp = postJSON(t, ts, "/v1/craft", `{"asset_id":"btc"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-craftable status = %d", resp.StatusCode)
	}
}

func TestStartMiningEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/v1/mining/start", `{"asset_id":"gpu"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	st := decodeState(t, resp)
	if len(st.MiningOperations) != 1 || st.MiningOperations[0].AssetID != "gpu" {
		t.Fatalf("operations = %+v", st.MiningOperations)
	}

	resp = postJSON(t, ts, "/v1/mining/start", `{"asset_id":"eth"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unminable status = %d", resp.StatusCode)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts, "/v1/asset/select", `{"id":"btc","bogus":1}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSubscribe(t *testing.T) {
	ts := newTestServer(t)

	post := func(form url.Values) (bool, string) {
		resp, err := http.PostForm(ts.URL+"/v1/subscribe", form)
		if err != nil {
			t.Fatalf("POST subscribe: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		var out struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return out.Success, out.Message
	}

	if ok, msg := post(url.Values{}); ok || msg != "Email is required" {
		t.Fatalf("empty form = %v %q", ok, msg)
	}
	if ok, msg := post(url.Values{"email": {"miner@example.com"}}); !ok || msg != "Email miner@example.com submitted successfully!" {
		t.Fatalf("valid form = %v %q", ok, msg)
	}
}
