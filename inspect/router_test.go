package inspect

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/VinceNguyen000/blockchain-assignment1/ledger"
)

type note struct {
	Text string `json:"text"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestChain(t *testing.T, blocks int) *ledger.Chain[note] {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := ledger.NewChainWithGenesis(1, note{Text: "genesis"}, ledger.WithLogger(logger))
	if err != nil {
		t.Fatalf("failed to create chain: %v", err)
	}
	for i := 1; i <= blocks; i++ {
		b, err := ledger.NewBlock(i, int64(i), note{Text: "entry"})
		if err != nil {
			t.Fatalf("failed to create block: %v", err)
		}
		if err := c.Append(b); err != nil {
			t.Fatalf("failed to append block: %v", err)
		}
	}
	return c
}

func get(t *testing.T, r *Router, path string, out any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("GET %s: invalid JSON body %q: %v", path, rec.Body.String(), err)
		}
	}
	return rec.Code
}

func TestHealth(t *testing.T) {
	r := NewRouter(newTestChain(t, 0), slog.New(slog.NewTextHandler(io.Discard, nil)))

	var body map[string]string
	if code := get(t, r, "/health", &body); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["status"] != "ok" {
		t.Fatalf("unexpected body %v", body)
	}
}

// TestGetChain verifies the dump lists every block in order.
func TestGetChain(t *testing.T) {
	r := NewRouter(newTestChain(t, 2), nil)

	var snap ledger.Snapshot[note]
	if code := get(t, r, "/api/v1/chain", &snap); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(snap.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(snap.Blocks))
	}
	if snap.Blocks[0].Payload.Text != "genesis" {
		t.Fatalf("unexpected genesis payload %+v", snap.Blocks[0].Payload)
	}
	if snap.Blocks[2].PrevFingerprint != snap.Blocks[1].Fingerprint {
		t.Fatal("dump should preserve links")
	}
	if snap.Difficulty != 1 {
		t.Fatalf("expected difficulty 1, got %d", snap.Difficulty)
	}
}

func TestGetLatest(t *testing.T) {
	c := newTestChain(t, 2)
	r := NewRouter(c, nil)

	var b ledger.Block[note]
	if code := get(t, r, "/api/v1/chain/latest", &b); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if b.Index != 2 || b.Fingerprint != c.Latest().Fingerprint {
		t.Fatalf("unexpected latest block %+v", b)
	}
}

func TestGetBlock(t *testing.T) {
	r := NewRouter(newTestChain(t, 2), nil)

	tests := []struct {
		path string
		code int
	}{
		{"/api/v1/chain/blocks/0", http.StatusOK},
		{"/api/v1/chain/blocks/2", http.StatusOK},
		{"/api/v1/chain/blocks/3", http.StatusNotFound},
		{"/api/v1/chain/blocks/-1", http.StatusNotFound},
		{"/api/v1/chain/blocks/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if code := get(t, r, tt.path, nil); code != tt.code {
			t.Errorf("GET %s: expected %d, got %d", tt.path, tt.code, code)
		}
	}
}

// TestGetValidity verifies that tampering is reported with the offending index.
func TestGetValidity(t *testing.T) {
	c := newTestChain(t, 3)
	r := NewRouter(c, nil)

	var res Validity
	if code := get(t, r, "/api/v1/chain/validity", &res); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !res.Valid || res.Length != 4 || res.InvalidIndex != nil {
		t.Fatalf("fresh chain should be valid, got %+v", res)
	}

	b, err := c.Block(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b.Payload.Text = "forged"

	res = Validity{}
	get(t, r, "/api/v1/chain/validity", &res)
	if res.Valid {
		t.Fatal("tampered chain should be reported invalid")
	}
	if res.InvalidIndex == nil || *res.InvalidIndex != 2 {
		t.Fatalf("expected invalid index 2, got %+v", res)
	}
	if res.Error == "" {
		t.Fatal("expected an error message")
	}
}

// TestRoutesAreReadOnly verifies that the engine only registers GET routes.
func TestRoutesAreReadOnly(t *testing.T) {
	r := NewRouter(newTestChain(t, 0), slog.New(slog.NewTextHandler(io.Discard, nil)))

	want := map[string]bool{
		"/health":                     false,
		"/api/v1/chain":               false,
		"/api/v1/chain/latest":        false,
		"/api/v1/chain/validity":      false,
		"/api/v1/chain/blocks/:index": false,
	}
	for _, route := range r.Engine().Routes() {
		if route.Method != http.MethodGet {
			t.Fatalf("unexpected %s route %s", route.Method, route.Path)
		}
		if _, ok := want[route.Path]; !ok {
			t.Fatalf("unexpected route %s", route.Path)
		}
		want[route.Path] = true
	}
	for path, seen := range want {
		if !seen {
			t.Fatalf("route %s not registered", path)
		}
	}
}
