package nse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/surgescan/backend/internal/contracts"
	"github.com/surgescan/backend/pkg/httputil"
	"github.com/surgescan/backend/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, ttl time.Duration) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(httputil.New(logger.Nop()).DisableRetry(), logger.Nop(), srv.URL, ttl)
	return c, srv
}

func TestFetchDeliveryPercent(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbol"); got != "TCS" {
			t.Errorf("symbol = %q, want TCS", got)
		}
		w.Write([]byte(`{"securityWiseDP": {"deliveryToTradedQuantity": 43.52, "quantityTraded": 1000, "deliveryQuantity": 435}}`))
	}, time.Minute)

	got := c.FetchDeliveryPercent(context.Background(), "TCS")
	if got != 43.52 {
		t.Errorf("FetchDeliveryPercent() = %v, want 43.52", got)
	}
}

func TestFetchDeliveryPercentDerivedFromQuantities(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"securityWiseDP": {"quantityTraded": 2000, "deliveryQuantity": 500}}`))
	}, time.Minute)

	got := c.FetchDeliveryPercent(context.Background(), "SBIN")
	if got != 25.0 {
		t.Errorf("FetchDeliveryPercent() = %v, want 25.0", got)
	}
}

func TestFetchDeliveryPercentUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"server error",
			func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusForbidden) },
		},
		{
			"malformed body",
			func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("<html>blocked</html>")) },
		},
		{
			"missing fields",
			func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"securityWiseDP": {}}`)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, tt.handler, time.Minute)

			if got := c.FetchDeliveryPercent(context.Background(), "TCS"); got != contracts.DeliveryUnavailable {
				t.Errorf("FetchDeliveryPercent() = %v, want %v", got, contracts.DeliveryUnavailable)
			}
		})
	}
}

func TestFetchDeliveryPercentCaches(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"securityWiseDP": {"deliveryToTradedQuantity": 60.0}}`))
	}, time.Minute)

	ctx := context.Background()
	c.FetchDeliveryPercent(ctx, "TCS")
	c.FetchDeliveryPercent(ctx, "TCS")

	if calls.Load() != 1 {
		t.Errorf("upstream calls = %d, want 1 (second call cached)", calls.Load())
	}

	// Different ticker misses the cache
	c.FetchDeliveryPercent(ctx, "INFY")
	if calls.Load() != 2 {
		t.Errorf("upstream calls = %d, want 2", calls.Load())
	}
}

func TestFetchDeliveryPercentFailureNotCached(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, time.Minute)

	ctx := context.Background()
	c.FetchDeliveryPercent(ctx, "TCS")
	c.FetchDeliveryPercent(ctx, "TCS")

	if calls.Load() != 2 {
		t.Errorf("upstream calls = %d, want 2 (failures are not cached)", calls.Load())
	}
}
