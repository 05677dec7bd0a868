package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mr1hm/iss-tracker/internal/observability"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNominatim_ReverseGeocode(t *testing.T) {
	var gotUA, gotLat, gotFormat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLat = r.URL.Query().Get("lat")
		gotFormat = r.URL.Query().Get("format")
		if r.URL.Path != "/reverse" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"display_name":"Houston, Harris County, Texas, United States","address":{"city":"Houston","country_code":"us"}}`))
	}))
	defer srv.Close()

	n := NewNominatim(srv.URL+"/", "iss-tracker-test", time.Second)
	place, err := n.ReverseGeocode(context.Background(), 29.76, -95.37)
	if err != nil {
		t.Fatalf("ReverseGeocode failed: %v", err)
	}
	if place == nil || place.DisplayName != "Houston, Harris County, Texas, United States" {
		t.Fatalf("unexpected place: %+v", place)
	}
	if place.Address["country_code"] != "us" {
		t.Errorf("expected address to be decoded, got %v", place.Address)
	}
	if gotUA != "iss-tracker-test" {
		t.Errorf("expected user agent header, got %q", gotUA)
	}
	if gotLat != "29.76" || gotFormat != "jsonv2" {
		t.Errorf("unexpected query lat=%q format=%q", gotLat, gotFormat)
	}
}

func TestNominatim_NoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Unable to geocode"}`))
	}))
	defer srv.Close()

	place, err := NewNominatim(srv.URL, "", time.Second).ReverseGeocode(context.Background(), 0, -140)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if place != nil {
		t.Errorf("expected nil place over ocean, got %+v", place)
	}
}

func TestNominatim_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := NewNominatim(srv.URL, "", time.Second).ReverseGeocode(context.Background(), 0, 0); err == nil {
		t.Error("expected error for 429 response")
	}
}

type stubResolver struct {
	place *Place
	err   error
	delay time.Duration
}

func (s stubResolver) ReverseGeocode(ctx context.Context, lat, lon float64) (*Place, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	return s.place, s.err
}

func TestDescribe(t *testing.T) {
	metrics, err := observability.NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	tests := []struct {
		name     string
		resolver Resolver
		want     string
		result   string
	}{
		{"found", stubResolver{place: &Place{DisplayName: "Lima, Peru"}}, "Lima, Peru", "found"},
		{"ocean", stubResolver{}, OceanSentinel, "none"},
		{"error", stubResolver{err: errors.New("boom")}, OceanSentinel, "error"},
		{"timeout", stubResolver{place: &Place{DisplayName: "late"}, delay: time.Second}, OceanSentinel, "error"},
		{"disabled", nil, OceanSentinel, "disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(metrics.GeocodeResults.WithLabelValues(tt.result))
			got := Describe(context.Background(), tt.resolver, 1, 2, 20*time.Millisecond, metrics)
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if after := testutil.ToFloat64(metrics.GeocodeResults.WithLabelValues(tt.result)); after != before+1 {
				t.Errorf("expected %s counter to increment", tt.result)
			}
		})
	}
}
