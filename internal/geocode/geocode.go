package geocode

import (
	"context"
	"log/slog"
	"time"

	"github.com/mr1hm/iss-tracker/internal/observability"
)

// OceanSentinel is reported whenever no place can be resolved.
const OceanSentinel = "No location data, ISS is likely over the ocean"

type Place struct {
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address,omitempty"`
}

// Resolver looks up the place under a coordinate. A nil Place with a nil
// error means the coordinate has no place, usually open ocean.
type Resolver interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (*Place, error)
}

// Describe resolves lat/lon to a display string within timeout. It never
// fails: a missing resolver, an error, a timeout or an empty result all
// produce OceanSentinel.
func Describe(ctx context.Context, r Resolver, lat, lon float64, timeout time.Duration, metrics *observability.Collector) string {
	if r == nil {
		metrics.ObserveGeocode("disabled")
		return OceanSentinel
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	place, err := r.ReverseGeocode(ctx, lat, lon)
	switch {
	case err != nil:
		slog.Warn("reverse geocode failed", "lat", lat, "lon", lon, "error", err)
		metrics.ObserveGeocode("error")
		return OceanSentinel
	case place == nil || place.DisplayName == "":
		metrics.ObserveGeocode("none")
		return OceanSentinel
	default:
		metrics.ObserveGeocode("found")
		return place.DisplayName
	}
}
