package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/mr1hm/iss-tracker/internal/observability"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

type nominatimResponse struct {
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
	Error       string            `json:"error"`
}

// Nominatim is a Resolver backed by the OpenStreetMap Nominatim reverse API.
type Nominatim struct {
	baseURL   string
	userAgent string
	zoom      int
	client    *http.Client
}

func NewNominatim(baseURL, userAgent string, timeout time.Duration) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &Nominatim{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		zoom:      15,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (n *Nominatim) ReverseGeocode(ctx context.Context, lat, lon float64) (*Place, error) {
	ctx, span := observability.StartSpan(ctx, "geocode.reverse",
		attribute.Float64("geo.lat", lat),
		attribute.Float64("geo.lon", lon),
	)
	defer span.End()

	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("zoom", strconv.Itoa(n.zoom))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("error doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, resp.Status)
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var data nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}

	// Nominatim answers 200 with an error field when nothing is at the point.
	if data.Error != "" || data.DisplayName == "" {
		span.SetAttributes(attribute.Bool("geo.found", false))
		return nil, nil
	}

	span.SetAttributes(attribute.Bool("geo.found", true))
	return &Place{
		DisplayName: data.DisplayName,
		Address:     data.Address,
	}, nil
}
