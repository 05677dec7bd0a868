package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/iss-tracker/internal/ephemeris"
	"github.com/mr1hm/iss-tracker/internal/geocode"
	"github.com/mr1hm/iss-tracker/internal/geometry"
	"github.com/mr1hm/iss-tracker/internal/ingestion"
	"github.com/mr1hm/iss-tracker/internal/models"
	"github.com/mr1hm/iss-tracker/internal/observability"
)

const (
	msgNotFound = "State vector not found for the given epoch"
	msgNoData   = "No ephemeris data available"
)

// StoreProvider hands out the store to serve for one request.
// *ingestion.Manager implements it.
type StoreProvider interface {
	Store() *ephemeris.Store
}

type Options struct {
	Resolver       geocode.Resolver
	GeocodeTimeout time.Duration
	Metrics        *observability.Collector
	Now            func() time.Time
}

type Handler struct {
	stores         StoreProvider
	resolver       geocode.Resolver
	geocodeTimeout time.Duration
	metrics        *observability.Collector
	now            func() time.Time
}

func NewHandler(stores StoreProvider, opts Options) *Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Handler{
		stores:         stores,
		resolver:       opts.Resolver,
		geocodeTimeout: opts.GeocodeTimeout,
		metrics:        opts.Metrics,
		now:            opts.Now,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/epochs", h.getEpochs)
	r.GET("/epochs/:epoch", h.getStateVector)
	r.GET("/epochs/:epoch/speed", h.getSpeed)
	r.GET("/epochs/:epoch/location", h.getLocation)
	r.GET("/now", h.getNow)
	r.GET("/comment", h.getComments)
	r.GET("/header", h.getHeader)
	r.GET("/metadata", h.getMetadata)
	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
}

func (h *Handler) getEpochs(c *gin.Context) {
	store := h.stores.Store()
	if store.Len() == 0 {
		c.String(http.StatusServiceUnavailable, msgNoData+"\n")
		return
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		c.String(http.StatusBadRequest, "offset must be an integer\n")
		return
	}
	limit := store.DefaultLimit(offset)
	if l, ok := c.GetQuery("limit"); ok {
		if limit, err = strconv.Atoi(l); err != nil {
			c.String(http.StatusBadRequest, "limit must be an integer\n")
			return
		}
	}

	states, err := store.Slice(offset, limit)
	if err != nil {
		var re *ephemeris.RangeError
		if errors.As(err, &re) {
			slog.Warn("epoch range rejected", "request_id", RequestID(c), "kind", re.Kind.String(), "offset", offset, "limit", limit)
			c.String(http.StatusBadRequest, re.Error()+"\n")
			return
		}
		c.String(http.StatusInternalServerError, "failed to list epochs\n")
		return
	}

	c.String(http.StatusOK, formatEpochs(states))
}

// lookup resolves the :epoch path parameter, writing a 404 when it is absent.
func (h *Handler) lookup(c *gin.Context, asJSON bool) (models.StateVector, bool) {
	ts := c.Param("epoch")
	sv, err := h.stores.Store().FindByTimestamp(ts)
	if err != nil {
		slog.Error("state vector not found", "request_id", RequestID(c), "epoch", ts)
		if asJSON {
			c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		} else {
			c.String(http.StatusNotFound, msgNotFound+"\n")
		}
		return models.StateVector{}, false
	}
	return sv, true
}

func (h *Handler) getStateVector(c *gin.Context) {
	sv, ok := h.lookup(c, false)
	if !ok {
		return
	}
	c.String(http.StatusOK, formatStateVector(sv))
}

func (h *Handler) getSpeed(c *gin.Context) {
	sv, ok := h.lookup(c, false)
	if !ok {
		return
	}
	c.String(http.StatusOK, formatSpeed(geometry.Speed(sv.Velocity)))
}

func (h *Handler) getLocation(c *gin.Context) {
	sv, ok := h.lookup(c, true)
	if !ok {
		return
	}

	loc, err := h.locate(c.Request.Context(), sv)
	if err != nil {
		slog.Error("error computing location", "request_id", RequestID(c), "epoch", sv.Timestamp, "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loc)
}

func (h *Handler) getNow(c *gin.Context) {
	sv, err := h.stores.Store().FindNearest(h.now())
	if err != nil {
		c.String(http.StatusServiceUnavailable, msgNoData+"\n")
		return
	}

	loc, err := h.locate(c.Request.Context(), sv)
	if err != nil {
		slog.Warn("error computing location", "request_id", RequestID(c), "epoch", sv.Timestamp, "error", err)
		loc = nil
	}
	c.String(http.StatusOK, formatNow(sv, geometry.Speed(sv.Velocity), loc))
}

func (h *Handler) locate(ctx context.Context, sv models.StateVector) (*models.Location, error) {
	pt, err := geometry.SubSatellitePoint(sv.Position, sv.Timestamp)
	if err != nil {
		return nil, err
	}
	geo := geometry.Geodetic(sv.Position, sv.Epoch)

	return &models.Location{
		Latitude:    pt.Latitude,
		Longitude:   pt.Longitude,
		Altitude:    pt.Altitude,
		Geolocation: geocode.Describe(ctx, h.resolver, pt.Latitude, pt.Longitude, h.geocodeTimeout, h.metrics),
		Geodetic: &models.Coordinates{
			Latitude:  geo.Latitude,
			Longitude: geo.Longitude,
			Altitude:  geo.Altitude,
		},
	}, nil
}

func (h *Handler) getComments(c *gin.Context) {
	c.JSON(http.StatusOK, h.stores.Store().Document().Comments)
}

func (h *Handler) getHeader(c *gin.Context) {
	c.JSON(http.StatusOK, h.stores.Store().Document().Header)
}

func (h *Handler) getMetadata(c *gin.Context) {
	c.JSON(http.StatusOK, h.stores.Store().Document().Metadata)
}

func (h *Handler) health(c *gin.Context) {
	resp := gin.H{
		"status": "ok",
		"states": h.stores.Store().Len(),
	}
	if lr, ok := h.stores.(interface{ LastResult() *ingestion.Result }); ok {
		if res := lr.LastResult(); res != nil {
			resp["outcome"] = res.Outcome.String()
			resp["loaded_at"] = res.LoadedAt.UTC().Format(time.RFC3339)
			if !res.OK() {
				resp["status"] = "degraded"
			}
		}
	}
	c.JSON(http.StatusOK, resp)
}
