package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/fishcast/internal/astro"
	"github.com/i474232898/fishcast/internal/fishcast"
	"github.com/i474232898/fishcast/internal/geo"
	"github.com/i474232898/fishcast/internal/metrics"
)

var validate = validator.New()

// Predictor is the prediction surface the handlers need.
type Predictor interface {
	CalculateFishCast(ctx context.Context, lat, lon float64, at time.Time) fishcast.FishCastResult
	Calculate7DayOutlook(ctx context.Context, lat, lon float64) ([]fishcast.DailyOutlookEntry, error)
	AdjustScoreForSpecies(result fishcast.FishCastResult, species string, waterTemp *float64) fishcast.FishCastResult
}

// ErrorHandler renders every error as {error, message}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. A nil resolver
// disables city/country lookups.
func RegisterRoutes(app *fiber.App, service Predictor, resolver geo.Resolver, log logrus.FieldLogger) {
	if resolver == nil {
		resolver = geo.Disabled{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &handlers{service: service, resolver: resolver, log: log.WithField("component", "http")}

	app.Use(countRequests)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "fishcast",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/api/v1")
	v1.Get("/fishcast", h.fishcast)
	v1.Get("/outlook", h.outlook)
	v1.Get("/species", h.species)
	v1.Get("/scoring", h.scoring)
}

func countRequests(c *fiber.Ctx) error {
	err := c.Next()
	status := c.Response().StatusCode()
	if err != nil {
		status = fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			status = e.Code
		}
	}
	metrics.RequestCounter.WithLabelValues(c.Route().Path, c.Method(), strconv.Itoa(status)).Inc()
	return err
}

type handlers struct {
	service  Predictor
	resolver geo.Resolver
	log      logrus.FieldLogger
}

func (h *handlers) fishcast(c *fiber.Ctx) error {
	coord, err := h.coordinate(c)
	if err != nil {
		return err
	}

	var q fishcastQuery
	if err := q.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if q.Species != "" {
		if _, ok := fishcast.LookupSpecies(q.Species); !ok {
			return fiber.NewError(fiber.StatusBadRequest, "unknown species: "+q.Species)
		}
	}

	result := h.service.CalculateFishCast(c.UserContext(), coord.Latitude, coord.Longitude, q.At)
	if q.Species != "" {
		result = h.service.AdjustScoreForSpecies(result, q.Species, q.WaterTemp)
	}
	return c.JSON(result)
}

func (h *handlers) outlook(c *fiber.Ctx) error {
	coord, err := h.coordinate(c)
	if err != nil {
		return err
	}

	days, err := h.service.Calculate7DayOutlook(c.UserContext(), coord.Latitude, coord.Longitude)
	if err != nil {
		h.log.WithError(err).WithFields(logrus.Fields{"lat": coord.Latitude, "lon": coord.Longitude}).Warn("outlook failed")
		return fiber.NewError(fiber.StatusBadGateway, "weather forecast unavailable")
	}
	return c.JSON(fiber.Map{
		"coordinate": coord,
		"days":       days,
	})
}

func (h *handlers) species(c *fiber.Ctx) error {
	return c.JSON(fishcast.Species)
}

func (h *handlers) scoring(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"weights": fishcast.Weights,
		"bands":   fishcast.Bands,
		"labels":  fishcast.Labels,
	})
}

// coordinate reads lat/lon from the query, falling back to city/country
// through the geocoder.
func (h *handlers) coordinate(c *fiber.Ctx) (astro.Coordinate, error) {
	if c.Query("lat") == "" && c.Query("lon") == "" && c.Query("city") != "" {
		coord, err := h.resolver.Resolve(c.UserContext(), c.Query("city"), c.Query("country"))
		switch {
		case err == nil:
			return coord, nil
		case errors.Is(err, geo.ErrNotConfigured):
			return coord, fiber.NewError(fiber.StatusBadRequest, "city lookup is not enabled; use lat and lon")
		case errors.Is(err, geo.ErrNotFound):
			return coord, fiber.NewError(fiber.StatusNotFound, err.Error())
		default:
			h.log.WithError(err).Warn("geocoding failed")
			return coord, fiber.NewError(fiber.StatusBadGateway, "geocoding failed")
		}
	}

	var q coordinateQuery
	if err := q.bind(c); err != nil {
		return astro.Coordinate{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(q); err != nil {
		return astro.Coordinate{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return astro.Coordinate{Latitude: *q.Lat, Longitude: *q.Lon}, nil
}

// coordinateQuery holds the decimal-degree location parameters.
type coordinateQuery struct {
	Lat *float64 `validate:"required,gte=-90,lte=90"`
	Lon *float64 `validate:"required,gte=-180,lte=180"`
}

func (q *coordinateQuery) bind(c *fiber.Ctx) error {
	var err error
	if q.Lat, err = optionalFloat(c, "lat"); err != nil {
		return err
	}
	q.Lon, err = optionalFloat(c, "lon")
	return err
}

// fishcastQuery holds the optional parameters of the fishcast endpoint.
type fishcastQuery struct {
	At        time.Time
	Species   string   `validate:"omitempty,max=64"`
	WaterTemp *float64 `validate:"omitempty,gte=-5,lte=45"`
}

func (q *fishcastQuery) bind(c *fiber.Ctx) error {
	if s := c.Query("at"); s != "" {
		at, err := parseTime(s)
		if err != nil {
			return err
		}
		q.At = at
	}
	q.Species = c.Query("species")
	var err error
	q.WaterTemp, err = optionalFloat(c, "waterTemp")
	return err
}

func optionalFloat(c *fiber.Ctx, name string) (*float64, error) {
	s := c.Query(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.New(name + " must be a number")
	}
	return &v, nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
