package http

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/swopnil/Guardify/internal/core/domain"
	"github.com/swopnil/Guardify/internal/pkg/geospatial"
	"github.com/swopnil/Guardify/internal/pkg/metrics"
)

var validate = validator.New()

// ---- People ----

// PeopleHandler returns the latest people snapshot.
func PeopleHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		people := deps.People.Snapshot()

		resp := fiber.Map{
			"people": people,
			"count":  len(people),
		}
		if asOf := deps.People.AsOf(); !asOf.IsZero() {
			resp["as_of"] = asOf.UTC().Format(time.RFC3339)
		}

		// Positions go stale within a second; clients must not cache.
		c.Set("Cache-Control", "no-store")
		return c.JSON(resp)
	}
}

// NearbyPeopleHandler returns people within a radius of a point.
func NearbyPeopleHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryFloat("radius", 200)

		if radius <= 0 || radius > 10000 {
			return errBadRequest(c, "radius must be between 1 and 10000 meters")
		}
		center := domain.GeoPoint{Lat: lat, Lon: lon}
		if err := domain.ValidatePoint(center); err != nil {
			return errBadRequest(c, err.Error())
		}

		people := deps.People.Near(center, radius)

		c.Set("Cache-Control", "no-store")
		return c.JSON(fiber.Map{
			"people": people,
			"count":  len(people),
		})
	}
}

// ---- Geofence ----

// GetFenceHandler returns the campus fence region.
func GetFenceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Geofence.Region())
	}
}

// UpdateFenceHandler replaces the campus fence region.
func UpdateFenceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var region domain.GeoRegion
		if err := c.BodyParser(&region); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		updated, err := deps.Geofence.UpdateRegion(region)
		if err != nil {
			return errFromDomain(c, err)
		}

		LoggerFromCtx(c.UserContext()).Info("campus fence updated",
			"center_lat", region.Center.Lat,
			"center_lon", region.Center.Lon)

		return c.JSON(fiber.Map{
			"updated": updated,
			"region":  deps.Geofence.Region(),
		})
	}
}

// FenceStatusHandler reports whether a point lies inside the fence.
func FenceStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		p := domain.GeoPoint{
			Lat: c.QueryFloat("lat", 0),
			Lon: c.QueryFloat("lon", 0),
		}
		if err := domain.ValidatePoint(p); err != nil {
			return errBadRequest(c, err.Error())
		}

		return c.JSON(fiber.Map{
			"inside":   deps.Geofence.Status(p),
			"position": p,
		})
	}
}

// ---- Route planning ----

type planRouteRequest struct {
	Origin      *domain.GeoPoint `json:"origin" validate:"required"`
	Destination *domain.GeoPoint `json:"destination" validate:"required"`
}

// PlanRoutesHandler fetches walking candidates between two points and ranks
// them by proximity to known people, safest first.
func PlanRoutesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req planRouteRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return errBadRequest(c, "origin and destination are required")
		}

		start := time.Now()
		scored, err := deps.Routes.PlanRoutes(c.UserContext(), *req.Origin, *req.Destination)
		if err != nil {
			return errFromDomain(c, err)
		}
		metrics.ScoringDuration.Observe(time.Since(start).Seconds())
		metrics.RoutesScored.Add(float64(len(scored)))

		return c.JSON(fiber.Map{
			"routes": scored,
			"count":  len(scored),
		})
	}
}

type scoreRoutesRequest struct {
	Routes []domain.RouteCandidate `json:"routes" validate:"required,min=1,max=10"`
}

// ScoreRoutesHandler scores caller-provided candidates against the current
// people snapshot without calling the directions provider.
func ScoreRoutesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req scoreRoutesRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return errBadRequest(c, "routes must contain 1 to 10 candidates")
		}

		scored, err := deps.Routes.ScoreAll(req.Routes, deps.People.Snapshot())
		if err != nil {
			return errFromDomain(c, err)
		}
		metrics.RoutesScored.Add(float64(len(scored)))

		return c.JSON(fiber.Map{
			"routes": scored,
			"count":  len(scored),
		})
	}
}

// ---- Navigation sessions ----

// StartNavigationHandler begins a navigation session for the posted route.
func StartNavigationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var route domain.RouteCandidate
		if err := c.BodyParser(&route); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		st, err := deps.Navigation.StartSession(route)
		if err != nil {
			return errFromDomain(c, err)
		}
		metrics.NavigationSessions.Set(float64(deps.Navigation.ActiveSessions()))

		LoggerFromCtx(c.UserContext()).Info("navigation session started",
			"session_id", st.SessionID,
			"route_meters", int(geospatial.PathMeters(route.Points)),
			"steps", len(route.Steps))

		return c.Status(201).JSON(st)
	}
}

// GetNavigationHandler returns the current state of a session.
func GetNavigationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := deps.Navigation.Get(c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		c.Set("Cache-Control", "no-store")
		return c.JSON(st)
	}
}

// UpdateLocationHandler records a position for a session and returns the
// refreshed status, including the nearest-step instruction.
func UpdateLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var pos domain.GeoPoint
		if err := c.BodyParser(&pos); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		st, err := deps.Navigation.UpdateLocation(c.UserContext(), c.Params("id"), pos)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(st)
	}
}

// StopNavigationHandler ends a session.
func StopNavigationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Navigation.Stop(c.Params("id")); err != nil {
			return errFromDomain(c, err)
		}
		metrics.NavigationSessions.Set(float64(deps.Navigation.ActiveSessions()))
		return c.SendStatus(204)
	}
}

// ---- Alerts ----

// ListAlertsHandler returns a page of alerts, newest first.
func ListAlertsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset, limit := pageParams(c, 50, 100)

		alerts, total, err := deps.Alerts.List(c.Context(), limit, offset)
		if err != nil {
			return errInternal(c, err.Error())
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: alerts, Pagination: pg})
	}
}

// GetAlertHandler returns a single alert by ID.
func GetAlertHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		alert, err := deps.Alerts.GetByID(c.Context(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(alert)
	}
}

type manualAlertRequest struct {
	Message  string           `json:"message" validate:"required"`
	Location *domain.GeoPoint `json:"location,omitempty"`
}

// CreateAlertHandler records a manually raised alert (SOS button).
func CreateAlertHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req manualAlertRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return errBadRequest(c, "message is required")
		}

		alert, err := deps.Alerts.Record(c.Context(), domain.AlertManual, req.Message, req.Location)
		if err != nil {
			return errFromDomain(c, err)
		}
		metrics.AlertsRecorded.WithLabelValues(string(alert.Kind)).Inc()

		return c.Status(201).JSON(alert)
	}
}

// AckAlertHandler marks an alert acknowledged.
func AckAlertHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := deps.Alerts.Acknowledge(c.Context(), id); err != nil {
			return errFromDomain(c, err)
		}

		alert, err := deps.Alerts.GetByID(c.Context(), id)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(alert)
	}
}

// AlertStats holds row counts from the safety tables.
type AlertStats struct {
	Alerts     int    `json:"alerts"`
	Unacked    int    `json:"unacked"`
	ChatTotal  int    `json:"chat_messages"`
	LastAlert  string `json:"last_alert,omitempty"`
	WindowHour int    `json:"alerts_last_hour"`
}

// AlertStatsHandler returns aggregate counts from the safety tables.
func AlertStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.DB == nil {
			return errInternal(c, "database not available")
		}

		var stats AlertStats
		row := deps.DB.Pool.QueryRow(c.Context(), `
			SELECT
				(SELECT count(*) FROM alerts),
				(SELECT count(*) FROM alerts WHERE NOT acknowledged),
				(SELECT count(*) FROM chat_messages),
				COALESCE((SELECT max(created_at)::text FROM alerts), ''),
				(SELECT count(*) FROM alerts WHERE created_at > now() - interval '1 hour')
		`)
		if err := row.Scan(&stats.Alerts, &stats.Unacked, &stats.ChatTotal,
			&stats.LastAlert, &stats.WindowHour); err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}

// ---- Chat ----

type chatRequest struct {
	Message string `json:"message" validate:"required"`
}

// ChatHandler proxies a message to the assistant. The response keeps the
// upstream wire shape: malicious is the string "true" or "false".
func ChatHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req chatRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return errBadRequest(c, "message is required")
		}

		ex, err := deps.Chat.Send(c.UserContext(), req.Message)
		if err != nil {
			return errInternal(c, err.Error())
		}

		malicious := "false"
		if ex.Malicious {
			malicious = "true"
			LoggerFromCtx(c.UserContext()).Warn("assistant flagged chat message", "exchange_id", ex.ID)
		}
		metrics.ChatExchanges.WithLabelValues(malicious).Inc()

		return c.JSON(fiber.Map{
			"bot_message": ex.BotText,
			"malicious":   malicious,
		})
	}
}

// ChatHistoryHandler returns past exchanges, newest first.
func ChatHistoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset, limit := pageParams(c, 50, 100)

		history, total, err := deps.Chat.History(c.Context(), limit, offset)
		if err != nil {
			return errInternal(c, err.Error())
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: history, Pagination: pg})
	}
}

// ---- Transcriptions ----

type transcriptionRequest struct {
	Transcription string           `json:"transcription" validate:"required"`
	Location      *domain.GeoPoint `json:"location,omitempty"`
}

// TranscriptionHandler ingests a voice-trigger transcription as an alert.
func TranscriptionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req transcriptionRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return errBadRequest(c, "transcription is required")
		}

		alert, err := deps.Transcriptions.Ingest(c.UserContext(), req.Transcription, req.Location)
		if err != nil {
			return errFromDomain(c, err)
		}
		metrics.AlertsRecorded.WithLabelValues(string(alert.Kind)).Inc()

		return c.Status(201).JSON(alert)
	}
}
