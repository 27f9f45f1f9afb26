package ginserver

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"loftcal/internal/app/commands"
	"loftcal/internal/app/dto"
	availabilityapp "loftcal/internal/app/handlers/availability"
	"loftcal/internal/app/queries"
)

const IdempotencyHeader = "Idempotency-Key"

type AvailabilityHandler struct {
	Queries  queries.Bus
	Commands commands.Bus
	Logger   *slog.Logger
}

// Board renders every loft matching ?property_id=, ?owner_id= and ?zone_id=
// over ?from..?to.
func (h AvailabilityHandler) Board(c *gin.Context) {
	query := availabilityapp.GetAvailabilityQuery{
		PropertyIDs: propertyIDs(c),
		OwnerID:     strings.TrimSpace(c.Query("owner_id")),
		ZoneID:      strings.TrimSpace(c.Query("zone_id")),
		From:        c.Query("from"),
		To:          c.Query("to"),
		Locale:      requestLocale(c),
	}
	result, err := queries.Ask[availabilityapp.GetAvailabilityQuery, dto.AvailabilityBoard](c.Request.Context(), h.Queries, query)
	if err != nil {
		handleError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AvailabilityHandler) Calendar(c *gin.Context) {
	query := availabilityapp.GetLoftCalendarQuery{
		PropertyID: c.Param("id"),
		From:       c.Query("from"),
		To:         c.Query("to"),
		Locale:     requestLocale(c),
	}
	result, err := queries.Ask[availabilityapp.GetLoftCalendarQuery, dto.LoftCalendar](c.Request.Context(), h.Queries, query)
	if err != nil {
		handleError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type exportRequest struct {
	PropertyIDs []string `json:"property_ids"`
	OwnerID     string   `json:"owner_id"`
	ZoneID      string   `json:"zone_id"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	Locale      string   `json:"locale"`
}

func (h AvailabilityHandler) Export(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(c, h.Logger, http.StatusBadRequest, err)
		return
	}
	locale := strings.TrimSpace(req.Locale)
	if locale == "" {
		locale = requestLocale(c)
	}
	cmd := availabilityapp.ExportAvailabilityCommand{
		PropertyIDs: req.PropertyIDs,
		OwnerID:     strings.TrimSpace(req.OwnerID),
		ZoneID:      strings.TrimSpace(req.ZoneID),
		From:        req.From,
		To:          req.To,
		Locale:      locale,
		RequestKey:  strings.TrimSpace(c.GetHeader(IdempotencyHeader)),
	}
	result, err := commands.Dispatch[availabilityapp.ExportAvailabilityCommand, dto.ExportResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		handleError(c, h.Logger, err)
		return
	}
	c.Header("Location", result.URL)
	c.JSON(http.StatusCreated, result)
}

// propertyIDs accepts repeated and comma separated property_id values.
func propertyIDs(c *gin.Context) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, raw := range c.QueryArray("property_id") {
		for _, part := range strings.Split(raw, ",") {
			id := strings.TrimSpace(part)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// requestLocale prefers ?locale= over Accept-Language. Negotiation happens in the app layer.
func requestLocale(c *gin.Context) string {
	if v := strings.TrimSpace(c.Query("locale")); v != "" {
		return v
	}
	return c.GetHeader("Accept-Language")
}

var _ AvailabilityHTTP = AvailabilityHandler{}
