package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"loftcal/internal/app/commands"
	"loftcal/internal/app/dto"
	overridesapp "loftcal/internal/app/handlers/overrides"
)

// ActorHeader names the operator performing a write. Authentication happens
// in front of this service.
const ActorHeader = "X-Actor-ID"

type OverrideHandler struct {
	Commands commands.Bus
	Logger   *slog.Logger
}

type overrideRequest struct {
	IsAvailable bool   `json:"is_available"`
	Reason      string `json:"reason"`
}

func (h OverrideHandler) Set(c *gin.Context) {
	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, h.Logger, http.StatusBadRequest, err)
		return
	}
	cmd := overridesapp.SetOverrideCommand{
		PropertyID:  c.Param("id"),
		Date:        c.Param("date"),
		IsAvailable: req.IsAvailable,
		Reason:      req.Reason,
		Actor:       actor(c),
	}
	result, err := commands.Dispatch[overridesapp.SetOverrideCommand, dto.OverrideResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		handleError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OverrideHandler) Clear(c *gin.Context) {
	cmd := overridesapp.ClearOverrideCommand{
		PropertyID: c.Param("id"),
		Date:       c.Param("date"),
		Actor:      actor(c),
	}
	result, err := commands.Dispatch[overridesapp.ClearOverrideCommand, dto.OverrideResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		handleError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func actor(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(ActorHeader))
}

var _ OverrideHTTP = OverrideHandler{}
