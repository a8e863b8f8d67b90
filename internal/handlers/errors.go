package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/middleware"
)

// writeError answers business errors with their mapped status and
// everything else with a logged 500 carrying code.
func writeError(c *gin.Context, log *zap.Logger, err error, code, message string) {
	if httperr.FromError(c, err) {
		return
	}

	log.Error(code,
		zap.String("request_id", middleware.RequestIDFrom(c)),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	httperr.Internal(c, code, message)
}

func bindError(c *gin.Context) {
	httperr.BadRequest(c, "invalid_request", httperr.MessageFor("invalid_request"))
}

// idParam parses a positive numeric path parameter.
func idParam(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(n), true
}

// optionalUintQuery returns 0 when the parameter is absent.
func optionalUintQuery(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, httperr.MessageFor("invalid_request"))
		return 0, false
	}
	return uint(n), true
}
