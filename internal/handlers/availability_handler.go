package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/httpresp"
	"github.com/BruksfildServices01/agenda-engine/internal/usecase/booking"
)

type AvailabilityHandler struct {
	availability *booking.GetAvailability
	log          *zap.Logger
}

func NewAvailabilityHandler(
	availability *booking.GetAvailability,
	log *zap.Logger,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		availability: availability,
		log:          log,
	}
}

type availabilitySummary struct {
	Reason schedule.Summary `json:"reason"`
}

type AvailabilityResponse struct {
	Date            string              `json:"date"`
	ProcedureID     uint                `json:"procedure_id"`
	DurationMinutes int                 `json:"duration_minutes"`
	Slots           []schedule.Slot     `json:"slots"`
	Summary         availabilitySummary `json:"summary"`
}

// Get serves GET /availability?date=YYYY-MM-DD&procedure_id=&exclude_booking_id=
func (h *AvailabilityHandler) Get(c *gin.Context) {
	date := c.Query("date")
	if date == "" || c.Query("procedure_id") == "" {
		httperr.BadRequest(c, "missing_params", "Data e serviço obrigatórios.")
		return
	}

	procedureID, ok := optionalUintQuery(c, "procedure_id")
	if !ok {
		return
	}
	excludeID, ok := optionalUintQuery(c, "exclude_booking_id")
	if !ok {
		return
	}

	res, err := h.availability.Execute(c.Request.Context(), booking.AvailabilityInput{
		Date:             date,
		ProcedureID:      procedureID,
		ExcludeBookingID: excludeID,
	})
	if err != nil {
		writeError(c, h.log, err, "availability_failed", "Erro ao calcular horários.")
		return
	}

	slots := res.Slots
	if slots == nil {
		slots = []schedule.Slot{}
	}

	httpresp.OK(c, AvailabilityResponse{
		Date:            res.Date,
		ProcedureID:     res.ProcedureID,
		DurationMinutes: res.DurationMinutes,
		Slots:           slots,
		Summary:         availabilitySummary{Reason: res.Summary},
	})
}
