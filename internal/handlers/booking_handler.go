package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/promotion"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/httpresp"
	"github.com/BruksfildServices01/agenda-engine/internal/middleware"
	"github.com/BruksfildServices01/agenda-engine/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create       *booking.CreateBooking
	updateStatus *booking.UpdateBookingStatus
	reschedule   *booking.RescheduleBooking
	remove       *booking.DeleteBooking
	byDate       *booking.ListBookingsByDate
	byMonth      *booking.ListBookingsByMonth
	mine         *booking.ListMyBookings
	log          *zap.Logger
}

type BookingUseCases struct {
	Create       *booking.CreateBooking
	UpdateStatus *booking.UpdateBookingStatus
	Reschedule   *booking.RescheduleBooking
	Delete       *booking.DeleteBooking
	ByDate       *booking.ListBookingsByDate
	ByMonth      *booking.ListBookingsByMonth
	Mine         *booking.ListMyBookings
}

func NewBookingHandler(uc BookingUseCases, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		create:       uc.Create,
		updateStatus: uc.UpdateStatus,
		reschedule:   uc.Reschedule,
		remove:       uc.Delete,
		byDate:       uc.ByDate,
		byMonth:      uc.ByMonth,
		mine:         uc.Mine,
		log:          log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	Name        string `json:"name" binding:"required"`
	Contact     string `json:"contact" binding:"required"`
	ProcedureID uint   `json:"procedure_id" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:mm

	// staff only
	Status      *string          `json:"status"`
	ManualPrice *decimal.Decimal `json:"manual_price"`
	AdminNotes  string           `json:"admin_notes"`
}

// PatchBookingRequest is a status change, or a reschedule when date and
// time are present.
type PatchBookingRequest struct {
	Status      *string `json:"status"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	ProcedureID *uint   `json:"procedure_id"`
	AdminNotes  *string `json:"admin_notes"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c)
		return
	}

	in := booking.CreateBookingInput{
		Actor:       middleware.ActorFrom(c),
		Name:        req.Name,
		Contact:     req.Contact,
		ProcedureID: req.ProcedureID,
		Date:        req.Date,
		Time:        req.Time,
		Pricing:     promotion.Automatic(),
		AdminNotes:  req.AdminNotes,
	}

	if req.Status != nil {
		st, err := domain.ParseStatus(*req.Status)
		if err != nil {
			writeError(c, h.log, err, "invalid_status", "")
			return
		}
		in.Status = &st
	}
	if req.ManualPrice != nil {
		in.Pricing = promotion.ManualOverride(*req.ManualPrice)
	}

	b, err := h.create.Execute(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.log, err, "failed_to_create_booking", "Erro ao criar agendamento.")
		return
	}

	httpresp.Created(c, b)
}

// ======================================================
// PATCH (status ou remarcação)
// ======================================================

func (h *BookingHandler) Patch(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req PatchBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c)
		return
	}

	var status *domain.Status
	if req.Status != nil {
		st, err := domain.ParseStatus(*req.Status)
		if err != nil {
			writeError(c, h.log, err, "invalid_status", "")
			return
		}
		status = &st
	}

	actor := middleware.ActorFrom(c)

	if req.Date != nil || req.Time != nil {
		if req.Date == nil || req.Time == nil {
			httperr.BadRequest(c, "invalid_date_or_time", httperr.MessageFor("invalid_date_or_time"))
			return
		}

		b, err := h.reschedule.Execute(c.Request.Context(), booking.RescheduleInput{
			Actor:       actor,
			BookingID:   id,
			Date:        *req.Date,
			Time:        *req.Time,
			ProcedureID: req.ProcedureID,
			Status:      status,
		})
		if err != nil {
			writeError(c, h.log, err, "failed_to_reschedule_booking", "Erro ao remarcar agendamento.")
			return
		}
		httpresp.OK(c, b)
		return
	}

	if status == nil {
		httperr.BadRequest(c, "invalid_status", httperr.MessageFor("invalid_status"))
		return
	}

	b, err := h.updateStatus.Execute(c.Request.Context(), booking.UpdateStatusInput{
		Actor:      actor,
		BookingID:  id,
		Status:     *status,
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		writeError(c, h.log, err, "failed_to_update_booking", "Erro ao atualizar agendamento.")
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// DELETE
// ======================================================

func (h *BookingHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		writeError(c, h.log, err, "failed_to_delete_booking", "Erro ao excluir agendamento.")
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// LISTS
// ======================================================

func (h *BookingHandler) ListByDate(c *gin.Context) {
	list, err := h.byDate.Execute(c.Request.Context(), c.Query("date"))
	if err != nil {
		writeError(c, h.log, err, "failed_to_list_bookings", "Erro ao listar agendamentos.")
		return
	}

	httpresp.List(c, list)
}

func (h *BookingHandler) ListByMonth(c *gin.Context) {
	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil {
		httperr.BadRequest(c, "invalid_date", httperr.MessageFor("invalid_date"))
		return
	}

	list, err := h.byMonth.Execute(c.Request.Context(), year, month)
	if err != nil {
		writeError(c, h.log, err, "failed_to_list_bookings", "Erro ao listar agendamentos.")
		return
	}

	httpresp.List(c, list)
}

func (h *BookingHandler) Mine(c *gin.Context) {
	list, err := h.mine.Execute(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		writeError(c, h.log, err, "failed_to_list_bookings", "Erro ao listar agendamentos.")
		return
	}

	httpresp.List(c, list)
}
