package dto

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

type BookingListDTO struct {
	ID            uint            `json:"id"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	EndTime       string          `json:"end_time"`
	Status        string          `json:"status"`
	Name          string          `json:"name"`
	Contact       string          `json:"contact"`
	ProcedureID   uint            `json:"procedure_id"`
	ProcedureName string          `json:"procedure_name"`
	Price         decimal.Decimal `json:"price"`
	IsPromo       bool            `json:"is_promo"`
	AdminNotes    string          `json:"admin_notes,omitempty"`
}

func BookingList(bookings []models.Booking) []BookingListDTO {
	out := make([]BookingListDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingListDTO{
			ID:            b.ID,
			Date:          b.AppointmentDate,
			Time:          b.AppointmentTime,
			EndTime:       b.EndTime,
			Status:        b.Status,
			Name:          b.Name,
			Contact:       b.Contact,
			ProcedureID:   b.ProcedureID,
			ProcedureName: b.Procedure.Name,
			Price:         b.Price,
			IsPromo:       b.IsPromo,
			AdminNotes:    b.AdminNotes,
		})
	}
	return out
}
