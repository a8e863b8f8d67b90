package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// StatusFor maps a business error kind to its HTTP status.
func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindState:
		return http.StatusUnprocessableEntity
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes a business error with its mapped status. It reports
// false for anything else so the caller can log and answer 500.
func FromError(c *gin.Context, err error) bool {
	var be BusinessError
	if !errors.As(err, &be) || be.Kind == KindUpstream {
		return false
	}

	Write(c, StatusFor(be.Kind), be.Code, MessageFor(be.Code))
	return true
}

var messages = map[string]string{
	"invalid_request":        "Dados inválidos.",
	"invalid_date":           "Data inválida.",
	"invalid_time":           "Horário inválido.",
	"invalid_date_or_time":   "Data ou hora inválida.",
	"invalid_time_range":     "O horário inicial deve ser anterior ao final.",
	"invalid_status":         "Status inválido.",
	"invalid_block_kind":     "Tipo de bloqueio inválido.",
	"invalid_recurrence":     "Recorrência inválida.",
	"invalid_weekday":        "Dia da semana inválido.",
	"duplicate_weekday":      "Dia da semana repetido.",
	"invalid_lunch":          "Intervalo de almoço inválido.",
	"invalid_price":          "Preço inválido.",
	"invalid_duration":       "Duração inválida.",
	"invalid_promotion":      "Promoção inválida.",
	"missing_customer":       "Nome e contato são obrigatórios.",
	"invalid_contact":        "Contato deve ser um telefone ou e-mail válido.",
	"off_grid_time":          "Horário fora da grade de agendamento.",
	"closed_day":             "Não há atendimento neste dia.",
	"closed":                 "O serviço ultrapassa o horário de funcionamento.",
	"past":                   "Horário já passou.",
	"lunch":                  "Horário de almoço.",
	"blocked":                "Horário bloqueado.",
	"busy":                   "Horário já ocupado.",
	"procedure_not_found":    "Serviço não encontrado.",
	"procedure_inactive":     "Serviço indisponível.",
	"booking_not_found":      "Agendamento não encontrado.",
	"block_not_found":        "Bloqueio não encontrado.",
	"invalid_transition":     "Transição de status não permitida.",
	"booking_in_future":      "Agendamento futuro não pode ser concluído.",
	"booking_finalized":      "Agendamento já finalizado.",
	"forbidden":              "Acesso negado.",
	"manual_price_forbidden": "Apenas a equipe pode definir preço manual.",
	CodeTimeConflict:         "Conflito de horário.",
	CodeSlotTakenConcurrency: "Horário acabou de ser reservado. Atualize os horários disponíveis.",
}

func MessageFor(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return "Não foi possível concluir a operação."
}
