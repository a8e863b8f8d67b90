package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db    *gorm.DB
	clock *timezone.Clock
}

func NewAuditLogsHandler(db *gorm.DB, clock *timezone.Clock) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, clock: clock}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	action := c.Query("action")
	entity := c.Query("entity")
	entityIDStr := c.Query("entity_id")
	userIDStr := c.Query("user_id")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := (page - 1) * limit

	q := h.db.WithContext(c.Request.Context()).Model(&models.AuditLog{})

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------

	if action != "" {
		q = q.Where("action = ?", action)
	}

	if entity != "" {
		q = q.Where("entity = ?", entity)
	}

	if entityIDStr != "" {
		if id, err := strconv.ParseUint(entityIDStr, 10, 64); err == nil {
			q = q.Where("entity_id = ?", id)
		}
	}

	if userIDStr != "" {
		if id, err := strconv.ParseUint(userIDStr, 10, 64); err == nil {
			q = q.Where("user_id = ?", id)
		}
	}

	// datas no fuso do negócio, "to" inclusivo
	if fromStr != "" {
		if from, err := h.clock.ParseDate(fromStr); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}

	if toStr != "" {
		if to, err := h.clock.ParseDate(toStr); err == nil {
			q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
		}
	}

	// --------------------------------------------------
	// Total
	// --------------------------------------------------

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	// --------------------------------------------------
	// Listagem
	// --------------------------------------------------

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
