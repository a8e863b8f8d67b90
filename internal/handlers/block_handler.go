package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/httpresp"
	"github.com/BruksfildServices01/agenda-engine/internal/middleware"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/usecase/block"
)

type BlockHandler struct {
	create *block.CreateBlock
	list   *block.ListBlocks
	remove *block.DeleteBlock
	log    *zap.Logger
}

func NewBlockHandler(
	create *block.CreateBlock,
	list *block.ListBlocks,
	remove *block.DeleteBlock,
	log *zap.Logger,
) *BlockHandler {
	return &BlockHandler{
		create: create,
		list:   list,
		remove: remove,
		log:    log,
	}
}

// --------- Requests ---------

type CreateBlockRequest struct {
	Date              string `json:"date" binding:"required"`
	StartTime         string `json:"start_time" binding:"required"`
	EndTime           string `json:"end_time" binding:"required"`
	Kind              string `json:"kind"`
	Reason            string `json:"reason"`
	Recurrence        string `json:"recurrence"`
	RecurrenceEndDate string `json:"recurrence_end_date"`
}

// --------- Handlers ---------

func (h *BlockHandler) Create(c *gin.Context) {
	var req CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c)
		return
	}

	res, err := h.create.Execute(c.Request.Context(), block.CreateBlockInput{
		Actor:             middleware.ActorFrom(c),
		Date:              req.Date,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Kind:              models.BlockKind(req.Kind),
		Reason:            req.Reason,
		Recurrence:        schedule.Recurrence(req.Recurrence),
		RecurrenceEndDate: req.RecurrenceEndDate,
	})

	var partial *block.PartialInsertError
	if errors.As(err, &partial) {
		h.log.Error("partial block insert", zap.Int("created", partial.Created), zap.Error(partial.Err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error_code": "partial_block_insert",
			"message":    "Nem todos os bloqueios foram criados.",
			"count":      partial.Created,
			"requested":  partial.Requested,
			"series_id":  res.SeriesID,
		})
		return
	}
	if err != nil {
		writeError(c, h.log, err, "failed_to_create_block", "Erro ao criar bloqueio.")
		return
	}

	httpresp.Created(c, res)
}

func (h *BlockHandler) List(c *gin.Context) {
	blocks, err := h.list.Execute(c.Request.Context(), c.Query("date"))
	if err != nil {
		writeError(c, h.log, err, "failed_to_list_blocks", "Erro ao listar bloqueios.")
		return
	}

	httpresp.List(c, blocks)
}

func (h *BlockHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		writeError(c, h.log, err, "failed_to_delete_block", "Erro ao excluir bloqueio.")
		return
	}

	c.Status(http.StatusNoContent)
}

