package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-engine/internal/httpresp"
	"github.com/BruksfildServices01/agenda-engine/internal/middleware"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/usecase/procedure"
)

type ProcedureHandler struct {
	list   *procedure.List
	get    *procedure.Get
	create *procedure.Create
	update *procedure.Update
	promo  *procedure.GetPromotionStatus
	log    *zap.Logger
}

type ProcedureUseCases struct {
	List            *procedure.List
	Get             *procedure.Get
	Create          *procedure.Create
	Update          *procedure.Update
	PromotionStatus *procedure.GetPromotionStatus
}

func NewProcedureHandler(uc ProcedureUseCases, log *zap.Logger) *ProcedureHandler {
	return &ProcedureHandler{
		list:   uc.List,
		get:    uc.Get,
		create: uc.Create,
		update: uc.Update,
		promo:  uc.PromotionStatus,
		log:    log,
	}
}

// --------- Requests ---------

type PromotionRequest struct {
	Price     decimal.Decimal `json:"promo_price"`
	StartDate *string         `json:"promo_start_date"`
	EndDate   *string         `json:"promo_end_date"`
	Slots     *int            `json:"promo_slots"`
	Type      string          `json:"promo_type"`
}

func (r *PromotionRequest) input() *procedure.PromotionInput {
	if r == nil {
		return nil
	}
	return &procedure.PromotionInput{
		Price:     r.Price,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Slots:     r.Slots,
		Type:      models.PromoType(strings.ToLower(r.Type)),
	}
}

type CreateProcedureRequest struct {
	Name            string            `json:"name" binding:"required"`
	Description     string            `json:"description"`
	DurationMinutes int               `json:"duration_minutes" binding:"required,min=1"`
	Price           decimal.Decimal   `json:"price"`
	Active          *bool             `json:"active"`
	Promotion       *PromotionRequest `json:"promotion"`
}

type UpdateProcedureRequest struct {
	Name            *string           `json:"name,omitempty"`
	Description     *string           `json:"description,omitempty"`
	DurationMinutes *int              `json:"duration_minutes,omitempty"`
	Price           *decimal.Decimal  `json:"price,omitempty"`
	Active          *bool             `json:"active,omitempty"`
	Promotion       *PromotionRequest `json:"promotion,omitempty"`
	ClearPromotion  bool              `json:"clear_promotion"`
}

// --------- Handlers ---------

func (h *ProcedureHandler) ListPublic(c *gin.Context) {
	h.respondList(c, true)
}

// List accepts ?active=true to hide inactive services.
func (h *ProcedureHandler) List(c *gin.Context) {
	h.respondList(c, strings.TrimSpace(c.Query("active")) == "true")
}

func (h *ProcedureHandler) respondList(c *gin.Context, onlyActive bool) {
	procedures, err := h.list.Execute(c.Request.Context(), onlyActive)
	if err != nil {
		writeError(c, h.log, err, "failed_to_list_procedures", "Erro ao listar serviços.")
		return
	}

	httpresp.List(c, procedures)
}

func (h *ProcedureHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	p, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err, "failed_to_get_procedure", "Erro ao carregar serviço.")
		return
	}

	httpresp.OK(c, p)
}

func (h *ProcedureHandler) Create(c *gin.Context) {
	var req CreateProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c)
		return
	}

	p, err := h.create.Execute(c.Request.Context(), procedure.CreateInput{
		Actor:           middleware.ActorFrom(c),
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Active:          req.Active,
		Promotion:       req.Promotion.input(),
	})
	if err != nil {
		writeError(c, h.log, err, "failed_to_create_procedure", "Erro ao criar serviço.")
		return
	}

	httpresp.Created(c, p)
}

func (h *ProcedureHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c)
		return
	}

	p, err := h.update.Execute(c.Request.Context(), procedure.UpdateInput{
		Actor:           middleware.ActorFrom(c),
		ID:              id,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Active:          req.Active,
		Promotion:       req.Promotion.input(),
		ClearPromotion:  req.ClearPromotion,
	})
	if err != nil {
		writeError(c, h.log, err, "failed_to_update_procedure", "Erro ao atualizar serviço.")
		return
	}

	httpresp.OK(c, p)
}

func (h *ProcedureHandler) Promotion(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	st, err := h.promo.Execute(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err, "failed_to_get_promotion", "Erro ao consultar promoção.")
		return
	}

	httpresp.OK(c, st)
}
