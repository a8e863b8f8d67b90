package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-engine/internal/httpresp"
	"github.com/BruksfildServices01/agenda-engine/internal/middleware"
	"github.com/BruksfildServices01/agenda-engine/internal/usecase/schedule"
)

type ScheduleRuleHandler struct {
	list    *schedule.ListRules
	replace *schedule.ReplaceRules
	log     *zap.Logger
}

func NewScheduleRuleHandler(
	list *schedule.ListRules,
	replace *schedule.ReplaceRules,
	log *zap.Logger,
) *ScheduleRuleHandler {
	return &ScheduleRuleHandler{
		list:    list,
		replace: replace,
		log:     log,
	}
}

type ScheduleRuleConfig struct {
	Weekday    *int   `json:"weekday" binding:"required"`
	IsActive   bool   `json:"is_active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
}

type ScheduleRulesUpdateRequest struct {
	Days []ScheduleRuleConfig `json:"days" binding:"required,dive"`
}

// Get lists every weekday rule (staff view).
func (h *ScheduleRuleHandler) Get(c *gin.Context) {
	h.respond(c, false)
}

// GetPublic lists open weekdays only.
func (h *ScheduleRuleHandler) GetPublic(c *gin.Context) {
	h.respond(c, true)
}

func (h *ScheduleRuleHandler) respond(c *gin.Context, onlyActive bool) {
	rules, err := h.list.Execute(c.Request.Context(), onlyActive)
	if err != nil {
		writeError(c, h.log, err, "failed_to_get_schedule_rules", "Erro ao carregar horários.")
		return
	}

	httpresp.List(c, rules)
}

// Replace swaps the whole weekly template.
func (h *ScheduleRuleHandler) Replace(c *gin.Context) {
	var req ScheduleRulesUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c)
		return
	}

	in := make([]schedule.RuleInput, 0, len(req.Days))
	for _, d := range req.Days {
		in = append(in, schedule.RuleInput{
			Weekday:    *d.Weekday,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			LunchStart: d.LunchStart,
			LunchEnd:   d.LunchEnd,
			IsActive:   d.IsActive,
		})
	}

	rules, err := h.replace.Execute(c.Request.Context(), middleware.ActorFrom(c), in)
	if err != nil {
		writeError(c, h.log, err, "failed_to_save_schedule_rules", "Erro ao salvar horários.")
		return
	}

	httpresp.List(c, rules)
}
