package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	"github.com/BruksfildServices01/agenda-engine/internal/calendar"
	"github.com/BruksfildServices01/agenda-engine/internal/config"
	dbpkg "github.com/BruksfildServices01/agenda-engine/internal/db"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/handlers"
	infraRepo "github.com/BruksfildServices01/agenda-engine/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-engine/internal/metrics"
	"github.com/BruksfildServices01/agenda-engine/internal/middleware"
	ucBlock "github.com/BruksfildServices01/agenda-engine/internal/usecase/block"
	ucBooking "github.com/BruksfildServices01/agenda-engine/internal/usecase/booking"
	ucProcedure "github.com/BruksfildServices01/agenda-engine/internal/usecase/procedure"
	ucSchedule "github.com/BruksfildServices01/agenda-engine/internal/usecase/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

// Deps are the process-wide singletons built in main. Cache may be nil.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *zap.Logger
	Clock    *timezone.Clock
	Cache    schedule.SnapshotCache
	Calendar calendar.Publisher
	Audit    audit.Recorder
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Log),
		middleware.CORS(d.Config.CORSAllowedOrigins),
	)

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(d.DB)
	procedureRepo := infraRepo.NewProcedureGormRepository(d.DB)
	blockRepo := infraRepo.NewBlockGormRepository(d.DB)
	ruleRepo := infraRepo.NewScheduleRuleGormRepository(d.DB)

	// ======================================================
	// 🧠 USE CASES: BOOKINGS
	// ======================================================
	availabilityUC := ucBooking.NewGetAvailability(bookingRepo, d.Clock, d.Cache, d.Log)

	bookingUCs := handlers.BookingUseCases{
		Create:       ucBooking.NewCreateBooking(bookingRepo, d.Clock, d.Calendar, d.Audit, d.Cache, d.Log),
		UpdateStatus: ucBooking.NewUpdateBookingStatus(bookingRepo, d.Clock, d.Calendar, d.Audit, d.Cache, d.Log),
		Reschedule:   ucBooking.NewRescheduleBooking(bookingRepo, d.Clock, d.Calendar, d.Audit, d.Cache, d.Log),
		Delete:       ucBooking.NewDeleteBooking(bookingRepo, d.Calendar, d.Audit, d.Cache, d.Log),
		ByDate:       ucBooking.NewListBookingsByDate(bookingRepo, d.Clock),
		ByMonth:      ucBooking.NewListBookingsByMonth(bookingRepo, d.Clock),
		Mine:         ucBooking.NewListMyBookings(bookingRepo),
	}

	// ======================================================
	// 🧠 USE CASES: AGENDA / CATÁLOGO
	// ======================================================
	createBlockUC := ucBlock.NewCreateBlock(blockRepo, d.Clock, d.Cache, d.Audit, d.Log)
	listBlocksUC := ucBlock.NewListBlocks(blockRepo, d.Clock)
	deleteBlockUC := ucBlock.NewDeleteBlock(blockRepo, d.Cache, d.Audit, d.Log)

	listRulesUC := ucSchedule.NewListRules(ruleRepo)
	replaceRulesUC := ucSchedule.NewReplaceRules(ruleRepo, d.Cache, d.Audit, d.Log)

	procedureUCs := handlers.ProcedureUseCases{
		List:            ucProcedure.NewList(procedureRepo),
		Get:             ucProcedure.NewGet(procedureRepo),
		Create:          ucProcedure.NewCreate(procedureRepo, d.Clock, d.Audit),
		Update:          ucProcedure.NewUpdate(procedureRepo, d.Clock, d.Cache, d.Audit, d.Log),
		PromotionStatus: ucProcedure.NewGetPromotionStatus(procedureRepo, d.Clock),
	}

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(func() error { return dbpkg.Ping(d.DB) }, d.Log)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityUC, d.Log)
	bookingHandler := handlers.NewBookingHandler(bookingUCs, d.Log)
	blockHandler := handlers.NewBlockHandler(createBlockUC, listBlocksUC, deleteBlockUC, d.Log)
	scheduleRuleHandler := handlers.NewScheduleRuleHandler(listRulesUC, replaceRulesUC, d.Log)
	procedureHandler := handlers.NewProcedureHandler(procedureUCs, d.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, d.Clock)

	// ======================================================
	// 🩺 OPERAÇÃO
	// ======================================================
	r.GET("/health", healthHandler.Get)
	r.GET("/metrics", metrics.Handler())

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA (login opcional)
		// ------------------------------
		limiter := middleware.NewIPRateLimiter(d.Config.PublicRateLimit, d.Config.PublicRateBurst)

		publicAPI := api.Group("/public")
		publicAPI.Use(middleware.RateLimit(limiter), middleware.OptionalAuth(d.Config))
		{
			publicAPI.GET("/procedures", procedureHandler.ListPublic)
			publicAPI.GET("/procedures/:id/promotion", procedureHandler.Promotion)
			publicAPI.GET("/schedule-rules", scheduleRuleHandler.GetPublic)
			publicAPI.GET("/availability", availabilityHandler.Get)
			publicAPI.POST("/bookings", bookingHandler.Create)
		}

		// ------------------------------
		// 🔐 CLIENTE AUTENTICADO
		// ------------------------------
		me := api.Group("/me")
		me.Use(middleware.RequireAuth(d.Config))
		{
			me.GET("/bookings", bookingHandler.Mine)
			me.PATCH("/bookings/:id", bookingHandler.Patch)
		}

		// ------------------------------
		// 🔐 EQUIPE
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(d.Config), middleware.RequireStaff())
		{
			admin.GET("/availability", availabilityHandler.Get)

			admin.POST("/bookings", bookingHandler.Create)
			admin.GET("/bookings", bookingHandler.ListByDate)
			admin.GET("/bookings/month", bookingHandler.ListByMonth)
			admin.PATCH("/bookings/:id", bookingHandler.Patch)
			admin.DELETE("/bookings/:id", bookingHandler.Delete)

			admin.POST("/blocks", blockHandler.Create)
			admin.GET("/blocks", blockHandler.List)
			admin.DELETE("/blocks/:id", blockHandler.Delete)

			admin.GET("/schedule-rules", scheduleRuleHandler.Get)
			admin.PUT("/schedule-rules", scheduleRuleHandler.Replace)

			admin.GET("/procedures", procedureHandler.List)
			admin.GET("/procedures/:id", procedureHandler.Get)
			admin.POST("/procedures", procedureHandler.Create)
			admin.PATCH("/procedures/:id", procedureHandler.Update)

			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
