package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cureconnect/cureconnect/internal/config"
	"github.com/cureconnect/cureconnect/internal/domain"
	authpkg "github.com/cureconnect/cureconnect/pkg/auth"
	"github.com/cureconnect/cureconnect/pkg/metrics"
)

// RouterDeps carries everything the HTTP layer needs. All fields are
// required except Collector, which disables the metrics middleware when nil.
type RouterDeps struct {
	Config     *config.Config
	Logger     *zap.Logger
	JWTManager *authpkg.JWTManager
	Collector  *metrics.Collector

	Auth          *AuthHandler
	Doctors       *DoctorHandler
	Appointments  *AppointmentHandler
	Prescriptions *PrescriptionHandler
	Reviews       *ReviewHandler
	Reports       *ReportHandler
}

// NewRouter builds the gin engine with the full /api/v1 surface plus the
// operational endpoints.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(deps.Logger))
	if deps.Collector != nil {
		r.Use(Metrics(deps.Collector))
	}
	r.Use(CORS(deps.Config.CORS))
	r.Use(RateLimit(deps.Config.RateLimit))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"service":   deps.Config.App.Name,
			"version":   deps.Config.App.Version,
			"timestamp": time.Now().UTC(),
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")

	// Credential endpoints get a stricter per-IP bucket.
	authGroup := api.Group("/auth", AuthRateLimit(deps.Config.RateLimit))
	{
		authGroup.POST("/register", deps.Auth.Register)
		authGroup.POST("/login", deps.Auth.Login)
		authGroup.POST("/refresh", deps.Auth.Refresh)
	}

	authed := api.Group("", Authenticate(deps.JWTManager))
	{
		authed.POST("/auth/change-password", deps.Auth.ChangePassword)

		doctors := authed.Group("/doctors")
		{
			doctors.GET("", deps.Doctors.List)
			doctors.GET("/:id", deps.Doctors.Get)
			doctors.GET("/:id/slots", deps.Appointments.Availability)
			doctors.GET("/:id/reviews", deps.Doctors.Reviews)
		}

		appointments := authed.Group("/appointments")
		{
			appointments.POST("", deps.Appointments.Book)
			appointments.GET("", deps.Appointments.List)
			appointments.GET("/:id", deps.Appointments.Get)
			appointments.PATCH("/:id/reschedule", deps.Appointments.Reschedule)
			appointments.PATCH("/:id/cancel", deps.Appointments.Cancel)
			appointments.POST("/:id/review", deps.Reviews.Submit)
		}

		prescriptions := authed.Group("/prescriptions")
		{
			prescriptions.GET("", deps.Prescriptions.List)
			prescriptions.GET("/:id", deps.Prescriptions.Get)
			prescriptions.GET("/:id/pdf", deps.Prescriptions.Download)
		}

		reports := authed.Group("/reports")
		{
			reports.POST("", deps.Reports.Upload)
			reports.GET("", deps.Reports.List)
			reports.DELETE("/:id", deps.Reports.Delete)
		}

		doctorOnly := authed.Group("/doctor", RequireRoles(domain.RoleDoctor))
		{
			doctorOnly.PUT("/profile", deps.Doctors.UpdateProfile)
			doctorOnly.GET("/appointments", deps.Appointments.List)
			doctorOnly.GET("/prescriptions", deps.Prescriptions.List)
			doctorOnly.PATCH("/appointments/:id/confirm", deps.Appointments.Confirm)
			doctorOnly.PATCH("/appointments/:id/complete", deps.Appointments.Complete)
			doctorOnly.PATCH("/appointments/:id/cancel", deps.Appointments.Cancel)
			doctorOnly.POST("/prescriptions", deps.Prescriptions.Write)
		}

		adminOnly := authed.Group("/admin", RequireRoles(domain.RoleAdmin))
		{
			adminOnly.GET("/doctors", deps.Doctors.List)
			adminOnly.PATCH("/doctors/:id/approve", deps.Doctors.Approve)
			adminOnly.PATCH("/doctors/:id/reject", deps.Doctors.Reject)
			adminOnly.PATCH("/doctors/:id/suspend", deps.Doctors.Suspend)
			adminOnly.PATCH("/doctors/:id/reinstate", deps.Doctors.Reinstate)

			adminOnly.GET("/appointments", deps.Appointments.List)
			adminOnly.PATCH("/appointments/:id/reschedule", deps.Appointments.Reschedule)
			adminOnly.PATCH("/appointments/:id/cancel", deps.Appointments.Cancel)
			adminOnly.DELETE("/appointments/:id", deps.Appointments.Delete)

			adminOnly.GET("/reviews", deps.Reviews.List)
			adminOnly.PATCH("/reviews/:id/approve", deps.Reviews.Approve)
		}
	}

	return r
}
