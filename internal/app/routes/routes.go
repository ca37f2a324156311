package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/programhub/internal/app/controllers"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/middleware"
	"github.com/yigit/programhub/internal/pkg/metrics"
	"github.com/yigit/programhub/internal/pkg/ratelimiter"
)

// Controllers groups every HTTP controller the router mounts
type Controllers struct {
	Auth         *controllers.AuthController
	Staff        *controllers.StaffController
	Participants *controllers.ParticipantController
	Catalog      *controllers.CatalogController
	Applications *controllers.ApplicationController
	Interests    *controllers.InterestController
	Health       *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
	loginLimiter *ratelimiter.MapLimiter,
	m *metrics.Metrics,
) {
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/health", ctrl.Health.Live)
	v1.GET("/health/ready", ctrl.Health.Ready)

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/staff/register", ctrl.Auth.RegisterStaff)
		auth.POST("/participants/register", ctrl.Auth.RegisterParticipant)

		login := auth.Group("")
		login.Use(middleware.LoginRateLimit(loginLimiter))
		{
			login.POST("/staff/login", ctrl.Auth.LoginStaff)
			login.POST("/participants/login", ctrl.Auth.LoginParticipant)
		}

		auth.POST("/logout", authMiddleware.JWTAuth(), ctrl.Auth.Logout)
	}

	// --- Public catalog reads ---
	catalog := v1.Group("")
	{
		catalog.GET("/courses", ctrl.Catalog.ListCourses)
		catalog.GET("/courses/:id", ctrl.Catalog.GetCourse)
		catalog.GET("/fellowships", ctrl.Catalog.ListFellowships)
		catalog.GET("/fellowships/:id", ctrl.Catalog.GetFellowship)
		catalog.GET("/diplomas", ctrl.Catalog.ListDiplomas)
		catalog.GET("/diplomas/:id", ctrl.Catalog.GetDiploma)
		catalog.GET("/scholarships", ctrl.Catalog.ListScholarships)
		catalog.GET("/scholarships/:id", ctrl.Catalog.GetScholarship)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	// Staff self-service works before approval so a pending account can
	// still see and fix its profile.
	staffSelf := authenticated.Group("/staff/me")
	staffSelf.Use(authMiddleware.RoleRequired(models.RoleEmployee))
	{
		staffSelf.GET("", ctrl.Staff.GetMe)
		staffSelf.PUT("", ctrl.Staff.UpdateMe)
		staffSelf.PUT("/password", ctrl.Staff.ChangeMyPassword)
	}

	// Everything below requires an approved employee
	staff := authenticated.Group("")
	staff.Use(authMiddleware.RoleRequired(models.RoleEmployee), authMiddleware.ApprovedStaffRequired())
	{
		staff.GET("/staff/pending", ctrl.Staff.ListPending)
		staff.GET("/staff/:id", ctrl.Staff.GetEmployee)
		staff.PUT("/staff/:id/approval", ctrl.Staff.SetApproval)

		staff.GET("/participants/:id", ctrl.Participants.GetParticipant)

		staff.POST("/courses", ctrl.Catalog.CreateCourse)
		staff.PUT("/courses/:id", ctrl.Catalog.UpdateCourse)
		staff.DELETE("/courses/:id", ctrl.Catalog.DeleteCourse)

		staff.POST("/fellowships", ctrl.Catalog.CreateFellowship)
		staff.PUT("/fellowships/:id", ctrl.Catalog.UpdateFellowship)
		staff.DELETE("/fellowships/:id", ctrl.Catalog.DeleteFellowship)

		staff.POST("/diplomas", ctrl.Catalog.CreateDiploma)
		staff.PUT("/diplomas/:id", ctrl.Catalog.UpdateDiploma)
		staff.DELETE("/diplomas/:id", ctrl.Catalog.DeleteDiploma)

		staff.POST("/scholarships", ctrl.Catalog.CreateScholarship)
		staff.PUT("/scholarships/:id", ctrl.Catalog.UpdateScholarship)
		staff.DELETE("/scholarships/:id", ctrl.Catalog.DeleteScholarship)

		staff.PUT("/applications/:id/progress", ctrl.Applications.AdvanceProgress)
		staff.GET("/offerings/:kind/:id/applicants", ctrl.Applications.ListApplicants)
	}

	// Participant routes
	participant := authenticated.Group("")
	participant.Use(authMiddleware.RoleRequired(models.RoleParticipant))
	{
		participant.GET("/participants/me", ctrl.Participants.GetMe)
		participant.PUT("/participants/me", ctrl.Participants.UpdateMe)
		participant.PUT("/participants/me/password", ctrl.Participants.ChangeMyPassword)

		participant.POST("/applications", ctrl.Applications.Apply)
		participant.GET("/applications", ctrl.Applications.ListMine)

		participant.POST("/interests", ctrl.Interests.Add)
		participant.GET("/interests", ctrl.Interests.List)
		participant.DELETE("/interests/:id", ctrl.Interests.Remove)
	}
}
