package app

import (
	"github.com/alexandre-rezende616/spacelearn/internal/config"
	"github.com/alexandre-rezende616/spacelearn/internal/middleware"
	"github.com/alexandre-rezende616/spacelearn/internal/model"
	"github.com/alexandre-rezende616/spacelearn/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.Health)
		public.GET("/ready", c.health.Ready)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.Auth(cfg))
	{
		// Any authenticated profile
		authGroup.GET("/profile", c.profile.Me)
		authGroup.POST("/profile/avatar", c.profile.UploadAvatar)
		authGroup.PUT("/profile/frame", c.profile.EquipFrame)
		authGroup.GET("/leaderboard", c.profile.Leaderboard)
		authGroup.GET("/medals", c.medal.List)
		authGroup.GET("/classes", c.class.List)
		authGroup.GET("/classes/:id/messages", c.message.List)
		authGroup.GET("/events", c.events.Stream)

		// Student play surface
		student := authGroup.Group("")
		student.Use(middleware.RequireRole(model.RoleStudent))
		{
			student.GET("/missions", c.play.ListMissions)
			student.GET("/missions/:id/content", c.play.GetContent)
			student.GET("/missions/:id/resume", c.play.GetResume)
			student.POST("/answers", c.play.SubmitAnswer)
			student.GET("/progress/total-correct", c.play.GetTotalCorrect)
			student.POST("/enrollments", c.class.Join)
			student.GET("/store", c.store.Catalog)
			student.POST("/store/purchase", c.store.Purchase)
		}

		// Teacher authoring surface
		teacher := authGroup.Group("")
		teacher.Use(middleware.RequireRole(model.RoleTeacher, model.RoleCoordinator))
		{
			teacher.POST("/classes", c.class.Create)
			teacher.GET("/classes/:id/progress", c.class.MemberProgress)
			teacher.POST("/classes/:id/messages", c.message.Post)
			teacher.DELETE("/messages/:messageId", c.message.Delete)

			teacher.POST("/authoring/missions", c.mission.Create)
			teacher.GET("/authoring/missions", c.mission.List)
			teacher.PUT("/authoring/missions/:id", c.mission.Update)
			teacher.DELETE("/authoring/missions/:id", c.mission.Delete)
			teacher.POST("/authoring/missions/:id/publish", c.mission.Publish)
			teacher.POST("/authoring/missions/:id/questions", c.mission.AddQuestion)
			teacher.PUT("/authoring/questions/:questionId", c.mission.UpdateQuestion)
			teacher.DELETE("/authoring/questions/:questionId", c.mission.DeleteQuestion)
			teacher.POST("/authoring/questions/:questionId/options", c.mission.AddOption)
			teacher.PUT("/authoring/options/:optionId", c.mission.UpdateOption)
			teacher.DELETE("/authoring/options/:optionId", c.mission.DeleteOption)
			teacher.POST("/authoring/missions/:id/classes", c.mission.AssignToClass)
			teacher.DELETE("/authoring/missions/:id/classes/:classId", c.mission.UnassignFromClass)
		}

		// Coordinator-only medal administration
		coordinator := authGroup.Group("")
		coordinator.Use(middleware.RequireRole(model.RoleCoordinator))
		{
			coordinator.POST("/medals", c.medal.Create)
			coordinator.PUT("/medals/:id", c.medal.Update)
			coordinator.DELETE("/medals/:id", c.medal.Delete)
		}
	}
}
