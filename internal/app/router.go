package app

import (
	"campus_quest_backend/docs"
	"campus_quest_backend/internal/config"
	"campus_quest_backend/internal/middleware"
	"campus_quest_backend/internal/model"
	"campus_quest_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerQuestRoutes(authGroup, c)
		a.registerPostRoutes(authGroup, c)
		a.registerSocialRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerQuestRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)

	quests := rg.Group("/quests")
	{
		quests.GET("", c.quest.ListQuests)
		quests.GET("/:id", c.quest.GetQuest)
		quests.POST("/start/:questId", c.quest.StartQuest)
		quests.PUT("/complete/:questId", c.quest.CompleteQuest)
		quests.GET("/user/:userId", c.quest.ListUserAttempts)
	}

	verify := rg.Group("/quest/verify")
	{
		verify.POST("/:questId/:targetUserId", c.verification.Verify)
		verify.GET("/:questId/:targetUserId", c.verification.Status)
	}
}

func (a *App) registerPostRoutes(rg *gin.RouterGroup, c *controllers) {
	posts := rg.Group("/posts")
	{
		posts.POST("", c.post.CreatePost)
		posts.GET("", c.post.ListPosts)
		posts.GET("/friends", c.post.ListFriendPosts)
		posts.GET("/:id", c.post.GetPost)
		posts.GET("/:id/image", c.post.GetPostImage)
		posts.DELETE("/:id", c.post.DeletePost)
		posts.POST("/:id/reactions", c.post.React)
	}

	rg.GET("/users/:id/posts", c.post.ListUserPosts)
	rg.GET("/users/:id/achievements", c.achievement.GetUserAchievements)
	rg.GET("/users/:id/profile", c.achievement.GetProfile)
}

func (a *App) registerSocialRoutes(rg *gin.RouterGroup, c *controllers) {
	friends := rg.Group("/friends")
	{
		friends.GET("", c.friendship.ListFriends)
		friends.GET("/mutuals/:friendId", c.friendship.MutualFriends)
		friends.POST("/:friendId", c.friendship.AddFriend)
		friends.DELETE("/:friendId", c.friendship.RemoveFriend)
	}

	achievements := rg.Group("/achievements")
	{
		achievements.GET("", c.achievement.ListCatalog)
		achievements.GET("/leaderboard", c.achievement.GetLeaderboard)
		achievements.POST("/evaluate", c.achievement.Evaluate)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.POST("/quests", c.quest.CreateQuest)
		admin.PUT("/quests/:id", c.quest.UpdateQuest)
		admin.DELETE("/quests/:id", c.quest.DeleteQuest)
	}
}
