package router

import (
	"Mod_Community/internal/handler"
	"Mod_Community/internal/middleware"

	"github.com/gin-gonic/gin"
)

func InitRouter() *gin.Engine {
	r := gin.Default()

	user := handler.NewUserHandler()
	community := handler.NewCommunityHandler()

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/login", user.Login)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	// 登录态接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/logout", user.Logout)
		authGroup.POST("/change-password", user.ChangePassword)
	}

	// 社区相关接口
	communityGroup := r.Group("/api/community")
	communityGroup.Use(middleware.AuthMiddleware())
	{
		communityGroup.GET("/list", community.List)
		communityGroup.GET("/:id", community.Get)
		communityGroup.GET("/:id/modlog", community.TransferLog)
		communityGroup.POST("/transfer", community.Transfer)
	}

	return r
}
