package router

import (
	"Seva_Community/internal/handler"
	"Seva_Community/internal/middleware"
	"Seva_Community/internal/model"
	"Seva_Community/internal/pkg"

	"github.com/gin-gonic/gin"
)

// Handlers 路由挂载所需的全部处理器
type Handlers struct {
	User       *handler.UserHandler
	Email      *handler.EmailHandler
	Community  *handler.CommunityHandler
	Membership *handler.MembershipHandler
	Task       *handler.TaskHandler
	Event      *handler.EventHandler
	Donation   *handler.DonationHandler
	Broadcast  *handler.BroadcastHandler
}

func InitRouter(h Handlers, tokens *pkg.TokenIssuer) *gin.Engine {
	r := gin.Default()

	auth := middleware.AuthMiddleware(tokens)
	adminOnly := middleware.RequireRole(model.RoleAdmin, model.RoleChairman, model.RoleBoard)

	// 邮件相关接口
	emailGroup := r.Group("/api/email")
	{
		emailGroup.POST("/code", h.Email.SendCode)
		emailGroup.POST("/verify", h.Email.VerifyCode)
	}

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", h.User.Register)
		userGroup.POST("/login", h.User.Login)
		userGroup.POST("/reset", h.User.ResetPassword)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", h.User.TokenRefresh)
	}

	// 登录态接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(auth)
	{
		authGroup.POST("/logout", h.User.Logout)
		authGroup.POST("/change-password", h.User.ChangePassword)
		authGroup.GET("/me", h.User.Me)
		authGroup.PATCH("/me", h.User.UpdateProfile)
	}

	// 管理端用户接口
	adminGroup := r.Group("/api/admin/users")
	adminGroup.Use(auth, adminOnly)
	{
		adminGroup.GET("", h.User.List)
		adminGroup.GET("/:id", h.User.Get)
		adminGroup.DELETE("/:id", h.User.Delete)
	}

	// 社区集合接口
	collection := r.Group("/api/communities")
	{
		collection.GET("", h.Community.List)
		collection.GET("/slug/:slug", h.Community.GetBySlug)
	}
	r.POST("/api/communities", auth, h.Community.Create)

	// 单个社区的公开接口
	public := r.Group("/api/community/:id")
	{
		public.GET("", h.Community.Get)
		// 入会申请提交无需登录态
		public.POST("/applications", h.Membership.Submit)
		public.GET("/donations/total", h.Donation.Total)
	}

	// 单个社区的登录态接口
	scoped := r.Group("/api/community/:id")
	scoped.Use(auth)
	{
		scoped.PATCH("", h.Community.Update)
		scoped.POST("/archive", h.Community.Archive)
		scoped.DELETE("", h.Community.Delete)

		// 申请审批
		scoped.GET("/applications", h.Membership.ListApplications)
		scoped.GET("/applications/:appID", h.Membership.GetApplication)
		scoped.POST("/applications/:appID/approve", h.Membership.Approve)
		scoped.POST("/applications/:appID/reject", h.Membership.Reject)

		// 成员
		scoped.GET("/members", h.Membership.ListMembers)
		scoped.DELETE("/members/:memberID", h.Membership.RemoveMember)

		// 任务
		scoped.POST("/tasks", h.Task.Create)
		scoped.GET("/tasks", h.Task.List)
		scoped.GET("/tasks/:taskID", h.Task.Get)
		scoped.PATCH("/tasks/:taskID/status", h.Task.UpdateStatus)
		scoped.DELETE("/tasks/:taskID", h.Task.Delete)

		// 活动
		scoped.POST("/events", h.Event.Create)
		scoped.GET("/events", h.Event.List)
		scoped.GET("/events/:eventID", h.Event.Get)
		scoped.POST("/events/:eventID/cancel", h.Event.Cancel)
		scoped.POST("/events/:eventID/registration", h.Event.Register)
		scoped.GET("/events/:eventID/registration", h.Event.IsRegistered)
		scoped.GET("/events/:eventID/registrations", h.Event.ListRegistrations)

		// 捐赠
		scoped.POST("/donations", h.Donation.Record)
		scoped.GET("/donations", h.Donation.List)

		// 群发邮件
		scoped.POST("/broadcast", h.Broadcast.Send)
	}

	return r
}
