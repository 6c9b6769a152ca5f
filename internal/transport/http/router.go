package httpserver

import (
	"github.com/labstack/echo/v4"

	"blogcore/internal/handlers"
	authmw "blogcore/internal/middleware/auth"
)

type Deps struct {
	Auth      *authmw.Middleware
	AuthH     *handlers.AuthHandler
	BlogH     *handlers.BlogHandler
	CategoryH *handlers.CategoryHandler
	CommentH  *handlers.CommentHandler
	LikeH     *handlers.LikeHandler
	AdminH    *handlers.AdminHandler
	SearchH   *handlers.SearchHandler
	UserH     *handlers.UserHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthH.Register)
	v1.POST("/login", d.AuthH.Login)
	v1.POST("/refresh", d.AuthH.Refresh)
	v1.POST("/logout", d.AuthH.Logout)

	v1.GET("/search", d.SearchH.Search)

	users := v1.Group("/users", d.Auth.RequireLogin)
	users.GET("/me", d.UserH.Me)
	users.PATCH("/me", d.UserH.UpdateAccount)
	users.POST("/password", d.UserH.ChangePassword)

	blogs := v1.Group("/blogs")
	blogs.GET("", d.BlogH.List, d.Auth.Optional)
	blogs.GET("/mine", d.BlogH.ListMine, d.Auth.RequireLogin)
	blogs.GET("/:permalink", d.BlogH.Get, d.Auth.Optional)
	blogs.POST("", d.BlogH.Create, d.Auth.RequireLogin)
	blogs.PATCH("/:permalink", d.BlogH.Update, d.Auth.RequireLogin)
	blogs.POST("/:permalink/publish", d.BlogH.TogglePublish, d.Auth.RequireLogin)
	blogs.DELETE("/:permalink", d.BlogH.Delete, d.Auth.RequireLogin)
	blogs.POST("/:permalink/like", d.LikeH.ToggleBlog, d.Auth.RequireLogin)

	categories := v1.Group("/categories")
	categories.GET("", d.CategoryH.List, d.Auth.Optional)
	categories.POST("", d.CategoryH.Create, d.Auth.RequireLogin)
	categories.PATCH("/:permalink", d.CategoryH.Update, d.Auth.RequireLogin)
	categories.DELETE("/:permalink", d.CategoryH.Delete, d.Auth.RequireLogin)

	comments := v1.Group("/comments")
	comments.GET("/mine", d.CommentH.ListMine, d.Auth.RequireLogin)
	comments.PATCH("/:id", d.CommentH.Update, d.Auth.RequireLogin)
	comments.DELETE("/:id", d.CommentH.Delete, d.Auth.RequireLogin)
	comments.POST("/:id/like", d.LikeH.ToggleComment, d.Auth.RequireLogin)

	v1.GET("/blogs/:permalink/comments", d.CommentH.ListForBlog, d.Auth.Optional)
	v1.POST("/blogs/:permalink/comments", d.CommentH.Create, d.Auth.RequireLogin)

	v1.GET("/likes/total", d.LikeH.AuthorTotal, d.Auth.RequireLogin)

	admin := v1.Group("/admin", d.Auth.AdminOnly)
	admin.POST("/:kind/status", d.AdminH.SetStatus)
	admin.GET("/:kind", d.AdminH.ListByStatus)
}
