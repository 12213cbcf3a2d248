package router

import (
	"moke/internal/handlers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	postHandler := handlers.NewPostHandler()
	commentHandler := handlers.NewCommentHandler()
	linksHandler := handlers.NewLinksHandler()
	seoHandler := handlers.NewSEOHandler()

	// 页面路由
	r.GET("/", postHandler.Index)                       // 首页 - 文章列表
	r.GET("/p/:slug", postHandler.Detail)               // 文章详情页
	r.GET("/p/:slug/comments", commentHandler.Thread)   // 评论区片段(HTMX)
	r.GET("/t/:name", postHandler.ListByTag)            // 标签下的文章列表
	r.GET("/search", postHandler.Search)                // 站内搜索
	r.GET("/links", linksHandler.Index)                 // 友链聚合页
	r.GET("/links/read", linksHandler.Read)             // 友链文章阅读视图(HTMX)

	// SEO
	r.GET("/robots.txt", seoHandler.RobotsTxt)
	r.GET("/sitemap.xml", seoHandler.SitemapXML)
	r.GET("/feed.xml", seoHandler.RSSFeed)
}
