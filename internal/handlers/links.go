package handlers

import (
	"net/http"
	"net/url"
	"time"

	"moke/internal/models"
	"moke/internal/services"
	"moke/internal/utils"

	"github.com/gin-gonic/gin"
)

type LinksHandler struct{}

func NewLinksHandler() *LinksHandler {
	return &LinksHandler{}
}

// Index 友链页,聚合朋友博客的最新文章
func (h *LinksHandler) Index(c *gin.Context) {
	urls := services.FriendFeedURLs()

	var items []models.LinkItem
	if cached, ok := utils.GetCache().Get("links:all"); ok {
		if cachedItems, ok := cached.([]models.LinkItem); ok {
			items = cachedItems
		}
	}
	if items == nil && len(urls) > 0 {
		items = services.GetBlogrollService().FetchAll(c.Request.Context(), urls)
		// 友链更新不频繁,缓存半小时
		utils.GetCache().Set("links:all", items, 30*time.Minute)
	}

	Render(c, http.StatusOK, "links/index.html", gin.H{
		"Items":       items,
		"Active":      "links",
		"Title":       "友链",
		"Description": "朋友们最近在写什么",
		"Keywords":    "墨客, 友链, 博客圈",
		"FullURL":     siteURL() + "/links",
	})
}

// Read 友链文章的站内阅读视图(HTMX 片段)
// 只放行聚合结果里出现过的链接,不做任意 URL 的代理抓取
func (h *LinksHandler) Read(c *gin.Context) {
	link := c.Query("url")
	if link == "" {
		c.String(http.StatusBadRequest, "缺少 url 参数")
		return
	}
	if _, err := url.ParseRequestURI(link); err != nil {
		c.String(http.StatusBadRequest, "无效的链接")
		return
	}
	if !services.GetBlogrollService().Knows(link) {
		c.String(http.StatusNotFound, "链接不在友链列表里")
		return
	}

	title, content, err := services.GetReaderService().Extract(link)
	if err != nil {
		// 抓取失败就引导去原文
		c.HTML(http.StatusOK, "links/reader.html", gin.H{
			"Title": "",
			"Link":  link,
			"Error": "正文抓取失败,请直接访问原文",
		})
		return
	}

	c.HTML(http.StatusOK, "links/reader.html", gin.H{
		"Title":   title,
		"Link":    link,
		"Content": utils.EnhanceHTMLContent(content),
	})
}
