package handlers

import (
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	"moke/internal/services"
	"moke/internal/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

// pageParam 解析 ?page= 参数,非法值当第一页
func pageParam(c *gin.Context) int {
	page := utils.StringToInt(c.Query("page"))
	if page < 1 {
		page = 1
	}
	return page
}

// Index 首页,文章按发布时间倒序分页
func (h *PostHandler) Index(c *gin.Context) {
	page := pageParam(c)

	cacheKey := fmt.Sprintf("post:index:page:%d", page)
	if cached, ok := utils.GetCache().Get(cacheKey); ok {
		if hData, ok := cached.(gin.H); ok {
			Render(c, http.StatusOK, "post/list.html", hData)
			return
		}
	}

	perPage := 10
	posts, total := services.GetPostStore().Page(page, perPage)

	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	fullURL := siteURL()
	if page > 1 {
		fullURL = fmt.Sprintf("%s?page=%d", siteURL(), page)
	}

	renderData := gin.H{
		"Posts":       posts,
		"Tags":        services.GetPostStore().Tags(),
		"Active":      "home",
		"Title":       siteName(),
		"CurrentPage": page,
		"TotalPages":  totalPages,
		"Description": "墨客,一个写代码也写字的个人博客。评论挂在 GitHub Issue 上。",
		"Keywords":    "墨客, 博客, Go语言, 独立开发, 技术写作",
		"FullURL":     fullURL,
	}

	// 写入缓存,有效期 1 分钟
	utils.GetCache().Set(cacheKey, renderData, 1*time.Minute)

	Render(c, http.StatusOK, "post/list.html", renderData)
}

// Detail 文章详情页,评论区由页面加载后通过 /p/:slug/comments 填充
func (h *PostHandler) Detail(c *gin.Context) {
	slug := c.Param("slug")

	post, ok := services.GetPostStore().Get(slug)
	if !ok {
		RenderError(c, http.StatusNotFound, "文章不存在")
		return
	}

	githubRepo := os.Getenv("GITHUB_REPO")
	threadURL := ""
	if post.CommentsEnabled() && githubRepo != "" {
		threadURL = fmt.Sprintf("https://github.com/%s/issues/%d", githubRepo, post.Issue)
	}

	Render(c, http.StatusOK, "post/detail.html", gin.H{
		"Post":        post,
		"ThreadURL":   threadURL,
		"Title":       post.Title,
		"Description": post.Summary,
		"Keywords":    "墨客, " + post.Title,
		"FullURL":     fmt.Sprintf("%s/p/%s", siteURL(), post.Slug),
	})
}

// ListByTag 某个标签下的文章列表
func (h *PostHandler) ListByTag(c *gin.Context) {
	tag := c.Param("name")

	posts := services.GetPostStore().ByTag(tag)
	if len(posts) == 0 {
		RenderError(c, http.StatusNotFound, "标签不存在")
		return
	}

	Render(c, http.StatusOK, "post/list.html", gin.H{
		"Posts":       posts,
		"Tags":        services.GetPostStore().Tags(),
		"Active":      "tag",
		"Tag":         tag,
		"Title":       tag,
		"CurrentPage": 1,
		"TotalPages":  1,
		"Description": fmt.Sprintf("墨客 - 标签「%s」下的所有文章", tag),
		"Keywords":    fmt.Sprintf("墨客, %s", tag),
		"FullURL":     fmt.Sprintf("%s/t/%s", siteURL(), tag),
	})
}

// Search 站内搜索,直接在内存索引里找
func (h *PostHandler) Search(c *gin.Context) {
	query := c.Query("q")

	posts := services.GetPostStore().Search(query)

	description := "在墨客站内搜索文章"
	if query != "" {
		description = fmt.Sprintf("在墨客搜索 '%s' 的结果", query)
	}

	Render(c, http.StatusOK, "search.html", gin.H{
		"Posts":       posts,
		"Query":       query,
		"Active":      "search",
		"Title":       "搜索 - " + query,
		"Description": description,
		"Keywords":    fmt.Sprintf("墨客, 搜索, %s", query),
		"FullURL":     fmt.Sprintf("%s/search?q=%s", siteURL(), query),
	})
}
