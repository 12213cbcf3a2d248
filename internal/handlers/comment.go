package handlers

import (
	"html/template"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"moke/internal/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

// fragmentSink 先在内存里攒齐计数和所有评论片段,最后一次性写出
// 中途失败时响应不会带上半截内容
type fragmentSink struct {
	count    int
	hasCount bool
	parts    []template.HTML
}

func (s *fragmentSink) SetCount(n int) {
	s.count = n
	s.hasCount = true
}

func (s *fragmentSink) Append(fragment template.HTML) {
	s.parts = append(s.parts, fragment)
}

// html 组装最终响应:计数用 htmx 的 OOB swap 写进 #comments-count,
// 评论片段按接口返回顺序填进 #comments
func (s *fragmentSink) html() string {
	var b strings.Builder
	if s.hasCount {
		b.WriteString(`<span id="comments-count" hx-swap-oob="innerHTML">`)
		b.WriteString(strconv.Itoa(s.count))
		b.WriteString("</span>\n")
	}
	for _, part := range s.parts {
		b.WriteString(string(part))
		b.WriteString("\n")
	}
	return b.String()
}

// 评论加载失败时的兜底片段,计数保持原样不动
const commentsUnavailable = `<div class="commentbody comments-error">评论暂时加载不出来,稍后再试试。</div>`

// 未绑定 Issue 的文章
const commentsDisabled = `<div class="commentbody comments-off">这篇文章没有开启评论。</div>`

// Thread 评论区片段接口,详情页加载后由 htmx 请求一次
// 只拉第一页(100 条),超出部分不取,这是接口的已知边界
func (h *CommentHandler) Thread(c *gin.Context) {
	slug := c.Param("slug")

	post, ok := services.GetPostStore().Get(slug)
	if !ok {
		c.String(http.StatusNotFound, "文章不存在")
		return
	}

	repo := os.Getenv("GITHUB_REPO")
	if !post.CommentsEnabled() || repo == "" {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, commentsDisabled)
		return
	}

	sink := &fragmentSink{}
	err := services.GetCommentService().LoadInto(c.Request.Context(), repo, post.Issue, sink)
	if err != nil {
		log.Printf("Load comments for %s (issue %d) failed: %v", slug, post.Issue, err)
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, commentsUnavailable)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, sink.html())
}
