package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strings"
	"time"

	"moke/internal/models"
	"moke/internal/utils"
)

// CommentService 从 GitHub Issue 拉取文章评论
// 每次只取一页(100 条),不翻页、不重试、不在本地留任何状态
type CommentService struct {
	client  *http.Client
	apiBase string
}

// NewCommentService 创建评论服务实例
func NewCommentService() *CommentService {
	apiBase := os.Getenv("GITHUB_API_BASE")
	if apiBase == "" {
		apiBase = "https://api.github.com"
	}

	return &CommentService{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiBase: strings.TrimSuffix(apiBase, "/"),
	}
}

// 全局单例
var commentService *CommentService

// GetCommentService 获取评论服务单例
func GetCommentService() *CommentService {
	if commentService == nil {
		commentService = NewCommentService()
	}
	return commentService
}

// ghComment GitHub 评论接口返回的单条结构
// Accept 带 full+json 时 body_html 是远端渲染好的 HTML
type ghComment struct {
	URL       string `json:"url"`
	BodyHTML  string `json:"body_html"`
	CreatedAt string `json:"created_at"`
	User      struct {
		Login     string `json:"login"`
		AvatarURL string `json:"avatar_url"`
	} `json:"user"`
}

// Load 拉取 repo 下某个 Issue 的评论,保持接口返回顺序
// 超过 100 条的部分不再请求第二页,这是已知边界
func (s *CommentService) Load(ctx context.Context, repo string, issue int) ([]models.Comment, error) {
	url := fmt.Sprintf("%s/repos/%s/issues/%d/comments?per_page=100", s.apiBase, repo, issue)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.full+json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求评论失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP 状态码: %d", resp.StatusCode)
	}

	var raw []ghComment
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("解析评论失败: %w", err)
	}

	comments := make([]models.Comment, 0, len(raw))
	for _, gc := range raw {
		comments = append(comments, models.Comment{
			Author:    gc.User.Login,
			AuthorURL: "https://github.com/" + gc.User.Login,
			AvatarURL: gc.User.AvatarURL,
			Permalink: fmt.Sprintf("https://github.com/%s/issues/%d#issuecomment-%s", repo, issue, commentID(gc.URL)),
			BodyHTML:  utils.EnhanceHTMLContent(gc.BodyHTML),
			CreatedAt: formatCommentDate(gc.CreatedAt),
		})
	}

	return comments, nil
}

// CommentSink 评论的写入端:一个计数槽加一个片段槽
// 页面处理器把它接到 HTTP 响应上,测试里用记录用的假实现
type CommentSink interface {
	SetCount(n int)
	Append(fragment template.HTML)
}

// LoadInto 拉取评论并写入 sink
// 出错时 sink 不会被碰过,留给调用方决定怎么兜底
func (s *CommentService) LoadInto(ctx context.Context, repo string, issue int, sink CommentSink) error {
	comments, err := s.Load(ctx, repo, issue)
	if err != nil {
		return err
	}

	sink.SetCount(len(comments))
	for _, cm := range comments {
		sink.Append(RenderComment(cm))
	}
	return nil
}

var commentTmpl = template.Must(template.New("comment").Parse(`<div class="comment">
  <div class="commentheader">
    <div class="comment-pic"><a href="{{.AuthorURL}}"><img src="{{.AvatarURL}}" alt="{{.Author}}"></a></div>
    <div class="comment-data">
      <div class="comment-meta">
        <span class="comment-user"><a href="{{.AuthorURL}}">{{.Author}}</a></span>
        <span class="comment-date"><a href="{{.Permalink}}">{{.CreatedAt}}</a></span>
      </div>
    </div>
  </div>
  <div class="commentbody">{{.BodyHTML}}</div>
</div>`))

// RenderComment 把一条评论变成 HTML 片段,纯转换,不碰任何外部状态
func RenderComment(cm models.Comment) template.HTML {
	var buf bytes.Buffer
	if err := commentTmpl.Execute(&buf, cm); err != nil {
		return ""
	}
	return template.HTML(buf.String())
}

// commentID 取评论接口 URL 最后一段数字,用来拼 #issuecomment 锚点
func commentID(apiURL string) string {
	return apiURL[strings.LastIndex(apiURL, "/")+1:]
}

// formatCommentDate 把接口返回的 RFC3339 时间转成展示格式,转不动就原样返回
func formatCommentDate(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.Format("2006-01-02 15:04:05")
}
