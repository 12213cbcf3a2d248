package services

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

// 两条评论的接口响应,字段和 GitHub 的 full+json 变体一致
const twoCommentsJSON = `[
  {
    "url": "https://api.github.com/repos/wang/blog-comments/issues/comments/12345",
    "body_html": "<p>写得不错</p>",
    "created_at": "2014-07-20T10:00:00Z",
    "user": {"login": "alice", "avatar_url": "https://avatars.githubusercontent.com/u/1?v=4"}
  },
  {
    "url": "https://api.github.com/repos/wang/blog-comments/issues/comments/67890",
    "body_html": "<p>学习了</p>",
    "created_at": "2014-07-21T08:30:15Z",
    "user": {"login": "bob", "avatar_url": "https://avatars.githubusercontent.com/u/2?v=4"}
  }
]`

// newCommentService 指向模拟服务器的评论服务
func newCommentService(t *testing.T, handler http.HandlerFunc) *CommentService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	os.Setenv("GITHUB_API_BASE", server.URL)
	commentService = nil
	return GetCommentService()
}

func TestLoadComments(t *testing.T) {
	var gotPath, gotAccept, gotPerPage string
	s := newCommentService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		gotPerPage = r.URL.Query().Get("per_page")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, twoCommentsJSON)
	})

	comments, err := s.Load(context.Background(), "wang/blog-comments", 7)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if gotPath != "/repos/wang/blog-comments/issues/7/comments" {
		t.Errorf("Unexpected request path: %s", gotPath)
	}
	if gotAccept != "application/vnd.github.full+json" {
		t.Errorf("Unexpected Accept header: %s", gotAccept)
	}
	if gotPerPage != "100" {
		t.Errorf("Expected per_page=100, got %s", gotPerPage)
	}

	if len(comments) != 2 {
		t.Fatalf("Expected 2 comments, got %d", len(comments))
	}

	// 顺序必须和接口返回一致
	if comments[0].Author != "alice" || comments[1].Author != "bob" {
		t.Errorf("Comments out of order: %s, %s", comments[0].Author, comments[1].Author)
	}
	if comments[0].AuthorURL != "https://github.com/alice" {
		t.Errorf("Unexpected author URL: %s", comments[0].AuthorURL)
	}
	if comments[0].Permalink != "https://github.com/wang/blog-comments/issues/7#issuecomment-12345" {
		t.Errorf("Unexpected permalink: %s", comments[0].Permalink)
	}
	if comments[0].CreatedAt != "2014-07-20 10:00:00" {
		t.Errorf("Unexpected date: %s", comments[0].CreatedAt)
	}
	if !strings.Contains(string(comments[0].BodyHTML), "写得不错") {
		t.Errorf("Body lost in transform: %s", comments[0].BodyHTML)
	}
}

func TestLoadCommentsEmpty(t *testing.T) {
	s := newCommentService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[]")
	})

	comments, err := s.Load(context.Background(), "wang/blog-comments", 7)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("Expected 0 comments, got %d", len(comments))
	}
}

func TestLoadCommentsServerError(t *testing.T) {
	s := newCommentService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := s.Load(context.Background(), "wang/blog-comments", 7); err == nil {
		t.Error("Expected error on 500 response")
	}
}

func TestLoadCommentsBadJSON(t *testing.T) {
	s := newCommentService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "{not json")
	})

	if _, err := s.Load(context.Background(), "wang/blog-comments", 7); err == nil {
		t.Error("Expected error on malformed JSON")
	}
}

// 满页(100 条)也只发一次请求,不去翻第二页
func TestLoadCommentsFullPageSingleRequest(t *testing.T) {
	requests := 0
	s := newCommentService(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		var raw []map[string]interface{}
		for i := 0; i < 100; i++ {
			raw = append(raw, map[string]interface{}{
				"url":        fmt.Sprintf("https://api.github.com/repos/wang/blog-comments/issues/comments/%d", 1000+i),
				"body_html":  "<p>顶</p>",
				"created_at": "2020-05-01T00:00:00Z",
				"user":       map[string]string{"login": fmt.Sprintf("u%d", i), "avatar_url": ""},
			})
		}
		json.NewEncoder(w).Encode(raw)
	})

	comments, err := s.Load(context.Background(), "wang/blog-comments", 7)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(comments) != 100 {
		t.Errorf("Expected 100 comments, got %d", len(comments))
	}
	if requests != 1 {
		t.Errorf("Expected exactly 1 request, got %d", requests)
	}
}

// recordSink 测试用的评论写入端
type recordSink struct {
	counts    []int
	fragments []template.HTML
}

func (s *recordSink) SetCount(n int)         { s.counts = append(s.counts, n) }
func (s *recordSink) Append(f template.HTML) { s.fragments = append(s.fragments, f) }

func TestLoadIntoSink(t *testing.T) {
	s := newCommentService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, twoCommentsJSON)
	})

	sink := &recordSink{}
	if err := s.LoadInto(context.Background(), "wang/blog-comments", 7, sink); err != nil {
		t.Fatalf("LoadInto failed: %v", err)
	}

	if len(sink.counts) != 1 || sink.counts[0] != 2 {
		t.Errorf("Expected count set once to 2, got %v", sink.counts)
	}
	if len(sink.fragments) != 2 {
		t.Fatalf("Expected 2 fragments, got %d", len(sink.fragments))
	}
	if !strings.Contains(string(sink.fragments[0]), "alice") ||
		!strings.Contains(string(sink.fragments[1]), "bob") {
		t.Error("Fragments out of order")
	}
}

// 出错时 sink 一下都不能被碰
func TestLoadIntoSinkUntouchedOnError(t *testing.T) {
	s := newCommentService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	sink := &recordSink{}
	if err := s.LoadInto(context.Background(), "wang/blog-comments", 7, sink); err == nil {
		t.Fatal("Expected error")
	}
	if len(sink.counts) != 0 || len(sink.fragments) != 0 {
		t.Errorf("Sink touched on error: counts=%v fragments=%d", sink.counts, len(sink.fragments))
	}
}

func TestRenderComment(t *testing.T) {
	s := newCommentService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, twoCommentsJSON)
	})

	comments, err := s.Load(context.Background(), "wang/blog-comments", 7)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	fragment := string(RenderComment(comments[0]))
	for _, class := range []string{
		"comment", "commentheader", "comment-pic", "comment-data",
		"comment-meta", "comment-user", "comment-date", "commentbody",
	} {
		if !strings.Contains(fragment, `class="`+class+`"`) {
			t.Errorf("Fragment missing class %q", class)
		}
	}
	if !strings.Contains(fragment, "#issuecomment-12345") {
		t.Errorf("Fragment missing permalink anchor: %s", fragment)
	}
	if !strings.Contains(fragment, "2014-07-20 10:00:00") {
		t.Errorf("Fragment missing formatted date: %s", fragment)
	}
}

func TestFormatCommentDate(t *testing.T) {
	if got := formatCommentDate("2014-07-20T10:00:00Z"); got != "2014-07-20 10:00:00" {
		t.Errorf("Expected 2014-07-20 10:00:00, got %s", got)
	}
	// 解析不了的原样返回
	if got := formatCommentDate("昨天"); got != "昨天" {
		t.Errorf("Expected passthrough, got %s", got)
	}
}

func TestCommentID(t *testing.T) {
	if got := commentID("https://api.github.com/repos/a/b/issues/comments/424242"); got != "424242" {
		t.Errorf("Expected 424242, got %s", got)
	}
}
