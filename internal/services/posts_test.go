package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePost(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func newTestStore(t *testing.T) *PostStore {
	t.Helper()
	dir := t.TempDir()

	// 日期取自文件名前缀
	writePost(t, dir, "2024-01-02-hello.md", `---
title: 你好世界
tags:
  - go
  - blog
summary: 第一篇文章
issue: 7
---
# 开篇

正文 **加粗** 内容。
`)

	writePost(t, dir, "2024-03-05-second.md", `---
title: 第二篇
date: 2024-03-05 08:30:00
tags:
  - go
---
第二篇的正文。
`)

	writePost(t, dir, "2024-04-01-wip.md", `---
title: 没写完
draft: true
---
还在写。
`)

	// 缺标题的文件应当被跳过,不影响整站
	writePost(t, dir, "broken.md", "随手记的一段话")

	os.Setenv("CONTENT_DIR", dir)
	s := NewPostStore()
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	return s
}

func TestPostStoreLoad(t *testing.T) {
	s := newTestStore(t)

	posts := s.List()
	if len(posts) != 2 {
		t.Fatalf("Expected 2 posts (draft and broken skipped), got %d", len(posts))
	}

	// 按发布时间倒序
	if posts[0].Slug != "second" || posts[1].Slug != "hello" {
		t.Errorf("Posts out of order: %s, %s", posts[0].Slug, posts[1].Slug)
	}
}

func TestPostStoreGet(t *testing.T) {
	s := newTestStore(t)

	post, ok := s.Get("hello")
	if !ok {
		t.Fatal("Post hello not found")
	}
	if post.Title != "你好世界" {
		t.Errorf("Unexpected title: %s", post.Title)
	}
	if post.Issue != 7 {
		t.Errorf("Expected issue 7, got %d", post.Issue)
	}
	if !post.CommentsEnabled() {
		t.Error("Expected comments enabled")
	}
	if post.Date.Format("2006-01-02") != "2024-01-02" {
		t.Errorf("Date not derived from filename prefix: %v", post.Date)
	}
	if !strings.Contains(string(post.HTML), "<strong>加粗</strong>") {
		t.Errorf("Markdown not rendered: %s", post.HTML)
	}

	if _, ok := s.Get("nope"); ok {
		t.Error("Expected miss for unknown slug")
	}

	second, _ := s.Get("second")
	if second.CommentsEnabled() {
		t.Error("Post without issue should have comments disabled")
	}
	if second.Date.Format("15:04:05") != "08:30:00" {
		t.Errorf("Front matter date ignored: %v", second.Date)
	}
}

func TestPostStorePage(t *testing.T) {
	s := newTestStore(t)

	posts, total := s.Page(1, 1)
	if total != 2 || len(posts) != 1 || posts[0].Slug != "second" {
		t.Errorf("Unexpected first page: total=%d posts=%v", total, posts)
	}

	posts, _ = s.Page(2, 1)
	if len(posts) != 1 || posts[0].Slug != "hello" {
		t.Errorf("Unexpected second page")
	}

	posts, _ = s.Page(3, 1)
	if posts != nil {
		t.Errorf("Expected empty page past the end, got %d", len(posts))
	}
}

func TestPostStoreTags(t *testing.T) {
	s := newTestStore(t)

	if got := s.ByTag("blog"); len(got) != 1 || got[0].Slug != "hello" {
		t.Errorf("Unexpected blog tag posts: %v", got)
	}
	if got := s.ByTag("go"); len(got) != 2 {
		t.Errorf("Expected 2 posts under go, got %d", len(got))
	}

	tags := s.Tags()
	if len(tags) != 2 {
		t.Fatalf("Expected 2 tags, got %d", len(tags))
	}
	if tags[0].Name != "go" || tags[0].Count != 2 {
		t.Errorf("Unexpected top tag: %+v", tags[0])
	}
}

func TestPostStoreSearch(t *testing.T) {
	s := newTestStore(t)

	if got := s.Search("第二篇"); len(got) != 1 || got[0].Slug != "second" {
		t.Errorf("Search by title failed: %v", got)
	}
	if got := s.Search("加粗"); len(got) != 1 || got[0].Slug != "hello" {
		t.Errorf("Search by content failed: %v", got)
	}
	if got := s.Search(""); got != nil {
		t.Errorf("Empty query should return nothing")
	}
}

func TestSplitFrontMatter(t *testing.T) {
	fm, body, err := splitFrontMatter("---\ntitle: a\n---\n正文")
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if fm != "title: a" {
		t.Errorf("Unexpected front matter: %q", fm)
	}
	if body != "正文" {
		t.Errorf("Unexpected body: %q", body)
	}

	// 没有 Front Matter 的文件整体当正文
	fm, body, err = splitFrontMatter("就一段话")
	if err != nil || fm != "" || body != "就一段话" {
		t.Errorf("Plain file mishandled: fm=%q body=%q err=%v", fm, body, err)
	}

	// 只有开头没有结尾
	if _, _, err := splitFrontMatter("---\ntitle: a\n"); err == nil {
		t.Error("Expected error for unterminated front matter")
	}
}
