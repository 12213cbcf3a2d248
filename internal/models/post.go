package models

import (
	"html/template"
	"time"
)

// Post 一篇博客文章,从 content 目录的 Markdown 文件加载,不落库
type Post struct {
	Slug    string        `json:"slug"`    // URL 标识,来自文件名(去掉日期前缀和 .md)
	Title   string        `json:"title"`   // Front Matter: title
	Date    time.Time     `json:"date"`    // Front Matter: date,缺省时取文件名日期前缀
	Tags    []string      `json:"tags"`    // Front Matter: tags
	Summary string        `json:"summary"` // Front Matter: summary,列表页摘要
	Issue   int           `json:"issue"`   // Front Matter: issue,绑定的 GitHub Issue 编号,0 表示未开启评论
	Content string        `json:"content"` // 原始 Markdown 正文
	HTML    template.HTML `json:"-"`       // 渲染并清洗后的正文 HTML
}

// CommentsEnabled 文章是否绑定了评论串
func (p *Post) CommentsEnabled() bool {
	return p.Issue > 0
}

// TagCount 标签及其文章数,用于侧边栏和标签页
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
