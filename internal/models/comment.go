package models

import (
	"html/template"
)

// Comment 评论的展示模型,来自 GitHub Issue 评论接口
// 只在一次渲染过程中存在,不做任何持久化
type Comment struct {
	Author    string        `json:"author"`     // GitHub 用户名
	AuthorURL string        `json:"author_url"` // 用户主页链接
	AvatarURL string        `json:"avatar_url"` // 头像地址
	Permalink string        `json:"permalink"`  // 指向该条评论的 #issuecomment 锚点链接
	BodyHTML  template.HTML `json:"-"`          // 远端已渲染好的正文 HTML
	CreatedAt string        `json:"created_at"` // 展示用时间,yyyy-MM-dd HH:mm:ss
}
