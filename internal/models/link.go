package models

import (
	"time"
)

// LinkItem 友链订阅源里的一篇文章,聚合后按时间排列展示在 /links
type LinkItem struct {
	FeedTitle   string    `json:"feed_title"` // 来源博客名称
	FeedURL     string    `json:"feed_url"`   // 订阅源地址
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at"`
}
