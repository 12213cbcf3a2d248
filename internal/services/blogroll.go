package services

import (
	"context"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"moke/internal/models"

	"github.com/mmcdole/gofeed"
)

// BlogrollService 友链订阅源聚合服务
// 把配置里的几个朋友博客 RSS 拉下来,合并成一条时间线
type BlogrollService struct {
	parser *gofeed.Parser

	mu    sync.RWMutex
	known map[string]bool // 聚合结果里出现过的文章链接,阅读视图只放行这些
}

// NewBlogrollService 创建友链聚合服务实例
func NewBlogrollService() *BlogrollService {
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 2,
		},
	}

	parser := gofeed.NewParser()
	parser.Client = httpClient

	return &BlogrollService{
		parser: parser,
		known:  make(map[string]bool),
	}
}

// 全局单例
var blogrollService *BlogrollService

// GetBlogrollService 获取友链聚合服务单例
func GetBlogrollService() *BlogrollService {
	if blogrollService == nil {
		blogrollService = NewBlogrollService()
	}
	return blogrollService
}

// FriendFeedURLs 从环境变量读取友链订阅源列表,逗号分隔
func FriendFeedURLs() []string {
	raw := os.Getenv("FRIEND_FEEDS")
	if raw == "" {
		return nil
	}

	var urls []string
	for _, u := range strings.Split(raw, ",") {
		u = strings.TrimSpace(u)
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// 每个订阅源最多取这么多条,避免某个高产博客刷屏
const maxItemsPerFeed = 10

// FetchAll 拉取所有订阅源并按发布时间倒序合并
// 单个源失败只记日志,不影响其他源
func (s *BlogrollService) FetchAll(ctx context.Context, urls []string) []models.LinkItem {
	var items []models.LinkItem

	for _, feedURL := range urls {
		feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			log.Printf("Fetch friend feed %s failed: %v", feedURL, err)
			continue
		}

		count := 0
		for _, item := range feed.Items {
			if count >= maxItemsPerFeed {
				break
			}

			publishedAt := time.Time{}
			if item.PublishedParsed != nil {
				publishedAt = *item.PublishedParsed
			} else if item.UpdatedParsed != nil {
				publishedAt = *item.UpdatedParsed
			}

			items = append(items, models.LinkItem{
				FeedTitle:   feed.Title,
				FeedURL:     feedURL,
				Title:       item.Title,
				Link:        item.Link,
				PublishedAt: publishedAt,
			})
			count++
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})

	// 记住这批链接,供阅读视图校验
	s.mu.Lock()
	for _, item := range items {
		s.known[item.Link] = true
	}
	s.mu.Unlock()

	return items
}

// Knows 链接是否出现在聚合结果里,阅读视图用它挡住任意 URL 抓取
func (s *BlogrollService) Knows(link string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.known[link]
}
