package services

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

// ReaderService 友链文章的站内阅读视图
// 抓原文、抽正文、清洗后直接展示,不存任何东西
type ReaderService struct {
	client    *http.Client
	sanitizer *bluemonday.Policy
}

// NewReaderService 创建阅读服务实例
func NewReaderService() *ReaderService {
	return &ReaderService{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// 全局单例
var readerService *ReaderService

// GetReaderService 获取阅读服务单例
func GetReaderService() *ReaderService {
	if readerService == nil {
		readerService = NewReaderService()
	}
	return readerService
}

// Extract 抓取页面并提取正文,返回标题和清洗后的 HTML
func (s *ReaderService) Extract(pageURL string) (title string, content string, err error) {
	req, err := http.NewRequest("GET", pageURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("创建请求失败: %w", err)
	}

	// 模拟浏览器,部分博客对裸 UA 返回 403
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("HTTP 状态码: %d", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, nil)
	if err != nil {
		return "", "", fmt.Errorf("解析正文失败: %w", err)
	}

	clean := s.sanitizer.Sanitize(article.Content)
	if strings.TrimSpace(clean) == "" {
		return "", "", fmt.Errorf("正文为空")
	}

	return article.Title, clean, nil
}
