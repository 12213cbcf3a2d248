package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"moke/internal/models"
	"moke/internal/utils"

	"github.com/goccy/go-yaml"
)

// PostStore 文章仓库,启动时把 content 目录下的 Markdown 全部加载进内存
// 加载完只读,改了文件调 Reload 重新扫一遍
type PostStore struct {
	dir string

	mu     sync.RWMutex
	posts  []*models.Post // 按发布时间倒序
	bySlug map[string]*models.Post
}

// NewPostStore 创建文章仓库实例
func NewPostStore() *PostStore {
	dir := os.Getenv("CONTENT_DIR")
	if dir == "" {
		dir = "./content/posts"
	}
	return &PostStore{
		dir:    dir,
		bySlug: make(map[string]*models.Post),
	}
}

// 全局单例
var postStore *PostStore

// GetPostStore 获取文章仓库单例,首次调用时完成加载
func GetPostStore() *PostStore {
	if postStore == nil {
		postStore = NewPostStore()
		if err := postStore.Reload(); err != nil {
			log.Fatalf("Failed to load posts: %v", err)
		}
	}
	return postStore
}

// frontMatter 文章头部的 YAML 元信息,沿用 Jekyll 的写法
type frontMatter struct {
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	Tags    []string `yaml:"tags"`
	Summary string   `yaml:"summary"`
	Issue   int      `yaml:"issue"`
	Draft   bool     `yaml:"draft"`
}

// 文件名里的日期前缀,如 2024-01-02-hello.md
var datePrefixRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-`)

// Reload 重新扫描 content 目录并替换内存索引
func (s *PostStore) Reload() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("读取文章目录失败: %w", err)
	}

	var posts []*models.Post
	bySlug := make(map[string]*models.Post)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		post, err := parsePostFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			// 单个文件坏了不影响整站
			log.Printf("Skip post %s: %v", entry.Name(), err)
			continue
		}
		if post == nil {
			continue // 草稿
		}

		posts = append(posts, post)
		bySlug[post.Slug] = post
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})

	s.mu.Lock()
	s.posts = posts
	s.bySlug = bySlug
	s.mu.Unlock()

	// 列表页缓存里还是旧文章,直接清掉
	utils.GetCache().Purge()

	log.Printf("Loaded %d posts from %s", len(posts), s.dir)
	return nil
}

// parsePostFile 解析单个 Markdown 文件,草稿返回 (nil, nil)
func parsePostFile(path string) (*models.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fm, body, err := splitFrontMatter(string(data))
	if err != nil {
		return nil, err
	}

	var meta frontMatter
	if err := yaml.Unmarshal([]byte(fm), &meta); err != nil {
		return nil, fmt.Errorf("解析 Front Matter 失败: %w", err)
	}
	if meta.Draft {
		return nil, nil
	}
	if meta.Title == "" {
		return nil, fmt.Errorf("缺少标题")
	}

	name := strings.TrimSuffix(filepath.Base(path), ".md")
	slug := datePrefixRe.ReplaceAllString(name, "")

	date, err := parsePostDate(meta.Date, name)
	if err != nil {
		return nil, err
	}

	return &models.Post{
		Slug:    slug,
		Title:   meta.Title,
		Date:    date,
		Tags:    meta.Tags,
		Summary: meta.Summary,
		Issue:   meta.Issue,
		Content: body,
		HTML:    utils.RenderMarkdown(body),
	}, nil
}

// splitFrontMatter 切出 --- 包围的头部和正文
func splitFrontMatter(content string) (fm string, body string, err error) {
	if !strings.HasPrefix(content, "---") {
		// 没有 Front Matter,整个文件都是正文
		return "", content, nil
	}

	rest := strings.TrimPrefix(content, "---")
	rest = strings.TrimPrefix(rest, "\n")
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return "", "", fmt.Errorf("Front Matter 没有结束标记")
	}

	fm = rest[:idx]
	body = rest[idx+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")
	return fm, body, nil
}

// parsePostDate 解析发布时间,Front Matter 没写就用文件名前缀
func parsePostDate(raw, filename string) (time.Time, error) {
	if raw == "" {
		if m := datePrefixRe.FindStringSubmatch(filename); m != nil {
			raw = m[1]
		} else {
			return time.Time{}, fmt.Errorf("缺少发布时间")
		}
	}

	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02",
		time.RFC3339,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("无法识别的时间格式: %s", raw)
}

// List 全部文章,按发布时间倒序
func (s *PostStore) List() []*models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.posts
}

// Page 分页取文章,返回当前页和总数
func (s *PostStore) Page(page, perPage int) ([]*models.Post, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.posts)
	start := (page - 1) * perPage
	if start >= total {
		return nil, total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return s.posts[start:end], total
}

// Get 按 slug 查文章
func (s *PostStore) Get(slug string) (*models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	post, ok := s.bySlug[slug]
	return post, ok
}

// ByTag 某个标签下的文章
func (s *PostStore) ByTag(tag string) []*models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Post
	for _, post := range s.posts {
		for _, t := range post.Tags {
			if t == tag {
				result = append(result, post)
				break
			}
		}
	}
	return result
}

// Tags 所有标签及文章数,按文章数倒序
func (s *PostStore) Tags() []models.TagCount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, post := range s.posts {
		for _, t := range post.Tags {
			counts[t]++
		}
	}

	tags := make([]models.TagCount, 0, len(counts))
	for name, count := range counts {
		tags = append(tags, models.TagCount{Name: name, Count: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Name < tags[j].Name
	})
	return tags
}

// Search 标题和正文的大小写不敏感检索,最多返回 50 篇
func (s *PostStore) Search(query string) []*models.Post {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Post
	for _, post := range s.posts {
		if strings.Contains(strings.ToLower(post.Title), query) ||
			strings.Contains(strings.ToLower(post.Content), query) {
			result = append(result, post)
			if len(result) >= 50 {
				break
			}
		}
	}
	return result
}
