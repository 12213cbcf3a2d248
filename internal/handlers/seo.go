package handlers

import (
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"moke/internal/services"

	"github.com/gin-gonic/gin"
)

type SEOHandler struct{}

func NewSEOHandler() *SEOHandler {
	return &SEOHandler{}
}

// RobotsTxt 返回 robots.txt 内容
func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	site := siteURL()
	content := fmt.Sprintf(`User-agent: *
Allow: /

# 评论片段和阅读视图是页面内部接口,不用收录
Disallow: /p/*/comments
Disallow: /links/read

# Sitemap位置
Sitemap: %s/sitemap.xml
`, site)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

// SitemapXML 动态生成 sitemap.xml
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	site := siteURL()
	now := time.Now().Format("2006-01-02")

	xml := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`

	// 首页
	xml += fmt.Sprintf(`  <url>
    <loc>%s/</loc>
    <lastmod>%s</lastmod>
    <changefreq>daily</changefreq>
    <priority>1.0</priority>
  </url>
`, site, now)

	// 友链页
	xml += fmt.Sprintf(`  <url>
    <loc>%s/links</loc>
    <lastmod>%s</lastmod>
    <changefreq>weekly</changefreq>
    <priority>0.6</priority>
  </url>
`, site, now)

	// 标签页,标签名可能带空格或 & 之类的字符,先转成合法的 URL 再做 XML 转义
	for _, tag := range services.GetPostStore().Tags() {
		loc := fmt.Sprintf("%s/t/%s", site, url.PathEscape(tag.Name))
		xml += fmt.Sprintf(`  <url>
    <loc>%s</loc>
    <lastmod>%s</lastmod>
    <changefreq>weekly</changefreq>
    <priority>0.7</priority>
  </url>
`, escapeXML(loc), now)
	}

	// 文章详情页,按文章新旧调整优先级
	for _, post := range services.GetPostStore().List() {
		lastmod := post.Date.Format("2006-01-02")
		daysSincePublished := time.Since(post.Date).Hours() / 24
		priority := 0.6
		changefreq := "monthly"

		if daysSincePublished < 7 {
			priority = 0.8
			changefreq = "daily"
		} else if daysSincePublished < 30 {
			priority = 0.7
			changefreq = "weekly"
		}

		xml += fmt.Sprintf(`  <url>
    <loc>%s/p/%s</loc>
    <lastmod>%s</lastmod>
    <changefreq>%s</changefreq>
    <priority>%.1f</priority>
  </url>
`, site, post.Slug, lastmod, changefreq, priority)
	}

	xml += `</urlset>`

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, xml)
}

// RSSFeed 生成 RSS 2.0 feed
func (h *SEOHandler) RSSFeed(c *gin.Context) {
	site := siteURL()
	now := time.Now()

	// 最新 20 篇
	posts := services.GetPostStore().List()
	if len(posts) > 20 {
		posts = posts[:20]
	}

	rss := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">
  <channel>
    <title>` + escapeXML(siteName()) + `</title>
    <link>` + site + `</link>
    <description>写代码也写字的个人博客</description>
    <language>zh-CN</language>
    <lastBuildDate>` + now.Format(time.RFC1123Z) + `</lastBuildDate>
    <atom:link href="` + site + `/feed.xml" rel="self" type="application/rss+xml"/>
`

	for _, post := range posts {
		link := fmt.Sprintf("%s/p/%s", site, post.Slug)

		// 按段落截取前几个块级元素作为摘要
		content := truncateByParagraph(string(post.HTML), 3)
		content += fmt.Sprintf(`<p><br><a href="%s">阅读全文与评论 →</a></p>`, link)

		category := ""
		if len(post.Tags) > 0 {
			category = `
      <category>` + escapeXML(post.Tags[0]) + `</category>`
		}

		rss += `    <item>
      <title>` + escapeXML(post.Title) + `</title>
      <link>` + link + `</link>
      <description><![CDATA[` + escapeCDATA(content) + `]]></description>` + category + `
      <pubDate>` + post.Date.Format(time.RFC1123Z) + `</pubDate>
      <guid isPermaLink="true">` + link + `</guid>
    </item>
`
	}

	rss += `  </channel>
</rss>`

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.String(http.StatusOK, rss)
}

// escapeXML 转义 XML 特殊字符
func escapeXML(s string) string {
	// html.EscapeString 能正确处理中文
	return html.EscapeString(s)
}

// escapeCDATA 正文里万一出现 ]]> 会提前结束 CDATA 段,拆开重接
func escapeCDATA(s string) string {
	return strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>")
}

// truncateByParagraph 按段落截取 HTML,保留前几个完整块级元素
func truncateByParagraph(content string, maxBlocks int) string {
	re := regexp.MustCompile(`(?s)(<(?:p|div|h[1-6]|ul|ol|blockquote|pre)[^>]*>.*?</(?:p|div|h[1-6]|ul|ol|blockquote|pre)>)`)
	matches := re.FindAllString(content, maxBlocks)

	if len(matches) == 0 {
		// 没有块级元素,回退到纯文本截取,长短都返回纯文本
		runes := []rune(stripHTML(content))
		if len(runes) > 300 {
			return string(runes[:300]) + "..."
		}
		return string(runes)
	}

	return strings.Join(matches, "\n")
}

// stripHTML 去除 HTML 标签
func stripHTML(s string) string {
	re := regexp.MustCompile(`<[^>]*>`)
	return re.ReplaceAllString(s, "")
}
