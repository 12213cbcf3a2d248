package utils

import (
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// EnhanceHTMLContent 为 HTML 中的图片补充安全和懒加载属性,并把单独成段的视频链接转换为嵌入式播放器
// 文章正文和评论正文共用这一遍处理
func EnhanceHTMLContent(htmlStr string) template.HTML {
	if htmlStr == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return template.HTML(htmlStr)
	}

	// 增强图片属性
	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		s.SetAttr("referrerpolicy", "no-referrer")
		s.SetAttr("loading", "lazy")
	})

	// 单独成段的视频链接换成播放器
	doc.Find("p").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if !strings.HasPrefix(text, "http") || strings.Contains(text, " ") {
			return
		}
		if embed := videoEmbedHTML(text); embed != "" {
			s.ReplaceWithHtml(embed)
		}
	})

	// goquery 解析后会补全 html/body 标签,只取 body 内的内容
	out, _ := doc.Find("body").Html()
	if out == "" {
		out, _ = doc.Html()
	}

	return template.HTML(out)
}

// videoEmbedHTML 识别 Bilibili / YouTube 视频链接,返回嵌入播放器 HTML,识别不了返回空串
func videoEmbedHTML(link string) string {
	const iframeAttrs = `frameborder="0" allowfullscreen allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture"`

	switch {
	case strings.Contains(link, "bilibili.com/video/"):
		parts := strings.Split(link, "/video/")
		if len(parts) < 2 {
			return ""
		}
		bvid := strings.Split(parts[1], "?")[0]
		bvid = strings.TrimSuffix(bvid, "/")
		return `<div class="video-container"><iframe src="https://player.bilibili.com/player.html?bvid=` + bvid + `&high_quality=1&autoplay=0" ` + iframeAttrs + `></iframe></div>`
	case strings.Contains(link, "youtube.com/watch?v="):
		parts := strings.Split(link, "v=")
		if len(parts) < 2 {
			return ""
		}
		videoID := strings.Split(parts[1], "&")[0]
		return `<div class="video-container"><iframe src="https://www.youtube.com/embed/` + videoID + `" ` + iframeAttrs + `></iframe></div>`
	case strings.Contains(link, "youtu.be/"):
		parts := strings.Split(link, "youtu.be/")
		if len(parts) < 2 {
			return ""
		}
		videoID := strings.Split(parts[1], "?")[0]
		return `<div class="video-container"><iframe src="https://www.youtube.com/embed/` + videoID + `" ` + iframeAttrs + `></iframe></div>`
	}
	return ""
}
