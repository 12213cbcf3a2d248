package handlers

import (
	"os"

	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables shared by all pages
// obj 可能来自页面缓存,会被多个并发请求同时拿到,公共变量只写进副本,不动原 map
func Render(c *gin.Context, code int, name string, obj gin.H) {
	c.HTML(code, name, withCommonVars(c, obj))
}

// withCommonVars 返回补上公共变量后的浅拷贝
func withCommonVars(c *gin.Context, obj gin.H) gin.H {
	merged := make(gin.H, len(obj)+8)
	for k, v := range obj {
		merged[k] = v
	}

	merged["SiteName"] = siteName()
	merged["SiteURL"] = siteURL()
	merged["CurrentPath"] = c.Request.URL.Path

	// 模板里会用到这些键,没传的补上空值,避免模板执行报错
	if _, ok := merged["Active"]; !ok {
		merged["Active"] = ""
	}
	if _, ok := merged["Title"]; !ok {
		merged["Title"] = siteName()
	}
	if _, ok := merged["Description"]; !ok {
		merged["Description"] = ""
	}
	if _, ok := merged["Keywords"]; !ok {
		merged["Keywords"] = ""
	}
	if _, ok := merged["FullURL"]; !ok {
		merged["FullURL"] = siteURL() + c.Request.URL.Path
	}

	return merged
}

// Error helper
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}

// siteURL 从环境变量获取网站 URL,未设置时用默认值
func siteURL() string {
	u := os.Getenv("SITE_URL")
	if u == "" {
		u = "https://moke.pub"
	}
	return u
}

// siteName 站点名称
func siteName() string {
	n := os.Getenv("SITE_NAME")
	if n == "" {
		n = "墨客"
	}
	return n
}
