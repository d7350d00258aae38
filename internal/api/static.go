package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed web/templates/*.html web/static/*
var webFS embed.FS

// LoadTemplates parses the embedded page templates
func LoadTemplates() (*template.Template, error) {
	return template.ParseFS(webFS, "web/templates/*.html")
}

// SetupStaticRoutes sets up routes for serving static files
func SetupStaticRoutes(r *gin.Engine) {
	r.GET("/static/style.css", func(c *gin.Context) {
		c.FileFromFS("web/static/style.css", http.FS(webFS))
	})
}
