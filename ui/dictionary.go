package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// handleDictionary serves the data dictionary, rendered to HTML by default or
// as raw Markdown with ?format=md.
func (s *Server) handleDictionary(c *gin.Context) {
	source, err := embeddedFiles.ReadFile("templates/dictionary.md")
	if err != nil {
		s.logger.Error("Dictionary not found: %v", err)
		c.String(http.StatusInternalServerError, "Dictionary not found")
		return
	}

	if c.Query("format") == "md" {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, string(source))
		return
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	rendered := markdown.Render(p.Parse(source), renderer)

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, string(rendered))
}
