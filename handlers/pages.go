package handlers

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/anonforum/forum/internal/comment"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const boardTemplate = "index.html"

// BoardPage is the data behind GET /.
type BoardPage struct {
	Comments  []CommentView
	CSRFToken string
	MaxLength int
}

type CommentView struct {
	ID        int64
	Content   template.HTML
	CreatedAt string
}

// NewBoardPage converts stored comments for the template. Stored content is
// sanitizer output (markup-free, & < > escaped), so it is emitted verbatim.
func NewBoardPage(list []*comment.Comment, csrfToken string, maxLen int) BoardPage {
	p := BoardPage{Comments: make([]CommentView, 0, len(list)), CSRFToken: csrfToken, MaxLength: maxLen}
	for _, c := range list {
		p.Comments = append(p.Comments, CommentView{
			ID:        c.ID,
			Content:   template.HTML(c.Content), //nolint:gosec
			CreatedAt: c.CreatedAtString(),
		})
	}
	return p
}

// LoadTemplates installs the embedded page templates on r.
func LoadTemplates(r *gin.Engine) {
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))
}

// RenderBoard writes the board page. LoadTemplates must have been called.
func RenderBoard(c *gin.Context, page BoardPage) {
	c.HTML(http.StatusOK, boardTemplate, page)
}

// RegisterStatic serves the page script plus robots.txt and favicon.ico.
func RegisterStatic(rg gin.IRoutes) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	rg.StaticFS("/static", http.FS(sub))

	rg.GET("/robots.txt", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte("User-agent: *\nDisallow:\n"))
	})
	// no icon; avoids 404 noise in logs
	rg.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}
