package httperror

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/anonforum/forum/pkg/logger"
	"github.com/gin-gonic/gin"
)

var pageTmpl = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Status}} {{.Message}}</title></head>
<body>
<h1>{{.Status}} {{.Message}}</h1>
<p><a href="/">Back to the board</a></p>
</body>
</html>
`))

// Body is the JSON error envelope.
type Body struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
	Code   string `json:"code"`
}

// WantsJSON reports whether path belongs to the JSON API.
func WantsJSON(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

// Abort writes err and stops the handler chain. API paths get the JSON
// envelope, everything else a small HTML page. The cause is logged for 5xx
// and never sent to the client.
func Abort(c *gin.Context, err error) {
	e := From(err)
	if e.Status >= 500 {
		logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, e)
	}
	_ = c.Error(e)

	if WantsJSON(c.Request.URL.Path) {
		c.AbortWithStatusJSON(e.Status, Body{Error: e.Message, Status: e.Status, Code: e.Code})
		return
	}
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, e); err != nil {
		c.AbortWithStatus(e.Status)
		return
	}
	c.Abort()
	c.Data(e.Status, "text/html; charset=utf-8", buf.Bytes())
}
