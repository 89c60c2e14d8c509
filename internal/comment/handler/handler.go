package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/anonforum/forum/handlers"
	"github.com/anonforum/forum/internal/comment"
	"github.com/anonforum/forum/internal/comment/service"
	"github.com/anonforum/forum/pkg/httperror"
	"github.com/anonforum/forum/pkg/metrics"
	"github.com/anonforum/forum/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// Options configures the comment routes. The guard chains run before the
// route handler (rate limits, CSRF); nil chains mean no guards.
type Options struct {
	// FormSilentDrop redirects rejected form submissions as if they had been
	// accepted. Storage failures are never dropped.
	FormSilentDrop bool

	PageGuards  []gin.HandlerFunc
	ReadGuards  []gin.HandlerFunc
	WriteGuards []gin.HandlerFunc
	FormGuards  []gin.HandlerFunc
}

type commentHandler struct {
	svc  service.Service
	opts Options
}

// RegisterCommentRoutes mounts the board page, the JSON API and the form endpoint.
func RegisterCommentRoutes(r gin.IRoutes, svc service.Service, opts Options) {
	h := &commentHandler{svc: svc, opts: opts}

	r.GET("/", chain(opts.PageGuards, h.page)...)
	r.GET("/api/comments", chain(opts.ReadGuards, h.list)...)
	r.POST("/api/comments", chain(opts.WriteGuards, h.create)...)
	r.POST("/post", chain(opts.FormGuards, h.submitForm)...)
}

func chain(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(guards)+1)
	out = append(out, guards...)
	return append(out, h)
}

func (h *commentHandler) page(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		httperror.Abort(c, h.classify(err))
		return
	}
	handlers.RenderBoard(c, handlers.NewBoardPage(list, middleware.CSRFToken(c), h.svc.MaxLength()))
}

func (h *commentHandler) list(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		httperror.Abort(c, h.classify(err))
		return
	}
	c.JSON(http.StatusOK, toResponses(list))
}

func (h *commentHandler) create(c *gin.Context) {
	// a JSON content type cannot be sent cross-site without a preflight
	if !isJSON(c.GetHeader("Content-Type")) {
		httperror.Abort(c, httperror.InvalidBody(errors.New("content type must be application/json")))
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httperror.Abort(c, middleware.AsBodyError(err))
		return
	}

	created, err := h.svc.Submit(c.Request.Context(), req.Content)
	if err != nil {
		httperror.Abort(c, h.classify(err))
		return
	}
	metrics.CommentsCreated.WithLabelValues("api").Inc()
	c.JSON(http.StatusCreated, toResponse(created))
}

func (h *commentHandler) submitForm(c *gin.Context) {
	if err := middleware.ParseForm(c); err != nil {
		httperror.Abort(c, err)
		return
	}
	var raw *string
	if vs := c.Request.PostForm["content"]; len(vs) > 0 {
		raw = &vs[0]
	}

	_, err := h.svc.Submit(c.Request.Context(), raw)
	switch {
	case err == nil:
		metrics.CommentsCreated.WithLabelValues("form").Inc()
	case errors.Is(err, comment.ErrStorageUnavailable), !h.opts.FormSilentDrop:
		httperror.Abort(c, h.classify(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// classify maps service errors onto the client-facing taxonomy.
func (h *commentHandler) classify(err error) error {
	switch {
	case errors.Is(err, comment.ErrMissingContent):
		return httperror.MissingContent()
	case errors.Is(err, comment.ErrEmptyContent):
		return httperror.EmptyContent()
	case errors.Is(err, comment.ErrContentTooLong):
		return httperror.ContentTooLong(h.svc.MaxLength())
	case errors.Is(err, comment.ErrStorageUnavailable):
		return httperror.StorageUnavailable(err)
	}
	return httperror.Internal(err)
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/json"
}
