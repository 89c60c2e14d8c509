package handler

import "github.com/anonforum/forum/internal/comment"

// CreateCommentRequest is the POST /api/comments body. Content is a pointer
// so an absent field can be told apart from an empty one.
type CreateCommentRequest struct {
	Content *string `json:"content"`
}

// CommentResponse is the wire form of a comment.
type CommentResponse struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func toResponse(c *comment.Comment) CommentResponse {
	return CommentResponse{ID: c.ID, Content: c.Content, CreatedAt: c.CreatedAtString()}
}

// toResponses never returns nil so an empty board encodes as [].
func toResponses(list []*comment.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toResponse(c))
	}
	return out
}
