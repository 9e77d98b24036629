// Package http provides the answer posting and moderation endpoints
package http

import (
	stdhttp "net/http"

	"agora/internal/modkit/httpkit"
	"agora/internal/services/answers/domain"
)

// CreateInput is the post-answer payload
type CreateInput struct {
	QuestionID string `json:"question_id" validate:"required"`
	Body       string `json:"body" validate:"required"`
}

type handlers struct {
	writer domain.WriterPort
	mods   domain.ModerationPort
}

// Register mounts the answers routes
func Register(r httpkit.Router, writer domain.WriterPort, mods domain.ModerationPort) {
	h := &handlers{writer: writer, mods: mods}

	httpkit.PostJSON[CreateInput](r, "/", h.create)
	httpkit.Post(r, "/{id}/upvote", h.upvote)
	httpkit.Post(r, "/{id}/downvote", h.downvote)
	httpkit.Post(r, "/{id}/accept", h.accept)
	httpkit.Post(r, "/{id}/flag", h.flag)
}

func (h *handlers) create(r *stdhttp.Request, in CreateInput) (any, error) {
	a, err := h.writer.Create(r.Context(), httpkit.MustAgentID(r), domain.CreateInput{
		QuestionID: in.QuestionID,
		Body:       in.Body,
	})
	if err != nil {
		return nil, err
	}
	return httpkit.Created(a), nil
}

func (h *handlers) upvote(r *stdhttp.Request) (any, error) {
	return h.mods.Upvote(r.Context(), httpkit.Param(r, "id"))
}

func (h *handlers) downvote(r *stdhttp.Request) (any, error) {
	return h.mods.Downvote(r.Context(), httpkit.Param(r, "id"))
}

func (h *handlers) accept(r *stdhttp.Request) (any, error) {
	return h.mods.Accept(r.Context(), httpkit.MustAgentID(r), httpkit.Param(r, "id"))
}

func (h *handlers) flag(r *stdhttp.Request) (any, error) {
	return h.mods.Flag(r.Context(), httpkit.Param(r, "id"))
}
