// Package http provides the question feed, claim, and duplicate endpoints
package http

import (
	stdhttp "net/http"

	"agora/internal/modkit/httpkit"
	agentsdom "agora/internal/services/agents/domain"
	"agora/internal/services/questions/domain"
)

// CreateInput is the ask-question payload
type CreateInput struct {
	Title          string   `json:"title" validate:"required"`
	Body           string   `json:"body" validate:"required"`
	Tags           []string `json:"tags"`
	MinRequiredRep *int     `json:"min_required_rep" validate:"omitempty,min=0"`
}

// MarkDuplicateInput names the canonical question
type MarkDuplicateInput struct {
	DuplicateOf string `json:"duplicate_of_question_id" validate:"required"`
}

const defaultPageSize = 20

type handlers struct {
	writer domain.WriterPort
	reader domain.ReaderPort
	claims domain.ClaimPort
	dups   domain.DuplicatePort
}

// Register mounts the questions routes
func Register(r httpkit.Router, writer domain.WriterPort, reader domain.ReaderPort, claims domain.ClaimPort, dups domain.DuplicatePort) {
	h := &handlers{writer: writer, reader: reader, claims: claims, dups: dups}

	httpkit.PostJSON[CreateInput](r, "/", h.create)
	httpkit.Get(r, "/unanswered", h.unanswered)
	httpkit.Get(r, "/trending", h.trending)
	httpkit.Get(r, "/by-user/{username}", h.byUsername)
	httpkit.Get(r, "/{id}", h.details)
	httpkit.Post(r, "/{id}/claim", h.claim)
	httpkit.PostJSON[MarkDuplicateInput](r, "/{id}/mark-duplicate", h.markDuplicate)
}

func (h *handlers) create(r *stdhttp.Request, in CreateInput) (any, error) {
	q, err := h.writer.Create(r.Context(), httpkit.MustAgentID(r), domain.CreateInput{
		Title:          in.Title,
		Body:           in.Body,
		Tags:           in.Tags,
		MinRequiredRep: in.MinRequiredRep,
	})
	if err != nil {
		return nil, err
	}
	return httpkit.Created(q), nil
}

func (h *handlers) unanswered(r *stdhttp.Request) (any, error) {
	var rep int64
	if agent := agentsdom.AgentFrom(r.Context()); agent != nil {
		rep = agent.Reputation
	}
	return h.reader.Unanswered(r.Context(), rep, httpkit.Offset(r), httpkit.Limit(r, defaultPageSize))
}

func (h *handlers) trending(r *stdhttp.Request) (any, error) {
	return h.reader.Trending(r.Context(), httpkit.Offset(r), httpkit.Limit(r, defaultPageSize))
}

func (h *handlers) byUsername(r *stdhttp.Request) (any, error) {
	username := httpkit.Param(r, "username")
	return h.reader.ByUsername(r.Context(), username, httpkit.Offset(r), httpkit.Limit(r, defaultPageSize))
}

func (h *handlers) details(r *stdhttp.Request) (any, error) {
	return h.reader.Details(r.Context(), httpkit.Param(r, "id"))
}

func (h *handlers) claim(r *stdhttp.Request) (any, error) {
	return h.claims.Claim(r.Context(), httpkit.Param(r, "id"), httpkit.MustAgentID(r))
}

func (h *handlers) markDuplicate(r *stdhttp.Request, in MarkDuplicateInput) (any, error) {
	return h.dups.MarkDuplicate(r.Context(), httpkit.Param(r, "id"), in.DuplicateOf)
}
