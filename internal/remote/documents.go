package remote

import (
	"alizia-planner/internal/domain"
	"context"
	"fmt"
	"net/http"
)

// Documents is the remote store for one document kind. Coordination
// documents and lesson plans expose the same operations under different
// endpoint scopes.
type Documents struct {
	client *Client
	kind   domain.Kind
}

func (c *Client) Documents(kind domain.Kind) *Documents {
	return &Documents{client: c, kind: kind}
}

func (d *Documents) Kind() domain.Kind {
	return d.kind
}

func (d *Documents) path(id int64, suffix string) string {
	return fmt.Sprintf("%s/%d%s", d.kind.Scope(), id, suffix)
}

func (d *Documents) Get(ctx context.Context, id int64) (*domain.Document, error) {
	var doc domain.Document
	if err := d.client.do(ctx, http.MethodGet, d.path(id, ""), nil, &doc); err != nil {
		return nil, err
	}
	doc.Kind = d.kind
	return &doc, nil
}

// Update sends a partial update. The response body is ignored: callers
// reload to pick up server-derived fields.
func (d *Documents) Update(ctx context.Context, id int64, patch domain.Patch) error {
	return d.client.do(ctx, http.MethodPatch, d.path(id, ""), patch, nil)
}

// Generate asks the assistant to author the whole document.
func (d *Documents) Generate(ctx context.Context, id int64) error {
	return d.client.do(ctx, http.MethodPost, d.path(id, "/generate"), struct{}{}, nil)
}

type generateMomentRequest struct {
	MomentType domain.MomentType `json:"moment_type"`
}

func (d *Documents) GenerateMoment(ctx context.Context, id int64, moment domain.MomentType) error {
	return d.client.do(ctx, http.MethodPost, d.path(id, "/generate-moment"), generateMomentRequest{MomentType: moment}, nil)
}

func (d *Documents) Publish(ctx context.Context, id int64) error {
	return d.client.do(ctx, http.MethodPost, d.path(id, "/publish"), struct{}{}, nil)
}

func (d *Documents) Chat(ctx context.Context, id int64, req domain.ChatRequest) (*domain.ChatResponse, error) {
	var resp domain.ChatResponse
	if err := d.client.do(ctx, http.MethodPost, d.path(id, "/chat"), req, &resp); err != nil {
		return nil, err
	}
	if updated := resp.Updated(); updated != nil {
		updated.Kind = d.kind
	}
	return &resp, nil
}

// List returns the summaries of every document of this kind visible to the caller.
func (d *Documents) List(ctx context.Context) ([]domain.DocumentSummary, error) {
	var docs []domain.DocumentSummary
	if err := d.client.do(ctx, http.MethodGet, d.kind.Scope(), nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// ListDocuments lists the coordination documents, the ones course overviews
// track progress with.
func (c *Client) ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error) {
	return c.Documents(domain.KindCoordination).List(ctx)
}
