package http

import (
	"context"
	"net/http"
)

// GetSender sends a Request without a body.
type GetSender struct {
	transaction
}

// NewGetSender returns a Sender for req. An empty Request method means GET.
func NewGetSender(req *Request, opts ...Option) *GetSender {
	return &GetSender{transaction: newTransaction(req, http.MethodGet, opts)}
}

func (s *GetSender) Send(ctx context.Context) (*Response, error) {
	return s.send(ctx, nil)
}
