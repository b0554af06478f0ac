// Package provider implements the send interface the conversation layer
// consumes: given a role-tagged message history and a model, return the
// assistant's reply as a plain string.
//
// OpenAI and Perplexity share the OpenAI wire format; Anthropic speaks its
// own. A simulated sender covers offline use and tests. There is no retry
// or backoff here; a failed send surfaces to the caller as-is.
package provider

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/chatvault/internal/client/models"
	"github.com/dmitrijs2005/chatvault/internal/common"
)

// ApiMessage is one history entry in provider wire order.
type ApiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request carries everything a sender needs for one exchange. History is the
// full conversation in order; Message is the newest user text (already the
// last History entry).
type Request struct {
	Message          string
	Model            models.ModelInfo
	Temperature      float64
	Stream           bool
	SimulateResponse bool
	History          []ApiMessage
}

// Sender produces one assistant reply for a request.
type Sender interface {
	Send(ctx context.Context, req Request) (string, error)
}

// Router dispatches a request to the sender registered for the model's
// provider. Requests flagged SimulateResponse bypass routing entirely.
type Router struct {
	senders   map[string]Sender
	simulated Sender
}

func NewRouter() *Router {
	return &Router{
		senders:   make(map[string]Sender),
		simulated: NewSimulatedSender(),
	}
}

// Register binds a sender to a provider name ("openai", "anthropic", …).
func (r *Router) Register(providerName string, s Sender) *Router {
	r.senders[providerName] = s
	return r
}

func (r *Router) Send(ctx context.Context, req Request) (string, error) {
	if req.SimulateResponse {
		return r.simulated.Send(ctx, req)
	}

	s, ok := r.senders[req.Model.Provider]
	if !ok {
		return "", fmt.Errorf("%w: %s", common.ErrorUnknownProvider, req.Model.Provider)
	}
	return s.Send(ctx, req)
}
