package provider

import (
	"context"
	"fmt"
)

// SimulatedSender returns a canned reply without touching the network. Used
// for offline mode and tests.
type SimulatedSender struct{}

func NewSimulatedSender() *SimulatedSender {
	return &SimulatedSender{}
}

func (s *SimulatedSender) Send(_ context.Context, req Request) (string, error) {
	return fmt.Sprintf("This is a simulated response from %s. You said: %q", req.Model.Name, req.Message), nil
}
