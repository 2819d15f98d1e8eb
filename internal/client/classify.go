package client

import (
	"context"
	"net/http"

	"github.com/crimson-sun/triage/internal/model"
)

// Classify returns the service's top prediction for text.
func (c *Client) Classify(ctx context.Context, text string) (model.Prediction, error) {
	var resp struct {
		Prediction model.Prediction `json:"prediction"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/classify", model.Ticket{Text: text}, &resp); err != nil {
		return model.Prediction{}, err
	}
	return resp.Prediction, nil
}

// Health returns the service's liveness message.
func (c *Client) Health(ctx context.Context) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/", nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Status is the model loader state reported by the service.
type Status struct {
	State  string `json:"state"`
	Device string `json:"device,omitempty"`
}

// Status returns the service's model loader state.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var s Status
	err := c.doJSON(ctx, http.MethodGet, "/status", nil, &s)
	return s, err
}
