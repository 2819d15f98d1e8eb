package model

// Ticket is the unit of classification input: free text as submitted.
type Ticket struct {
	Text string `json:"text"`
}

// Prediction is the top-ranked classification of a single ticket.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"` // in [0, 1]
}
