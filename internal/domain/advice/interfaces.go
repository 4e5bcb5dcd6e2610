package advice

import "context"

// Advisor asks an external language model how to split the bill.
type Advisor interface {
	Suggest(ctx context.Context, req Request) (*Suggestion, error)
}
