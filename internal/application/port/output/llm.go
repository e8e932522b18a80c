package output

import "context"

// CompletionRequest is a single-turn completion. Images are PNG or JPEG
// screenshots attached as vision parts alongside the prompt.
type CompletionRequest struct {
	Prompt      string
	Images      [][]byte
	Temperature float32
	MaxTokens   int
}

type LLMPort interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
