package shared

import (
	"time"
)

// TokenUsage tracks the tokens consumed by a model request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// CallMeta holds operational metadata for one engine or model invocation.
type CallMeta struct {
	Operation string
	Usage     TokenUsage
	Latency   time.Duration
}
