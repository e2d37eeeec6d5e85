package llm

import (
	"context"
	"net"
	"os"
	"strconv"
	"time"
)

// Client is the minimal surface the pipeline tasks need from a language
// model provider.
type Client interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

func clientTimeout() time.Duration {
	if v := os.Getenv("LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Millisecond
		}
	}
	return 45 * time.Second
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}

func backoff(i int) time.Duration {
	return time.Duration(250*(1<<i)) * time.Millisecond
}
