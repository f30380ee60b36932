package utils

import (
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ShouldRetry reports whether an OpenAI call failed with a transient error
// worth one retry.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "rate limit") ||
		strings.Contains(errMsg, "500 internal server error") ||
		strings.Contains(errMsg, "502 bad gateway") ||
		strings.Contains(errMsg, "503 service unavailable") ||
		strings.Contains(errMsg, "504 gateway timeout") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "connection reset by peer") ||
		strings.Contains(errMsg, "context deadline exceeded") {
		return true
	}
	var openAIErr *openai.APIError
	if errors.As(err, &openAIErr) {
		if openAIErr.HTTPStatusCode >= 500 || openAIErr.HTTPStatusCode == 429 {
			return true
		}
	}
	return false
}
