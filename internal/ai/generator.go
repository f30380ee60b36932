package ai

import (
	openai "github.com/sashabaranov/go-openai"
)

// Generator wraps the OpenAI client used for project generation.
type Generator struct {
	client *openai.Client
	model  string
}

func NewGenerator(apiKey string, model string) *Generator {
	if model == "" {
		model = openai.GPT4o
	}
	return &Generator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}
