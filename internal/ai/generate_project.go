package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"ingenio_ai_server/internal/ai/prompts"
	"ingenio_ai_server/internal/parser"
	"ingenio_ai_server/internal/types"
	"ingenio_ai_server/internal/utils"
)

// GenerateProject runs the initial generation round as a streaming call.
// Every received delta is appended to the accumulated response text, the
// full text is re-parsed, and onUpdate (optional) gets the fresh snapshot so
// callers can render partial progress. Returns the completed files from the
// final snapshot.
func (g *Generator) GenerateProject(ctx context.Context, userPrompt string, onUpdate func(parser.ParseResult)) ([]types.GeneratedFile, error) {
	fullPrompt := fmt.Sprintf(prompts.GetProjectGenerationPrompt(), userPrompt)

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a helpful AI assistant that generates code based on user prompts and specific formatting instructions."},
			{Role: openai.ChatMessageRoleUser, Content: fullPrompt},
		},
		Temperature: 0.3, // Lower temperature for more predictable code generation
		Stream:      true,
	}

	text, err := g.streamCompletion(ctx, req, onUpdate)
	final := parser.ParseFilesFromResponse(text)
	if err != nil {
		if len(final.Files) == 0 {
			return nil, fmt.Errorf("project generation stream failed: %w", err)
		}
		// Salvage the files that closed before the stream broke.
		log.Printf("WARN: Stream interrupted, keeping %d completed files: %v", len(final.Files), err)
	}
	if final.CurrentFile != nil {
		log.Printf("WARN: Generation stream ended inside file %s; the partial file is dropped.", final.CurrentFile.Path)
	}
	if len(final.Files) == 0 {
		return nil, errors.New("model did not generate any files")
	}

	log.Printf("Successfully parsed %d files from model output.", len(final.Files))
	return final.Files, nil
}

// GenerateCodeChanges runs a refinement round. The model is instructed to
// re-emit only the files it changed; merging the result into the previous
// file list is the caller's job (session.Store or parser.MergeGeneratedFiles).
func (g *Generator) GenerateCodeChanges(ctx context.Context, userQuery string, contextFiles string, onUpdate func(parser.ParseResult)) ([]types.GeneratedFile, error) {
	fullPrompt, systemPrompt := prompts.GetCodeChangePrompt(userQuery, contextFiles)

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fullPrompt},
		},
		Temperature: 0.3, // Keep temperature low for focused edits
		Stream:      true,
	}

	text, err := g.streamCompletion(ctx, req, onUpdate)
	if err != nil {
		return nil, fmt.Errorf("code change stream failed: %w", err)
	}

	final := parser.ParseFilesFromResponse(text)
	log.Printf("Model suggested %d file changes/additions.", len(final.Files))
	// An empty result is valid here: the model may decide nothing changed.
	return final.Files, nil
}

// streamCompletion opens the stream (retrying once on transient errors),
// accumulates deltas, and re-parses the whole accumulated text per delta.
func (g *Generator) streamCompletion(ctx context.Context, req openai.ChatCompletionRequest, onUpdate func(parser.ParseResult)) (string, error) {
	stream, err := g.client.CreateChatCompletionStream(ctx, req)
	if err != nil && utils.ShouldRetry(err) {
		log.Printf("OpenAI stream open failed, retrying once after delay... Error: %v", err)
		time.Sleep(2 * time.Second)
		stream, err = g.client.CreateChatCompletionStream(ctx, req)
	}
	if err != nil {
		return "", fmt.Errorf("openai chat completion stream failed: %w", err)
	}
	defer stream.Close()

	var acc strings.Builder
	for {
		resp, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			// Keep whatever arrived; the caller can still salvage the
			// completed files out of a truncated response.
			log.Printf("WARN: Stream receive error after %d bytes: %v", acc.Len(), recvErr)
			return acc.String(), recvErr
		}
		if len(resp.Choices) == 0 {
			continue
		}
		acc.WriteString(resp.Choices[0].Delta.Content)
		if onUpdate != nil {
			onUpdate(parser.ParseFilesFromResponse(acc.String()))
		}
	}
	return acc.String(), nil
}
