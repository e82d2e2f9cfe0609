// Package ai wraps the OpenAI calls behind the voice feature: audio
// transcription and Persian/English translation. Nothing in the review
// loop depends on it.
package ai

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	transcribeModel = "gpt-4o-transcribe"
	translateModel  = openai.GPT4oMini
)

const translateSystemPrompt = "You are a translator between Persian and English. " +
	"Translate the user's text naturally and idiomatically. " +
	"Reply with the translation only, no commentary."

// Client calls the OpenAI API for transcription and translation.
type Client struct {
	api *openai.Client
}

// New creates a client; the API key must be non-empty.
func New(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is empty")
	}
	return &Client{api: openai.NewClient(apiKey)}, nil
}

// Transcribe converts an audio payload (Telegram voice notes are ogg) to
// text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    transcribeModel,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// Translate renders text into the target language ("en" or "fa").
func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: translateModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: translateSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Translate to %s:\n%s", targetLang, text)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("translation request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("translation returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ContainsPersian reports whether the text has any Arabic-script runes,
// used to pick the translation direction for transcribed voice notes.
func ContainsPersian(text string) bool {
	for _, r := range text {
		if r >= 0x0600 && r <= 0x06FF {
			return true
		}
	}
	return false
}
