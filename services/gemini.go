package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/dtnghia/syllabus-backend/utils"
)

// One Gemini client per process, created on first use and reused by every
// request after that.
var (
	geminiOnce   sync.Once
	geminiClient *genai.Client
	geminiErr    error
)

func geminiGet() (*genai.Client, error) {
	geminiOnce.Do(func() {
		geminiClient, geminiErr = genai.NewClient(
			context.Background(),
			option.WithAPIKey(os.Getenv("GEMINI_API_KEY")),
		)
	})
	if geminiErr != nil {
		return nil, fmt.Errorf("cannot create Gemini client: %v: %w", geminiErr, utils.ErrUpstream)
	}
	return geminiClient, nil
}

func geminiModelName() string {
	if name := os.Getenv("GEMINI_MODEL"); name != "" {
		return name
	}
	return "gemini-2.0-flash"
}

func partsToText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(fmt.Sprintf("%v", part))
	}
	return sb.String()
}

// GeminiGenerateText sends a prompt and returns the full response text.
func GeminiGenerateText(ctx context.Context, prompt string) (string, error) {
	client, err := geminiGet()
	if err != nil {
		return "", err
	}

	model := client.GenerativeModel(geminiModelName())
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %v: %w", err, utils.ErrUpstream)
	}

	text := partsToText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini returned no usable result: %w", utils.ErrUpstream)
	}
	return text, nil
}

// GeminiStreamChat continues a chat with the given history and streams the
// answer chunk by chunk through onChunk. Returns the full answer text.
func GeminiStreamChat(ctx context.Context, history []*genai.Content, message string, onChunk func(chunk string) error) (string, error) {
	client, err := geminiGet()
	if err != nil {
		return "", err
	}

	model := client.GenerativeModel(geminiModelName())
	session := model.StartChat()
	session.History = history

	iter := session.SendMessageStream(ctx, genai.Text(message))

	var full strings.Builder
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return full.String(), fmt.Errorf("gemini stream failed: %v: %w", err, utils.ErrUpstream)
		}
		chunk := partsToText(resp)
		if chunk == "" {
			continue
		}
		full.WriteString(chunk)
		if onChunk != nil {
			if err := onChunk(chunk); err != nil {
				return full.String(), err
			}
		}
	}
	return full.String(), nil
}

// CleanModelJSON strips the markdown code fences Gemini likes to wrap
// JSON answers in.
func CleanModelJSON(raw string) string {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "`")
	clean = strings.TrimPrefix(clean, "json")
	return strings.TrimSpace(clean)
}
