// Package assistant builds the suggest and explain prompts, turns model
// responses into commands and explanations, and grades suggested commands
// by risk.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/quocvuong92/shell-ai/internal/api"
	"github.com/quocvuong92/shell-ai/internal/constants"
	"github.com/quocvuong92/shell-ai/internal/logging"
)

// Completer sends one chat completion request. *api.Client implements it.
type Completer interface {
	Complete(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
}

// Suggestion is one shell command proposed by the model
type Suggestion struct {
	Command string `json:"command"`
}

// ErrEmptyPrompt is returned when there is nothing to ask for
var ErrEmptyPrompt = errors.New("describe what you want to do as a single sentence")

var suggestSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"command": map[string]any{
			"type":        "string",
			"description": "A single-line shell command that can be executed directly.",
		},
	},
	"required":             []string{"command"},
	"additionalProperties": false,
}

// Platform describes the machine commands will run on
func Platform() string {
	return runtime.GOOS + " " + runtime.GOARCH
}

func suggestRequest(prompt string) api.ChatRequest {
	system := "You are an expert at using shell commands. Respond with a JSON object only, " +
		"matching the provided JSON schema. The command will be directly executed " +
		"in a shell as a single executable line of code. " +
		fmt.Sprintf("The system the shell command will be executed on is %s.", Platform())

	return api.ChatRequest{
		Messages: []api.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: "Generate a shell command that satisfies this user request: " + prompt},
		},
		ResponseFormat: &api.ResponseFormat{
			Type: "json_schema",
			JSONSchema: &api.JSONSchema{
				Name:   "shell_command_suggestion",
				Strict: true,
				Schema: suggestSchema,
			},
		},
	}
}

// parseSuggestion decodes a model reply into a Suggestion.
func parseSuggestion(resp *api.ChatResponse) (Suggestion, error) {
	content := strings.TrimSpace(resp.GetContent())
	var s Suggestion
	if err := json.Unmarshal([]byte(content), &s); err != nil {
		if resp.Truncated() {
			return s, errors.New("response truncated (max_tokens too low), increase --max-tokens or SHAI_MAX_TOKENS")
		}
		return s, fmt.Errorf("failed to parse JSON from model: %w\nReceived: %s", err, content)
	}
	s.Command = strings.TrimSpace(s.Command)
	return s, nil
}

// Suggest asks the model for up to count distinct commands. Requests are
// sent one at a time and stop once count unique commands are collected or
// count*MaxSuggestionAttempts requests have been made.
func Suggest(ctx context.Context, c Completer, prompt string, count int) ([]Suggestion, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	count = max(count, 1)

	req := suggestRequest(prompt)
	var results []Suggestion
	var lastErr error
	seen := map[string]bool{}

	for attempt := 0; attempt < count*constants.MaxSuggestionAttempts && len(results) < count; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := c.Complete(ctx, req)
		if err == nil {
			var s Suggestion
			s, err = parseSuggestion(resp)
			if err == nil {
				if s.Command == "" || seen[s.Command] {
					logging.Debug("Skipping empty or duplicate suggestion", logging.Fields{"attempt": attempt + 1})
					continue
				}
				seen[s.Command] = true
				results = append(results, s)
				continue
			}
		}

		logging.Debug("Suggestion attempt failed", logging.Fields{"attempt": attempt + 1, "error": err.Error()})
		lastErr = err
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			// the same request will fail the same way
			break
		}
	}

	if len(results) == 0 {
		reason := "unknown error"
		if lastErr != nil {
			reason = lastErr.Error()
		}
		return nil, fmt.Errorf("no suggestions could be generated\nReason: %s", reason)
	}
	return results, nil
}
