package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/quocvuong92/shell-ai/internal/api"
	"github.com/quocvuong92/shell-ai/internal/config"
	"github.com/quocvuong92/shell-ai/internal/logging"
)

// ErrEmptyCommand is returned when explain has no command to work on
var ErrEmptyCommand = errors.New("no command to explain")

// ExplainOptions controls an explain request
type ExplainOptions struct {
	// Locale asks for the explanation in a language; empty means no
	// preference.
	Locale string
	// MaxReferenceChars bounds the man page text sent with the request.
	// Zero disables references.
	MaxReferenceChars int
	// Fetch looks up documentation; nil disables references
	Fetch ReferenceFetcher
}

// Explanation is the model's answer for one command
type Explanation struct {
	Command     string   `json:"command"`
	Explanation string   `json:"explanation"`
	References  []string `json:"references,omitempty"`
}

func explainSystemPrompt(locale string) string {
	var sb strings.Builder
	sb.WriteString("You are an expert at explaining shell commands. ")
	sb.WriteString("Explain what the given command does, part by part, in concise Markdown. ")
	sb.WriteString("Start with a one sentence summary, then a bullet list with one entry per ")
	sb.WriteString("command, flag and argument, quoting each token exactly as it appears in ")
	sb.WriteString("the command. Mention anything destructive or irreversible.")
	fmt.Fprintf(&sb, " The command runs on %s.", Platform())
	if locale != "" {
		fmt.Fprintf(&sb, "\n\nRespond in the user's preferred locale/language: %s", locale)
	}
	return sb.String()
}

func explainRequest(command, locale string, refs []Reference) api.ChatRequest {
	messages := []api.Message{{Role: "system", Content: explainSystemPrompt(locale)}}
	for _, r := range refs {
		messages = append(messages, api.Message{
			Role:    "system",
			Content: "Documentation for " + r.Command + ". Prefer it over prior knowledge:\n\n" + r.Content,
		})
	}
	messages = append(messages, api.Message{Role: "user", Content: "Explain this command: " + command})
	return api.ChatRequest{Messages: messages}
}

func isTooLarge(err error) bool {
	var apiErr *api.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusRequestEntityTooLarge
}

// Explain asks the model to explain command. When the provider rejects the
// request as too large, the shortest reference is dropped and the request
// is sent again.
func Explain(ctx context.Context, c Completer, command string, opts ExplainOptions) (*Explanation, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, ErrEmptyCommand
	}

	refs := GatherReferences(ctx, command, opts.MaxReferenceChars, opts.Fetch)
	logging.Debug("Gathered explain references", logging.Fields{"count": len(refs)})

	for {
		resp, err := c.Complete(ctx, explainRequest(command, opts.Locale, refs))
		if err != nil {
			if isTooLarge(err) && len(refs) > 0 {
				logging.Warn("Context too large, dropping man page and retrying", logging.Fields{"command": refs[0].Command})
				refs = refs[1:]
				continue
			}
			return nil, err
		}

		content := strings.TrimSpace(resp.GetContent())
		if content == "" {
			if resp.Truncated() {
				return nil, errors.New("response truncated (max_tokens too low), increase --max-tokens or SHAI_MAX_TOKENS")
			}
			return nil, errors.New("the model returned an empty explanation")
		}

		out := &Explanation{Command: command, Explanation: content}
		for _, r := range refs {
			out.References = append(out.References, r.Command)
		}
		return out, nil
	}
}

// ResolveLocale picks the explanation language. A configured locale wins
// and an explicitly empty one disables the hint; otherwise the language is
// read from LC_ALL, LC_MESSAGES or LANG. English and the C locale need no
// hint.
func ResolveLocale(configured *string, env config.EnvLookup) string {
	if configured != nil {
		return strings.TrimSpace(*configured)
	}
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v, ok := env(name)
		if !ok || v == "" {
			continue
		}
		lang, _, _ := strings.Cut(v, ".")
		lang, _, _ = strings.Cut(lang, "@")
		if lang == "C" || lang == "POSIX" || lang == "en" || strings.HasPrefix(lang, "en_") {
			return ""
		}
		return lang
	}
	return ""
}
