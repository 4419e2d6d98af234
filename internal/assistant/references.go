package assistant

import (
	"context"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/quocvuong92/shell-ai/internal/constants"
	"github.com/quocvuong92/shell-ai/internal/logging"
)

// Reference is documentation for one command sent along with an explain
// request.
type Reference struct {
	Command string
	Content string
}

// ReferenceFetcher returns the documentation for a command, capped at limit
// characters. ok is false when there is none.
type ReferenceFetcher func(ctx context.Context, command string, limit int) (content string, ok bool)

const truncatedMarker = "...\n[truncated]"

// CommandNames extracts the command words from a shell line: the first
// non-assignment, non-redirection word of every pipeline segment, without
// duplicates.
func CommandNames(line string) []string {
	segments := strings.FieldsFunc(line, func(r rune) bool {
		return strings.ContainsRune("|&;()`\n", r)
	})

	var names []string
	seen := map[string]bool{}
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" || strings.HasPrefix(segment, "$") {
			continue
		}
		for _, word := range strings.Fields(segment) {
			if strings.Contains(word, "=") && !strings.HasPrefix(word, "-") {
				continue
			}
			if strings.HasPrefix(word, "<") || strings.HasPrefix(word, ">") || isDigits(word) {
				continue
			}
			name := strings.TrimPrefix(word, "./")
			if name == "" || strings.HasPrefix(name, "-") {
				continue
			}
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
			break
		}
	}
	return names
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// TruncateToLimit cuts text to at most limit bytes, preferring the last
// line break before the limit.
func TruncateToLimit(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := text[:limit]
	if i := strings.LastIndexByte(cut, '\n'); i >= 0 {
		cut = text[:i]
	}
	return cut + truncatedMarker
}

// ExtractSection returns a man page section from its header up to the
// next header. Headers are unindented lines starting with an upper case
// letter.
func ExtractSection(page, name string) (string, bool) {
	var out []string
	inSection := false
	for _, line := range strings.Split(page, "\n") {
		trimmed := strings.TrimSpace(line)
		isHeader := trimmed != "" &&
			!strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") &&
			trimmed[0] >= 'A' && trimmed[0] <= 'Z'

		switch {
		case isHeader && strings.HasPrefix(trimmed, name):
			inSection = true
			out = append(out, line)
		case isHeader && inSection:
			return strings.Join(out, "\n"), true
		case inSection:
			out = append(out, line)
		}
	}
	if len(out) == 0 {
		return "", false
	}
	return strings.Join(out, "\n"), true
}

// ManPage runs man(1) for command and keeps its OPTIONS section, or
// DESCRIPTION when there is none, capped at limit characters.
func ManPage(ctx context.Context, command string, limit int) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultManPageTimeout)
	defer cancel()

	if err := exec.CommandContext(ctx, "man", "-w", command).Run(); err != nil {
		return "", false
	}

	cmd := exec.CommandContext(ctx, "man", command)
	cmd.Env = append(os.Environ(), "MANWIDTH=100000", "LANG=C", "LC_ALL=C")
	out, err := cmd.Output()
	if err != nil {
		logging.Debug("Failed to read man page", logging.Fields{"command": command, "error": err.Error()})
		return "", false
	}

	page := string(out)
	content, ok := ExtractSection(page, "OPTIONS")
	if !ok {
		content, ok = ExtractSection(page, "DESCRIPTION")
	}
	if !ok {
		content = page
	}
	content = strings.TrimSpace(TruncateToLimit(content, limit))
	if content == "" {
		return "", false
	}
	return "# " + command + "(1)\n\n" + content, true
}

// GatherReferences fetches documentation for every command in line. Each
// page is capped at half of maxTotal; the result is sorted shortest first
// and trimmed so the total stays within maxTotal.
func GatherReferences(ctx context.Context, line string, maxTotal int, fetch ReferenceFetcher) []Reference {
	if maxTotal <= 0 || fetch == nil {
		return nil
	}

	var refs []Reference
	for _, name := range CommandNames(line) {
		if content, ok := fetch(ctx, name, maxTotal/2); ok {
			refs = append(refs, Reference{Command: name, Content: content})
		}
	}
	sort.SliceStable(refs, func(i, j int) bool {
		return len(refs[i].Content) < len(refs[j].Content)
	})

	total := 0
	kept := refs[:0]
	for _, r := range refs {
		if total+len(r.Content) > maxTotal {
			continue
		}
		total += len(r.Content)
		kept = append(kept, r)
	}
	return kept
}
