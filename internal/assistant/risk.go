package assistant

import (
	"regexp"
	"strings"
)

// Risk grades what a suggested command could do if run as-is
type Risk int

const (
	// RiskReadOnly commands only inspect state
	RiskReadOnly Risk = iota
	// RiskModifies commands may change files or system state
	RiskModifies
	// RiskDangerous commands can destroy data or run untrusted code
	RiskDangerous
)

var readOnlyCommands = map[string]bool{
	"ls": true, "cat": true, "pwd": true, "echo": true, "head": true, "tail": true,
	"grep": true, "find": true, "which": true, "whoami": true, "date": true, "wc": true,
	"sort": true, "uniq": true, "diff": true, "env": true, "printenv": true, "df": true,
	"du": true, "ps": true, "top": true, "tree": true, "file": true, "stat": true,
	"uptime": true, "w": true, "free": true, "uname": true, "id": true,
	"dig": true, "nslookup": true, "ping": true, "man": true,
}

var readOnlyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^git\s+(status|log|diff|branch|show|remote)\b`),
	regexp.MustCompile(`^docker\s+(ps|images|inspect|logs)\b`),
	regexp.MustCompile(`^kubectl\s+(get|describe|logs)\b`),
	regexp.MustCompile(`^go\s+(list|version|env)\b`),
}

var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\brm\s+(-[a-zA-Z]*\s+)*(/|~|\$)`),
	regexp.MustCompile(`\bsudo\b`),
	regexp.MustCompile(`\bdd\s+.*\bof=`),
	regexp.MustCompile(`\bmkfs`),
	regexp.MustCompile(`:\(\)\s*\{`),
	regexp.MustCompile(`\b(curl|wget)\b.*\|\s*(sudo\s+)?(sh|bash|zsh)\b`),
	regexp.MustCompile(`>\s*/dev/(sd|nvme|disk)`),
	regexp.MustCompile(`\bchmod\s+(-R\s+)?0?777\b`),
	regexp.MustCompile(`>\s*/etc/`),
	regexp.MustCompile(`\|\s*base64\s+(-d|--decode)\b.*\|\s*(sh|bash)\b`),
}

var chaining = regexp.MustCompile(`[;&|>]`)

// ClassifyRisk grades command. Anything not known to be read-only is
// assumed to modify state.
func ClassifyRisk(command string) Risk {
	command = strings.TrimSpace(command)
	for _, p := range dangerousPatterns {
		if p.MatchString(command) {
			return RiskDangerous
		}
	}

	fields := strings.Fields(command)
	if len(fields) == 0 || chaining.MatchString(command) {
		return RiskModifies
	}
	if readOnlyCommands[fields[0]] {
		return RiskReadOnly
	}
	for _, p := range readOnlyPatterns {
		if p.MatchString(command) {
			return RiskReadOnly
		}
	}
	return RiskModifies
}

func (r Risk) String() string {
	switch r {
	case RiskReadOnly:
		return "read-only"
	case RiskModifies:
		return "modifies state"
	case RiskDangerous:
		return "dangerous"
	default:
		return "unknown"
	}
}
