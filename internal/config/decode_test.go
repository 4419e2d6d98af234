package config

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t, fixture{})
	require.NoError(t, err)

	assert.Equal(t, Provider(""), cfg.Provider.Value)
	assert.Equal(t, "", cfg.Model.Value)
	assert.InDelta(t, 0.05, cfg.Temperature.Value, 1e-6)
	assert.Equal(t, uint32(3), cfg.SuggestionCount.Value)
	assert.Equal(t, FrontendDialog, cfg.Frontend.Value)
	assert.Equal(t, OutputHuman, cfg.OutputFormat.Value)
	assert.Equal(t, uint32(262144), cfg.MaxReferenceChars.Value)
	assert.Equal(t, uint32(0), cfg.MaxTokens.Value)
	assert.Equal(t, DebugLevel(""), cfg.Debug.Value)
	assert.Nil(t, cfg.Locale.Value)
	assert.False(t, cfg.SkipConfirm())

	for _, v := range []Source{cfg.Temperature.Source, cfg.SuggestionCount.Source, cfg.Frontend.Source} {
		assert.Equal(t, SourceDefault, v)
	}

	openai := cfg.Credentials(ProviderOpenAI)
	assert.Equal(t, "https://api.openai.com", openai.APIBase)
	assert.Equal(t, "gpt-5", openai.Model)
	assert.Equal(t, "2023-05-15", cfg.Credentials(ProviderAzure).APIVersion)
	assert.Equal(t, "http://localhost:11434", cfg.Credentials(ProviderOllama).APIBase)
}

func TestLoad_NumbersFromStrings(t *testing.T) {
	cfg, err := load(t, fixture{env: envMap{
		"SHAI_TEMPERATURE":         "0.7",
		"SHAI_SUGGESTION_COUNT":    " 5 ",
		"SHAI_MAX_REFERENCE_CHARS": "1000",
		"OPENAI_MAX_TOKENS":        "800",
	}})
	require.NoError(t, err)

	assert.InDelta(t, 0.7, cfg.Temperature.Value, 1e-6)
	assert.Equal(t, SourceEnv, cfg.Temperature.Source)
	assert.Equal(t, uint32(5), cfg.SuggestionCount.Value)
	assert.Equal(t, uint32(1000), cfg.MaxReferenceChars.Value)
	assert.Equal(t, uint32(800), cfg.Credentials(ProviderOpenAI).MaxTokens)
}

func TestLoad_IntegersFromStringsAreDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"010", 10},
		{"08", 8},
		{"0", 0},
		{"4294967295", math.MaxUint32},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cfg, err := load(t, fixture{env: envMap{
				"SHAI_SUGGESTION_COUNT": tt.in,
				"SHAI_MAX_TOKENS":       tt.in,
			}})
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.SuggestionCount.Value)
			assert.Equal(t, tt.want, cfg.MaxTokens.Value)
		})
	}
}

func TestLoad_NativeNumbers(t *testing.T) {
	cfg, err := load(t, fixture{toml: `
temperature = 1
suggestion_count = 2
`})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, cfg.Temperature.Value, 1e-6)
	assert.Equal(t, SourceTOML, cfg.Temperature.Source)
	assert.Equal(t, uint32(2), cfg.SuggestionCount.Value)
}

func TestLoad_BlankNumberFallsBackToDefault(t *testing.T) {
	cfg, err := load(t, fixture{toml: `
suggestion_count = ""
max_tokens = ""
`})
	require.NoError(t, err)

	assert.Equal(t, uint32(3), cfg.SuggestionCount.Value)
	assert.Equal(t, SourceDefault, cfg.SuggestionCount.Source)
	assert.Equal(t, uint32(0), cfg.MaxTokens.Value)
}

func TestLoad_EnumsAreCaseInsensitive(t *testing.T) {
	cfg, err := load(t, fixture{env: envMap{
		"SHAI_API_PROVIDER":  " Groq ",
		"SHAI_FRONTEND":      "READLINE",
		"SHAI_OUTPUT_FORMAT": "Json",
		"SHAI_DEBUG":         "Trace",
	}})
	require.NoError(t, err)

	assert.Equal(t, ProviderGroq, cfg.Provider.Value)
	assert.Equal(t, FrontendReadline, cfg.Frontend.Value)
	assert.Equal(t, OutputJSON, cfg.OutputFormat.Value)
	assert.Equal(t, DebugTrace, cfg.Debug.Value)
}

func TestLoad_BlankProviderIsUnset(t *testing.T) {
	cfg, err := load(t, fixture{toml: `provider = "  "`})
	require.NoError(t, err)
	assert.Equal(t, Provider(""), cfg.Provider.Value)
}

func TestLoad_LocaleDisabled(t *testing.T) {
	cfg, err := load(t, fixture{toml: `locale = ""`})
	require.NoError(t, err)
	require.NotNil(t, cfg.Locale.Value)
	assert.Equal(t, "", *cfg.Locale.Value)

	cfg, err = load(t, fixture{env: envMap{"SHAI_LOCALE": "de"}})
	require.NoError(t, err)
	require.NotNil(t, cfg.Locale.Value)
	assert.Equal(t, "de", *cfg.Locale.Value)
	assert.Equal(t, SourceEnv, cfg.Locale.Source)
}

func TestLoad_DecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		fixture fixture
		path    string
		wantMsg string
	}{
		{
			name:    "bad number from env",
			fixture: fixture{env: envMap{"SHAI_SUGGESTION_COUNT": "many"}},
			path:    "suggestion_count",
			wantMsg: `SHAI_SUGGESTION_COUNT: invalid value for suggestion_count: expected an unsigned integer, found string "many"`,
		},
		{
			name:    "negative number from toml",
			fixture: fixture{toml: "suggestion_count = -1\n"},
			path:    "suggestion_count",
			wantMsg: "config.toml: invalid value for suggestion_count: -1 is out of range for an unsigned 32-bit integer",
		},
		{
			name:    "hex number from env",
			fixture: fixture{env: envMap{"SHAI_MAX_TOKENS": "0x10"}},
			path:    "max_tokens",
			wantMsg: `SHAI_MAX_TOKENS: invalid value for max_tokens: expected an unsigned integer, found string "0x10"`,
		},
		{
			name:    "underscored number from env",
			fixture: fixture{env: envMap{"SHAI_SUGGESTION_COUNT": "1_000"}},
			path:    "suggestion_count",
			wantMsg: `SHAI_SUGGESTION_COUNT: invalid value for suggestion_count: expected an unsigned integer, found string "1_000"`,
		},
		{
			name:    "number too large from env",
			fixture: fixture{env: envMap{"SHAI_MAX_TOKENS": "4294967296"}},
			path:    "max_tokens",
			wantMsg: `SHAI_MAX_TOKENS: invalid value for max_tokens: string "4294967296" is out of range for an unsigned 32-bit integer`,
		},
		{
			name:    "huge float integer from toml",
			fixture: fixture{toml: "max_tokens = 1e30\n"},
			path:    "max_tokens",
			wantMsg: "config.toml: invalid value for max_tokens: float 1e+30 is out of range for an unsigned 32-bit integer",
		},
		{
			name:    "temperature beyond float32 from env",
			fixture: fixture{env: envMap{"SHAI_TEMPERATURE": "1e300"}},
			path:    "temperature",
			wantMsg: `SHAI_TEMPERATURE: invalid value for temperature: string "1e300" is out of range for a 32-bit float`,
		},
		{
			name:    "temperature beyond float32 from json",
			fixture: fixture{json: `{"temperature": 1e300}`},
			path:    "temperature",
			wantMsg: "config.json: invalid value for temperature: float 1e+300 is out of range for a 32-bit float",
		},
		{
			name:    "fractional integer from json",
			fixture: fixture{json: `{"max_tokens": 1.5}`},
			path:    "max_tokens",
			wantMsg: "config.json: invalid value for max_tokens: expected an unsigned integer, found float 1.5",
		},
		{
			name:    "number where a string is expected",
			fixture: fixture{toml: "model = 5\n"},
			path:    "model",
			wantMsg: "config.toml: invalid value for model: expected a string, found integer 5",
		},
		{
			name:    "unknown enum from cli",
			fixture: fixture{overrides: CLIOverrides{Frontend: ptr("tui")}},
			path:    "frontend",
			wantMsg: `--frontend: invalid value for frontend: unknown variant "tui", expected one of dialog, readline, noninteractive`,
		},
		{
			name:    "unknown provider from alias",
			fixture: fixture{env: envMap{"SHAI_PROVIDER": "anthropic"}},
			path:    "provider",
			wantMsg: `SHAI_PROVIDER: invalid value for provider: unknown variant "anthropic", expected one of openai, groq, azure, ollama, mistral`,
		},
		{
			name:    "provider section that is not a table",
			fixture: fixture{toml: "openai = \"sk-1\"\n"},
			path:    "openai",
			wantMsg: `config.toml: invalid value for openai: expected a table, found string "sk-1"`,
		},
		{
			name:    "bad provider credential",
			fixture: fixture{env: envMap{"GROQ_MAX_TOKENS": "lots"}},
			path:    "groq.max_tokens",
			wantMsg: `GROQ_MAX_TOKENS: invalid value for groq.max_tokens: expected an unsigned integer, found string "lots"`,
		},
		{
			name:    "temperature that is not a number",
			fixture: fixture{json: `{"temperature": true}`},
			path:    "temperature",
			wantMsg: "config.json: invalid value for temperature: expected a number, found boolean true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, tt.fixture)
			require.Error(t, err)

			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr), "error %v is not a *DecodeError", err)
			assert.Equal(t, tt.path, decodeErr.Path)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestLoad_UnknownKeysAreIgnored(t *testing.T) {
	cfg, err := load(t, fixture{toml: `
colour = "blue"

[openai]
api_key = "sk-1"
proxy = "http://proxy"

[anthropic]
api_key = "x"
`})
	require.NoError(t, err)
	assert.Equal(t, "sk-1", cfg.Credentials(ProviderOpenAI).APIKey)
}

func TestDecodeError_StripsLocation(t *testing.T) {
	err := &DecodeError{
		Path:   "model",
		Origin: "config.json",
		Err:    errors.New("expected a string at line 3 column 9"),
	}
	assert.Equal(t, "config.json: invalid value for model: expected a string", err.Error())

	err.Origin = ""
	assert.Equal(t, "invalid value for model: expected a string", err.Error())
}
