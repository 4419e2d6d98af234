package api

import (
	"fmt"
	"strings"

	"github.com/quocvuong92/shell-ai/internal/config"
)

// ollamaPlaceholderKey is sent to Ollama, which ignores authentication
const ollamaPlaceholderKey = "ollama"

// Endpoint is everything needed to call one provider's chat API.
type Endpoint struct {
	Provider    config.Provider
	URL         string
	Model       string
	Temperature float32
	// MaxTokens is omitted from requests when zero
	MaxTokens uint32
	Headers   map[string]string
}

// EndpointFromConfig builds the request settings for the selected provider.
func EndpointFromConfig(v *config.Validated) Endpoint {
	creds := v.Credentials()
	ep := Endpoint{
		Provider:    v.Provider(),
		Model:       v.EffectiveModel(),
		Temperature: v.Temperature(),
		MaxTokens:   v.EffectiveMaxTokens(),
		Headers:     map[string]string{},
	}

	switch v.Provider() {
	case config.ProviderAzure:
		key := creds.APIKey
		if key == "" {
			key = v.Config().Credentials(config.ProviderOpenAI).APIKey
		}
		ep.URL = AzureChatURL(creds.APIBase, creds.DeploymentName, creds.APIVersion)
		ep.Headers["api-key"] = key
		if ep.Model == "" {
			ep.Model = creds.DeploymentName
		}
	case config.ProviderOllama:
		key := creds.APIKey
		if key == "" {
			key = ollamaPlaceholderKey
		}
		ep.URL = ChatCompletionsURL(creds.APIBase)
		ep.Headers["Authorization"] = "Bearer " + key
	default:
		ep.URL = ChatCompletionsURL(creds.APIBase)
		ep.Headers["Authorization"] = "Bearer " + creds.APIKey
		if creds.Organization != "" {
			ep.Headers["OpenAI-Organization"] = creds.Organization
		}
	}
	return ep
}

// ChatCompletionsURL appends /v1/chat/completions to base unless the base
// already points at a completions endpoint.
func ChatCompletionsURL(base string) string {
	base = strings.TrimRight(base, "/")
	if strings.Contains(base, "/chat/completions") {
		return base
	}
	return base + "/v1/chat/completions"
}

// AzureChatURL builds the deployment-scoped Azure OpenAI URL
func AzureChatURL(base, deployment, apiVersion string) string {
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(base, "/"), deployment, apiVersion)
}
