// Package api sends chat completion requests to OpenAI-compatible
// endpoints.
//
// # Files
//
//   - endpoint.go: turns a validated configuration into an Endpoint (URL,
//     model, credentials, headers) for the selected provider
//   - client.go: Client, request and response types, error mapping
//   - retry.go: RetryPolicy and Retry for transient provider failures,
//     honoring Retry-After
//
// # Usage
//
//	validated, err := cfg.Validate()
//	if err != nil {
//	    // report and exit
//	}
//	client := api.NewClient(api.EndpointFromConfig(validated))
//	resp, err := client.Complete(ctx, api.ChatRequest{
//	    Messages: []api.Message{{Role: "user", Content: "list files"}},
//	})
package api
