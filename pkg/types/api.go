package types

// GenerateRequest is the body accepted by POST /generate.
type GenerateRequest struct {
	// Optional model identifier. If empty, the configured default is used.
	// example: gpt2
	Model string `json:"model,omitempty"`
	// Required prompt text.
	// example: Write a haiku about the ocean.
	Prompt string `json:"prompt"`
	// Maximum number of new tokens to generate. 0 uses the configured default.
	// example: 128
	MaxTokens int `json:"max_tokens,omitempty"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// example: invalid JSON body
	Error string `json:"error"`
	// example: 400
	Code int `json:"code"`
}

// GeneratedText mirrors one element of a text-generation pipeline result.
type GeneratedText struct {
	GeneratedText string `json:"generated_text"`
}
