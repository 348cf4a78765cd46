package types

// Model represents a GGUF model file the local backend can load.
type Model struct {
	// Stable identifier for the model (the file name).
	// example: gpt2.Q4_K_M.gguf
	ID string `json:"id"`
	// Human-friendly name (file name without extension).
	// example: gpt2.Q4_K_M
	Name string `json:"name"`
	// Absolute path to the model file on disk.
	// example: /home/user/models/llm/gpt2.Q4_K_M.gguf
	Path string `json:"path"`
	// Quantization tag parsed from the file name, if any.
	// example: Q4_K_M
	Quant string `json:"quant,omitempty"`
}
