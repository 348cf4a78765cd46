// Package inference runs one prompt against one text-generation backend.
//
// There are two families of backend and they never fall back to each other:
//
//   - remote: the hosted Hugging Face inference endpoint (remote.go).
//   - local: an in-process go-llama.cpp session (adapter_llama.go, built with
//     `-tags=llama`; adapter_llama_stub.go otherwise) or an already-running
//     OpenAI-compatible completion server such as llama-server or Ollama
//     (adapter_server.go). Both go through the Adapter/Session pair in adapter.go.
//
// Dispatcher classifies every failure as KindRemote or KindLocal so callers can
// map it to an exit code or an HTTP status. output.go re-emits results as
// indented JSON.
package inference
