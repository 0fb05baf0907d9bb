package factory

import (
	"fmt"

	"event-kiosk-be/pkg/llm"
	"event-kiosk-be/pkg/llm/huggingface"
	"event-kiosk-be/pkg/llm/ollama"
	"event-kiosk-be/pkg/llm/openai"
)

func NewLLMProvider(providerType, apiKey, modelName, baseURL string) (llm.Provider, error) {
	switch providerType {
	case "openai":
		provider := openai.NewOpenAIProvider(apiKey, modelName)
		if baseURL != "" {
			provider.BaseURL = baseURL
		}
		return provider, nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
