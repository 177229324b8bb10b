package adapters

import (
	"fmt"
	"sync"

	"github.com/ledgerline/backend/config"
	"github.com/ledgerline/backend/internal/application/adapter"
)

var (
	factoryMu      sync.Mutex
	sharedService  adapter.LLMService
	sharedProvider config.LLMProvider
)

// NewLLMServiceFromConfig builds the classification service for the
// configured provider. The instance is shared: repeated calls with the
// same provider return the same service, and a provider change rebuilds
// it.
func NewLLMServiceFromConfig(cfg *config.Config) (adapter.LLMService, error) {
	factoryMu.Lock()
	defer factoryMu.Unlock()

	if sharedService != nil && sharedProvider == cfg.LLM.Provider {
		return sharedService, nil
	}

	var provider llmProvider
	var err error
	switch cfg.LLM.Provider {
	case config.LLMProviderClaude:
		provider, err = NewAnthropicProvider(cfg.LLM.AnthropicAPIKey, cfg.LLM.AnthropicModel)
	case config.LLMProviderVertex:
		provider, err = NewGeminiProvider(cfg.LLM.GoogleAPIKey, cfg.LLM.VertexModel)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLM.Provider)
	}
	if err != nil {
		return nil, err
	}

	sharedService = NewLLMService(provider)
	sharedProvider = cfg.LLM.Provider
	return sharedService, nil
}

// ResetLLMService drops the shared instance. Tests use this to force a
// rebuild with fresh configuration.
func ResetLLMService() {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	sharedService = nil
	sharedProvider = ""
}
