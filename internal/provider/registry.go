package provider

import (
	"fmt"
	"log"
	"sync"

	"github.com/HeyoWorld/saudi-speak-app/internal/apperr"
	"github.com/HeyoWorld/saudi-speak-app/pkg/types"
)

// Registry manages provider instances
type Registry struct {
	analyzers    map[string]Analyzer
	synthesizers map[string]Synthesizer
	mu           sync.RWMutex
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		analyzers:    make(map[string]Analyzer),
		synthesizers: make(map[string]Synthesizer),
	}
}

// RegisterAnalyzer registers an analyzer provider
func (r *Registry) RegisterAnalyzer(provider Analyzer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := provider.Name()
	if _, exists := r.analyzers[name]; exists {
		return fmt.Errorf("analyzer provider already registered: %s", name)
	}

	r.analyzers[name] = provider
	return nil
}

// RegisterSynthesizer registers a synthesizer provider
func (r *Registry) RegisterSynthesizer(provider Synthesizer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := provider.Name()
	if _, exists := r.synthesizers[name]; exists {
		return fmt.Errorf("synthesizer provider already registered: %s", name)
	}

	r.synthesizers[name] = provider
	return nil
}

// GetAnalyzer retrieves an analyzer provider by name
func (r *Registry) GetAnalyzer(name string) (Analyzer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.analyzers[name]
	if !exists {
		return nil, fmt.Errorf("analyzer provider not found: %s", name)
	}

	return provider, nil
}

// GetSynthesizer retrieves a synthesizer provider by name
func (r *Registry) GetSynthesizer(name string) (Synthesizer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.synthesizers[name]
	if !exists {
		return nil, fmt.Errorf("synthesizer provider not found: %s", name)
	}

	return provider, nil
}

// DefaultAnalyzer returns the first registered analyzer, if any. The single
// point of truth for whether the analyze action is available.
func (r *Registry) DefaultAnalyzer() (Analyzer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.analyzers {
		return p, nil
	}
	return nil, apperr.New(apperr.CodeConfig, "no analyzer provider configured")
}

// DefaultSynthesizer returns the first registered synthesizer, if any.
func (r *Registry) DefaultSynthesizer() (Synthesizer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.synthesizers {
		return p, nil
	}
	return nil, apperr.New(apperr.CodeConfig, "no synthesizer provider configured")
}

// ListAnalyzers returns all registered analyzer provider names
func (r *Registry) ListAnalyzers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.analyzers))
	for name := range r.analyzers {
		names = append(names, name)
	}
	return names
}

// ListSynthesizers returns all registered synthesizer provider names
func (r *Registry) ListSynthesizers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.synthesizers))
	for name := range r.synthesizers {
		names = append(names, name)
	}
	return names
}

// Close closes all registered providers
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error

	for name, provider := range r.analyzers {
		if err := provider.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close analyzer provider %s: %w", name, err))
		}
	}

	for name, provider := range r.synthesizers {
		if err := provider.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close synthesizer provider %s: %w", name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing providers: %v", errs)
	}

	return nil
}

// InitializeProviders creates provider instances from configuration.
// A provider with missing credentials is skipped with a log line rather than
// failing startup; the affected action stays disabled until configured.
func (r *Registry) InitializeProviders(cfg types.ProvidersConfig) error {
	for _, aCfg := range cfg.Analyzer {
		if !aCfg.Enabled {
			continue
		}
		provider, err := NewOpenRouterAnalyzer(aCfg)
		if err != nil {
			if apperr.Is(err, apperr.CodeConfig) {
				log.Printf("[REGISTRY] Skipping analyzer %s: %v", aCfg.Name, err)
				continue
			}
			return fmt.Errorf("failed to create analyzer provider %s: %w", aCfg.Name, err)
		}
		if err := r.RegisterAnalyzer(provider); err != nil {
			return err
		}
	}

	for _, sCfg := range cfg.Speech {
		if !sCfg.Enabled {
			continue
		}
		provider, err := NewAzureSynthesizer(sCfg)
		if err != nil {
			if apperr.Is(err, apperr.CodeConfig) {
				log.Printf("[REGISTRY] Skipping synthesizer %s: %v", sCfg.Name, err)
				continue
			}
			return fmt.Errorf("failed to create synthesizer provider %s: %w", sCfg.Name, err)
		}
		if err := r.RegisterSynthesizer(provider); err != nil {
			return err
		}
	}

	return nil
}
