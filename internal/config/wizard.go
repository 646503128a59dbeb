package config

import (
	"fmt"

	"github.com/manifoldco/promptui"
)

// RunWizard interactively collects configuration and returns a Config.
// Pressing Enter accepts each default.
func RunWizard() (*Config, error) {
	fmt.Println("repowiki setup. Press Enter to accept defaults.")
	fmt.Println()

	cfg := DefaultConfig()

	providerSelect := promptui.Select{
		Label: "LLM provider",
		Items: []string{string(ProviderOpenAI), string(ProviderOllama)},
	}
	_, provider, err := providerSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("provider prompt: %w", err)
	}
	cfg.Provider = ProviderType(provider)

	model, err := askDefault("Model", cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("model prompt: %w", err)
	}
	cfg.Model = model

	dataDir, err := askDefault("Data directory (pipeline artifacts)", cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir prompt: %w", err)
	}
	cfg.DataDir = dataDir

	baseURL, err := askDefault("Wiki base URL for citations", cfg.WikiBaseURL)
	if err != nil {
		return nil, fmt.Errorf("wiki base url prompt: %w", err)
	}
	cfg.WikiBaseURL = baseURL

	return cfg, nil
}

// askDefault displays a prompt pre-filled with a default value.
func askDefault(label, def string) (string, error) {
	p := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: true,
	}
	result, err := p.Run()
	if err != nil {
		return "", err
	}
	if result == "" {
		return def, nil
	}
	return result, nil
}
