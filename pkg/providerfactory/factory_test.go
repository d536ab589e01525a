package providerfactory

import (
	"errors"
	"testing"

	"prismatic-hq/prism/pkg/providers"
)

func TestNewProvider_Types(t *testing.T) {
	cases := []struct {
		name     string
		config   providers.ProviderConfig
		wantType string
	}{
		{
			name:     "openai",
			config:   providers.ProviderConfig{Name: "openai", Type: "openai", APIKey: "sk-test"},
			wantType: TypeOpenAI,
		},
		{
			name:     "anthropic",
			config:   providers.ProviderConfig{Name: "anthropic", Type: "anthropic", APIKey: "sk-ant-test"},
			wantType: TypeAnthropic,
		},
		{
			name:     "openrouter keyless",
			config:   providers.ProviderConfig{Name: "openrouter", Type: "openrouter"},
			wantType: TypeOpenRouter,
		},
		{
			name:     "type inferred from name",
			config:   providers.ProviderConfig{Name: "openai", APIKey: "sk-test"},
			wantType: TypeOpenAI,
		},
		{
			name:     "unknown name defaults to openrouter",
			config:   providers.ProviderConfig{Name: "something-else"},
			wantType: TypeOpenRouter,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewProvider(tc.config)
			if err != nil {
				t.Fatalf("NewProvider: %v", err)
			}
			defer p.Close()

			if p.GetType() != tc.wantType {
				t.Errorf("GetType() = %q, want %q", p.GetType(), tc.wantType)
			}
		})
	}
}

func TestNewProvider_UnsupportedType(t *testing.T) {
	_, err := NewProvider(providers.ProviderConfig{Name: "x", Type: "grpc"})
	var cfgErr *providers.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestResolveModel(t *testing.T) {
	cases := []struct {
		target    string
		wantType  string
		wantModel string
	}{
		{"", TypeOpenRouter, DefaultModel},
		{"  ", TypeOpenRouter, DefaultModel},
		{"gpt-4", TypeOpenAI, "gpt-4"},
		{"gpt-3.5-turbo", TypeOpenAI, "gpt-3.5-turbo"},
		{"claude-3-opus-20240229", TypeAnthropic, "claude-3-opus-20240229"},
		{"openrouter:mistralai/mistral-7b-instruct", TypeOpenRouter, "mistralai/mistral-7b-instruct"},
		{"openrouter:", TypeOpenRouter, DefaultModel},
		{"meta-llama/llama-3.3-8b-instruct:free", TypeOpenRouter, "meta-llama/llama-3.3-8b-instruct:free"},
		{"some-local-model", TypeOpenRouter, "some-local-model"},
	}

	for _, tc := range cases {
		gotType, gotModel := ResolveModel(tc.target)
		if gotType != tc.wantType || gotModel != tc.wantModel {
			t.Errorf("ResolveModel(%q) = (%q, %q), want (%q, %q)",
				tc.target, gotType, gotModel, tc.wantType, tc.wantModel)
		}
	}
}

func TestEnvKeyName(t *testing.T) {
	cases := map[string]string{
		TypeOpenAI:     "OPENAI_API_KEY",
		TypeAnthropic:  "ANTHROPIC_API_KEY",
		TypeOpenRouter: "OPENROUTER_API_KEY",
		"other":        "",
	}
	for providerType, want := range cases {
		if got := EnvKeyName(providerType); got != want {
			t.Errorf("EnvKeyName(%q) = %q, want %q", providerType, got, want)
		}
	}
}
