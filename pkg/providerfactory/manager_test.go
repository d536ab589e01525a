package providerfactory

import (
	"testing"

	"prismatic-hq/prism/pkg/providers"
)

func TestManager_AddGetRemove(t *testing.T) {
	m := NewManager()
	defer m.Close()

	err := m.AddProvider(providers.ProviderConfig{Name: "openrouter", Type: "openrouter"})
	if err != nil {
		t.Fatalf("AddProvider: %v", err)
	}

	p, err := m.GetProvider("openrouter")
	if err != nil {
		t.Fatalf("GetProvider: %v", err)
	}
	if p.GetName() != "openrouter" {
		t.Errorf("GetName() = %q, want openrouter", p.GetName())
	}

	if m.ProviderCount() != 1 {
		t.Errorf("ProviderCount() = %d, want 1", m.ProviderCount())
	}

	if err := m.RemoveProvider("openrouter"); err != nil {
		t.Fatalf("RemoveProvider: %v", err)
	}
	if _, err := m.GetProvider("openrouter"); err == nil {
		t.Error("GetProvider after remove should fail")
	}
	if err := m.RemoveProvider("openrouter"); err == nil {
		t.Error("RemoveProvider on missing provider should fail")
	}
}

func TestManager_AddReplacesExisting(t *testing.T) {
	m := NewManager()
	defer m.Close()

	if err := m.AddProvider(providers.ProviderConfig{Name: "openrouter", Type: "openrouter"}); err != nil {
		t.Fatalf("AddProvider: %v", err)
	}
	if err := m.AddProvider(providers.ProviderConfig{Name: "openrouter", Type: "openrouter", APIKey: "sk-or-new"}); err != nil {
		t.Fatalf("AddProvider replace: %v", err)
	}

	if m.ProviderCount() != 1 {
		t.Errorf("ProviderCount() = %d, want 1 after replace", m.ProviderCount())
	}

	p, err := m.GetProvider("openrouter")
	if err != nil {
		t.Fatalf("GetProvider: %v", err)
	}
	if p.GetConfig().APIKey != "sk-or-new" {
		t.Error("replacement provider config was not applied")
	}
}

func TestManager_LoadFromConfig(t *testing.T) {
	m := NewManager()
	defer m.Close()

	configs := []providers.ProviderConfig{
		{Name: "openai", Type: "openai", APIKey: "sk-test"},
		{Name: "openrouter", Type: "openrouter"},
	}
	if err := m.LoadFromConfig(configs); err != nil {
		t.Fatalf("LoadFromConfig: %v", err)
	}
	if m.ProviderCount() != 2 {
		t.Errorf("ProviderCount() = %d, want 2", m.ProviderCount())
	}

	// Invalid entry (openai without key) is reported
	bad := []providers.ProviderConfig{{Name: "openai2", Type: "openai"}}
	if err := m.LoadFromConfig(bad); err == nil {
		t.Error("LoadFromConfig with invalid entry should fail")
	}
}

func TestManager_HealthSummary(t *testing.T) {
	m := NewManager()
	defer m.Close()

	if err := m.AddProvider(providers.ProviderConfig{Name: "openrouter", Type: "openrouter"}); err != nil {
		t.Fatalf("AddProvider: %v", err)
	}

	summary := m.GetHealthSummary()
	if summary.Total != 1 {
		t.Errorf("Total = %d, want 1", summary.Total)
	}
	// Providers start optimistic
	if summary.Healthy != 1 || summary.Unhealthy != 0 {
		t.Errorf("Healthy/Unhealthy = %d/%d, want 1/0", summary.Healthy, summary.Unhealthy)
	}
	if m.HealthyProviderCount() != 1 {
		t.Errorf("HealthyProviderCount() = %d, want 1", m.HealthyProviderCount())
	}
}

func TestManager_CloseClearsProviders(t *testing.T) {
	m := NewManager()

	if err := m.AddProvider(providers.ProviderConfig{Name: "openrouter", Type: "openrouter"}); err != nil {
		t.Fatalf("AddProvider: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if m.ProviderCount() != 0 {
		t.Errorf("ProviderCount() = %d after Close, want 0", m.ProviderCount())
	}
}
