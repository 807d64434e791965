package config

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Log.Level != "info" {
		t.Errorf("expected Level=info, got %s", cfg.Log.Level)
	}
	if cfg.Provider.Transport != TransportInProcess {
		t.Errorf("expected Transport=inprocess, got %s", cfg.Provider.Transport)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate, got %v", err)
	}
}

func TestValidateRejectsUnknownApprovalTool(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy.RequireApproval = []string{"delete_file", "format_disk"}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown tool")
	}
	if !strings.Contains(err.Error(), "format_disk") {
		t.Errorf("error must name the offending tool, got %v", err)
	}
}

func TestValidateNormalizesLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "  WARN "

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected warn, got %s", cfg.Log.Level)
	}

	cfg.Log.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestValidateProviderTransport(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider.Transport = "Stdio"
	cfg.Provider.Command = "steward"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if cfg.Provider.Transport != TransportStdio {
		t.Errorf("expected stdio, got %s", cfg.Provider.Transport)
	}

	cfg.Provider.Command = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for stdio transport without command")
	}

	cfg.Provider.Transport = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown transport")
	}
}
