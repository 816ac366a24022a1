package domain_test

import (
	"strings"
	"testing"

	"worktrack/internal/modules/plugin/domain"
)

func validManifest() domain.Manifest {
	return domain.Manifest{
		Name:         "hours-analyzer",
		Version:      "1.0.0",
		Binary:       "/opt/worktrack/plugins/hours-analyzer",
		SHA256:       strings.Repeat("ab", 32),
		Enabled:      true,
		Capabilities: []domain.Capability{domain.CapabilityAnalyze},
	}
}

func TestManifestValidate(t *testing.T) {
	t.Parallel()
	if err := validManifest().Validate(); err != nil {
		t.Fatalf("valid manifest rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*domain.Manifest)
	}{
		{"missing name", func(m *domain.Manifest) { m.Name = "" }},
		{"missing version", func(m *domain.Manifest) { m.Version = "" }},
		{"missing binary", func(m *domain.Manifest) { m.Binary = "" }},
		{"short sha", func(m *domain.Manifest) { m.SHA256 = "abcd" }},
		{"uppercase sha", func(m *domain.Manifest) { m.SHA256 = strings.Repeat("AB", 32) }},
		{"no capabilities", func(m *domain.Manifest) { m.Capabilities = nil }},
		{"unknown capability", func(m *domain.Manifest) { m.Capabilities = []domain.Capability{"telepathy"} }},
		{"duplicate capability", func(m *domain.Manifest) {
			m.Capabilities = []domain.Capability{domain.CapabilityAnalyze, domain.CapabilityAnalyze}
		}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := validManifest()
			tc.mutate(&m)
			if err := m.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestHasCapability(t *testing.T) {
	t.Parallel()
	m := validManifest()
	if !m.HasCapability(domain.CapabilityAnalyze) {
		t.Fatalf("expected analyze capability")
	}
	if m.HasCapability(domain.CapabilityCommand) {
		t.Fatalf("command capability not declared")
	}
}

func TestExecuteRequestValidate(t *testing.T) {
	t.Parallel()
	req := domain.ExecuteRequest{
		CommandID: "analyze-day",
		Context:   domain.ExecuteContext{DataDir: "/tmp/worktrack", DateKey: "2026-08-28"},
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	req.CommandID = ""
	if err := req.Validate(); err == nil {
		t.Fatalf("missing command id must fail")
	}
	req.CommandID = "analyze-day"
	req.Context.DateKey = ""
	if err := req.Validate(); err == nil {
		t.Fatalf("missing date key must fail")
	}
	req.Context = domain.ExecuteContext{DateKey: "2026-08-28"}
	if err := req.Validate(); err == nil {
		t.Fatalf("missing data dir must fail")
	}
}
