package domain_test

import (
	"strings"
	"testing"

	"tasktrail/internal/modules/annotator/domain"
)

func TestManifestValidate(t *testing.T) {
	t.Parallel()
	sha := strings.Repeat("a", 64)
	valid := domain.Manifest{Name: "p", Version: "1", Binary: "/tmp/p", SHA256: sha, Enabled: true, Capabilities: []domain.Capability{domain.CapabilityAnnotate}}
	with := func(mut func(*domain.Manifest)) domain.Manifest {
		m := valid
		m.Capabilities = append([]domain.Capability(nil), valid.Capabilities...)
		mut(&m)
		return m
	}
	cases := []struct {
		name      string
		manifest  domain.Manifest
		shouldErr bool
	}{
		{name: "valid", manifest: valid},
		{name: "missing name", manifest: with(func(m *domain.Manifest) { m.Name = "" }), shouldErr: true},
		{name: "missing version", manifest: with(func(m *domain.Manifest) { m.Version = "" }), shouldErr: true},
		{name: "missing binary", manifest: with(func(m *domain.Manifest) { m.Binary = "" }), shouldErr: true},
		{name: "uppercase sha", manifest: with(func(m *domain.Manifest) { m.SHA256 = strings.Repeat("A", 64) }), shouldErr: true},
		{name: "no capabilities", manifest: with(func(m *domain.Manifest) { m.Capabilities = nil }), shouldErr: true},
		{name: "invalid capability", manifest: with(func(m *domain.Manifest) { m.Capabilities = []domain.Capability{"command"} }), shouldErr: true},
		{name: "duplicate capability", manifest: with(func(m *domain.Manifest) {
			m.Capabilities = []domain.Capability{domain.CapabilityOCR, domain.CapabilityOCR}
		}), shouldErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.manifest.Validate()
			if tc.shouldErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.shouldErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestCapabilitiesAndRequest(t *testing.T) {
	t.Parallel()
	m := domain.Manifest{Capabilities: []domain.Capability{domain.CapabilityAnnotate}}
	if !m.HasCapability(domain.CapabilityAnnotate) || m.HasCapability(domain.CapabilityOCR) {
		t.Fatalf("unexpected capability lookup")
	}
	if err := (domain.AnnotateRequest{}).Validate(); err == nil {
		t.Fatalf("expected missing path error")
	}
	if err := (domain.AnnotateRequest{ScreenshotPath: "/tmp/a.png"}).Validate(); err != nil {
		t.Fatalf("request validate: %v", err)
	}
}
