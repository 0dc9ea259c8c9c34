package platform

import (
	"runtime"
	"testing"
)

func TestCurrentPlatform(t *testing.T) {
	platform := CurrentPlatform()

	if platform.OS == "" {
		t.Error("Expected OS to be non-empty")
	}
	if platform.Arch == "" {
		t.Error("Expected Arch to be non-empty")
	}

	expectedOS := NormalizeOS(runtime.GOOS)
	if platform.OS != expectedOS {
		t.Errorf("Expected OS %q, got %q", expectedOS, platform.OS)
	}

	expectedArch := NormalizeArch(runtime.GOARCH)
	if platform.Arch != expectedArch {
		t.Errorf("Expected Arch %q, got %q", expectedArch, platform.Arch)
	}
}

func TestNormalizeOS(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"darwin", "macos"},
		{"osx", "macos"},
		{"macos", "macos"},
		{"Windows", "windows"},
		{"win", "windows"},
		{"linux", "linux"},
		{"freebsd", "freebsd"},
	}

	for _, tt := range tests {
		if got := NormalizeOS(tt.in); got != tt.expected {
			t.Errorf("NormalizeOS(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestNormalizeArch(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"x86_64", "amd64"},
		{"X64", "amd64"},
		{"amd64", "amd64"},
		{"aarch64", "arm64"},
		{"arm64", "arm64"},
		{"i686", "386"},
		{"riscv64", "riscv64"},
	}

	for _, tt := range tests {
		if got := NormalizeArch(tt.in); got != tt.expected {
			t.Errorf("NormalizeArch(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestPlatformMatches(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		target   Platform
		expected bool
	}{
		{
			name:     "exact match",
			platform: Platform{OS: "linux", Arch: "amd64"},
			target:   Platform{OS: "linux", Arch: "amd64"},
			expected: true,
		},
		{
			name:     "os mismatch",
			platform: Platform{OS: "linux", Arch: "amd64"},
			target:   Platform{OS: "windows", Arch: "amd64"},
			expected: false,
		},
		{
			name:     "arch wildcard",
			platform: Platform{OS: "linux", Arch: "any"},
			target:   Platform{OS: "linux", Arch: "arm64"},
			expected: true,
		},
		{
			name:     "full wildcard",
			platform: Platform{OS: "any", Arch: "any"},
			target:   Platform{OS: "macos", Arch: "arm64"},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.platform.Matches(tt.target); got != tt.expected {
				t.Errorf("Matches() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClassifierMatches(t *testing.T) {
	tests := []struct {
		name       string
		platform   Platform
		classifier string
		expected   bool
	}{
		{
			name:       "linux x86_64",
			platform:   Platform{OS: "linux", Arch: "amd64"},
			classifier: "linux-x86_64",
			expected:   true,
		},
		{
			name:       "bare system classifier",
			platform:   Platform{OS: "linux", Arch: "amd64"},
			classifier: "linux",
			expected:   true,
		},
		{
			name:       "macos spelled osx",
			platform:   Platform{OS: "macos", Arch: "arm64"},
			classifier: "osx-aarch64",
			expected:   true,
		},
		{
			name:       "windows with gpu suffix",
			platform:   Platform{OS: "windows", Arch: "amd64"},
			classifier: "windows-x86_64-gpu",
			expected:   true,
		},
		{
			name:       "wrong arch",
			platform:   Platform{OS: "linux", Arch: "arm64"},
			classifier: "linux-x86_64",
			expected:   false,
		},
		{
			name:       "wrong os",
			platform:   Platform{OS: "macos", Arch: "amd64"},
			classifier: "linux-x86_64",
			expected:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.platform.ClassifierMatches(tt.classifier); got != tt.expected {
				t.Errorf("ClassifierMatches(%q) = %v, want %v", tt.classifier, got, tt.expected)
			}
		})
	}
}
