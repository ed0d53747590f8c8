package errors

import (
	"strings"
	"testing"
)

func TestValidateCircuitName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty uses default", "", false},
		{"simple", "GHZ State", false},
		{"unicode", "Zustand für drei Qubits", false},

		{"too long", strings.Repeat("a", 129), true},
		{"newline", "GHZ\nState", true},
		{"null byte", "GHZ\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCircuitName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCircuitName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSceneName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"demo", "GHZCircuitDemo", false},
		{"layer", "Layer3Demo", false},
		{"underscore", "my_scene", false},

		{"empty", "", true},
		{"leading digit", "3Layer", true},
		{"dash", "ghz-demo", true},
		{"path", "../GHZ", true},
		{"too long", "A" + strings.Repeat("b", 64), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSceneName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSceneName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidScene) {
				t.Errorf("ValidateSceneName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidScene)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out/ghz.gif", false},
		{"absolute", "/tmp/ghz.svg", false},

		{"empty", "", true},
		{"trailing slash", "out/", true},
		{"control char", "out\x01.svg", true},
		{"too long", strings.Repeat("a", 1025), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRelativePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "ghz.gif", false},
		{"nested", "scenes/ghz.gif", false},

		{"absolute", "/etc/passwd", true},
		{"traversal", "../secret", true},
		{"backslash", "scenes\\ghz.gif", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRelativePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRelativePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
