package surface

import (
	"testing"

	"github.com/matzehuels/masonry/pkg/errors"
)

func TestResolve(t *testing.T) {
	reg := NewRegistry()
	main := NewCanvas(800, 600)
	if err := reg.Register("#waterfall", main); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name     string
		resolver Resolver
		selector string
		wantCode errors.Code
	}{
		{"found", reg, "#waterfall", ""},
		{"not found", reg, "#missing", errors.ErrCodeContainerNotFound},
		{"malformed", reg, "#wat erfall", errors.ErrCodeInvalidSelector},
		{"empty", reg, "", errors.ErrCodeInvalidSelector},
		{"nil resolver", nil, "#waterfall", errors.ErrCodeContainerNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Resolve(tt.resolver, tt.selector)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Resolve: %v", err)
				}
				if s != main {
					t.Error("Resolve returned the wrong surface")
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Resolve error = %v, want code %v", err, tt.wantCode)
			}
		})
	}
}

func TestRegistryRejectsMalformedSelector(t *testing.T) {
	if err := NewRegistry().Register("div > p", NewCanvas(1, 1)); !errors.Is(err, errors.ErrCodeInvalidSelector) {
		t.Errorf("Register error = %v, want INVALID_SELECTOR", err)
	}
}
