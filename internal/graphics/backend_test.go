package graphics

import (
	"testing"
)

func TestCreateBackend(t *testing.T) {
	tests := []struct {
		backendType BackendType
		name        string
		headless    bool
	}{
		{BackendHeadless, "Headless", true},
		{BackendTerminal, "Terminal", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.backendType), func(t *testing.T) {
			backend, err := CreateBackend(tt.backendType)
			if err != nil {
				t.Fatalf("CreateBackend failed: %v", err)
			}
			if backend.GetName() != tt.name {
				t.Errorf("Expected name %s, got %s", tt.name, backend.GetName())
			}
			if backend.IsHeadless() != tt.headless {
				t.Errorf("Expected IsHeadless %v, got %v", tt.headless, backend.IsHeadless())
			}
		})
	}
}

func TestCreateBackendUnknown(t *testing.T) {
	if _, err := CreateBackend("sdl2"); err == nil {
		t.Error("Expected error for unknown backend")
	}
}

func TestBackendLifecycle(t *testing.T) {
	backends := []Backend{NewHeadlessBackend(), NewTerminalBackend()}

	for _, backend := range backends {
		t.Run(backend.GetName(), func(t *testing.T) {
			if _, err := backend.CreateWindow("x", 256, 240); err == nil {
				t.Error("Expected CreateWindow to fail before Initialize")
			}
			if err := backend.Initialize(Config{}); err != nil {
				t.Fatalf("Initialize failed: %v", err)
			}
			if err := backend.Initialize(Config{}); err == nil {
				t.Error("Expected second Initialize to fail")
			}
			if err := backend.Cleanup(); err != nil {
				t.Errorf("Cleanup failed: %v", err)
			}
		})
	}
}

func TestInputEventTypeString(t *testing.T) {
	if InputEventTypeQuit.String() != "quit" {
		t.Errorf("Expected quit, got %s", InputEventTypeQuit)
	}
	if InputEventType(9).String() != "InputEventType(9)" {
		t.Errorf("Unexpected string %s", InputEventType(9))
	}
}
