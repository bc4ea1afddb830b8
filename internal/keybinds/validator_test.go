package keybinds

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Type:    "conflict",
		Context: ContextSidebar,
		Key:     "q",
		Message: "key bound 2 times",
	}
	expected := "[conflict] q in context 'sidebar': key bound 2 times"
	if got := err.Error(); got != expected {
		t.Errorf("Error() = %q, want %q", got, expected)
	}
}

func TestValidationResult_String(t *testing.T) {
	empty := &ValidationResult{}
	if empty.String() != "No issues found" {
		t.Errorf("Expected 'No issues found', got %q", empty.String())
	}

	result := &ValidationResult{
		Errors:   []ValidationError{{Type: "conflict", Context: ContextSidebar, Key: "q", Message: "duplicate"}},
		Warnings: []ValidationError{{Type: "warning", Context: ContextResponse, Key: "tab", Message: "shadows"}},
	}
	out := result.String()
	if !strings.Contains(out, "Errors (1)") || !strings.Contains(out, "Warnings (1)") {
		t.Errorf("Expected both sections, got %q", out)
	}
	if !result.HasErrors() || !result.HasWarnings() {
		t.Error("Expected HasErrors and HasWarnings to be true")
	}
}

func TestDefaultRegistryIsValid(t *testing.T) {
	result := NewValidator().ValidateRegistry(NewDefaultRegistry())
	if result.HasErrors() {
		t.Errorf("Expected default registry to be valid, got:\n%s", result.String())
	}
	if result.HasWarnings() {
		t.Errorf("Expected no warnings on defaults, got:\n%s", result.String())
	}
}

func TestMatchFallsBackToGlobal(t *testing.T) {
	r := NewDefaultRegistry()

	if action, ok := r.Match(ContextSidebar, "m"); !ok || action != ActionCycleMethod {
		t.Errorf("Expected cycle_method, got %q (%v)", action, ok)
	}
	if action, ok := r.Match(ContextResponse, "ctrl+c"); !ok || action != ActionQuitForce {
		t.Errorf("Expected global quit_force, got %q (%v)", action, ok)
	}
	if _, ok := r.Match(ContextResponse, "F12"); ok {
		t.Error("Expected F12 to be unbound")
	}
}

func TestKeyString(t *testing.T) {
	r := NewDefaultRegistry()
	if got := r.KeyString(ContextSidebar, ActionBack); got != "esc/q" {
		t.Errorf("Expected esc/q, got %q", got)
	}
	if got := r.KeyString(ContextSidebar, ActionCopyBody); got != "unbound" {
		t.Errorf("Expected unbound, got %q", got)
	}
}

func TestValidatorFindsIssues(t *testing.T) {
	r := NewRegistry()
	r.Register(ContextGlobal, "q", ActionQuit)
	r.Register(ContextSidebar, "q", ActionBack)
	r.Register(ContextSidebar, "ctrl+c", ActionBack)
	r.Register(ContextSidebar, "z", Action("teleport"))

	result := NewValidator().ValidateRegistry(r)

	var unknown, missing int
	for _, e := range result.Errors {
		if strings.Contains(e.Message, "unknown action") {
			unknown++
		}
		if strings.Contains(e.Message, "has no key") {
			missing++
		}
	}
	if unknown != 1 {
		t.Errorf("Expected 1 unknown action error, got %d", unknown)
	}
	// quit_force, text submit/cancel, confirm/cancel
	if missing != 5 {
		t.Errorf("Expected 5 missing required actions, got %d", missing)
	}
	if len(result.Warnings) != 2 {
		t.Errorf("Expected shadowing and reserved key warnings, got %d: %v", len(result.Warnings), result.Warnings)
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"q", false},
		{"ctrl+s", false},
		{"shift+tab", false},
		{"", true},
		{"ctrl+", true},
	}
	for _, tt := range tests {
		err := ValidateKey(tt.key)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
		}
	}
}

func TestValidateAction(t *testing.T) {
	if err := ValidateAction("send"); err != nil {
		t.Errorf("Expected send to be valid, got %v", err)
	}
	if err := ValidateAction(""); err == nil {
		t.Error("Expected empty action to be rejected")
	}
	if err := ValidateAction("launch_rockets"); err == nil {
		t.Error("Expected unknown action to be rejected")
	}
}

func writeKeybinds(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keybinds.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write keybinds: %v", err)
	}
	return path
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	r, err := LoadOrDefault(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("Expected defaults, got %v", err)
	}
	if !r.HasBinding(ContextCollectionList, "n") {
		t.Error("Expected default bindings")
	}
}

func TestLoadOrDefaultAppliesJSONC(t *testing.T) {
	path := writeKeybinds(t, `{
		// comments are fine
		"version": "1",
		"response": { "copy_body": "c, ctrl+y", },
		"sidebar": { "cycle_method": "" },
	}`)

	r, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}

	if action, ok := r.Match(ContextResponse, "c"); !ok || action != ActionCopyBody {
		t.Errorf("Expected c to copy, got %q", action)
	}
	if r.HasBinding(ContextResponse, "y") {
		t.Error("Expected default y to be replaced")
	}
	if r.HasBinding(ContextSidebar, "m") {
		t.Error("Expected cycle_method to be unbound")
	}
}

func TestLoadOrDefaultRejectsBadConfig(t *testing.T) {
	tests := map[string]string{
		"syntax":          `{"sidebar": `,
		"unknown context": `{"editor": {"send": "x"}}`,
		"unknown action":  `{"sidebar": {"fly": "x"}}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadOrDefault(writeKeybinds(t, content)); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestValidateConfigOverDefaults(t *testing.T) {
	config := &Config{Contexts: map[Context]map[Action]string{
		ContextTextInput: {ActionTextCancel: ""},
	}}
	result := NewValidator().ValidateConfig(config)
	if !result.HasErrors() {
		t.Error("Expected unbinding text_cancel to be an error")
	}
}
