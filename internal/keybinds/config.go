package keybinds

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
)

// Config represents the user's keybinding configuration.
// Each section maps an action to a comma separated list of keys:
//
//	{ "sidebar": { "create_request": "n,a" } }
//
// An empty key list unbinds the action in that context.
type Config struct {
	Version  string                       `json:"version,omitempty"`
	Contexts map[Context]map[Action]string `json:"-"`
}

// UnmarshalJSON reads every top-level object other than "version" as a
// context section
func (c *Config) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.Contexts = make(map[Context]map[Action]string)
	for name, value := range raw {
		if name == "version" {
			if err := json.Unmarshal(value, &c.Version); err != nil {
				return fmt.Errorf("version: %w", err)
			}
			continue
		}
		var section map[Action]string
		if err := json.Unmarshal(value, &section); err != nil {
			return fmt.Errorf("section %s: %w", name, err)
		}
		c.Contexts[Context(name)] = section
	}
	return nil
}

// MarshalJSON writes sections back at the top level
func (c Config) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Contexts)+1)
	if c.Version != "" {
		out["version"] = c.Version
	}
	for ctx, section := range c.Contexts {
		out[string(ctx)] = section
	}
	return json.Marshal(out)
}

// LoadConfig loads keybinding configuration from a JSON file. Comments and
// trailing commas are accepted.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}

	return &config, nil
}

// ApplyConfig applies user configuration to a registry.
// User bindings replace every default key of the same action in that context.
func ApplyConfig(registry *Registry, config *Config) error {
	for context, section := range config.Contexts {
		if !context.IsKnown() {
			return fmt.Errorf("unknown context %q", context)
		}
		for action, keyList := range section {
			if err := ValidateAction(string(action)); err != nil {
				return fmt.Errorf("context %s: %w", context, err)
			}
			for _, old := range keysFor(registry.bindings[context], action) {
				registry.Unregister(context, old)
			}
			for _, key := range splitKeys(keyList) {
				if err := ValidateKey(key); err != nil {
					return fmt.Errorf("context %s, action %s: %w", context, action, err)
				}
				registry.Register(context, key, action)
			}
		}
	}
	return nil
}

func splitKeys(list string) []string {
	var keys []string
	for _, key := range strings.Split(list, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// LoadOrDefault loads user config if it exists, otherwise returns the default
// registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	config, err := LoadConfig(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return registry, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load keybinds.json: %w", err)
	}

	if err := ApplyConfig(registry, config); err != nil {
		return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
	}

	return registry, nil
}
