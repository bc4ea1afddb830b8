/*
Package keybinds maps key chords to user actions.

# Overview

Bindings live in a Registry as context -> key -> action. Each page asks the
registry for the action bound to a key in its own context; the global
context is consulted when the page context has no match.

Contexts:
  - global: available everywhere (ctrl+c)
  - collection_list: the collection list page
  - sidebar: request tree of the collection viewer
  - request_editor: URI, headers and body of the selected request
  - response: response viewer
  - text_input: every focused text field and form
  - confirm: yes/no prompts

# Configuration File Format

keybinds.json in the config directory overrides the defaults. Comments and
trailing commas are allowed. Each section maps an action to a comma
separated key list, which replaces the default keys of that action:

	{
	  // vim users
	  "sidebar": { "back": "h,esc" },
	  "response": { "copy_body": "c" },
	}

An empty list unbinds the action. Unknown contexts or actions are rejected
when the file is loaded.

# Validation

The Validator reports unknown actions, required actions left without a key
(submit/cancel in forms, confirm/cancel in prompts, quit_force) as errors,
and shadowed global keys or a rebound ctrl+c as warnings.

# Example Usage

	registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return err
	}
	if action, ok := registry.Match(keybinds.ContextSidebar, msg.String()); ok {
		// handle action
	}
*/
package keybinds
