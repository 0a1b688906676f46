package config

// Defaults returns the built-in settings. Extensions add their own
// sections at session start with SetDefaults.
func Defaults() map[string]any {
	return map[string]any{
		"logging": map[string]any{
			"level": "info",
			"file":  "",
		},
		"ui": map[string]any{
			"workingMessage": "Working...",
			"spinner":        "⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏",
			"prompt":         "> ",
		},
		"shell": map[string]any{
			"path": "/bin/sh",
		},
		"extensions": map[string]any{
			"dir": "",
		},
		"history": map[string]any{
			"size": 200,
		},
	}
}
