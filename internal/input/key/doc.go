// Package key provides key event types, raw terminal decoding and key
// matching for the input layer.
//
// The package defines:
//
//   - Key: Identifies a keyboard key (special keys or runes)
//   - Modifier: Represents modifier keys (Ctrl, Alt, Shift, Meta)
//   - Event: A single key press with modifiers
//
// # Raw Input
//
// Editor components receive raw input chunks as strings, exactly as a
// terminal would deliver them ("\x03" for Ctrl+C, "\x1b" for Escape,
// "\x1b[A" for Up). Decode turns such a chunk into an Event and Encode
// produces the chunk for an Event.
//
// # Key Specifications
//
// Specifications used by Parse and Matches can be written as:
//
//   - Simple keys: "a", "Enter", "Escape"
//   - With modifiers: "Ctrl+C", "Alt+F"
//   - Vim-style: "<C-c>", "<Esc>", "<CR>"
package key
