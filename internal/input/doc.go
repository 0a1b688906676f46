// Package input provides the editor components that consume raw terminal
// input.
//
// Every component implements Handler and receives input as raw chunks
// ("\x03", "\x1b", "hello"). Components are composed by wrapping: an
// extension may install a Handler that decorates the base Editor, inspecting
// each chunk and either forwarding it to the base or suppressing it.
//
//	base := input.NewLineEditor(input.DefaultConfig(), clk, actions)
//	var h input.Handler = base
//	h = confirm.NewArbiter(base, ...) // decorates, forwards via base.HandleInput
//
// LineEditor is the default base: a single-line prompt with history and a
// history autocomplete overlay. Its host-level behaviours (submit, abort,
// exit) are delivered through Actions.
package input
