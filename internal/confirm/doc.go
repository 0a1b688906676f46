// Package confirm turns single presses of the interrupt and cancel keys into
// two-stage confirm gestures.
//
// The first Ctrl+C shows a short status hint and is forwarded so the editor
// can clear its line; a second Ctrl+C inside the interrupt window is
// forwarded as the confirm that exits. While an operation runs, the first
// Escape is swallowed and the working indicator tells the user to press
// again; a second Escape inside the cancel window is forwarded and aborts.
//
// The package has two parts. Arbiter decorates the base editor and decides,
// per input chunk, whether to forward, suppress, or clear and forward.
// Presenter owns the two hint surfaces and their auto-clear timers.
// Extension wires both into the session lifecycle.
//
// Everything runs on the session's event loop; nothing here takes a lock.
package confirm
