// Package extension provides the API session extensions are written
// against and the Manager that drives them through the session lifecycle.
//
// An extension registers hooks for lifecycle topics. Hooks receive the
// session Context, which exposes the UI (absent when no interactive display
// is attached), the options store, a logger, and SetEditorComponent for
// replacing the prompt's input handler:
//
//	type greeter struct{}
//
//	func (greeter) Name() string { return "greeter" }
//
//	func (greeter) Register(api *extension.API) error {
//		return api.On(event.TopicSessionStart, func(ev event.Event, ctx *extension.Context) error {
//			if ctx.HasUI {
//				ctx.UI.Notify("hello", ui.LevelInfo)
//			}
//			return nil
//		})
//	}
package extension
