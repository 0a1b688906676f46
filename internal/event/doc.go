// Package event provides the synchronous session lifecycle dispatcher.
//
// Topics are dot-separated ("session.start", "operation.end"). Patterns may
// use "*" to match exactly one segment and "**" to match zero or more:
//
//	d := event.NewDispatcher()
//	sub, _ := d.Subscribe("operation.*", event.HandlerFunc(func(ctx context.Context, ev event.Event) error {
//		return nil
//	}))
//	defer sub.Cancel()
//
//	errs := d.Publish(ctx, event.New(event.TopicOperationEnd, payload))
//
// Handlers run on the publisher's goroutine, lower Priority first and in
// subscription order within a priority. A handler that returns an error or
// panics does not stop delivery to the rest.
package event
