// Package shutdown coordinates interrupt handling and cleanup for the CLI.
//
// SignalContext cancels an in-flight command on SIGINT or SIGTERM, and
// Handler runs cleanup hooks (closing the token store, flushing metrics)
// exactly once on the way out:
//
//	h := shutdown.NewHandler(5 * time.Second)
//	h.OnShutdown(func(ctx context.Context) error { return store.Close() })
//	defer h.Shutdown()
package shutdown
