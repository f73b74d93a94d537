// Package shutdown coordinates graceful shutdown of craftgate-server.
//
// Components register hooks with OnShutdown as they start. Wait blocks
// until SIGINT/SIGTERM or Trigger, then runs the hooks in reverse order
// under a shared deadline, so the HTTP listener closes before the host
// it depends on.
//
// Usage:
//
//	h := shutdown.NewHandler(30 * time.Second)
//	h.OnShutdown(host.Stop)
//	h.OnShutdown(httpServer.Stop)
//	err := h.Wait()
package shutdown
