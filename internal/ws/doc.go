// Package ws implements the WebSocket hub streaming live averages.
//
// Hub manages a set of connected clients and broadcasts a freshly computed
// result map to all of them on a configurable interval (default 5s).
//
// New(engine, source, interval) creates a Hub.
// Hub.Run(ctx) starts the broadcast ticker — blocks until ctx is
// cancelled, then closes all active connections.
// Hub.ServeHTTP upgrades an HTTP connection to WebSocket, sends current
// averages immediately on connect, then streams updates on each tick.
//
// Message format sent to clients:
//
//	{
//	  "event": "averages",
//	  "data":  { "<rollno>": { "average": 70.0 }, ... }
//	}
//
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level. The endpoint is mounted at /ws/averages by the server.
package ws
