// Package websocket pushes live session views to browser clients.
//
// A central Hub owns every connection. Clients subscribe to one session with
// /ws?session=<id>; the API server broadcasts the session's engine.View after
// each accepted mutation and a session_ended event when the session is
// removed.
//
// Message format:
//
//	{"session_id": "a1b2", "event": "state_update", "state": {...view...}}
//	{"session_id": "a1b2", "event": "session_ended", "data": {...session info...}}
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//	hub.ServeWS(w, r, sessionID, &view)
//	hub.BroadcastToSession(sessionID, &view)
//
// Incoming frames are read only to service pings and detect disconnects.
// When Run returns, every client channel is closed and the write pumps send a
// close frame.
package websocket
