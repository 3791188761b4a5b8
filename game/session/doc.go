// Package session provides session management for the Maze Game server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Finishing sessions: finalizing the run and saving the level record
//   - Session cleanup and expiration
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive and generated IDs never collide with live sessions.
//
// Finishing:
//
// Finishing a session folds a winning time into the personal best and saves
// the level (maze plus personal best) through a LevelSaver. It runs once per
// session no matter how it is triggered: a winning move, an explicit end, an
// expiry sweep or server shutdown via FinishAll.
//
// Usage:
//
//	manager := session.NewManager(levels, logger)
//
//	sess, err := manager.Create("", "config", state)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Persist the run before dropping it
//	manager.Finish(sess.ID)
//	manager.Delete(sess.ID)
package session
