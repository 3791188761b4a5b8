// Package config manages the maze levels available to the game.
//
// A level is a named persisted record ({"PB": ..., "Maze": ...}) held in a
// store.RecordStore. The Manager handles:
//   - Loading levels with per-field recovery of malformed records
//   - Caching decoded levels for concurrent sessions
//   - Saving edited mazes and new personal bests
//   - Listing levels with a short summary of each
//   - Invalidating the cache when level files change on disk
//
// Missing Levels:
//
// Loading a level that has never been saved is not an error. The manager
// returns the default record, an all-wall maze of the configured default
// shape with no personal best, so a fresh install can start playing and
// editing straight away.
//
// Usage:
//
//	st, _ := store.NewFileStore("levels")
//	manager, err := config.NewManager(st, config.Options{
//		DefaultLevel: "config",
//		DefaultShape: engine.DefaultShape{Rows: 35, Cols: 40},
//		Logger:       logger,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	rec, err := manager.LoadLevel("config")
//
//	// Keep the cache in sync with hand-edited files
//	go manager.Watch(ctx)
//
// Validation:
//
// Saved levels must have a non-negative PB and only 0/1 cells. Ragged mazes
// are accepted; sessions normalize them to the configured maze size.
package config
