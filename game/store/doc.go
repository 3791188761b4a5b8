// Package store persists named level records as raw bytes.
//
// Two backends implement RecordStore:
//   - FileStore keeps one <name>.json file per level in a directory, the
//     format the desktop game has always read and written.
//   - BadgerStore keeps levels in an embedded BadgerDB under a "level:" key
//     prefix, for servers that host many levels and sessions.
//
// Stores deal in bytes only. Decoding and recovery of malformed records is the
// engine package's job (engine.DecodeRecord), so a store never rejects a level
// because of its contents.
//
// Usage:
//
//	st, err := store.NewFileStore("levels")
//	if err != nil {
//		return err
//	}
//	defer st.Close()
//
//	data, err := st.Load("config")
//	if errors.Is(err, store.ErrNotFound) {
//		// start from the default record
//	}
package store
