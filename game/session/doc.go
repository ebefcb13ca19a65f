// Package session provides session management for the Text Quest server.
//
// Manager keeps sessions in memory under case-insensitive IDs and hands out
// 4-character hex IDs when none is given. With a SessionPersistence attached
// it writes new sessions through, loads unknown IDs on demand and can sync
// everything at shutdown.
//
// Two persistence layers are provided:
//   - FilePersistence stores one JSON file per session
//   - PostgresPersistence stores one row per session with the state as JSONB
//
// Both store the session's own map, so terrain changes and map growth survive
// a restart. The catalogue map the session started from is reloaded as its
// reset point.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions", mapMgr)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//	sess, err := manager.Create("", "meadow", mapMgr.GetDefault())
package session
