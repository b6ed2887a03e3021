// Package session keeps maze pursuit game sessions in memory and mirrors them
// to a persistence backend.
//
// Manager is the in-memory store. Lookups are case-insensitive and a session
// that is missing from memory is loaded from persistence on first access.
// Generated session IDs are 4 hex characters.
//
// Two backends implement SessionPersistence:
//
//   - FilePersistence writes one JSON file per session
//   - RedisPersistence stores one JSON value per key, with an optional TTL
//
// Both store the level ID next to the engine state. Loading reloads the level
// through a service.LevelManager and then restores the state on a fresh
// engine, so a stored session keeps working if its level file is edited.
//
// Usage:
//
//	levelMgr, _ := levels.NewManager("levels")
//	store, err := session.NewFilePersistence("sessions", levelMgr)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(store)
//	manager.LoadPersistedSessions()
//
//	sess, err := manager.Create("", "stage1", levelMgr.GetDefault())
package session
