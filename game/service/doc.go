// Package service provides the business logic layer for the Text Quest server.
//
// The service package implements:
//   - Multi-session game management
//   - Map catalogue access
//   - Move processing with per-step traces
//   - Terrain changes that may grow a session's map
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// MapCatalog loads the maps sessions are created from.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns an engine exploring its own copy of a
// catalogue map, so terraforming one session never shows up in another.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	mapMgr, _ := maps.NewManager("maps")
//	gameService := service.NewGameService(sessionMgr, mapMgr)
//
//	info, err := gameService.CreateSession(ctx, "meadow")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, "up", false)
//
// Thread Safety:
//
// A terrain write can grow a map, replacing its cell buffer. The service
// therefore holds its lock exclusively for moves, resets and terraforming,
// and shared for reads such as views and cell descriptions.
package service
