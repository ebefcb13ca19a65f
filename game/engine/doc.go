// Package engine provides the exploration logic of the text quest.
//
// A GameEngine owns one terrain.Map and one player. The player starts at the
// map's starting coordinate and moves up, down, left or right; a
// terrain.MovePolicy decides which moves are allowed (all of them unless a
// policy is supplied). The engine keeps a cumulative move history, computes
// the player's neighbourhood with Map.WalkSurrounding, renders windows of
// the map centred on the player, and can terraform cells, which grows the
// map when the target lies past its edge.
//
// Usage:
//
//	m, err := catalogue.LoadMap("meadow")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(m)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine.Move("right")
//	fmt.Println(gameEngine.View(11, 11))
package engine
