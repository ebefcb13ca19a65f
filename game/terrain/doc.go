// Package terrain implements the terrain grid of the text quest.
//
// A Map is a named, growable grid of TerrainType cells plus free-form
// metadata. Reads outside the grid return Empty; writes outside the grid
// grow it. Walk and WalkSurrounding traverse a window or a neighbourhood
// and feed each cell to a TerrainFunc, which is how Printer renders the
// visible part of a map as ASCII text:
//
//	m, err := terrain.New("meadow", rows, map[string]string{"start": "3,4"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	start := m.StartingCoordinate()
//	fmt.Println(m.RenderQuadrant(start.X-5, start.Y-5, 11, 11))
//
// Persisted maps use Record, a {name, terrain, metadata} object whose cells
// encode as one-character keys.
package terrain
