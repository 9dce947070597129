package board

// Canonical opening destinations, in catalog order. The catalog index is
// a move's identity everywhere: simulator parameterization, result
// columns, artifact names.
var openings = [][2]int{
	{1, 0},
	{0, 1},
	{1, 1},
	{2, 0},
	{0, 2},
	{2, 1},
	{1, 2},
	{2, 2},
}

// OpeningMoves builds the fixed catalog of candidate opening moves: one
// 3x3 overlay per canonical destination, placing a player-one stone
// there. A fresh copy is returned on every call so no caller can mutate
// another's catalog.
func OpeningMoves() []Move {
	catalog := make([]Move, 0, len(openings))
	for _, dest := range openings {
		m := make(Move, 3)
		for r := range m {
			m[r] = make([]int, 3)
		}
		m[dest[0]][dest[1]] = PlayerOne
		catalog = append(catalog, m)
	}
	return catalog
}
