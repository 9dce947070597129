package board

import "errors"

// Move is a sparse overlay grid: a zero cell leaves the board untouched,
// a non-zero cell overwrites the destination with its value.
type Move [][]int

// Conditions that make a move inapplicable to a particular board. Both
// are skippable: the caller logs and continues with the next move.
var (
	ErrShapeMismatch = errors.New("move shape does not match board shape")
	ErrObstructed    = errors.New("move would modify an obstacle cell")
)

// Shape returns the move dimensions as (rows, cols).
func (m Move) Shape() (int, int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}

// Destination returns the coordinate of the move's first non-zero cell
// in row-major order. A move with no non-zero cell reports (-1, -1).
func (m Move) Destination() (int, int) {
	for r, row := range m {
		for c, v := range row {
			if v != 0 {
				return r, c
			}
		}
	}
	return -1, -1
}

// Overlay merges the move onto base and returns the modified board. The
// base board is never mutated. The move is rejected with ErrShapeMismatch
// when the shapes differ, and with ErrObstructed when any of its non-zero
// cells would land on an obstacle.
func Overlay(base Board, m Move) (Board, error) {
	br, bc := base.Shape()
	mr, mc := m.Shape()
	if br != mr || bc != mc {
		return nil, ErrShapeMismatch
	}

	for r, row := range m {
		for c, v := range row {
			if v != 0 && base[r][c] == Obstacle {
				return nil, ErrObstructed
			}
		}
	}

	out := make(Board, br)
	for r := range base {
		out[r] = make([]int, bc)
		copy(out[r], base[r])
		for c, v := range m[r] {
			if v != 0 {
				out[r][c] = v
			}
		}
	}
	return out, nil
}
