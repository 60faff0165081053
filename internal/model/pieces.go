package model

// Index is a cubie's slot in the 3x3x3 grid, each axis in 0..2.
type Index struct {
	X, Y, Z int
}

// PieceData is one row of the static piece table.
type PieceData struct {
	Index Index
	Codes []Code
}

// pieceTable lists every cubie with the seat codes of its stickers.
// (1,1,1) is the core and has none.
var pieceTable = []PieceData{
	{Index{0, 0, 0}, []Code{"D7", "L7", "B9"}},
	{Index{0, 0, 1}, []Code{"D4", "L8"}},
	{Index{0, 0, 2}, []Code{"F7", "D1", "L9"}},

	{Index{0, 1, 0}, []Code{"L4", "B6"}},
	{Index{0, 1, 1}, []Code{"L5"}},
	{Index{0, 1, 2}, []Code{"F4", "L6"}},

	{Index{0, 2, 0}, []Code{"U1", "L1", "B3"}},
	{Index{0, 2, 1}, []Code{"U4", "L2"}},
	{Index{0, 2, 2}, []Code{"U7", "F1", "L3"}},

	{Index{1, 0, 0}, []Code{"D8", "B8"}},
	{Index{1, 0, 1}, []Code{"D5"}},
	{Index{1, 0, 2}, []Code{"D2", "F8"}},

	{Index{1, 1, 0}, []Code{"B5"}},
	{Index{1, 1, 1}, nil},
	{Index{1, 1, 2}, []Code{"F5"}},

	{Index{1, 2, 0}, []Code{"U2", "B2"}},
	{Index{1, 2, 1}, []Code{"U5"}},
	{Index{1, 2, 2}, []Code{"U8", "F2"}},

	{Index{2, 0, 0}, []Code{"R9", "B7", "D9"}},
	{Index{2, 0, 1}, []Code{"R8", "D6"}},
	{Index{2, 0, 2}, []Code{"F9", "R7", "D3"}},

	{Index{2, 1, 0}, []Code{"R6", "B4"}},
	{Index{2, 1, 1}, []Code{"R5"}},
	{Index{2, 1, 2}, []Code{"R4", "F6"}},

	{Index{2, 2, 0}, []Code{"R3", "B1", "U3"}},
	{Index{2, 2, 1}, []Code{"R2", "U6"}},
	{Index{2, 2, 2}, []Code{"R1", "U9", "F3"}},
}

// Pieces returns a copy of the 27-entry piece table.
func Pieces() []PieceData {
	out := make([]PieceData, len(pieceTable))
	for i, p := range pieceTable {
		out[i] = PieceData{Index: p.Index, Codes: append([]Code(nil), p.Codes...)}
	}
	return out
}

// SeatCode returns the code of the seat on face f of the cubie at idx.
func SeatCode(f Face, idx Index) Code {
	var slot int
	switch f {
	case U:
		slot = 3*idx.Z + idx.X
	case R:
		slot = 3*(2-idx.Y) + (2 - idx.Z)
	case F:
		slot = 3*(2-idx.Y) + idx.X
	case D:
		slot = 3*(2-idx.Z) + idx.X
	case L:
		slot = 3*(2-idx.Y) + idx.Z
	case B:
		slot = 3*(2-idx.Y) + (2 - idx.X)
	}
	return CodeAt(int(f)*9 + slot)
}
