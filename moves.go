package cubeanim

// Predefined sequences in notation form.
//
// Example:
//
//	p.Move(cubeanim.SexyMove)
const (
	// Sexy move: R U R' U' - one of the most common algorithms
	SexyMove = "R U R' U'"

	// Inverse sexy move: U R U' R'
	InverseSexyMove = "U R U' R'"

	// T-perm algorithm
	TPerm = "R U R' U' R' F R2 U' R' U' R U R' F'"

	// Checkerboard pattern using slice turns
	Checkerboard = "M2 E2 S2"
)
