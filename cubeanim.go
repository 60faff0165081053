// Package cubeanim models and animates a 3x3x3 twisty puzzle.
//
// A Puzzle holds 27 cubies and their 54 stickers in a scene graph. Moves in
// standard notation are compiled into layer turns and executed one at a
// time: the turning layer is regrouped under a transient node, the node is
// rotated over time, and the pieces are committed back with their world
// transforms preserved.
//
// # Quick Start
//
//	p, err := cubeanim.New(cubeanim.WithInstant())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close(context.Background())
//
//	p.OnMove(func(m cubeanim.Move) {
//	    fmt.Println("Move:", m.Notation)
//	})
//
//	p.Move("R U R' U'")
//	p.Wait(context.Background())
//	fmt.Println(p.FaceletString())
//
// # Notation
//
// Tokens are a command code, an optional prime and an optional repetition
// digit: R, R', R2, R'2. Codes are U, D, L, R, F, B for face turns and M, E,
// S for slice turns. Unknown tokens are skipped and reported.
//
// # Solving
//
// Solve and Scramble delegate to a two-phase solver set with WithSolver or
// SetSolver. The solver sees the state after every queued move, so it can
// be called while earlier moves are still animating.
//
// # Facelet Strings
//
// States are exchanged as 54-character strings in U, R, F, D, L, B face
// order, nine stickers each:
//
//	UUUUUUUUURRRRRRRRRFFFFFFFFFDDDDDDDDDLLLLLLLLLBBBBBBBBB
package cubeanim
