// cubeanim - CLI for turning a 3x3x3 puzzle from move notation.
package main

import (
	"github.com/SeamusWaldron/cubeanim/internal/cli"
)

func main() {
	cli.Execute()
}
