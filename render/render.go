package render

import (
	"flipper/game"
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
)

// Renderer draws boards for a terminal. Black disks are X, White disks are
// O, the agent's pending choice is * and squares the player to move could
// take are marked with a dot when hints are on.
type Renderer struct {
	w     io.Writer
	au    aurora.Aurora
	hints bool
}

func NewRenderer(w io.Writer, colors, hints bool) *Renderer {
	return &Renderer{w: w, au: aurora.NewAurora(colors), hints: hints}
}

func (r *Renderer) Board(b *game.Board, pending *game.Move) {
	var sb strings.Builder

	sb.WriteString("  ")
	for col := 0; col < game.Size; col++ {
		fmt.Fprintf(&sb, " %d", col)
	}
	sb.WriteString("\n")

	for row := 0; row < game.Size; row++ {
		fmt.Fprintf(&sb, "%d ", row)
		for col := 0; col < game.Size; col++ {
			sb.WriteString(" ")
			sb.WriteString(r.square(b, row, col, pending))
		}
		sb.WriteString("\n")
	}

	black, white := b.Scores()
	fmt.Fprintf(&sb, "%s %d  %s %d  to move: %s\n",
		r.au.Bold("X"), black, r.au.Cyan("O"), white, b.CurrentPlayer)

	fmt.Fprint(r.w, sb.String())
}

func (r *Renderer) square(b *game.Board, row, col int, pending *game.Move) string {
	if pending != nil && pending.Row == row && pending.Col == col {
		return r.au.Yellow("*").String()
	}
	switch b.At(row, col) {
	case game.CellBlack:
		return r.au.Bold("X").String()
	case game.CellWhite:
		return r.au.Cyan("O").String()
	}
	if r.hints && b.CanMoveIn(row, col) {
		return r.au.Green(".").String()
	}
	return r.au.White("-").String()
}

// Captured describes a move and the disks it turned.
func (r *Renderer) Captured(player game.Player, captured []game.Move) {
	if len(captured) == 0 {
		return
	}
	flipped := make([]string, 0, len(captured)-1)
	for _, m := range captured[1:] {
		flipped = append(flipped, m.String())
	}
	fmt.Fprintf(r.w, "%s plays %s, flipping %s\n",
		r.au.Magenta(player), captured[0], strings.Join(flipped, " "))
}

func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.w, r.au.Red(err.Error()))
}
