package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// boardFrom builds a board from 8 rows of 8 characters: X is Black, O is
// White and anything else is empty.
func boardFrom(t *testing.T, current Player, rows ...string) *Board {
	t.Helper()
	require.Len(t, rows, Size, "board needs %d rows", Size)

	b := EmptyBoard()
	b.CurrentPlayer = current
	for r, row := range rows {
		require.Len(t, row, Size, "row %d needs %d columns", r, Size)
		for c, ch := range row {
			switch ch {
			case 'X':
				b.Set(r, c, CellBlack)
			case 'O':
				b.Set(r, c, CellWhite)
			}
		}
	}
	return b
}

func legalSet(b *Board) map[Move]bool {
	set := map[Move]bool{}
	for row := -2; row < Size+2; row++ {
		for col := -2; col < Size+2; col++ {
			if b.CanMoveIn(row, col) {
				set[Move{Row: row, Col: col}] = true
			}
		}
	}
	return set
}

func TestNewBoard(t *testing.T) {
	b := NewBoard()

	require.Equal(t, PlayerBlack, b.CurrentPlayer, "Black should move first")
	require.Equal(t, CellWhite, b.At(3, 3))
	require.Equal(t, CellWhite, b.At(4, 4))
	require.Equal(t, CellBlack, b.At(3, 4))
	require.Equal(t, CellBlack, b.At(4, 3))

	black, white := b.Scores()
	require.Equal(t, 2, black)
	require.Equal(t, 2, white)
}

func TestCanMoveIn(t *testing.T) {
	t.Run("opening position has exactly four moves", func(t *testing.T) {
		b := NewBoard()

		expected := map[Move]bool{
			{Row: 2, Col: 3}: true,
			{Row: 3, Col: 2}: true,
			{Row: 4, Col: 5}: true,
			{Row: 5, Col: 4}: true,
		}
		require.Equal(t, expected, legalSet(b))
	})

	t.Run("opening moves for the second player mirror the first", func(t *testing.T) {
		b := NewBoard()
		b.CurrentPlayer = PlayerWhite

		expected := map[Move]bool{
			{Row: 2, Col: 4}: true,
			{Row: 3, Col: 5}: true,
			{Row: 4, Col: 2}: true,
			{Row: 5, Col: 3}: true,
		}
		require.Equal(t, expected, legalSet(b))
	})

	t.Run("rejecting coordinates off the board", func(t *testing.T) {
		b := NewBoard()
		for _, m := range []Move{{-1, 0}, {0, -1}, {8, 0}, {0, 8}, {-100, 100}, {1 << 30, 3}} {
			require.False(t, b.CanMoveIn(m.Row, m.Col), "%v should be rejected", m)
		}
	})

	t.Run("rejecting occupied cells", func(t *testing.T) {
		b := NewBoard()
		for row := 0; row < Size; row++ {
			for col := 0; col < Size; col++ {
				if b.At(row, col) != CellEmpty {
					require.False(t, b.CanMoveIn(row, col))
				}
			}
		}
	})

	t.Run("adjacent own disk without an opponent run does not qualify", func(t *testing.T) {
		b := boardFrom(t, PlayerBlack,
			"........",
			"........",
			"........",
			"...X....",
			"........",
			"........",
			"........",
			"........",
		)
		require.False(t, b.CanMoveIn(3, 4))
	})

	t.Run("opponent run ending at the edge does not qualify", func(t *testing.T) {
		b := boardFrom(t, PlayerBlack,
			"........",
			"........",
			"........",
			"....OOOO",
			"........",
			"........",
			"........",
			"........",
		)
		require.False(t, b.CanMoveIn(3, 3))
	})

	t.Run("opponent run ending at an empty cell does not qualify", func(t *testing.T) {
		b := boardFrom(t, PlayerBlack,
			"........",
			"........",
			"........",
			"....OO.X",
			"........",
			"........",
			"........",
			"........",
		)
		require.False(t, b.CanMoveIn(3, 3))
	})

	t.Run("long diagonal run qualifies", func(t *testing.T) {
		b := boardFrom(t, PlayerWhite,
			"........",
			".X......",
			"..X.....",
			"...X....",
			"....X...",
			".....X..",
			"......O.",
			"........",
		)
		require.True(t, b.CanMoveIn(0, 0))
	})

	t.Run("no side effects", func(t *testing.T) {
		b := NewBoard()
		before := *b
		b.CanMoveIn(2, 3)
		b.CanMoveIn(0, 0)
		require.Equal(t, before, *b)
	})
}

func TestMakeMove(t *testing.T) {
	t.Run("opening move flips one disk", func(t *testing.T) {
		b := NewBoard()

		got := b.MakeMove(PlayerBlack, 2, 3)

		require.Equal(t, []Move{{Row: 2, Col: 3}, {Row: 3, Col: 3}}, got)
		require.Equal(t, CellBlack, b.At(2, 3))
		require.Equal(t, CellBlack, b.At(3, 3))
		require.Equal(t, PlayerBlack, b.CurrentPlayer, "MakeMove should not pass the turn")

		black, white := b.Scores()
		require.Equal(t, 4, black)
		require.Equal(t, 1, white)
	})

	t.Run("capturing in several directions in scan order", func(t *testing.T) {
		b := boardFrom(t, PlayerBlack,
			"........",
			"........",
			"........",
			"........",
			"..OO.OX.",
			"....OO..",
			"....O.X.",
			"....O...",
		)
		require.True(t, b.CanMoveIn(4, 4))

		got := b.MakeMove(PlayerBlack, 4, 4)

		require.Equal(t, []Move{{Row: 4, Col: 4}, {Row: 4, Col: 5}, {Row: 5, Col: 5}}, got)
		require.Equal(t, CellWhite, b.At(4, 3), "run ending at an empty cell should stay")
		require.Equal(t, CellWhite, b.At(4, 2), "run ending at an empty cell should stay")
		require.Equal(t, CellWhite, b.At(5, 4), "run ending at the edge should stay")
		require.Equal(t, CellWhite, b.At(7, 4), "run ending at the edge should stay")
	})

	t.Run("placing without captures only records the placement", func(t *testing.T) {
		b := NewBoard()

		got := b.MakeMove(PlayerBlack, 0, 0)

		require.Equal(t, []Move{{Row: 0, Col: 0}}, got)
		require.Equal(t, CellBlack, b.At(0, 0))
	})

	t.Run("ignoring coordinates off the board", func(t *testing.T) {
		b := NewBoard()
		before := *b

		require.Nil(t, b.MakeMove(PlayerBlack, -1, 8))
		require.Equal(t, before, *b)
	})
}

func TestMakeMoveProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for g := 0; g < 50; g++ {
		b := NewBoard()
		for {
			moves := b.LegalMoves()
			if len(moves) == 0 {
				break
			}
			move := moves[rng.Intn(len(moves))]
			player := b.CurrentPlayer
			before := *b
			blackBefore, whiteBefore := b.Scores()

			got := b.MakeMove(player, move.Row, move.Col)

			blackAfter, whiteAfter := b.Scores()
			require.Equal(t, blackBefore+whiteBefore+1, blackAfter+whiteAfter, "disk count should grow by one")
			require.Equal(t, move, got[0], "placement should come first")

			changed := map[Move]bool{}
			for row := 0; row < Size; row++ {
				for col := 0; col < Size; col++ {
					if before.At(row, col) != b.At(row, col) {
						changed[Move{Row: row, Col: col}] = true
					}
				}
			}
			reported := map[Move]bool{}
			for _, m := range got {
				reported[m] = true
			}
			require.Equal(t, changed, reported, "captures should be exactly the changed cells")
			require.Len(t, got, len(reported), "no cell should be reported twice")
			require.Greater(t, len(got), 1, "a legal move captures at least one disk")

			for _, m := range got[1:] {
				require.Equal(t, player.Opponent().Cell(), before.At(m.Row, m.Col))
				require.Equal(t, player.Cell(), b.At(m.Row, m.Col))
				require.True(t, flanked(&before, player, move, m), "%v should be flanked from %v", m, move)
			}

			b.CurrentPlayer = player.Opponent()
		}
	}
}

// flanked checks that target sits on an unbroken opponent run from move that
// ends on one of player's disks.
func flanked(before *Board, player Player, move, target Move) bool {
	dr, dc := sign(target.Row-move.Row), sign(target.Col-move.Col)
	if dr*(target.Col-move.Col) != dc*(target.Row-move.Row) {
		return false
	}
	r, c := move.Row+dr, move.Col+dc
	for inBounds(r, c) && before.At(r, c) == player.Opponent().Cell() {
		r += dr
		c += dc
	}
	if !inBounds(r, c) || before.At(r, c) != player.Cell() {
		return false
	}
	// target must lie before the closing disk
	steps := max(abs(target.Row-move.Row), abs(target.Col-move.Col))
	end := max(abs(r-move.Row), abs(c-move.Col))
	return steps < end
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestIsWin(t *testing.T) {
	t.Run("lead of exactly the margin is not a win", func(t *testing.T) {
		b := EmptyBoard()
		for i := 0; i < WinMargin; i++ {
			b.Set(i/Size, i%Size, CellBlack)
		}

		require.False(t, b.IsWin(PlayerBlack))
		require.False(t, b.IsWin(PlayerWhite))
	})

	t.Run("lead above the margin is a win", func(t *testing.T) {
		b := EmptyBoard()
		for i := 0; i < WinMargin+1; i++ {
			b.Set(i/Size, i%Size, CellWhite)
		}

		require.True(t, b.IsWin(PlayerWhite))
		require.False(t, b.IsWin(PlayerBlack))
	})

	t.Run("neither player wins a close game", func(t *testing.T) {
		b := NewBoard()

		require.False(t, b.IsWin(PlayerBlack))
		require.False(t, b.IsWin(PlayerWhite))
	})
}

func TestClone(t *testing.T) {
	b := NewBoard()
	clone := b.Clone()

	clone.MakeMove(PlayerBlack, 2, 3)
	clone.CurrentPlayer = PlayerWhite

	require.Equal(t, CellEmpty, b.At(2, 3), "source grid should not change")
	require.Equal(t, CellWhite, b.At(3, 3), "source grid should not change")
	require.Equal(t, PlayerBlack, b.CurrentPlayer, "source turn should not change")
	require.Equal(t, NewBoard().String(), b.String())
}

func TestHash(t *testing.T) {
	b := NewBoard()
	require.Equal(t, b.Hash(), b.Clone().Hash(), "equal boards should hash equally")

	other := b.Clone()
	other.CurrentPlayer = PlayerWhite
	require.NotEqual(t, b.Hash(), other.Hash(), "side to move should change the hash")

	other = b.Clone()
	other.MakeMove(PlayerBlack, 2, 3)
	require.NotEqual(t, b.Hash(), other.Hash(), "disks should change the hash")
}

func TestPlayer(t *testing.T) {
	require.Equal(t, []Player{PlayerBlack, PlayerWhite}, Players())
	require.Equal(t, PlayerWhite, PlayerBlack.Opponent())
	require.Equal(t, PlayerBlack, PlayerWhite.Opponent())
	require.Equal(t, CellBlack, PlayerBlack.Cell())
	require.Equal(t, "White", PlayerWhite.String())

	p, ok := PlayerFromCell(CellWhite)
	require.True(t, ok)
	require.Equal(t, PlayerWhite, p)
	_, ok = PlayerFromCell(CellEmpty)
	require.False(t, ok)
}
