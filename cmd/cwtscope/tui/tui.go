// Package tui renders a live view of a continuous wavelet transform as
// it is computed, styled after the teacher's termbox-based parameter
// panel: same Init/SetInputMode/poll-loop shape and color palette,
// repurposed to draw a magnitude heatmap instead of reverb controls.
// Only the first rows that fit the terminal height are drawn; the view
// does not scroll.
package tui

import (
	"fmt"
	"math/cmplx"
	"sync"
	"time"

	"github.com/nsf/termbox-go"

	"github.com/Pasqg/subtune/render"
)

const (
	colDef    = termbox.ColorDefault
	colWhite  = termbox.ColorWhite
	colCyan   = termbox.ColorCyan
	colYellow = termbox.ColorYellow
)

var blocks = []rune{' ', '░', '▒', '▓', '█'}

// State tracks the progress of a running transform for display. It is
// safe for concurrent use: OnRow is called from the transform's worker
// goroutines while Run redraws from the event-loop goroutine.
type State struct {
	mu          sync.RWMutex
	frequencies []float64
	rows        [][]complex128
	rowsDone    int
	maxMagnitude float64
	exit        bool
}

// NewState prepares a State for a transform over frequencies, each row
// holding columns samples.
func NewState(frequencies []float64, columns int) *State {
	rows := make([][]complex128, len(frequencies))
	for i := range rows {
		rows[i] = make([]complex128, columns)
	}

	return &State{frequencies: frequencies, rows: rows}
}

// OnRow records a completed transform row for display.
func (s *State) OnRow(index int, row []complex128) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copy(s.rows[index], row)
	s.rowsDone++

	for _, v := range row {
		if m := cmplx.Abs(v); m > s.maxMagnitude {
			s.maxMagnitude = m
		}
	}
}

// Run drives the termbox event loop until the user quits or every row
// has been computed. It does not stop the transform itself.
func Run(state *State) error {
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("tui: init: %w", err)
	}
	defer termbox.Close()

	termbox.SetInputMode(termbox.InputEsc)

	eventQueue := make(chan termbox.Event)
	go func() {
		for {
			eventQueue <- termbox.PollEvent()
		}
	}()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	draw(state)

	for !state.done() {
		select {
		case ev := <-eventQueue:
			if ev.Type == termbox.EventKey && (ev.Key == termbox.KeyEsc || ev.Ch == 'q') {
				return nil
			}
			draw(state)
		case <-ticker.C:
			draw(state)
		}
	}

	draw(state)
	return nil
}

func (s *State) done() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rowsDone >= len(s.rows)
}

func draw(state *State) {
	state.mu.RLock()
	defer state.mu.RUnlock()

	_ = termbox.Clear(colDef, colDef)

	printTB(0, 0, colCyan, colDef, "cwtscope - live transform")
	printTB(0, 1, colDef, colDef, fmt.Sprintf("rows computed: %d/%d    'q' or Esc to detach", state.rowsDone, len(state.rows)))

	width, height := termbox.Size()
	gutter := 6
	plotWidth := width - gutter
	if plotWidth < 1 {
		plotWidth = 1
	}

	top := 3
	plotHeight := height - top
	if plotHeight > len(state.rows) {
		plotHeight = len(state.rows)
	}

	maxMag := state.maxMagnitude
	if maxMag == 0 {
		maxMag = 1
	}

	for r := 0; r < plotHeight; r++ {
		note := render.NoteClass(state.frequencies[r])
		gutterChar := '|'
		col := colWhite
		if render.IsBlackKey(note) {
			col = colYellow
		}
		printTB(0, top+r, col, colDef, fmt.Sprintf("%4.0f %c", state.frequencies[r], gutterChar))

		row := state.rows[r]
		chunk := len(row) / plotWidth
		if chunk < 1 {
			chunk = 1
		}

		for c := 0; c*chunk < len(row) && c < plotWidth; c++ {
			var peak float64
			for k := 0; k < chunk && c*chunk+k < len(row); k++ {
				if m := cmplx.Abs(row[c*chunk+k]); m > peak {
					peak = m
				}
			}
			termbox.SetCell(gutter+c, top+r, blockFor(peak/maxMag), colDef, colDef)
		}
	}

	termbox.Flush()
}

func blockFor(ratio float64) rune {
	idx := int(ratio * float64(len(blocks)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(blocks) {
		idx = len(blocks) - 1
	}
	return blocks[idx]
}

func printTB(x, y int, fg, bg termbox.Attribute, msg string) {
	for _, c := range msg {
		termbox.SetCell(x, y, c, fg, bg)
		x++
	}
}
