package main

import (
	"fmt"
	"unicode"

	"github.com/Conceptual-Machines/groove-api/internal/models"
	"github.com/Conceptual-Machines/groove-api/internal/playback"
	"github.com/gdamore/tcell/v2"
)

var (
	styleText    = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Bold(true)
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleCurrent = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	styleHit     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleFlash   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen)
	styleHead    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleWarn    = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleMuted   = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

const help = "space play/stop  1-4 mute  +/- tempo  n next preset  i instrument  q quit"

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) int {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

// draw renders v onto s
func draw(s tcell.Screen, v viewState) {
	s.Clear()
	y := 0

	state := "stopped"
	if v.Playing {
		state = "playing"
	}
	x := drawText(s, 0, y, styleTitle, v.Title)
	drawText(s, x+2, y, styleDim, fmt.Sprintf("%s  %.0f bpm  %s", v.Genre, v.BPM, state))
	y += 2

	// chords, current bar highlighted
	x = drawText(s, 0, y, styleDim, "chords ")
	for i, c := range v.Chords {
		style := styleText
		if v.Playing && len(v.Chords) > 0 && v.Bar >= 0 && i == v.Bar%len(v.Chords) {
			style = styleCurrent
		}
		x = drawText(s, x, y, style, " "+c+" ")
	}
	y += 2

	drawText(s, 0, y, styleDim, "drums  "+v.Source)
	y++
	for _, d := range models.AllDrumTypes {
		row, ok := v.Grid[d]
		if !ok {
			continue
		}
		labelStyle := styleText
		if v.Flashing[d] {
			labelStyle = styleFlash
		}
		x = drawText(s, 0, y, labelStyle, fmt.Sprintf("%-9s", d))
		for i, on := range row {
			if i > 0 && i%4 == 0 {
				x = drawText(s, x, y, styleDim, "|")
			}
			r, style := '.', styleDim
			if on {
				r, style = 'x', styleHit
			}
			if v.Playing && i == v.Step {
				style = styleHead
				if !on {
					r = '_'
				}
			}
			s.SetContent(x, y, r, nil, style)
			x++
		}
		y++
	}
	y++

	x = drawText(s, 0, y, styleDim, "parts ")
	for i, part := range partKeys {
		style := styleText
		label := fmt.Sprintf(" %d:%s ", i+1, part)
		if v.Muted[part] {
			style = styleMuted
			label = fmt.Sprintf(" %d:%s(muted) ", i+1, part)
		}
		x = drawText(s, x, y, style, label)
	}
	y++

	pack := string(v.Pack)
	if pack == "" {
		pack = "synth"
	}
	drawText(s, 0, y, styleDim, fmt.Sprintf("instrument %s  pack %s  voices %d", v.Instrument, pack, v.Voices))
	y += 2

	for _, w := range v.Warnings {
		drawText(s, 0, y, styleWarn, "! "+w)
		y++
	}
	if len(v.Warnings) > 0 {
		y++
	}
	drawText(s, 0, y, styleDim, help)

	s.Show()
}

// action is what a key press asks the player to do
type action int

const (
	actionNone action = iota
	actionQuit
	actionToggle
	actionFaster
	actionSlower
	actionNextPreset
	actionNextInstrument
	actionMute
)

// keyAction maps a key event to an action; for actionMute the part is set
func keyAction(ev *tcell.EventKey) (action, playback.Part) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actionQuit, ""
	case tcell.KeyRune:
	default:
		return actionNone, ""
	}

	switch r := unicode.ToLower(ev.Rune()); {
	case r == 'q':
		return actionQuit, ""
	case r == ' ':
		return actionToggle, ""
	case r == '+' || r == '=':
		return actionFaster, ""
	case r == '-':
		return actionSlower, ""
	case r == 'n':
		return actionNextPreset, ""
	case r == 'i':
		return actionNextInstrument, ""
	case r >= '1' && r <= '4':
		return actionMute, partKeys[r-'1']
	}
	return actionNone, ""
}
