package main

import (
	"image/color"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"gotiles/monlist"
)

// TitleCaser is only used from the session goroutine.
var TitleCaser = cases.Title(language.AmericanEnglish)

// panelLine is the text of one monster panel row.
func panelLine(g monlist.Group) string {
	s := TitleCaser.String(g.Label)
	if g.Overflow {
		s += " ..."
	}
	return s
}

type panelRow struct {
	Text  string
	Class string
}

func panelRows(groups []monlist.Group) []panelRow {
	rows := make([]panelRow, len(groups))
	for i, g := range groups {
		rows[i] = panelRow{Text: panelLine(g), Class: g.Class}
	}
	return rows
}

// classColours maps monster style classes to colours per theme.
var classColours = map[string]map[string]color.RGBA{
	"dark": {
		"trivial":        {0x80, 0x80, 0x80, 0xff},
		"easy":           {0xe0, 0xe0, 0xe0, 0xff},
		"tough":          {0xff, 0xd0, 0x40, 0xff},
		"nasty":          {0xff, 0x50, 0x50, 0xff},
		"friendly":       {0x60, 0xd0, 0x60, 0xff},
		"neutral":        {0x60, 0xa0, 0xff, 0xff},
		"good_neutral":   {0x60, 0xd0, 0xd0, 0xff},
		"strict_neutral": {0x90, 0x90, 0xff, 0xff},
	},
	"light": {
		"trivial":        {0x90, 0x90, 0x90, 0xff},
		"easy":           {0x20, 0x20, 0x20, 0xff},
		"tough":          {0xa0, 0x70, 0x00, 0xff},
		"nasty":          {0xc0, 0x10, 0x10, 0xff},
		"friendly":       {0x10, 0x80, 0x10, 0xff},
		"neutral":        {0x10, 0x40, 0xc0, 0xff},
		"good_neutral":   {0x00, 0x80, 0x80, 0xff},
		"strict_neutral": {0x40, 0x40, 0xa0, 0xff},
	},
}

func classColour(theme, class string) color.RGBA {
	if c, ok := classColours[theme][class]; ok {
		return c
	}
	return classColours["dark"]["easy"]
}
