package printer

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

const (
	esc = 0x1B
	gs  = 0x1D
	lf  = 0x0A
)

type Align byte

const (
	Left   Align = 0
	Center Align = 1
	Right  Align = 2
)

// Paper widths in characters at the default font
const (
	Width58mm = 32
	Width80mm = 48
)

// Document accumulates an ESC/POS stream laid out for a fixed character width
type Document struct {
	buf   bytes.Buffer
	width int
}

func NewDocument(width int) *Document {
	if width <= 0 {
		width = Width58mm
	}
	d := &Document{width: width}
	d.buf.Write([]byte{esc, '@'})
	return d
}

func (d *Document) Width() int { return d.width }

func (d *Document) Align(a Align) *Document {
	d.buf.Write([]byte{esc, 'a', byte(a)})
	return d
}

func (d *Document) Bold(on bool) *Document {
	var b byte
	if on {
		b = 1
	}
	d.buf.Write([]byte{esc, 'E', b})
	return d
}

// Large toggles double width and height
func (d *Document) Large(on bool) *Document {
	var size byte
	if on {
		size = 0x11
	}
	d.buf.Write([]byte{gs, '!', size})
	return d
}

// Line writes s clipped to the paper width
func (d *Document) Line(s string) *Document {
	d.buf.WriteString(clip(s, d.width))
	d.buf.WriteByte(lf)
	return d
}

func (d *Document) Rule() *Document {
	return d.Line(strings.Repeat("-", d.width))
}

// Columns puts left and right on one line; left is shortened when both do not fit
func (d *Document) Columns(left, right string) *Document {
	room := d.width - utf8.RuneCountInString(right) - 1
	if room < 1 {
		return d.Line(right)
	}
	left = clip(left, room)
	gap := d.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	d.buf.WriteString(left)
	d.buf.WriteString(strings.Repeat(" ", gap))
	d.buf.WriteString(right)
	d.buf.WriteByte(lf)
	return d
}

func (d *Document) Feed(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(lf)
	}
	return d
}

// Cut feeds past the cutter and does a partial cut
func (d *Document) Cut() *Document {
	d.Feed(3)
	d.buf.Write([]byte{gs, 'V', 0x01})
	return d
}

func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
