package binlevel

// Cursor is the read position in a level byte stream. Reads past the end
// return zero and are counted, so a truncated level decodes as empty cells
// while the caller can still tell that data was missing.
type Cursor struct {
	data    []byte
	pos     int
	overrun int
}

func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Seek returns a cursor over the same data starting at pos.
func Seek(data []byte, pos int) *Cursor {
	return &Cursor{data: data, pos: pos}
}

// Next returns the next byte, or 0 once the data is exhausted.
func (c *Cursor) Next() uint8 {
	if c.pos >= len(c.data) {
		c.overrun++
		return 0
	}
	b := c.data[c.pos]
	c.pos++
	return b
}

// Pos returns the offset of the next byte to be read.
func (c *Cursor) Pos() int {
	return c.pos
}

// Overrun returns the number of reads that happened past the end.
func (c *Cursor) Overrun() int {
	return c.overrun
}

// Truncated reports whether any read happened past the end.
func (c *Cursor) Truncated() bool {
	return c.overrun > 0
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return max(len(c.data)-c.pos, 0)
}
