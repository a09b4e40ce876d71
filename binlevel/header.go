// Package binlevel reads and writes the binary level format.
//
// A level starts with two bytes, width and height, followed by every layer
// in a fixed order. Each layer stores its cells column by column; a cell is
// one byte holding the tile index plus one, followed by zero, one or two
// auxiliary bytes depending on the layer encoding. Writers append a single
// 0x00 sentinel after the last layer.
package binlevel

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

type Header struct {
	Width  uint8
	Height uint8
}

const (
	HeaderLength = 2
	Sentinel     = 0x00
)

var ErrInvalidHeader = errors.New("invalid level header")

func SerializeHeader(header *Header) []byte {
	var buffer bytes.Buffer
	binary.Write(&buffer, binary.LittleEndian, header)
	return buffer.Bytes()
}

func DeserializeHeader(buffer []byte) (*Header, error) {
	header := Header{}
	err := binary.Read(bytes.NewReader(buffer), binary.LittleEndian, &header)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	return &header, nil
}

// Cells returns the number of cells in each layer.
func (h Header) Cells() int {
	return int(h.Width) * int(h.Height)
}
