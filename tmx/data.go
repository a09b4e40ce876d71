package tmx

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/eak1mov/go-bintmx/tile"
)

var (
	ErrUnsupportedEncoding = errors.New("tmx: unsupported data encoding")
	ErrInvalidData         = errors.New("tmx: invalid layer data")
)

// DataFormat selects how layer GIDs are serialized inside <data>.
type DataFormat uint8

const (
	FormatCSV DataFormat = iota
	FormatBase64
	FormatGzip
	FormatZlib
	FormatZstd
)

var formatNames = []string{"csv", "base64", "gzip", "zlib", "zstd"}

func (f DataFormat) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("DataFormat(%d)", uint8(f))
}

// ParseDataFormat parses one of csv, base64, gzip, zlib or zstd.
func ParseDataFormat(s string) (DataFormat, error) {
	for i, name := range formatNames {
		if strings.EqualFold(s, name) {
			return DataFormat(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, s)
}

func (f DataFormat) attrs() (encoding, compression string) {
	switch f {
	case FormatCSV:
		return "csv", CompressionNone
	case FormatBase64:
		return "base64", CompressionNone
	case FormatGzip:
		return "base64", CompressionGzip
	case FormatZlib:
		return "base64", CompressionZlib
	default:
		return "base64", CompressionZstd
	}
}

// Data is the <data> element of a layer.
type Data struct {
	Encoding    string     `xml:"encoding,attr,omitempty"`
	Compression string     `xml:"compression,attr,omitempty"`
	Text        string     `xml:",chardata"`
	Tiles       []DataTile `xml:"tile"`
}

// DataTile is one <tile gid="..."/> entry of XML-encoded data.
type DataTile struct {
	GID tile.GID `xml:"gid,attr"`
}

// EncodeData serializes gids in row-major order.
func EncodeData(gids *tile.Grid[tile.GID], format DataFormat) (Data, error) {
	if int(format) >= len(formatNames) {
		return Data{}, fmt.Errorf("%w: %v", ErrUnsupportedEncoding, format)
	}
	encoding, compression := format.attrs()
	data := Data{Encoding: encoding, Compression: compression}

	flat := gids.Flat()
	if format == FormatCSV {
		rows := make([]string, 0, gids.Height)
		for y := range gids.Height {
			values := make([]string, gids.Width)
			for x := range gids.Width {
				values[x] = strconv.FormatUint(uint64(flat[y*gids.Width+x]), 10)
			}
			rows = append(rows, strings.Join(values, ","))
		}
		data.Text = "\n" + strings.Join(rows, ",\n") + "\n"
		return data, nil
	}

	raw := make([]byte, 0, 4*len(flat))
	for _, gid := range flat {
		raw = binary.LittleEndian.AppendUint32(raw, uint32(gid))
	}
	compressed, err := Compress(raw, compression)
	if err != nil {
		return Data{}, err
	}
	data.Text = "\n" + base64.StdEncoding.EncodeToString(compressed) + "\n"
	return data, nil
}

// Decode returns the GIDs stored in d as a width x height grid, filled in
// row-major order. Fewer values leave the remaining cells empty. Values
// past width*height are dropped and their count is returned.
func (d Data) Decode(width, height int) (*tile.Grid[tile.GID], int, error) {
	var values []tile.GID
	var err error

	switch d.Encoding {
	case "csv":
		values, err = d.decodeCSV()
	case "base64":
		values, err = d.decodeBase64()
	case "":
		values = make([]tile.GID, len(d.Tiles))
		for i, t := range d.Tiles {
			values[i] = t.GID
		}
	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, d.Encoding)
	}
	if err != nil {
		return nil, 0, err
	}
	dropped := max(len(values)-width*height, 0)
	return tile.GridFromFlat(width, height, values), dropped, nil
}

func (d Data) decodeCSV() ([]tile.GID, error) {
	if d.Compression != CompressionNone {
		return nil, fmt.Errorf("%w: csv with compression %q", ErrUnsupportedEncoding, d.Compression)
	}
	text := strings.TrimSpace(d.Text)
	if text == "" {
		return nil, nil
	}
	fields := strings.Split(text, ",")
	values := make([]tile.GID, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(field), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
		}
		values[i] = tile.GID(v)
	}
	return values, nil
}

func (d Data) decodeBase64() ([]tile.GID, error) {
	compressed, err := base64.StdEncoding.DecodeString(strings.TrimSpace(d.Text))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	raw, err := Decompress(compressed, d.Compression)
	if err != nil {
		return nil, err
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of 4", ErrInvalidData, len(raw))
	}
	values := make([]tile.GID, len(raw)/4)
	for i := range values {
		values[i] = tile.GID(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return values, nil
}
