package tmx

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Compression values of the <data compression="..."> attribute.
const (
	CompressionNone = ""
	CompressionGzip = "gzip"
	CompressionZlib = "zlib"
	CompressionZstd = "zstd"
)

func Compress(data []byte, compression string) ([]byte, error) {
	var buffer bytes.Buffer
	var writer io.WriteCloser

	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
		writer, _ = gzip.NewWriterLevel(&buffer, gzip.BestCompression)
	case CompressionZlib:
		writer, _ = zlib.NewWriterLevel(&buffer, zlib.BestCompression)
	case CompressionZstd:
		encoder, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to compress: %w", err)
		}
		defer encoder.Close()
		return encoder.EncodeAll(data, nil), nil
	default:
		return nil, fmt.Errorf("%w: compression %q", ErrUnsupportedEncoding, compression)
	}

	_, err := writer.Write(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}

	return buffer.Bytes(), nil
}

func Decompress(data []byte, compression string) ([]byte, error) {
	var reader io.ReadCloser
	var err error

	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
		reader, err = gzip.NewReader(bytes.NewReader(data))
	case CompressionZlib:
		reader, err = zlib.NewReader(bytes.NewReader(data))
	case CompressionZstd:
		decoder, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress: %w", err)
		}
		defer decoder.Close()
		result, err := decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress: %w", err)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("%w: compression %q", ErrUnsupportedEncoding, compression)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	defer reader.Close()

	result, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}

	return result, nil
}
