// Package snapshot кодирует поле в компактный бинарный кадр
// [rows][cols][max_tier][клетки построчно снизу вверх] со сжатием zstd.
package snapshot

import (
	"fmt"
	"sync"

	"github.com/annel0/shades/internal/shades"
	"github.com/klauspost/compress/zstd"
)

const headerSize = 3

// Codec кодирует/декодирует поле.
type Codec interface {
	Encode(g *shades.Grid) ([]byte, error)
	Decode(payload []byte) (*shades.Grid, error)
}

// rawCodec пишет кадр без сжатия
type rawCodec struct{}

func NewRawCodec() Codec { return rawCodec{} }

func (rawCodec) Encode(g *shades.Grid) ([]byte, error) {
	if g == nil {
		return nil, shades.ErrNilGrid
	}
	buf := make([]byte, 0, headerSize+g.Dims().Size())
	buf = append(buf, byte(g.Rows()), byte(g.Cols()), byte(g.MaxTier()))
	for _, t := range g.Cells() {
		buf = append(buf, byte(t))
	}
	return buf, nil
}

func (rawCodec) Decode(payload []byte) (*shades.Grid, error) {
	if len(payload) < headerSize {
		return nil, fmt.Errorf("%w: snapshot header truncated (%d bytes)", shades.ErrMalformed, len(payload))
	}
	d := shades.Dims{
		Rows:    int(payload[0]),
		Cols:    int(payload[1]),
		MaxTier: shades.Tier(payload[2]),
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	body := payload[headerSize:]
	if len(body) != d.Size() {
		return nil, fmt.Errorf("%w: snapshot has %d cells, want %d", shades.ErrMalformed, len(body), d.Size())
	}

	cells := make([]shades.Tier, len(body))
	for i, b := range body {
		cells[i] = shades.Tier(b)
	}
	return shades.GridFromCells(d, cells)
}

// zstdCodec сжимает кадр rawCodec.
// EncodeAll/DecodeAll безопасны для конкурентного вызова.
type zstdCodec struct {
	raw     rawCodec
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstdCodec создаёт кодек со сжатием zstd
func NewZstdCodec() (Codec, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &zstdCodec{encoder: encoder, decoder: decoder}, nil
}

func (z *zstdCodec) Encode(g *shades.Grid) ([]byte, error) {
	frame, err := z.raw.Encode(g)
	if err != nil {
		return nil, err
	}
	return z.encoder.EncodeAll(frame, nil), nil
}

func (z *zstdCodec) Decode(payload []byte) (*shades.Grid, error) {
	frame, err := z.decoder.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: snapshot decompress: %v", shades.ErrMalformed, err)
	}
	return z.raw.Decode(frame)
}

var (
	defaultCodec    Codec
	defaultCodecErr error
	defaultOnce     sync.Once
)

func codec() (Codec, error) {
	defaultOnce.Do(func() {
		defaultCodec, defaultCodecErr = NewZstdCodec()
	})
	return defaultCodec, defaultCodecErr
}

// Encode сжимает поле общим zstd кодеком
func Encode(g *shades.Grid) ([]byte, error) {
	c, err := codec()
	if err != nil {
		return nil, err
	}
	return c.Encode(g)
}

// Decode восстанавливает поле из Encode
func Decode(payload []byte) (*shades.Grid, error) {
	c, err := codec()
	if err != nil {
		return nil, err
	}
	return c.Decode(payload)
}
