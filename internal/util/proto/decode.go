package proto

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
)

const (
	decoderBufSize = 512

	// MaxMessageSize bounds a single framed message.
	MaxMessageSize = 1 << 20
)

var ErrMessageTooLarge = errors.New("framed message exceeds size limit")

type Decoder struct {
	src    io.Reader
	lenbuf []byte
	buf    []byte
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		src:    r,
		lenbuf: make([]byte, 4),
		buf:    make([]byte, decoderBufSize),
	}
}

// Decode reads one size-prefixed frame from source into m.
// The internal buffer grows as needed up to MaxMessageSize.
// It is caller's responsibility to handle EOF.
func (d *Decoder) Decode(m proto.Message) error {
	if _, err := io.ReadFull(d.src, d.lenbuf); err != nil {
		return errors.Wrap(err, "reading length")
	}

	size := binary.LittleEndian.Uint32(d.lenbuf)
	if size > MaxMessageSize {
		return ErrMessageTooLarge
	}

	if int(size) > cap(d.buf) {
		d.buf = make([]byte, size)
	}

	if _, err := io.ReadFull(d.src, d.buf[:size]); err != nil {
		return errors.Wrap(err, "reading message")
	}

	if err := proto.Unmarshal(d.buf[:size], m); err != nil {
		return errors.Wrap(err, "unmarshaling message")
	}

	return nil
}
