package proto

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
)

// MarshalWithSize marshals m and puts its 32bit little endian size in front.
func MarshalWithSize(m proto.Message) ([]byte, error) {
	b, err := proto.Marshal(m)
	if err != nil {
		return nil, err
	}

	if len(b) > MaxMessageSize {
		return nil, ErrMessageTooLarge
	}

	framed := make([]byte, 4, 4+len(b))
	binary.LittleEndian.PutUint32(framed, uint32(len(b)))

	return append(framed, b...), nil
}

// WriteWithSize writes one framed message to w.
func WriteWithSize(w io.Writer, m proto.Message) error {
	b, err := MarshalWithSize(m)
	if err != nil {
		return errors.Wrap(err, "marshaling message")
	}

	if _, err := w.Write(b); err != nil {
		return errors.Wrap(err, "writing message")
	}

	return nil
}
