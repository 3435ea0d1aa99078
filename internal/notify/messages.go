package notify

import (
	"github.com/pkg/errors"
)

type Message struct {
	Level Level
	Text  string
}

// Messages maps HTTP status codes to what a call site tells the operator.
type Messages struct {
	Status map[int]Message

	// Default handles codes missing from Status. When nil those
	// codes produce no notification at all.
	Default func(err error) Message
}

type statusCoder interface {
	StatusCode() int
}

// For picks the message for err. The second value is false when the
// call site stays silent for this error.
func (m Messages) For(err error) (Message, bool) {
	if err == nil {
		return Message{}, false
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		if msg, ok := m.Status[sc.StatusCode()]; ok {
			return msg, true
		}
	}

	if m.Default != nil {
		return m.Default(err), true
	}

	return Message{}, false
}

// Report publishes the message chosen for err, if any.
func Report(p Publisher, m Messages, err error) bool {
	msg, ok := m.For(err)
	if !ok {
		return false
	}

	p.Publish(msg.Level, msg.Text)
	return true
}
