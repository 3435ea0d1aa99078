package notify

import "sync"

// Recorder is a Publisher that only remembers what it was given.
type Recorder struct {
	mu  sync.Mutex
	got []Message
}

var _ Publisher = (*Recorder)(nil)

func (r *Recorder) Publish(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, Message{Level: level, Text: message})
}

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.got...)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = nil
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Texts returns the published message texts in order.
func (r *Recorder) Texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var texts []string
	for _, m := range r.got {
		texts = append(texts, m.Text)
	}
	return texts
}
