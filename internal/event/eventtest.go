package event

import "sync"

// Recorder is an in-memory Publisher for tests.
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
}

type Message struct {
	Subject string
	Data    []byte
}

func (r *Recorder) Publish(subject string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, Message{Subject: subject, Data: append([]byte(nil), data...)})
	return nil
}

// Subjects returns the published subjects in order.
func (r *Recorder) Subjects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Messages))
	for i, m := range r.Messages {
		out[i] = m.Subject
	}
	return out
}
