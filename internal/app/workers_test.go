package app

import (
	"errors"
	"testing"

	"github.com/nats-io/nats.go"
)

type fakeSub struct {
	err     error
	drained bool
}

func (f *fakeSub) Drain() error {
	f.drained = true
	return f.err
}

func TestDrainAll(t *testing.T) {
	tests := []struct {
		name string
		subs []*fakeSub
	}{
		{"all healthy", []*fakeSub{{}, {}}},
		{"closed connection", []*fakeSub{{err: nats.ErrConnectionClosed}, {}}},
		{"first fails", []*fakeSub{{err: errors.New("boom")}, {}}},
		{"none", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drainAll(tt.subs)
			for i, s := range tt.subs {
				if !s.drained {
					t.Errorf("subscription %d was not drained", i)
				}
			}
		})
	}
}
