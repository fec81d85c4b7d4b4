package kv

import (
	"testing"
	"time"
)

type stamp struct{ t time.Time }

func (s stamp) MarshalText() ([]byte, error) { return []byte(s.t.Format("2006-01-02T15:04:05")), nil }
func (s *stamp) UnmarshalText(b []byte) error {
	t, err := time.Parse("2006-01-02T15:04:05", string(b))
	s.t = t
	return err
}

type record struct {
	ID   string   `json:"id"`
	Cost *float64 `json:"cost,omitempty"`
	At   stamp    `json:"appointmentDate"`
	Tags []string `json:"files"`
}

func TestCodecs(t *testing.T) {
	cost := 1200.0
	in := []record{{
		ID:   "i1",
		Cost: &cost,
		At:   stamp{t: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)},
		Tags: []string{"invoice.pdf"},
	}, {ID: "i4", Tags: []string{}}}

	for _, name := range []string{"json", "cbor", ""} {
		t.Run(name, func(t *testing.T) {
			c, err := NewCodec(name)
			if err != nil {
				t.Fatalf("NewCodec(%q) error = %v", name, err)
			}
			data, err := c.Marshal(in)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			var out []record
			if err := c.Unmarshal(data, &out); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if len(out) != 2 || out[0].ID != "i1" || *out[0].Cost != 1200 || !out[0].At.t.Equal(in[0].At.t) {
				t.Errorf("round trip = %+v", out)
			}
			if out[1].Cost != nil {
				t.Errorf("absent cost decoded as %v", *out[1].Cost)
			}
		})
	}

	if _, err := NewCodec("xml"); err == nil {
		t.Error("NewCodec(xml) succeeded")
	}
}

func TestCodecs_RejectGarbage(t *testing.T) {
	for _, name := range []string{"json", "cbor"} {
		c, _ := NewCodec(name)
		var out []record
		if err := c.Unmarshal([]byte("{not valid"), &out); err == nil {
			t.Errorf("%s: Unmarshal(garbage) succeeded", name)
		}
	}
}
