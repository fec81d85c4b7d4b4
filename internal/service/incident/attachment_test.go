package incident

import (
	"errors"
	"testing"
)

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 Bytes"},
		{-5, "0 Bytes"},
		{1, "1 Bytes"},
		{512, "512 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{2048, "2 KB"},
		{1000000, "976.56 KB"},
		{5 * 1024 * 1024, "5 MB"},
		{3 * 1024 * 1024 * 1024, "3 GB"},
		{2 * 1024 * 1024 * 1024 * 1024, "2048 GB"},
	}
	for _, tt := range tests {
		if got := FormatFileSize(tt.in); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		mime string
		want Kind
	}{
		{"image/png", KindImage},
		{"application/pdf", KindPDF},
		{"application/msword", KindOther},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", KindDocument},
		{"application/vnd.ms-excel", KindOther},
		{"application/x-xls", KindSpreadsheet},
		{"text/plain", KindOther},
	}
	for _, tt := range tests {
		if got := KindOf(tt.mime); got != tt.want {
			t.Errorf("KindOf(%q) = %s, want %s", tt.mime, got, tt.want)
		}
	}
}

func TestDataURL(t *testing.T) {
	att := NewAttachment("note.txt", "text/plain", []byte("hello"))
	if att.URL != "data:text/plain;base64,aGVsbG8=" || att.Size != 5 {
		t.Errorf("NewAttachment() = %+v", att)
	}

	tests := []struct {
		name     string
		in       string
		wantMIME string
		wantData string
		wantErr  bool
	}{
		{name: "base64", in: att.URL, wantMIME: "text/plain", wantData: "hello"},
		{name: "unpadded", in: "data:text/plain;base64,aGVsbG8", wantMIME: "text/plain", wantData: "hello"},
		{name: "percent encoded", in: "data:,a%20b", wantMIME: "text/plain;charset=US-ASCII", wantData: "a b"},
		{name: "not a data url", in: "https://x", wantErr: true},
		{name: "no comma", in: "data:text/plain;base64", wantErr: true},
		{name: "bad base64", in: "data:text/plain;base64,@@@", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, data, err := DecodeDataURL(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDataURL) {
					t.Errorf("DecodeDataURL() error = %v, want ErrInvalidDataURL", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeDataURL() error = %v", err)
			}
			if mime != tt.wantMIME || string(data) != tt.wantData {
				t.Errorf("DecodeDataURL() = %q %q", mime, data)
			}
		})
	}
}
