package incident

import (
	"encoding/base64"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/ankurdental/dentaldesk/internal/domain"
)

// Kind groups MIME types for display.
type Kind string

const (
	KindImage       Kind = "image"
	KindPDF         Kind = "pdf"
	KindDocument    Kind = "document"
	KindSpreadsheet Kind = "spreadsheet"
	KindOther       Kind = "other"
)

func KindOf(mime string) Kind {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return KindImage
	case strings.Contains(mime, "pdf"):
		return KindPDF
	case strings.Contains(mime, "doc"):
		return KindDocument
	case strings.Contains(mime, "xls"), strings.Contains(mime, "spreadsheet"):
		return KindSpreadsheet
	default:
		return KindOther
	}
}

// NewAttachment embeds data as a base64 data URL.
func NewAttachment(name, mime string, data []byte) domain.FileAttachment {
	if mime == "" {
		mime = "application/octet-stream"
	}
	return domain.FileAttachment{
		Name: name,
		URL:  "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
		Type: mime,
		Size: int64(len(data)),
	}
}

// DecodeDataURL returns the MIME type and payload of a data URL.
// Both base64 and percent-encoded payloads are accepted.
func DecodeDataURL(raw string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(raw, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}

	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if mime == "" {
		mime = "text/plain;charset=US-ASCII"
	}

	if !isBase64 {
		s, err := url.PathUnescape(payload)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
		}
		return mime, []byte(s), nil
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// some encoders drop the padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
		}
	}
	return mime, data, nil
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders n bytes in 1024-based units with at most two
// decimals and no trailing zeros: 0 Bytes, 512 Bytes, 1.5 KB, 2 MB.
func FormatFileSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(n)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	v := float64(n) / math.Pow(1024, float64(i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
