package event

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"unicode/utf8"

	"maxbitcoins/internal/domain"
)

const hexDigits = "0123456789abcdef"

// Serialize returns the canonical byte form hashed into an event id.
func Serialize(pubkey string, createdAt int64, kind int, tags [][]string, content string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(pubkey) + len(content) + 64)

	buf.WriteString(`[0,`)
	if err := writeString(&buf, pubkey); err != nil {
		return nil, fmt.Errorf("pubkey: %w", err)
	}
	buf.WriteByte(',')
	buf.WriteString(strconv.FormatInt(createdAt, 10))
	buf.WriteByte(',')
	buf.WriteString(strconv.Itoa(kind))
	buf.WriteByte(',')

	buf.WriteByte('[')
	for i, tag := range tags {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('[')
		for j, v := range tag {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(&buf, v); err != nil {
				return nil, fmt.Errorf("tags[%d][%d]: %w", i, j, err)
			}
		}
		buf.WriteByte(']')
	}
	buf.WriteByte(']')
	buf.WriteByte(',')

	if err := writeString(&buf, content); err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// writeString emits s as a quoted JSON string with minimal escaping.
func writeString(buf *bytes.Buffer, s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: string is not valid UTF-8", domain.ErrSerialization)
	}
	buf.WriteByte('"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		buf.WriteString(s[start:i])
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteString(`\u00`)
			buf.WriteByte(hexDigits[c>>4])
			buf.WriteByte(hexDigits[c&0xf])
		}
		start = i + 1
	}
	buf.WriteString(s[start:])
	buf.WriteByte('"')
	return nil
}

// ComputeID returns the raw id of the given fields.
func ComputeID(pubkey string, createdAt int64, kind int, tags [][]string, content string) ([32]byte, error) {
	b, err := Serialize(pubkey, createdAt, kind, tags, content)
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(b), nil
}

// CheckID verifies that ev.ID matches its other fields.
func CheckID(ev domain.Event) error {
	id, err := ComputeID(ev.PubKey, ev.CreatedAt, ev.Kind, ev.Tags, ev.Content)
	if err != nil {
		return err
	}
	if got := hex.EncodeToString(id[:]); got != ev.ID {
		return fmt.Errorf("event id mismatch: have %s, computed %s", ev.ID, got)
	}
	return nil
}
