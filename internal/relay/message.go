package relay

import (
	"bytes"
	"encoding/json"
	"fmt"

	"maxbitcoins/internal/domain"
)

// Frame labels of the relay protocol.
const (
	LabelEvent  = "EVENT"
	LabelOK     = "OK"
	LabelNotice = "NOTICE"
)

// MessageKind classifies an inbound relay frame.
type MessageKind int

const (
	// MessageOther is any well-formed frame this client does not act on
	// (EOSE, EVENT, AUTH, CLOSED and so on).
	MessageOther MessageKind = iota
	MessageOK
	MessageNotice
)

// Message is a decoded inbound frame.
type Message struct {
	Kind     MessageKind
	Label    string
	EventID  string // OK only
	Accepted bool   // OK only
	Text     string // OK message or NOTICE text
}

// ProtocolError reports an inbound frame that does not follow the relay
// protocol.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string { return "relay protocol: " + e.Reason }

// EncodeEvent frames ev as ["EVENT", ev].
//
// HTML escaping is disabled so the content reaches the relay byte-for-byte
// as it was hashed.
func EncodeEvent(ev domain.Event) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode([]any{LabelEvent, ev}); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSerialization, err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ParseMessage decodes one inbound text frame.
func ParseMessage(b []byte) (Message, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(b, &parts); err != nil {
		return Message{}, &ProtocolError{Reason: "frame is not a JSON array"}
	}
	if len(parts) == 0 {
		return Message{}, &ProtocolError{Reason: "empty frame"}
	}
	var label string
	if err := json.Unmarshal(parts[0], &label); err != nil {
		return Message{}, &ProtocolError{Reason: "frame label is not a string"}
	}

	m := Message{Label: label}
	switch label {
	case LabelOK:
		if len(parts) < 3 {
			return Message{}, &ProtocolError{Reason: fmt.Sprintf("OK frame has %d elements, want 4", len(parts))}
		}
		if err := json.Unmarshal(parts[1], &m.EventID); err != nil {
			return Message{}, &ProtocolError{Reason: "OK event id is not a string"}
		}
		if err := json.Unmarshal(parts[2], &m.Accepted); err != nil {
			return Message{}, &ProtocolError{Reason: "OK accepted flag is not a boolean"}
		}
		if len(parts) > 3 {
			if err := json.Unmarshal(parts[3], &m.Text); err != nil {
				return Message{}, &ProtocolError{Reason: "OK message is not a string"}
			}
		}
		m.Kind = MessageOK
	case LabelNotice:
		if len(parts) < 2 {
			return Message{}, &ProtocolError{Reason: "NOTICE frame has no message"}
		}
		if err := json.Unmarshal(parts[1], &m.Text); err != nil {
			return Message{}, &ProtocolError{Reason: "NOTICE message is not a string"}
		}
		m.Kind = MessageNotice
	default:
		m.Kind = MessageOther
	}
	return m, nil
}
