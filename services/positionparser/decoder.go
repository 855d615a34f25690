package positionparser

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

const eventPrefix = "data: "

type EventType string

const (
	EventProgress EventType = "progress"
	EventResult   EventType = "result"
	EventError    EventType = "error"
)

// Event is one decoded frame from the backend's stream.
type Event struct {
	Type    EventType
	Message string
	Result  *Result
}

type wireEvent struct {
	Type    EventType       `json:"type"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Decoder turns the backend's chunked response body into a sequence of
// typed events. It is a non-strict decoder: a frame that doesn't parse
// is dropped silently and decoding moves on, so a single mangled line
// costs at most one event, never the session. Skips are counted and
// optionally reported through OnSkip so an unexpectedly high skip rate
// is still observable.
//
// Single consumer, not restartable. Cancellation is the caller's
// concern: closing the underlying reader ends the sequence.
type Decoder struct {
	reader *bufio.Reader
	done   bool

	skipped int

	// called with the offending line whenever a frame is dropped
	OnSkip func(line string)
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{reader: bufio.NewReader(r)}
}

// Skipped reports how many malformed frames were dropped so far.
func (d *Decoder) Skipped() int {
	return d.skipped
}

func (d *Decoder) skip(line string) {
	d.skipped++
	if d.OnSkip != nil {
		d.OnSkip(line)
	}
}

// Next returns the next decodable event in byte order, or io.EOF once
// the byte source ends. Errors other than io.EOF are transport errors
// from the underlying reader.
func (d *Decoder) Next() (Event, error) {
	for {
		if d.done {
			return Event{}, io.EOF
		}

		line, err := d.reader.ReadString('\n')
		if err == io.EOF {
			// a final unterminated line is still a candidate frame
			d.done = true
			if line == "" {
				return Event{}, io.EOF
			}
		} else if err != nil {
			return Event{}, err
		}

		line = strings.TrimRight(line, "\r\n")
		if !strings.HasPrefix(line, eventPrefix) {
			continue
		}
		payload := line[len(eventPrefix):]

		var wire wireEvent
		err = json.Unmarshal([]byte(payload), &wire)
		if err != nil {
			d.skip(line)
			continue
		}

		switch wire.Type {
		case EventProgress, EventError:
			return Event{Type: wire.Type, Message: wire.Message}, nil
		case EventResult:
			var result Result
			err = json.Unmarshal(wire.Data, &result)
			if err != nil {
				d.skip(line)
				continue
			}
			return Event{Type: EventResult, Result: &result}, nil
		default:
			d.skip(line)
		}
	}
}
