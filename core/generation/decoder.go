package generation

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Decoder yields the next progress record, io.EOF at end of stream, or an
// error. The two wire framings the backend has shipped (newline-delimited
// JSON on a chunked body, and SSE) hide behind this one interface.
//
// Both implementations buffer partial lines across reads: the transport
// delivers bytes at arbitrary chunk boundaries and a record is only decoded
// once its full line has been assembled. A trailing unterminated line at
// end of stream is complete (it can no longer grow) and is decoded.
type Decoder interface {
	Next() (Record, error)
}

// NewDecoder reads newline-delimited JSON records from r.
func NewDecoder(r io.Reader) Decoder {
	return &lineDecoder{r: bufio.NewReader(r)}
}

type lineDecoder struct {
	r   *bufio.Reader
	err error // sticky
}

func (d *lineDecoder) Next() (Record, error) {
	for {
		if d.err != nil {
			return Record{}, d.err
		}

		line, err := d.r.ReadBytes('\n')
		if err != nil {
			if err != io.EOF {
				d.err = errors.Wrap(err, "reading progress stream")
				return Record{}, d.err
			}
			d.err = io.EOF
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			if d.err != nil {
				return Record{}, d.err
			}
			continue
		}
		return decodeRecord(line)
	}
}

// NewEventStreamDecoder reads SSE-framed records from r: `data:` lines
// accumulated until a blank line; comment, id, event and retry lines are
// ignored.
func NewEventStreamDecoder(r io.Reader) Decoder {
	return &eventStreamDecoder{r: bufio.NewReader(r)}
}

type eventStreamDecoder struct {
	r   *bufio.Reader
	err error // sticky
}

func (d *eventStreamDecoder) Next() (Record, error) {
	var data [][]byte
	for {
		if d.err != nil {
			if len(data) > 0 && d.err == io.EOF {
				// stream ended mid-event; the event is as complete as it
				// will ever be
				rec, err := decodeRecord(bytes.Join(data, []byte("\n")))
				data = nil
				if err != nil {
					return Record{}, err
				}
				return rec, nil
			}
			return Record{}, d.err
		}

		line, err := d.r.ReadBytes('\n')
		if err != nil {
			if err != io.EOF {
				d.err = errors.Wrap(err, "reading event stream")
				return Record{}, d.err
			}
			d.err = io.EOF
		}

		line = bytes.TrimRight(line, "\r\n")
		switch {
		case len(line) == 0:
			if len(data) > 0 {
				return decodeRecord(bytes.Join(data, []byte("\n")))
			}
		case bytes.HasPrefix(line, []byte(":")):
			// comment; keep-alives arrive this way
		case bytes.HasPrefix(line, []byte("data:")):
			data = append(data, bytes.TrimPrefix(bytes.TrimPrefix(line, []byte("data:")), []byte(" ")))
		default:
			// event:/id:/retry: and anything unrecognized
		}
	}
}

func decodeRecord(line []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(line, &rec); err != nil {
		return Record{}, errors.Wrap(err, "decoding progress record")
	}
	return rec, nil
}
