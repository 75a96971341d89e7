package activity

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Errors reported for records skipped while reading.
var (
	ErrColumnCount = errors.New("wrong column count")
	ErrTimestamp   = errors.New("unparseable timestamp")
)

const maxLineBytes = 1 << 20

// codec decodes one generation of the day-file format. Only the TSV codec
// is ever written; the others read files left by earlier releases.
type codec interface {
	// ext is the file extension, including the dot.
	ext() string
	// decode calls emit for every well-formed record and skip for every
	// record it had to drop. line is 1-based; for JSON it is the 1-based
	// array index.
	decode(r io.Reader, emit func(Record), skip func(line int, err error)) error
}

// codecs in read order. The canonical format comes first.
var codecs = []codec{tsvCodec{}, jsonArrayCodec{}, textCodec{}}

// tsvCodec is the canonical tab-separated format.
type tsvCodec struct{}

func (tsvCodec) ext() string { return ".tsv" }

func (tsvCodec) header() []byte {
	return []byte(strings.Join(Columns, "\t") + "\n")
}

func (tsvCodec) encode(r Record) []byte {
	fields := []string{
		r.Timestamp.Format(TimestampLayout),
		string(r.Action),
		r.Status,
		r.TaskID,
		r.StartTime,
		r.TargetTime,
		r.Tags,
		r.Content,
	}
	for i, f := range fields {
		fields[i] = sanitize(f)
	}
	return []byte(strings.Join(fields, "\t") + "\n")
}

func (tsvCodec) decode(r io.Reader, emit func(Record), skip func(int, error)) error {
	return eachLine(r, func(line int, text string) {
		if text == "" {
			return
		}
		fields := strings.Split(text, "\t")
		if line == 1 && fields[0] == Columns[0] {
			return
		}
		rec, err := parseTSVFields(fields)
		if err != nil {
			skip(line, err)
			return
		}
		emit(rec)
	}, skip)
}

// eachLine calls fn with every line of r, 1-based and without its line
// ending. A line longer than maxLineBytes is dropped up to the next newline
// and reported to skip; reading continues with the line after it.
func eachLine(r io.Reader, fn func(line int, text string), skip func(int, error)) error {
	br := bufio.NewReaderSize(r, 64*1024) //nolint:mnd // read buffer
	var (
		buf  []byte
		long bool
		line int
	)
	for {
		chunk, err := br.ReadSlice('\n')
		if !long {
			if len(buf)+len(chunk) > maxLineBytes {
				long, buf = true, buf[:0]
			} else {
				buf = append(buf, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		eof := errors.Is(err, io.EOF)
		if err != nil && !eof {
			return err
		}
		if eof && len(chunk) == 0 && len(buf) == 0 && !long {
			return nil
		}

		line++
		if long {
			skip(line, fmt.Errorf("%w: line longer than %d bytes", ErrColumnCount, maxLineBytes))
		} else {
			fn(line, strings.TrimRight(string(buf), "\r\n"))
		}
		buf, long = buf[:0], false
		if eof {
			return nil
		}
	}
}

func parseTSVFields(fields []string) (Record, error) {
	if len(fields) != len(Columns) {
		return Record{}, fmt.Errorf("%w: got %d, want %d", ErrColumnCount, len(fields), len(Columns))
	}
	ts, err := time.ParseInLocation(TimestampLayout, strings.TrimSpace(fields[0]), time.Local)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %q", ErrTimestamp, fields[0])
	}
	return Record{
		Timestamp:  ts,
		Action:     Action(strings.TrimSpace(fields[1])),
		Status:     strings.TrimSpace(fields[2]),
		TaskID:     fields[3],
		StartTime:  fields[4],
		TargetTime: fields[5],
		Tags:       fields[6],
		Content:    fields[7],
	}, nil
}

// jsonArrayCodec reads the legacy format: the whole day as one JSON array.
type jsonArrayCodec struct{}

type legacyJSONEntry struct {
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	TaskID    string `json:"taskId"`
	Details   string `json:"details"`
	TaskData  struct {
		ID             string `json:"id"`
		Content        string `json:"content"`
		Tags           string `json:"tags"`
		StartDateTime  string `json:"startDateTime"`
		TargetDateTime string `json:"targetDateTime"`
		Status         string `json:"status"`
	} `json:"taskData"`
}

func (jsonArrayCodec) ext() string { return ".json" }

func (jsonArrayCodec) decode(r io.Reader, emit func(Record), skip func(int, error)) error {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading array start: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return fmt.Errorf("expected JSON array, got %v", tok)
	}

	for i := 1; dec.More(); i++ {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			// The stream itself is broken; keep what was read so far.
			skip(i, err)
			return nil
		}
		var e legacyJSONEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			skip(i, err)
			continue
		}
		rec, err := e.record()
		if err != nil {
			skip(i, err)
			continue
		}
		emit(rec)
	}
	return nil
}

// record converts e. Entries without a timestamp keep a zero Timestamp, since
// the file name already fixes the day; a timestamp that is present but
// unparseable drops the entry like a bad TSV timestamp does.
func (e legacyJSONEntry) record() (Record, error) {
	var ts time.Time
	if raw := strings.TrimSpace(e.Timestamp); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return Record{}, fmt.Errorf("%w: %q", ErrTimestamp, e.Timestamp)
		}
		ts = parsed.Local()
	}
	id := e.TaskID
	if id == "" {
		id = e.TaskData.ID
	}
	content := e.Details
	if content == "" {
		content = e.TaskData.Content
	}
	return Record{
		Timestamp:  ts,
		Action:     Action(strings.TrimSpace(e.Action)),
		Status:     e.TaskData.Status,
		TaskID:     id,
		StartTime:  e.TaskData.StartDateTime,
		TargetTime: e.TaskData.TargetDateTime,
		Tags:       e.TaskData.Tags,
		Content:    content,
	}, nil
}

// textCodec reads the legacy fixed-width format: a 19-character timestamp
// followed by whitespace- or pipe-separated columns, action first.
type textCodec struct{}

func (textCodec) ext() string { return ".log" }

func (textCodec) decode(r io.Reader, emit func(Record), skip func(int, error)) error {
	return eachLine(r, func(line int, text string) {
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, Columns[0]) {
			return
		}
		rec, err := parseTextLine(text)
		if err != nil {
			skip(line, err)
			return
		}
		emit(rec)
	}, skip)
}

func parseTextLine(text string) (Record, error) {
	tsLen := len(TimestampLayout)
	if len(text) <= tsLen {
		return Record{}, fmt.Errorf("%w: line too short", ErrColumnCount)
	}
	ts, err := time.ParseInLocation(TimestampLayout, text[:tsLen], time.Local)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %q", ErrTimestamp, text[:tsLen])
	}

	var cols []string
	for _, f := range strings.Fields(text[tsLen:]) {
		f = strings.Trim(f, "|[]")
		if f != "" {
			cols = append(cols, f)
		}
	}
	if len(cols) == 0 {
		return Record{}, fmt.Errorf("%w: missing action", ErrColumnCount)
	}
	rec := Record{Timestamp: ts, Action: Action(cols[0])}
	if len(cols) > 1 {
		rec.Status = cols[1]
	}
	if len(cols) > 2 { //nolint:mnd // action, status, then free text
		rec.Content = strings.Join(cols[2:], " ")
	}
	return rec, nil
}
