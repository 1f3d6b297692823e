// Package jsoncmd owns the two JSON arenas a single heartbeat's
// command line flows through: the accumulating request buffer and the
// response tree the controller fills in.
package jsoncmd

import (
	"bytes"
	"encoding/json"

	"github.com/jpl-firestep/firestep/status"
	"github.com/snksoft/crc"
)

// MaxJSON bounds a single request line: at most MaxJSON-1 bytes,
// newline excluded.
const MaxJSON = 255

// lineCRCTable is the CRC16/XMODEM table used to checksum each parsed
// line, shared across every Command since crc.Table is read-only once
// built.
var lineCRCTable = crc.NewTable(crc.XMODEM)

// Command owns one request/response cycle: the raw line being
// accumulated, the parsed request tree (with its root keys in
// insertion order, since encoding/json's map decoding does not
// preserve it), and the response tree the controller writes into.
type Command struct {
	buf    bytes.Buffer
	parsed bool
	errStr string

	Request     map[string]interface{}
	RequestKeys []string // Request's top-level keys, insertion order

	Response map[string]interface{}

	// LineCRC is the CRC16/XMODEM checksum of the raw line just
	// parsed, exposed read-only at sys.cc: a diagnostic aid for a link
	// that otherwise carries no integrity check of its own.
	LineCRC uint16
}

// New returns a cleared Command.
func New() *Command {
	c := &Command{}
	c.Clear()
	return c
}

// Clear resets the command for a new line: clears the buffer, the
// parsed latch, and reinitializes the response tree to
// {"s": EMPTY, "r": {}}.
func (c *Command) Clear() {
	c.buf.Reset()
	c.parsed = false
	c.errStr = ""
	c.Request = nil
	c.RequestKeys = nil
	c.Response = map[string]interface{}{
		"s": status.Empty,
		"r": map[string]interface{}{},
	}
}

// IsValid reports whether the command holds a successfully-parsed
// request tree.
func (c *Command) IsValid() bool {
	return c.parsed && c.Request != nil
}

// GetError returns the last error string set via SetError.
func (c *Command) GetError() string {
	return c.errStr
}

// SetError records st as the command's outcome: it becomes the
// response's "s" field, err becomes "e", and st is returned unchanged
// so call sites can write `return jcmd.SetError(...)`.
func (c *Command) SetError(st status.Status, err string) status.Status {
	c.errStr = err
	c.Response["s"] = st
	c.Response["e"] = err
	return st
}

// GetStatus returns the response's current "s" field: the status the
// command last finished a processing step with. This is the value
// thread's heartbeat loop re-consults on every re-entry into a
// still-processing command, per spec.md §4.4.
func (c *Command) GetStatus() status.Status {
	if st, ok := c.Response["s"].(status.Status); ok {
		return st
	}
	return status.Empty
}

// SetStatus records st as the response's "s" field without touching
// "e", and returns st unchanged so call sites can write
// `return jcmd.SetStatus(...)`. Use SetError instead when st carries
// an error message to attach.
func (c *Command) SetStatus(st status.Status) status.Status {
	c.Response["s"] = st
	return st
}

// Feed appends one byte read from the link to the line buffer. On a
// newline it parses the accumulated line and returns the parse
// outcome. While the line is incomplete it returns WAIT_EOL. If the
// buffer fills before a newline arrives, it latches "parsed" (so
// further Feed/Parse calls are no-ops until Clear) and returns
// JSON_TOO_LONG.
func (c *Command) Feed(b byte) status.Status {
	if c.parsed {
		return status.BusyParsed
	}
	if b == '\n' {
		return c.parseCore()
	}
	if c.buf.Len() >= MaxJSON-1 {
		c.parsed = true
		return status.JSONTooLong
	}
	c.buf.WriteByte(b)
	return status.WaitEOL
}

// Parse parses a complete literal line (already delimited by the
// caller, e.g. a test or a host sending a single command). An empty
// line is a no-op that reports WAIT_IDLE, matching the original's
// "empty command" case. Parse is a no-op once the command has already
// latched a parsed outcome; Clear first to reuse the Command.
func (c *Command) Parse(line string) status.Status {
	if c.parsed {
		return status.BusyParsed
	}
	if line == "" {
		return status.WaitIdle
	}
	if len(line) > MaxJSON-1 {
		c.parsed = true
		return status.JSONTooLong
	}
	c.buf.Reset()
	c.buf.WriteString(line)
	return c.parseCore()
}

// parseCore decodes the accumulated line into Request/RequestKeys and
// primes the response tree's "r" echo, or fails with JSON_PARSE_ERROR
// / JSON_MEM.
func (c *Command) parseCore() status.Status {
	c.parsed = true
	line := c.buf.String()
	if line == "" {
		return status.WaitIdle
	}
	crcUint := lineCRCTable.InitCrc()
	crcUint = lineCRCTable.UpdateCrc(crcUint, c.buf.Bytes())
	c.LineCRC = lineCRCTable.CRC16(crcUint)

	dec := json.NewDecoder(bytes.NewReader(c.buf.Bytes()))
	dec.UseNumber()

	root, keys, err := decodeOrderedObject(dec)
	if err != nil {
		c.Response["r"] = "?"
		return status.JSONParseError
	}
	if len(keys) < 1 {
		return status.JSONMem
	}

	c.Request = root
	c.RequestKeys = keys
	c.Response["s"] = status.BusyParsed
	c.Response["r"] = root
	return status.BusyParsed
}

// decodeOrderedObject decodes a single top-level JSON object from dec,
// returning both the usual map and the key list in the order the keys
// appeared in the source text.
func decodeOrderedObject(dec *json.Decoder) (map[string]interface{}, []string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, errNotObject
	}

	obj := make(map[string]interface{})
	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, errNotObject
		}
		var val interface{}
		if err := dec.Decode(&val); err != nil {
			return nil, nil, err
		}
		if _, dup := obj[key]; !dup {
			keys = append(keys, key)
		}
		obj[key] = val
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return nil, nil, err
	}
	return obj, keys, nil
}

var errNotObject = jsonNotObjectError{}

type jsonNotObjectError struct{}

func (jsonNotObjectError) Error() string { return "jsoncmd: top-level value is not a JSON object" }
