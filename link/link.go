// Package link owns the physical serial connection to the host: it
// dials the port with an exponential backoff (serial links on this
// class of hardware don't like being thrashed with reconnect
// attempts), then hands the firmware loop a non-blocking byte source
// fed by a single background reader goroutine.
package link

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/tarm/serial"
	"golang.org/x/time/rate"
)

// Config is the serial port configuration: device path, baud rate,
// and how long Open retries before giving up.
type Config struct {
	Device      string
	Baud        int
	OpenTimeout time.Duration
}

// DefaultConfig returns reasonable defaults for a USB-attached board.
func DefaultConfig(device string) Config {
	return Config{Device: device, Baud: 115200, OpenTimeout: 3 * time.Second}
}

// Link is the non-blocking byte source the heartbeat loop reads from
// (thread.Source) and the line sink it writes completed responses to
// (thread.Sink). A single goroutine reads the port and pushes bytes
// onto an internal channel; Heartbeat's single consumer drains it
// without ever blocking.
type Link struct {
	cfg  Config
	port io.ReadWriteCloser

	bytes  chan byte
	closed chan struct{}
}

// Open dials the serial port, retrying with exponential backoff (the
// port may still be settling after being plugged in), and starts the
// background reader.
func Open(cfg Config) (*Link, error) {
	conf := &serial.Config{Name: cfg.Device, Baud: cfg.Baud, ReadTimeout: 50 * time.Millisecond}

	var port *serial.Port
	op := func() error {
		p, err := serial.OpenPort(conf)
		if err != nil {
			return err
		}
		port = p
		return nil
	}

	timeout := cfg.OpenTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	err := backoff.Retry(op, &backoff.ExponentialBackOff{
		InitialInterval:     25 * time.Millisecond,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         1 * time.Second,
		MaxElapsedTime:      timeout,
		Clock:               backoff.SystemClock,
	})
	if err != nil {
		return nil, err
	}
	if port == nil {
		return nil, fmt.Errorf("link: timed out opening %s", cfg.Device)
	}

	return newLink(port, cfg), nil
}

// newLink wraps an already-open port (the real serial.Port, or an
// io.Pipe half in tests) and starts the background reader.
func newLink(port io.ReadWriteCloser, cfg Config) *Link {
	l := &Link{
		cfg:    cfg,
		port:   port,
		bytes:  make(chan byte, 4096),
		closed: make(chan struct{}),
	}
	go l.readLoop()
	return l
}

func (l *Link) readLoop() {
	r := bufio.NewReader(l.port)
	buf := make([]byte, 1)
	// A read error on this class of serial adapter is almost always
	// the port dropping out from under us (cable pulled, board reset);
	// retrying instantly just burns CPU spinning on the same error, so
	// retries are throttled the same way Open paces its dial attempts.
	errLim := rate.NewLimiter(rate.Limit(20), 1)
	for {
		select {
		case <-l.closed:
			return
		default:
		}
		n, err := r.Read(buf)
		if err != nil {
			errLim.Wait(context.Background())
			continue
		}
		if n == 0 {
			continue
		}
		select {
		case l.bytes <- buf[0]:
		case <-l.closed:
			return
		}
	}
}

// ReadByte implements thread.Source: a non-blocking poll of whatever
// the reader goroutine has buffered so far.
func (l *Link) ReadByte() (byte, bool) {
	select {
	case b := <-l.bytes:
		return b, true
	default:
		return 0, false
	}
}

// WriteLine implements thread.Sink.
func (l *Link) WriteLine(line string) error {
	_, err := l.port.Write([]byte(line + "\n"))
	return err
}

// Close stops the reader goroutine and releases the port.
func (l *Link) Close() error {
	close(l.closed)
	return l.port.Close()
}
