package comm_test

import (
	"io"
	"log"
	"net"
	"testing"
	"time"

	"github.com/jpl-firestep/firestep/comm"
)

func newlineEchoServer(t *testing.T, addr string) {
	t.Helper()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		t.Fatalf("could not listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() { io.Copy(conn, conn) }()
		}
	}()
}

func TestRemoteDeviceSendRecvRoundTripsOverTCP(t *testing.T) {
	addr := "localhost:8766"
	newlineEchoServer(t, addr)
	// give the listener a moment to come up
	time.Sleep(10 * time.Millisecond)

	rd := comm.NewRemoteDevice(addr, false, &comm.Terminators{Rx: '\n', Tx: '\n'}, nil)
	if err := rd.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rd.Close()

	resp, err := rd.SendRecv([]byte(`{"sys":{"v":""}}`))
	if err != nil {
		log.Println("SendRecv error:", err)
		t.Fatalf("SendRecv: %v", err)
	}
	if string(resp) != `{"sys":{"v":""}}` {
		t.Fatalf("resp = %q, want the echoed line", resp)
	}
}

func TestRemoteDeviceOpenIsIdempotent(t *testing.T) {
	addr := "localhost:8767"
	newlineEchoServer(t, addr)
	time.Sleep(10 * time.Millisecond)

	rd := comm.NewRemoteDevice(addr, false, &comm.Terminators{Rx: '\n', Tx: '\n'}, nil)
	if err := rd.Open(); err != nil {
		t.Fatalf("first Open: %v", err)
	}
	defer rd.Close()
	if err := rd.Open(); err != nil {
		t.Fatalf("second Open should be a no-op, got: %v", err)
	}
}
