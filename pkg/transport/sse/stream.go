// SPDX-FileCopyrightText: Copyright 2025 Platform.sh
// SPDX-License-Identifier: Apache-2.0

package sse

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mark3labs/mcp-go/mcp"
)

var (
	errStreamClosed = errors.New("stream closed")
	errStreamFull   = errors.New("stream queue full")
)

// event is one outbound SSE frame.
type event struct {
	name string
	data string
}

// stream is the server half of one /sse connection. All writes to the
// HTTP response flow through the connection goroutine, which drains the
// event and notification channels; other goroutines only enqueue.
//
// stream implements the SDK's ClientSession interface so the session's
// MCP server can address notifications at this connection.
type stream struct {
	id            string
	events        chan event
	requests      chan []byte
	notifications chan mcp.JSONRPCNotification

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	initialized atomic.Bool
}

func newStream(id string) *stream {
	ctx, cancel := context.WithCancel(context.Background())
	return &stream{
		id:            id,
		events:        make(chan event, 100),
		requests:      make(chan []byte, 100),
		notifications: make(chan mcp.JSONRPCNotification, 100),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// close ends the stream. Safe to call from any teardown path, any
// number of times.
func (st *stream) close() {
	st.closeOnce.Do(st.cancel)
}

// send enqueues an outbound frame for the connection goroutine.
func (st *stream) send(name, data string) error {
	select {
	case <-st.ctx.Done():
		return errStreamClosed
	default:
	}

	select {
	case st.events <- event{name: name, data: data}:
		return nil
	default:
		return errStreamFull
	}
}

// enqueueRequest hands an inbound JSON-RPC body to the dispatch loop.
func (st *stream) enqueueRequest(body []byte) error {
	select {
	case <-st.ctx.Done():
		return errStreamClosed
	default:
	}

	select {
	case st.requests <- body:
		return nil
	default:
		return errStreamFull
	}
}

// SessionID implements server.ClientSession.
func (st *stream) SessionID() string { return st.id }

// Initialize implements server.ClientSession.
func (st *stream) Initialize() { st.initialized.Store(true) }

// Initialized implements server.ClientSession.
func (st *stream) Initialized() bool { return st.initialized.Load() }

// NotificationChannel implements server.ClientSession.
func (st *stream) NotificationChannel() chan<- mcp.JSONRPCNotification {
	return st.notifications
}

// writeEvent renders and flushes one SSE frame.
func writeEvent(w http.ResponseWriter, flusher http.Flusher, name, data string) error {
	if _, err := fmt.Fprint(w, formatEvent(name, data)); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// formatEvent renders an SSE frame. Multi-line data becomes one data:
// line per line, per the SSE wire format.
func formatEvent(name, data string) string {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(name)
	b.WriteString("\n")
	for _, line := range strings.Split(data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}
