package tcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vodachat/voda-server/internal/core"
	"github.com/vodachat/voda-server/internal/proto"
)

// maxLineBytes bounds a single wire record. Anything longer is a protocol
// fault and closes the connection.
const maxLineBytes = 64 * 1024

// ServeConn runs one protocol session over an ordered byte stream until the
// peer disconnects, a protocol fault occurs or ctx is cancelled. It works
// for any net.Conn, which lets the websocket endpoint reuse it.
func ServeConn(ctx context.Context, conn net.Conn, hub *core.Hub, logger *zerolog.Logger, queueSize int) {
	session := &session{
		conn:     conn,
		hub:      hub,
		log:      logger,
		client:   core.NewClient(uuid.NewString(), queueSize),
		outbound: make(chan any, 8),
	}
	session.run(ctx)
}

type session struct {
	conn   net.Conn
	hub    *core.Hub
	log    *zerolog.Logger
	client *core.Client

	// outbound carries transport-level error replies (validation faults)
	// that never reach the hub.
	outbound chan any
}

func (s *session) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Unblock the pending read when the session winds down.
	stop := context.AfterFunc(ctx, func() {
		s.conn.Close()
	})
	defer stop()

	s.hub.RegisterClient(s.client)
	defer s.hub.UnregisterClient(s.client)
	defer close(s.client.Commands)

	errCh := make(chan error, 2)
	go func() {
		errCh <- s.readLoop(ctx)
	}()
	go func() {
		errCh <- s.writeLoop(ctx)
	}()

	err := <-errCh
	cancel() // stop the other loop
	<-errCh

	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) && !errors.Is(err, context.Canceled) {
		s.log.Warn().Err(err).Str("client_id", s.client.ID).Msg("session closed with error")
	} else {
		s.log.Debug().Str("client_id", s.client.ID).Msg("session closed")
	}
}

// readLoop splits the inbound stream into line records and forwards valid
// commands to the hub. A record that cannot be parsed terminates the
// connection; a well-formed record with missing fields gets an error reply
// and the session continues.
func (s *session) readLoop(ctx context.Context) error {
	scanner := bufio.NewScanner(s.conn)
	scanner.Buffer(make([]byte, 4096), maxLineBytes)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var req proto.Request
		if err := json.Unmarshal(line, &req); err != nil {
			return errors.New("malformed record: " + err.Error())
		}

		cmd, protoErr := commandFromRequest(&req)
		if protoErr != nil {
			select {
			case s.outbound <- proto.ErrorEvent{Type: proto.TypeError, Error: *protoErr}:
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		select {
		case s.client.Commands <- cmd:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return io.EOF
}

func (s *session) writeLoop(ctx context.Context) error {
	for {
		select {
		case ev, ok := <-s.client.Events:
			if !ok {
				return nil
			}
			if err := s.writeRecord(outboundFromEvent(ev)); err != nil {
				return err
			}
		case out := <-s.outbound:
			if err := s.writeRecord(out); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *session) writeRecord(record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	_, err = s.conn.Write(append(data, '\n'))
	return err
}
