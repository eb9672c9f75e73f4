// Package publisher pushes a stream of idempotent updates to a single websocket client.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

const (
	frameTimeout = time.Second

	// minPublishInterval drops updates that arrive sooner than this after the last one sent.
	minPublishInterval = 100 * time.Millisecond
	pingInterval       = 200 * time.Millisecond
	// pongTimeout is four missed pings.
	pongTimeout = 4 * pingInterval

	// semTimeout bounds the wait for the socket's single reader or writer slot.
	semTimeout       = time.Second
	closeGracePeriod = time.Second
)

var upgrader = websocket.Upgrader{}

var (
	ErrPongTimeout = errors.New("websocket client stopped answering pings")
	ErrCongested   = errors.New("websocket busy")

	errExhausted = errors.New("updates exhausted")
)

// Publisher writes updates to the socket as JSON, at most one per minPublishInterval.
// Each update is a complete snapshot, so dropped ones are never missed.
type Publisher[T any] struct {
	updates <-chan T
	ws      *websock
	rootCtx context.Context
}

// New upgrades the request to a websocket. On failure the error has already been
// written to w.
func New[T any](
	updates <-chan T,
	w http.ResponseWriter,
	r *http.Request,
) (*Publisher[T], error) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}

	return &Publisher[T]{
		updates: updates,
		ws:      newWebsock(ws),
		rootCtx: r.Context(),
	}, nil
}

// Sync publishes until the client goes away, the updates are exhausted or the request
// context is done, then closes the socket. A clean disconnect returns nil.
func (pub *Publisher[T]) Sync() error {
	group, groupCtx := errgroup.WithContext(pub.rootCtx)
	// Closing the socket is what unblocks a pending read.
	group.Go(func() error {
		<-groupCtx.Done()
		pub.ws.Close()
		return nil
	})
	group.Go(func() error {
		return pub.readMessages(groupCtx)
	})
	group.Go(func() error {
		return pub.pingPong(groupCtx)
	})
	group.Go(func() error {
		return pub.publish(groupCtx)
	})

	err := group.Wait()
	if err == nil || errors.Is(err, errExhausted) || isClosure(err) || pub.rootCtx.Err() != nil {
		return nil
	}
	return err
}

// pingPong fails once no pong has arrived for pongTimeout. Pongs are only delivered while
// readMessages is reading.
func (pub *Publisher[T]) pingPong(ctx context.Context) error {
	pong := make(chan struct{})
	pub.ws.Conn().SetPongHandler(func(string) error {
		select {
		case pong <- struct{}{}:
		case <-ctx.Done():
		}
		return nil
	})

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	lastPong := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if time.Since(lastPong) > pongTimeout {
				return ErrPongTimeout
			}
			if err := pub.ping(ctx); err != nil {
				return err
			}
		case <-pong:
			lastPong = time.Now()
		}
	}
}

func (pub *Publisher[T]) ping(ctx context.Context) error {
	return pub.ws.Write(ctx, func(ws *websocket.Conn) error {
		err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(frameTimeout))
		if isError(err) {
			return fmt.Errorf("ping: %w", err)
		}
		return err
	})
}

// readMessages discards whatever the client sends; reading is what services its control
// frames. A failed read leaves the connection unusable.
func (pub *Publisher[T]) readMessages(ctx context.Context) error {
	for {
		err := pub.ws.Read(ctx, func(ws *websocket.Conn) error {
			_, _, err := ws.ReadMessage()
			return err
		})
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (pub *Publisher[T]) publish(ctx context.Context) error {
	var lastSent time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-pub.updates:
			if !ok {
				return errExhausted
			}
			if time.Since(lastSent) < minPublishInterval {
				continue
			}

			lastSent = time.Now()
			err := pub.ws.Write(ctx, func(ws *websocket.Conn) error {
				if err := ws.SetWriteDeadline(lastSent.Add(frameTimeout)); err != nil {
					return err
				}
				err := ws.WriteJSON(update)
				if isError(err) {
					return fmt.Errorf("publish: %w", err)
				}
				return err
			})
			if err != nil {
				return err
			}
		}
	}
}

func isError(err error) bool {
	return err != nil && websocket.IsUnexpectedCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}

func isClosure(err error) bool {
	return err != nil && websocket.IsCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}

// websock admits one reader and one writer at a time, which is all a gorilla
// connection supports.
type websock struct {
	reading chan struct{}
	writing chan struct{}
	conn    *websocket.Conn
}

func newWebsock(conn *websocket.Conn) *websock {
	return &websock{
		reading: make(chan struct{}, 1),
		writing: make(chan struct{}, 1),
		conn:    conn,
	}
}

// Conn is for setup, such as installing handlers, before any reader or writer starts.
func (sock *websock) Conn() *websocket.Conn {
	return sock.conn
}

// Close takes the writer slot for good, sends a close frame and drops the connection
// after closeGracePeriod. A reader blocked on the peer is not waited for.
func (sock *websock) Close() {
	sock.writing <- struct{}{}
	closing := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = sock.conn.WriteControl(websocket.CloseMessage, closing, time.Now().Add(frameTimeout))
	time.Sleep(closeGracePeriod)
	sock.conn.Close()
}

func (sock *websock) Read(ctx context.Context, fn func(*websocket.Conn) error) error {
	return sock.with(ctx, sock.reading, fn)
}

func (sock *websock) Write(ctx context.Context, fn func(*websocket.Conn) error) error {
	return sock.with(ctx, sock.writing, fn)
}

// with runs fn holding slot. A done ctx skips fn and is not an error.
func (sock *websock) with(ctx context.Context, slot chan struct{}, fn func(*websocket.Conn) error) error {
	timeout := time.NewTimer(semTimeout)
	defer timeout.Stop()

	select {
	case <-ctx.Done():
		return nil
	case slot <- struct{}{}:
		defer func() { <-slot }()
		return fn(sock.conn)
	case <-timeout.C:
		return ErrCongested
	}
}
