package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"html"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-go/sortable/internal/errors"
	"github.com/vango-go/sortable/pkg/binding"
	"github.com/vango-go/sortable/pkg/dom"
	"github.com/vango-go/sortable/pkg/protocol"
	"github.com/vango-go/sortable/pkg/reactive"
)

// Session is one connected client. It owns a document, the list bound to
// it and the drag that may be in progress.
//
// Everything that touches the document runs on the goroutine that called
// run. Close may be called from any goroutine.
type Session struct {
	// ID is the unique session identifier.
	ID string

	server *Server
	conn   *websocket.Conn
	config *SessionConfig
	logger *slog.Logger
	ctx    context.Context

	doc       *dom.Document
	container *dom.Element
	items     *reactive.Signal[[]string]
	list      *binding.List[string]
	unobserve func()
	pending   []protocol.Patch

	drag dragTrace

	writeMu sync.Mutex
	sendSeq atomic.Uint64
	closed  atomic.Bool
	done    chan struct{}

	// Metrics
	eventCount atomic.Uint64
	patchCount atomic.Uint64
	bytesSent  atomic.Uint64
	bytesRecv  atomic.Uint64
}

// dragTrace is the span and counters of the current drag.
type dragTrace struct {
	span     trace.Span
	started  time.Time
	reorders int
}

// generateSessionID creates a random 128-bit hex session ID.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

// newSession builds the session document and binds the list. conn may be
// nil, in which case nothing is sent.
func newSession(ctx context.Context, srv *Server, conn *websocket.Conn) *Session {
	id := generateSessionID()
	cfg := srv.config

	s := &Session{
		ID:     id,
		server: srv,
		conn:   conn,
		config: cfg.SessionConfig,
		logger: srv.logger.With("session_id", id),
		ctx:    ctx,
		items:  reactive.NewSignal(slices.Clone(cfg.Items)),
		done:   make(chan struct{}),
	}
	s.doc, s.container = newListDocument(cfg)

	user := cfg.Drag
	dragOpts := cfg.Drag
	dragOpts.Logger = s.logger
	dragOpts.OnDragStart = func(ev *dom.Event) {
		if user.OnDragStart != nil {
			user.OnDragStart(ev)
		}
		if !ev.PropagationStopped() {
			s.beginDrag(ev)
		}
	}
	dragOpts.OnDragEnd = func(ev *dom.Event) {
		if user.OnDragEnd != nil {
			user.OnDragEnd(ev)
		}
		s.endDrag()
	}

	s.list = binding.Bind(s.doc, s.container, s.items, &binding.Options[string]{
		Drag:      dragOpts,
		OnReorder: s.onReorder,
		Render:    cfg.Render,
	})
	s.unobserve = s.doc.Observe(s.record)

	if conn != nil {
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		})
	}
	return s
}

// newListDocument creates a document holding the title and an empty list
// container with a stack layout.
func newListDocument(cfg *ServerConfig) (*dom.Document, *dom.Element) {
	doc := dom.NewDocument()

	title := doc.CreateElement("h2")
	title.SetText(cfg.Title)
	doc.Body().AppendChild(title)

	container := doc.CreateElement("ul")
	container.AddClass("sortable")
	if cfg.Axis == dom.Horizontal {
		container.AddClass("sortable-horizontal")
	}
	doc.Body().AppendChild(container)

	doc.SetLayout(container, dom.StackLayout{Axis: cfg.Axis, Gap: cfg.Gap})
	return doc, container
}

// RenderItem is the default item renderer: a list element with a grip and
// a label, matching the default items selector.
func RenderItem(doc *dom.Document, item string) *dom.Element {
	return doc.MustParse(`<li class="sortable-element">` +
		`<span class="sortable-handle">&#8801;</span> ` +
		`<span class="sortable-label">` + html.EscapeString(item) + `</span></li>`)
}

// Items returns the current order of the session's list.
func (s *Session) Items() []string {
	return s.items.Peek()
}

// Document returns the session document. It must only be used from the
// session goroutine.
func (s *Session) Document() *dom.Document {
	return s.doc
}

// =============================================================================
// Mutations to patches
// =============================================================================

// record turns one document mutation into a pending patch.
func (s *Session) record(m dom.Mutation) {
	hid := m.Target.HID()
	switch m.Kind {
	case dom.AttrSet:
		s.pending = append(s.pending, protocol.SetAttr(hid, m.Name, m.Value))
	case dom.AttrRemoved:
		s.pending = append(s.pending, protocol.RemoveAttr(hid, m.Name))
	case dom.ChildInserted:
		s.pending = append(s.pending, protocol.InsertNode(hid, m.Parent.HID(), m.Index, m.Target.OuterHTML()))
	case dom.ChildRemoved:
		s.pending = append(s.pending, protocol.RemoveNode(hid))
	case dom.ChildMoved:
		s.pending = append(s.pending, protocol.MoveNode(hid, m.Parent.HID(), m.Index))
	case dom.ContentReplaced:
		s.pending = append(s.pending, protocol.SetHTML(hid, m.Target.InnerHTML()))
	}
}

// mountPatches replace the client's mount root with the document body. The
// empty HID addresses the mount root, which then takes the body's HID.
func (s *Session) mountPatches() []protocol.Patch {
	body := s.doc.Body()
	return []protocol.Patch{
		protocol.SetAttr("", dom.HIDAttr, body.HID()),
		protocol.SetHTML("", body.InnerHTML()),
	}
}

// takePatches returns and clears the pending patches.
func (s *Session) takePatches() []protocol.Patch {
	p := s.pending
	s.pending = nil
	return p
}

// =============================================================================
// Incoming frames
// =============================================================================

// handleEvent converts a wire event and dispatches it into the document.
func (s *Session) handleEvent(pe *protocol.Event) (err error) {
	ev, err := s.domEvent(pe)
	if err != nil {
		return err
	}

	s.eventCount.Add(1)
	s.server.metrics.eventsTotal.WithLabelValues(ev.Type).Inc()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("event panic",
				"event", ev.Type,
				"panic", r,
				"stack", string(debug.Stack()))
			err = fmt.Errorf("server: panic handling %s: %v", ev.Type, r)
		}
	}()
	s.doc.Dispatch(ev)
	return nil
}

// domEvent builds the document event for pe. The target is the element
// named by the HID, or the element under the pointer when the HID is empty.
// Offsets are recomputed against the server's boxes so that target origin
// plus offset is always the pointer position.
func (s *Session) domEvent(pe *protocol.Event) (*dom.Event, error) {
	ev := &dom.Event{Type: pe.Type.String()}

	switch data := pe.Payload.(type) {
	case *protocol.MouseEventData:
		ev.Button = int(data.Button)
		ev.Client = dom.Point{X: data.ClientX, Y: data.ClientY}
	case *protocol.TouchEventData:
		for _, t := range data.Touches {
			ev.Touches = append(ev.Touches, dom.Point{X: t.ClientX, Y: t.ClientY})
		}
		switch {
		case len(data.ChangedTouches) > 0:
			ev.Client = dom.Point{X: data.ChangedTouches[0].ClientX, Y: data.ChangedTouches[0].ClientY}
		case len(ev.Touches) > 0:
			ev.Client = ev.Touches[0]
		}
	}

	if pe.HID == "" {
		ev.Target = s.doc.ElementAt(ev.Client)
	} else {
		ev.Target = s.doc.ByHID(pe.HID)
		if ev.Target == nil {
			return nil, errors.New(errors.CodeUnknownElement).
				WithDetailf("%s targets unknown element %q", ev.Type, pe.HID)
		}
	}
	ev.Offset = ev.Client.Sub(ev.Target.Box().Origin())
	return ev, nil
}

// applyLayout stores the client's measured boxes. Unknown HIDs are
// ignored; they belong to elements removed since the report was taken.
func (s *Session) applyLayout(l *protocol.Layout) int {
	applied := 0
	for _, ib := range l.Boxes {
		el := s.doc.ByHID(ib.HID)
		if el == nil {
			continue
		}
		el.SetBox(dom.Rect{Left: ib.Box.Left, Top: ib.Box.Top, Width: ib.Box.Width, Height: ib.Box.Height})
		applied++
	}
	return applied
}

// =============================================================================
// Drag tracing
// =============================================================================

func (s *Session) beginDrag(ev *dom.Event) {
	item := ""
	if ev.CurrentTarget != nil {
		item = ev.CurrentTarget.HID()
	}
	_, span := s.server.tracer.Start(s.ctx, "sortable.drag",
		trace.WithAttributes(
			attribute.String("sortable.session_id", s.ID),
			attribute.String("sortable.item", item),
			attribute.String("sortable.input", ev.Type),
		))
	s.drag = dragTrace{span: span, started: time.Now()}
	s.server.metrics.dragsStarted.Inc()
}

func (s *Session) onReorder(from, to int) {
	s.server.metrics.reordersTotal.Inc()
	s.logger.Debug("reorder", "from", from, "to", to)
	if s.drag.span == nil {
		return
	}
	s.drag.reorders++
	s.drag.span.AddEvent("reorder", trace.WithAttributes(
		attribute.Int("sortable.from", from),
		attribute.Int("sortable.to", to),
	))
}

func (s *Session) endDrag() {
	if s.drag.span == nil {
		return
	}
	s.drag.span.SetAttributes(attribute.Int("sortable.reorders", s.drag.reorders))
	s.drag.span.End()
	s.server.metrics.dragDuration.Observe(time.Since(s.drag.started).Seconds())
	s.drag = dragTrace{}
}

// =============================================================================
// Loop
// =============================================================================

// run mounts the document and processes frames until the connection ends.
func (s *Session) run() {
	defer s.teardown()

	go s.heartbeat()

	if err := s.sendPatches(s.mountPatches()); err != nil {
		s.logger.Error("mount failed", "error", err)
		return
	}

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				s.server.metrics.wsErrors.WithLabelValues("read").Inc()
			}
			return
		}
		s.bytesRecv.Add(uint64(len(msg)))

		if err := s.handleMessage(msg); err != nil {
			s.logger.Error("write error", "error", err)
			s.server.metrics.wsErrors.WithLabelValues("write").Inc()
			return
		}
	}
}

// handleMessage processes one client frame and sends the patches it
// produced. Protocol errors are reported to the client; only write
// failures are returned.
func (s *Session) handleMessage(msg []byte) error {
	frame, err := protocol.DecodeFrame(msg)
	if err != nil {
		s.server.metrics.wsErrors.WithLabelValues("frame").Inc()
		return s.sendError(protocol.ErrInvalidFrame, err.Error())
	}

	switch frame.Type {
	case protocol.FrameEvent:
		pe, err := protocol.DecodeEvent(frame.Payload)
		if err != nil {
			s.server.metrics.wsErrors.WithLabelValues("event").Inc()
			return s.sendError(decodeErrorCode(err), "invalid event: "+err.Error())
		}
		if err := s.handleEvent(pe); err != nil {
			code := protocol.ErrServerError
			if errors.HasCode(err, errors.CodeUnknownElement) {
				code = protocol.ErrElementUnknown
			}
			s.logger.Warn("event rejected", "error", err)
			if err := s.sendError(code, err.Error()); err != nil {
				return err
			}
		}

	case protocol.FrameLayout:
		l, err := protocol.DecodeLayout(frame.Payload)
		if err != nil {
			s.server.metrics.wsErrors.WithLabelValues("layout").Inc()
			return s.sendError(decodeErrorCode(err), "invalid layout: "+err.Error())
		}
		s.applyLayout(l)

	default:
		s.server.metrics.wsErrors.WithLabelValues("frame").Inc()
		return s.sendError(protocol.ErrInvalidFrame, "unexpected "+frame.Type.String()+" frame from client")
	}

	return s.flush()
}

func decodeErrorCode(err error) protocol.ErrorCode {
	switch {
	case stderrors.Is(err, protocol.ErrCollectionTooLarge), stderrors.Is(err, protocol.ErrAllocationTooLarge):
		return protocol.ErrLimitExceeded
	default:
		return protocol.ErrInvalidEvent
	}
}

// heartbeat pings the client until the session closes.
func (s *Session) heartbeat() {
	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(s.config.WriteTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				s.logger.Debug("ping failed", "error", err)
				return
			}
		case <-s.done:
			return
		}
	}
}

// =============================================================================
// Outgoing frames
// =============================================================================

// flush sends the pending patches, if any, as the reply to one frame.
func (s *Session) flush() error {
	patches := s.takePatches()
	if len(patches) == 0 {
		return nil
	}
	return s.sendPatches(patches)
}

// patchFrameOverhead covers the sequence and count varints.
const patchFrameOverhead = 20

// splitPatches groups patches into frames that fit the payload limit.
func splitPatches(patches []protocol.Patch) ([][]protocol.Patch, error) {
	var chunks [][]protocol.Patch
	start, size := 0, patchFrameOverhead
	for i := range patches {
		n := patches[i].EncodedSize()
		if n+patchFrameOverhead > protocol.MaxPayloadSize {
			return nil, fmt.Errorf("%w: %s on %q is %d bytes", ErrPatchTooLarge, patches[i].Op, patches[i].HID, n)
		}
		if size+n > protocol.MaxPayloadSize {
			chunks = append(chunks, patches[start:i])
			start, size = i, patchFrameOverhead
		}
		size += n
	}
	return append(chunks, patches[start:]), nil
}

// sendPatches writes patches in as many frames as needed. The last frame
// carries FlagFinal.
func (s *Session) sendPatches(patches []protocol.Patch) error {
	chunks, err := splitPatches(patches)
	if err != nil {
		s.logger.Error("patch dropped", "error", err)
		return s.sendError(protocol.ErrServerError, err.Error())
	}

	for i, chunk := range chunks {
		pf := &protocol.PatchesFrame{Seq: s.sendSeq.Add(1), Patches: chunk}
		frame := protocol.NewFrame(protocol.FramePatches, protocol.EncodePatches(pf))
		if i == len(chunks)-1 {
			frame.Flags |= protocol.FlagFinal
		}
		if err := s.writeFrame(frame); err != nil {
			return &SessionError{SessionID: s.ID, Op: "send patches", Err: err}
		}
		s.patchCount.Add(uint64(len(chunk)))
		s.server.metrics.patchesSent.Add(float64(len(chunk)))
	}

	s.logger.Debug("sent patches", "count", len(patches), "frames", len(chunks))
	return nil
}

// sendError writes a non-fatal error frame.
func (s *Session) sendError(code protocol.ErrorCode, message string) error {
	payload := protocol.EncodeErrorMessage(protocol.NewError(code, message))
	return s.writeFrame(protocol.NewFrame(protocol.FrameError, payload))
}

func (s *Session) writeFrame(f *protocol.Frame) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.closed.Load() {
		return ErrSessionClosed
	}
	if s.conn == nil {
		return nil
	}

	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return err
	}
	s.bytesSent.Add(uint64(len(data)))
	return nil
}

// =============================================================================
// Lifecycle
// =============================================================================

// Close closes the connection. The session goroutine then tears the
// document down. Close is safe to call from any goroutine and more than once.
func (s *Session) Close() {
	if s.closed.Swap(true) {
		return
	}
	close(s.done)

	if s.conn != nil {
		s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		s.conn.Close()
	}
}

// IsClosed returns whether the session is closed.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Done returns a channel that is closed when the session closes.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// teardown releases the document, the list and any drag in progress. It
// runs on the session goroutine.
func (s *Session) teardown() {
	s.Close()

	if s.drag.span != nil {
		s.drag.span.SetStatus(codes.Error, "session closed during drag")
		s.drag.span.SetAttributes(attribute.Int("sortable.reorders", s.drag.reorders))
		s.drag.span.End()
		s.drag = dragTrace{}
	}

	s.unobserve()
	s.list.Close()
	reactive.Release()

	s.logger.Info("session closed",
		"events", s.eventCount.Load(),
		"patches", s.patchCount.Load(),
		"bytes_sent", s.bytesSent.Load(),
		"bytes_recv", s.bytesRecv.Load())
}
