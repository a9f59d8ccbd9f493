package protocol

import "errors"

// EventType identifies a pointer event on the wire.
type EventType uint8

const (
	// Mouse events (0x03-0x05)
	EventMouseDown EventType = 0x03
	EventMouseUp   EventType = 0x04
	EventMouseMove EventType = 0x05

	// Touch events (0x40-0x43)
	EventTouchStart  EventType = 0x40
	EventTouchMove   EventType = 0x41
	EventTouchEnd    EventType = 0x42
	EventTouchCancel EventType = 0x43

	// Selection (0x50)
	EventSelectStart EventType = 0x50
)

var eventNames = map[EventType]string{
	EventMouseDown:   "mousedown",
	EventMouseUp:     "mouseup",
	EventMouseMove:   "mousemove",
	EventTouchStart:  "touchstart",
	EventTouchMove:   "touchmove",
	EventTouchEnd:    "touchend",
	EventTouchCancel: "touchcancel",
	EventSelectStart: "selectstart",
}

// String returns the DOM event name, e.g. "mousedown".
func (et EventType) String() string {
	if name, ok := eventNames[et]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether et is a known event type.
func (et EventType) Valid() bool {
	_, ok := eventNames[et]
	return ok
}

// IsMouse reports whether et carries a MouseEventData payload.
func (et EventType) IsMouse() bool {
	return et >= EventMouseDown && et <= EventMouseMove
}

// IsTouch reports whether et carries a TouchEventData payload.
func (et EventType) IsTouch() bool {
	return et >= EventTouchStart && et <= EventTouchCancel
}

// EventTypeFromName maps a DOM event name to its wire type.
func EventTypeFromName(name string) (EventType, bool) {
	for et, n := range eventNames {
		if n == name {
			return et, true
		}
	}
	return 0, false
}

// Modifiers represents keyboard modifier keys held during the event.
type Modifiers uint8

const (
	ModCtrl  Modifiers = 0x01
	ModShift Modifiers = 0x02
	ModAlt   Modifiers = 0x04
	ModMeta  Modifiers = 0x08
)

// Has returns true if the specified modifier is set.
func (m Modifiers) Has(mod Modifiers) bool {
	return m&mod != 0
}

// MouseEventData contains mouse event data.
type MouseEventData struct {
	ClientX   float64
	ClientY   float64
	OffsetX   float64 // Position relative to the target's box
	OffsetY   float64
	Button    uint8
	Buttons   uint8 // Bitmask of currently pressed buttons
	Modifiers Modifiers
}

// TouchPoint is a single touch.
type TouchPoint struct {
	ID      int
	ClientX float64
	ClientY float64
}

// TouchEventData contains touch event data.
type TouchEventData struct {
	Touches        []TouchPoint // All current touches
	ChangedTouches []TouchPoint // Touches that changed in this event
}

// Event is a client → server pointer event.
type Event struct {
	Seq  uint64
	Type EventType
	HID  string // Target element's hydration ID

	// Payload is *MouseEventData for mouse events, *TouchEventData for
	// touch events and nil otherwise.
	Payload any
}

// Event errors.
var (
	ErrInvalidEventType = errors.New("protocol: invalid event type")
)

// EncodeEvent encodes an event to bytes.
func EncodeEvent(e *Event) []byte {
	enc := NewEncoder()
	EncodeEventTo(enc, e)
	return enc.Bytes()
}

// EncodeEventTo encodes an event using the provided encoder. A missing or
// mistyped payload encodes as zero values.
func EncodeEventTo(enc *Encoder, e *Event) {
	enc.WriteUvarint(e.Seq)
	enc.WriteByte(byte(e.Type))
	enc.WriteString(e.HID)

	switch {
	case e.Type.IsMouse():
		data, _ := e.Payload.(*MouseEventData)
		if data == nil {
			data = &MouseEventData{}
		}
		enc.WriteFloat64(data.ClientX)
		enc.WriteFloat64(data.ClientY)
		enc.WriteFloat64(data.OffsetX)
		enc.WriteFloat64(data.OffsetY)
		enc.WriteByte(data.Button)
		enc.WriteByte(data.Buttons)
		enc.WriteByte(byte(data.Modifiers))

	case e.Type.IsTouch():
		data, _ := e.Payload.(*TouchEventData)
		if data == nil {
			data = &TouchEventData{}
		}
		encodeTouches(enc, data.Touches)
		encodeTouches(enc, data.ChangedTouches)
	}
}

func encodeTouches(enc *Encoder, touches []TouchPoint) {
	enc.WriteUvarint(uint64(len(touches)))
	for _, t := range touches {
		enc.WriteSvarint(int64(t.ID))
		enc.WriteFloat64(t.ClientX)
		enc.WriteFloat64(t.ClientY)
	}
}

// DecodeEvent decodes an event and rejects trailing bytes.
func DecodeEvent(data []byte) (*Event, error) {
	d := NewDecoder(data)
	e, err := DecodeEventFrom(d)
	if err != nil {
		return nil, err
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return e, nil
}

// DecodeEventFrom decodes an event from a decoder.
func DecodeEventFrom(d *Decoder) (*Event, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	typ, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	et := EventType(typ)
	if !et.Valid() {
		return nil, ErrInvalidEventType
	}
	hid, err := readHID(d)
	if err != nil {
		return nil, err
	}

	e := &Event{Seq: seq, Type: et, HID: hid}

	switch {
	case et.IsMouse():
		var m MouseEventData
		for _, f := range []*float64{&m.ClientX, &m.ClientY, &m.OffsetX, &m.OffsetY} {
			if *f, err = d.ReadFloat64(); err != nil {
				return nil, err
			}
		}
		if m.Button, err = d.ReadByte(); err != nil {
			return nil, err
		}
		if m.Buttons, err = d.ReadByte(); err != nil {
			return nil, err
		}
		mods, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		m.Modifiers = Modifiers(mods)
		e.Payload = &m

	case et.IsTouch():
		var t TouchEventData
		if t.Touches, err = decodeTouches(d); err != nil {
			return nil, err
		}
		if t.ChangedTouches, err = decodeTouches(d); err != nil {
			return nil, err
		}
		e.Payload = &t
	}
	return e, nil
}

// touchPointMinSize is one varint byte plus two float64s.
const touchPointMinSize = 17

func decodeTouches(d *Decoder) ([]TouchPoint, error) {
	n, err := d.ReadCollectionCount(MaxTouches, touchPointMinSize)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]TouchPoint, n)
	for i := range out {
		id, err := d.ReadSvarint()
		if err != nil {
			return nil, err
		}
		out[i].ID = int(id)
		if out[i].ClientX, err = d.ReadFloat64(); err != nil {
			return nil, err
		}
		if out[i].ClientY, err = d.ReadFloat64(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
