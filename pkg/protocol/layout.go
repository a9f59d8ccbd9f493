package protocol

// Box is an element's offset box as measured by the client.
type Box struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// ItemBox pairs a hydration ID with its box.
type ItemBox struct {
	HID string
	Box Box
}

// Layout is a client → server geometry report. The client sends one after
// mounting and after applying patches that change geometry.
type Layout struct {
	Seq   uint64
	Boxes []ItemBox
}

// EncodeLayout encodes a layout report.
func EncodeLayout(l *Layout) []byte {
	enc := NewEncoder()
	EncodeLayoutTo(enc, l)
	return enc.Bytes()
}

// EncodeLayoutTo encodes a layout report using the provided encoder.
func EncodeLayoutTo(enc *Encoder, l *Layout) {
	enc.WriteUvarint(l.Seq)
	enc.WriteUvarint(uint64(len(l.Boxes)))
	for _, b := range l.Boxes {
		enc.WriteString(b.HID)
		enc.WriteFloat64(b.Box.Left)
		enc.WriteFloat64(b.Box.Top)
		enc.WriteFloat64(b.Box.Width)
		enc.WriteFloat64(b.Box.Height)
	}
}

// itemBoxMinSize is an empty HID (one byte) plus four float64s.
const itemBoxMinSize = 33

// DecodeLayout decodes a layout report and rejects trailing bytes.
func DecodeLayout(data []byte) (*Layout, error) {
	d := NewDecoder(data)
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	n, err := d.ReadCollectionCount(MaxLayoutBoxes, itemBoxMinSize)
	if err != nil {
		return nil, err
	}
	l := &Layout{Seq: seq, Boxes: make([]ItemBox, n)}
	for i := range l.Boxes {
		b := &l.Boxes[i]
		if b.HID, err = readHID(d); err != nil {
			return nil, err
		}
		for _, f := range []*float64{&b.Box.Left, &b.Box.Top, &b.Box.Width, &b.Box.Height} {
			if *f, err = d.ReadFloat64(); err != nil {
				return nil, err
			}
		}
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return l, nil
}
