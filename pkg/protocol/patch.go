package protocol

import "errors"

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchSetAttr    PatchOp = 0x02 // Set attribute
	PatchRemoveAttr PatchOp = 0x03 // Remove attribute
	PatchInsertNode PatchOp = 0x04 // Insert rendered HTML as a new node
	PatchRemoveNode PatchOp = 0x05 // Remove node
	PatchMoveNode   PatchOp = 0x06 // Move node
	PatchSetHTML    PatchOp = 0x07 // Replace a node's children; empty HID is the mount root
)

// String returns the string representation of the patch operation.
func (op PatchOp) String() string {
	switch op {
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchInsertNode:
		return "InsertNode"
	case PatchRemoveNode:
		return "RemoveNode"
	case PatchMoveNode:
		return "MoveNode"
	case PatchSetHTML:
		return "SetHTML"
	default:
		return "Unknown"
	}
}

// Patch is a single DOM operation.
type Patch struct {
	Op       PatchOp
	HID      string // Target element's hydration ID
	Key      string // Attribute name
	Value    string // Attribute value
	ParentID string // Parent HID for InsertNode/MoveNode
	Index    int    // Element index among the parent's children
	HTML     string // For InsertNode/SetHTML
}

// PatchesFrame is a batch of patches with a sequence number.
type PatchesFrame struct {
	Seq     uint64
	Patches []Patch
}

// Patch errors.
var (
	ErrInvalidPatchOp = errors.New("protocol: invalid patch op")
)

// SetAttr builds a PatchSetAttr.
func SetAttr(hid, key, value string) Patch {
	return Patch{Op: PatchSetAttr, HID: hid, Key: key, Value: value}
}

// RemoveAttr builds a PatchRemoveAttr.
func RemoveAttr(hid, key string) Patch {
	return Patch{Op: PatchRemoveAttr, HID: hid, Key: key}
}

// InsertNode builds a PatchInsertNode.
func InsertNode(hid, parentID string, index int, html string) Patch {
	return Patch{Op: PatchInsertNode, HID: hid, ParentID: parentID, Index: index, HTML: html}
}

// RemoveNode builds a PatchRemoveNode.
func RemoveNode(hid string) Patch {
	return Patch{Op: PatchRemoveNode, HID: hid}
}

// MoveNode builds a PatchMoveNode.
func MoveNode(hid, parentID string, index int) Patch {
	return Patch{Op: PatchMoveNode, HID: hid, ParentID: parentID, Index: index}
}

// SetHTML builds a PatchSetHTML.
func SetHTML(hid, html string) Patch {
	return Patch{Op: PatchSetHTML, HID: hid, HTML: html}
}

// EncodePatches encodes a patches frame.
func EncodePatches(pf *PatchesFrame) []byte {
	e := NewEncoder()
	EncodePatchesTo(e, pf)
	return e.Bytes()
}

// EncodePatchesTo encodes a patches frame using the provided encoder.
func EncodePatchesTo(e *Encoder, pf *PatchesFrame) {
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Patches)))
	for i := range pf.Patches {
		encodePatch(e, &pf.Patches[i])
	}
}

func encodePatch(e *Encoder, p *Patch) {
	e.WriteByte(byte(p.Op))
	e.WriteString(p.HID)

	switch p.Op {
	case PatchSetAttr:
		e.WriteString(p.Key)
		e.WriteString(p.Value)
	case PatchRemoveAttr:
		e.WriteString(p.Key)
	case PatchInsertNode:
		e.WriteString(p.ParentID)
		e.WriteSvarint(int64(p.Index))
		e.WriteString(p.HTML)
	case PatchRemoveNode:
	case PatchMoveNode:
		e.WriteString(p.ParentID)
		e.WriteSvarint(int64(p.Index))
	case PatchSetHTML:
		e.WriteString(p.HTML)
	}
}

// DecodePatches decodes a patches frame and rejects trailing bytes.
func DecodePatches(data []byte) (*PatchesFrame, error) {
	d := NewDecoder(data)
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	// Smallest patch: op byte plus an empty HID.
	n, err := d.ReadCollectionCount(MaxPatchesPerFrame, 2)
	if err != nil {
		return nil, err
	}
	pf := &PatchesFrame{Seq: seq, Patches: make([]Patch, n)}
	for i := range pf.Patches {
		if err := decodePatch(d, &pf.Patches[i]); err != nil {
			return nil, err
		}
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return pf, nil
}

func decodePatch(d *Decoder, p *Patch) error {
	op, err := d.ReadByte()
	if err != nil {
		return err
	}
	p.Op = PatchOp(op)
	if p.HID, err = readHID(d); err != nil {
		return err
	}

	readIndex := func() error {
		v, err := d.ReadSvarint()
		p.Index = int(v)
		return err
	}

	switch p.Op {
	case PatchSetAttr:
		if p.Key, err = d.ReadString(); err != nil {
			return err
		}
		p.Value, err = d.ReadString()
		return err
	case PatchRemoveAttr:
		p.Key, err = d.ReadString()
		return err
	case PatchInsertNode:
		if p.ParentID, err = readHID(d); err != nil {
			return err
		}
		if err := readIndex(); err != nil {
			return err
		}
		p.HTML, err = d.ReadString()
		return err
	case PatchRemoveNode:
		return nil
	case PatchMoveNode:
		if p.ParentID, err = readHID(d); err != nil {
			return err
		}
		return readIndex()
	case PatchSetHTML:
		p.HTML, err = d.ReadString()
		return err
	default:
		return ErrInvalidPatchOp
	}
}

// EncodedSize returns the number of bytes p occupies in a patches frame.
func (p *Patch) EncodedSize() int {
	e := NewEncoder()
	encodePatch(e, p)
	return e.Len()
}
