package protocol

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPatchesRoundTrip(t *testing.T) {
	pf := &PatchesFrame{Seq: 12, Patches: []Patch{
		SetAttr("h2", "class", "sortable-element sortable-element-active"),
		RemoveAttr("h2", "style"),
		InsertNode("h9", "h1", 3, `<li data-hid="h9">Apple</li>`),
		MoveNode("h4", "h1", 0),
		RemoveNode("h9"),
		SetHTML("", `<ul data-hid="h1"></ul>`),
	}}
	got, err := DecodePatches(EncodePatches(pf))
	if err != nil {
		t.Fatalf("DecodePatches() error = %v", err)
	}
	if diff := cmp.Diff(pf, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodePatchesErrors(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(1)
	e.WriteUvarint(1)
	e.WriteByte(0x7F)
	e.WriteString("h1")
	if _, err := DecodePatches(e.Bytes()); !errors.Is(err, ErrInvalidPatchOp) {
		t.Errorf("unknown op: error = %v", err)
	}

	e.Reset()
	e.WriteUvarint(1)
	e.WriteUvarint(MaxPatchesPerFrame + 1)
	if _, err := DecodePatches(e.Bytes()); !errors.Is(err, ErrCollectionTooLarge) {
		t.Errorf("too many patches: error = %v", err)
	}
}

func TestPatchOpString(t *testing.T) {
	ops := map[PatchOp]string{
		PatchSetAttr:    "SetAttr",
		PatchRemoveAttr: "RemoveAttr",
		PatchInsertNode: "InsertNode",
		PatchRemoveNode: "RemoveNode",
		PatchMoveNode:   "MoveNode",
		PatchSetHTML:    "SetHTML",
		PatchOp(0xEE):   "Unknown",
	}
	for op, want := range ops {
		if got := op.String(); got != want {
			t.Errorf("PatchOp(%d).String() = %q, want %q", op, got, want)
		}
	}
}

func TestErrorMessageRoundTrip(t *testing.T) {
	for _, em := range []*ErrorMessage{
		NewError(ErrElementUnknown, "no element h99"),
		NewFatalError(ErrInvalidFrame, "bad header"),
	} {
		got, err := DecodeErrorMessage(EncodeErrorMessage(em))
		if err != nil {
			t.Fatalf("DecodeErrorMessage() error = %v", err)
		}
		if diff := cmp.Diff(em, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestErrorMessageError(t *testing.T) {
	if got := NewFatalError(ErrLimitExceeded, "too big").Error(); got != "fatal: LimitExceeded: too big" {
		t.Errorf("Error() = %q", got)
	}
	if got := NewError(ErrServerError, "oops").Error(); got != "ServerError: oops" {
		t.Errorf("Error() = %q", got)
	}
}
