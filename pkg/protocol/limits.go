package protocol

// Allocation and collection limits applied while decoding peer input.
const (
	// DefaultMaxAllocation caps any single length prefix (4MB).
	DefaultMaxAllocation = 4 * 1024 * 1024

	// MaxCollectionCount caps any collection regardless of its own limit.
	MaxCollectionCount = 100_000

	// MaxTouches caps the touch lists of a touch event.
	MaxTouches = 32

	// MaxLayoutBoxes caps the boxes reported in one layout frame.
	MaxLayoutBoxes = 10_000

	// MaxPatchesPerFrame caps the patches in one patches frame.
	MaxPatchesPerFrame = 10_000

	// MaxHIDLength caps a hydration ID.
	MaxHIDLength = 64
)

// readHID reads a hydration ID and enforces MaxHIDLength.
func readHID(d *Decoder) (string, error) {
	hid, err := d.ReadString()
	if err != nil {
		return "", err
	}
	if len(hid) > MaxHIDLength {
		return "", ErrAllocationTooLarge
	}
	return hid, nil
}
