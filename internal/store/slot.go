package store

import "context"

// SlotStore persists opaque named values. It is the local storage
// collaborator of the vocabulary store: one slot per entry list, one per
// session counter and one per cloud sync baseline.
type SlotStore interface {
	// Read returns the slot's bytes, or ErrSlotNotFound if it was never written.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write replaces the slot's bytes.
	Write(ctx context.Context, name string, data []byte) error
}
