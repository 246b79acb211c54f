package renderer

// Slot is the shared cell through which the application controller publishes the graphics
// context to the script-callable operations. The controller is the only writer; operations
// only borrow. A Slot starts empty and holds at most one Renderer for the process lifetime.
//
// Everything runs on the main thread, so there is no locking. The only discipline enforced
// is that a borrow cannot start while another borrow of the same Slot is in progress.
type Slot struct {
	r    Renderer
	busy bool
}

// NewSlot creates an empty Slot.
func NewSlot() *Slot {
	return &Slot{}
}

// Set publishes the graphics context.
//
// Parameters:
//   - r: the Renderer to publish
//
// Returns:
//   - error: ErrContextPresent if a Renderer was already published
func (s *Slot) Set(r Renderer) error {
	if s.r != nil {
		return ErrContextPresent
	}
	s.r = r
	return nil
}

// Present reports whether a graphics context has been published.
func (s *Slot) Present() bool {
	return s.r != nil
}

// Release empties the Slot and releases the published Renderer's GPU objects. Later borrows fail
// with ErrContextAbsent. Releasing an empty Slot does nothing.
//
// Returns:
//   - error: ErrReentrantBorrow if called from inside a borrow
func (s *Slot) Release() error {
	if s.busy {
		return ErrReentrantBorrow
	}
	if s.r == nil {
		return nil
	}
	r := s.r
	s.r = nil
	r.Release()
	return nil
}

// Borrow runs fn with the published Renderer. The borrow ends when fn returns.
//
// Parameters:
//   - fn: the operation to run against the graphics context
//
// Returns:
//   - error: ErrContextAbsent if nothing was published, ErrReentrantBorrow if called from
//     inside another borrow, otherwise the error returned by fn
func (s *Slot) Borrow(fn func(Renderer) error) error {
	if s.r == nil {
		return ErrContextAbsent
	}
	if s.busy {
		return ErrReentrantBorrow
	}
	s.busy = true
	defer func() { s.busy = false }()
	return fn(s.r)
}
