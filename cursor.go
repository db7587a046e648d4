package ggview

// Direction is the direction the cursor moves in.
type Direction uint8

const (
	// Forward moves towards the end of the list.
	Forward Direction = iota

	// Backward moves towards the start of the list.
	Backward
)

// String returns a string representation of the direction.
func (d Direction) String() string {
	if d == Backward {
		return "Backward"
	}
	return "Forward"
}

// Cursor is a position in a fixed, non-empty list of files.
// Moving past either end wraps around.
type Cursor struct {
	files []string
	index int
	dir   Direction
}

// NewCursor returns a cursor on the first of files.
// It returns ErrNoFiles if files is empty.
func NewCursor(files []string) (*Cursor, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	return &Cursor{files: append([]string(nil), files...)}, nil
}

// Advance moves one step in the current direction and returns the file at
// the new position.
func (c *Cursor) Advance() string {
	return c.AdvanceIn(c.dir)
}

// AdvanceIn moves one step in direction d without changing the current
// direction.
func (c *Cursor) AdvanceIn(d Direction) string {
	n := len(c.files)
	if d == Backward {
		c.index = (c.index + n - 1) % n
	} else {
		c.index = (c.index + 1) % n
	}
	return c.files[c.index]
}

// SetDirection sets the direction of subsequent Advance calls.
func (c *Cursor) SetDirection(d Direction) {
	c.dir = d
}

// Direction returns the current direction.
func (c *Cursor) Direction() Direction {
	return c.dir
}

// Current returns the file at the cursor.
func (c *Cursor) Current() string {
	return c.files[c.index]
}

// Index returns the position of the cursor.
func (c *Cursor) Index() int {
	return c.index
}

// Len returns the number of files.
func (c *Cursor) Len() int {
	return len(c.files)
}
