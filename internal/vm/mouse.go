package vm

import "fmt"

// Mouse holds signed position and an 8-bit button mask, read and written
// atomically as a unit (§3, §4.7).
type Mouse struct {
	X, Y    int32
	Buttons uint8
}

// NewMouse creates a mouse at the origin with no buttons pressed.
func NewMouse() *Mouse { return &Mouse{} }

// Set updates position and button state in one call.
func (m *Mouse) Set(x, y int32, buttons uint8) {
	m.X, m.Y, m.Buttons = x, y, buttons
}

// Reset zeroes position and buttons.
func (m *Mouse) Reset() { m.X, m.Y, m.Buttons = 0, 0, 0 }

func (m *Mouse) String() string {
	return fmt.Sprintf("Mouse(x:%d,y:%d,buttons:%#02x)", m.X, m.Y, m.Buttons)
}
