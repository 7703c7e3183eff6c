package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidDirection is returned when a direction string is not recognized.
var ErrInvalidDirection = errors.New("invalid animation direction")

// Direction is the scroll direction of an offset animation.
// The zero value means no animation and is encoded as JSON null.
type Direction string

const (
	DirectionNone  Direction = ""
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// ParseDirection accepts the four direction names plus "", "none" and "null".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "none", "null":
		return DirectionNone, nil
	case "up", "down", "left", "right":
		return Direction(s), nil
	}
	return DirectionNone, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// MarshalJSON encodes DirectionNone as null.
func (d Direction) MarshalJSON() ([]byte, error) {
	if d == DirectionNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

// UnmarshalJSON accepts null or one of the direction names.
func (d *Direction) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = DirectionNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDirection, data)
	}
	parsed, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MaxSpeed is the fastest offset animation, in cells per second.
const MaxSpeed = 20

// AnimationSpec is the persisted part of an offset animation.
type AnimationSpec struct {
	Direction Direction `json:"direction" yaml:"direction"`
	Speed     int       `json:"speed" yaml:"speed"`
}

// ClampSpeed bounds s to [0, MaxSpeed].
func ClampSpeed(s int) int {
	return Clamp(s, 0, MaxSpeed)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Offset is the live 2-D sampling offset of an animated surface.
type Offset struct {
	X int
	Y int
}

// Linear folds the offset into a single row-major index shift for a grid
// of the given width: sampling (row+Y, col+X) equals sampling (row, col)
// shifted by Y*width + X.
func (o Offset) Linear(width int) int {
	return o.Y*width + o.X
}
