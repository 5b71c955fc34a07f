package condition

import "gremlin-admin/internal/models"

type inputKey struct {
	dev DeviceID
	id  uint32
}

type keyKey struct {
	scanCode uint16
	extended bool
}

// Snapshot is an Oracle over a fixed set of input states. Anything not set
// reads as released, centered or zero.
type Snapshot struct {
	axes         map[inputKey]float64
	buttons      map[inputKey]bool
	hats         map[inputKey]models.HatDirection
	keys         map[keyKey]bool
	currentInput bool
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		axes:    make(map[inputKey]float64),
		buttons: make(map[inputKey]bool),
		hats:    make(map[inputKey]models.HatDirection),
		keys:    make(map[keyKey]bool),
	}
}

// SetAxis clamps v to [-1, 1].
func (s *Snapshot) SetAxis(dev DeviceID, inputID uint32, v float64) *Snapshot {
	if v < -1 {
		v = -1
	} else if v > 1 {
		v = 1
	}
	s.axes[inputKey{dev, inputID}] = v
	return s
}

func (s *Snapshot) SetButton(dev DeviceID, inputID uint32, pressed bool) *Snapshot {
	s.buttons[inputKey{dev, inputID}] = pressed
	return s
}

func (s *Snapshot) SetHat(dev DeviceID, inputID uint32, d models.HatDirection) *Snapshot {
	s.hats[inputKey{dev, inputID}] = d
	return s
}

func (s *Snapshot) SetKey(scanCode uint16, extended, pressed bool) *Snapshot {
	s.keys[keyKey{scanCode, extended}] = pressed
	return s
}

func (s *Snapshot) SetCurrentInput(pressed bool) *Snapshot {
	s.currentInput = pressed
	return s
}

func (s *Snapshot) AxisValue(dev DeviceID, inputID uint32) float64 {
	return s.axes[inputKey{dev, inputID}]
}

func (s *Snapshot) ButtonState(dev DeviceID, inputID uint32) bool {
	return s.buttons[inputKey{dev, inputID}]
}

func (s *Snapshot) HatState(dev DeviceID, inputID uint32) models.HatDirection {
	if d, ok := s.hats[inputKey{dev, inputID}]; ok {
		return d
	}
	return models.HatCenter
}

func (s *Snapshot) KeyState(scanCode uint16, extended bool) bool {
	return s.keys[keyKey{scanCode, extended}]
}

func (s *Snapshot) CurrentInputState() bool {
	return s.currentInput
}
