package condition

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gremlin-admin/internal/models"
)

// Oracle exposes live input state to the evaluator. Implementations must
// report unknown devices and inputs as released, centered or zero.
type Oracle interface {
	AxisValue(dev DeviceID, inputID uint32) float64
	ButtonState(dev DeviceID, inputID uint32) bool
	HatState(dev DeviceID, inputID uint32) models.HatDirection
	KeyState(scanCode uint16, extended bool) bool
	// CurrentInputState reports whether the input triggering the current
	// action is pressed.
	CurrentInputState() bool
}

// DeviceID identifies either a physical device by GUID or a vJoy device by
// its small integer id.
type DeviceID struct {
	Virtual bool
	GUID    uuid.UUID
	VJoyID  uint32
}

func PhysicalDevice(guid uuid.UUID) DeviceID {
	return DeviceID{GUID: guid}
}

func VirtualDevice(vjoyID uint32) DeviceID {
	return DeviceID{Virtual: true, VJoyID: vjoyID}
}

func (d DeviceID) String() string {
	if d.Virtual {
		return fmt.Sprintf("vjoy:%d", d.VJoyID)
	}
	return d.GUID.String()
}

// Comparison vocabulary understood by the evaluator.
const (
	ComparisonPressed  = "pressed"
	ComparisonReleased = "released"
	ComparisonInside   = "inside"
	ComparisonOutside  = "outside"
)

// ComparisonSupported reports whether comparison belongs to the vocabulary
// of the given input type. Hat comparisons are comma-separated direction
// lists.
func ComparisonSupported(t models.InputType, comparison string) bool {
	switch t {
	case models.InputTypeJoystickAxis:
		return comparison == ComparisonInside || comparison == ComparisonOutside
	case models.InputTypeJoystickButton, models.InputTypeKeyboard:
		return comparison == ComparisonPressed || comparison == ComparisonReleased
	case models.InputTypeJoystickHat:
		_, err := parseDirections(comparison)
		return err == nil
	}
	return false
}

func comparePressed(comparison string, pressed bool) bool {
	switch comparison {
	case ComparisonPressed:
		return pressed
	case ComparisonReleased:
		return !pressed
	}
	return false
}

// compareRange tests v against the inclusive range, swapping inverted
// bounds first.
func compareRange(comparison string, r [2]float64, v float64) bool {
	low, high := r[0], r[1]
	if low > high {
		low, high = high, low
	}
	inside := low <= v && v <= high
	switch comparison {
	case ComparisonInside:
		return inside
	case ComparisonOutside:
		return !inside
	}
	return false
}

func compareHat(comparison string, current models.HatDirection) bool {
	dirs, err := parseDirections(comparison)
	if err != nil {
		return false
	}
	for _, d := range dirs {
		if d == current {
			return true
		}
	}
	return false
}

func parseDirections(comparison string) ([]models.HatDirection, error) {
	var dirs []models.HatDirection
	for _, part := range strings.Split(comparison, ",") {
		d, err := models.ParseHatDirection(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, d)
	}
	return dirs, nil
}

// evaluateInput dispatches on the input type of a joystick or vJoy
// condition.
func evaluateInput(o Oracle, dev DeviceID, t models.InputType, inputID uint32, comparison string, r [2]float64) bool {
	switch t {
	case models.InputTypeJoystickAxis:
		return compareRange(comparison, r, o.AxisValue(dev, inputID))
	case models.InputTypeJoystickButton:
		return comparePressed(comparison, o.ButtonState(dev, inputID))
	case models.InputTypeJoystickHat:
		return compareHat(comparison, o.HatState(dev, inputID))
	}
	return false
}

// ComparisonKnown reports whether the comparison of c is understood by the
// evaluator. Unknown comparisons are accepted at decode and evaluate false.
func ComparisonKnown(c Condition) bool {
	switch v := c.(type) {
	case KeyboardCondition:
		return ComparisonSupported(models.InputTypeKeyboard, v.Comparison)
	case JoystickCondition:
		return ComparisonSupported(v.InputType, v.Comparison)
	case VJoyCondition:
		return ComparisonSupported(v.InputType, v.Comparison)
	case InputActionCondition:
		return v.Comparison == ComparisonPressed || v.Comparison == ComparisonReleased
	}
	return false
}
