package condition

import (
	"github.com/google/uuid"
	"gremlin-admin/internal/models"
	"gremlin-admin/internal/profxml"
)

// KeyboardCondition tests the state of a single key identified by its
// scan code and extended flag. Nil fields are unset.
type KeyboardCondition struct {
	Comparison string
	ScanCode   *uint16
	IsExtended *bool
}

func (KeyboardCondition) Kind() Kind { return KindKeyboard }
func (KeyboardCondition) sealed()    {}

func (c KeyboardCondition) IsValid() bool {
	return c.Comparison != "" && c.ScanCode != nil && c.IsExtended != nil
}

func (c KeyboardCondition) Evaluate(o Oracle) bool {
	if !c.IsValid() {
		return false
	}
	return comparePressed(c.Comparison, o.KeyState(*c.ScanCode, *c.IsExtended))
}

func (c KeyboardCondition) Encode() *profxml.Node {
	n := newConditionNode(KindKeyboard)
	n.SetAttr(attrInput, string(models.InputTypeKeyboard))
	n.SetAttr(attrComparison, c.Comparison)
	if c.ScanCode != nil {
		n.SetAttr(attrScanCode, profxml.FormatUint(*c.ScanCode))
	}
	if c.IsExtended != nil {
		n.SetAttr(attrExtended, profxml.FormatBool(*c.IsExtended))
	}
	return n
}

func decodeKeyboard(n *profxml.Node, path string) (Condition, error) {
	comparison, err := profxml.ReadAttr(n, path, attrComparison)
	if err != nil {
		return nil, err
	}
	scanCode, err := profxml.ReadAttrAs(n, path, attrScanCode, profxml.ParseUint16)
	if err != nil {
		return nil, err
	}
	extended, err := profxml.ReadAttrAs(n, path, attrExtended, profxml.ParseBool)
	if err != nil {
		return nil, err
	}
	return KeyboardCondition{Comparison: comparison, ScanCode: &scanCode, IsExtended: &extended}, nil
}

// JoystickCondition tests an axis, button or hat of a physical device.
// Range only applies to axes. DeviceName is informational.
type JoystickCondition struct {
	Comparison string
	InputType  models.InputType
	InputID    uint32
	DeviceGUID uuid.UUID
	DeviceName string
	Range      [2]float64
}

func (JoystickCondition) Kind() Kind { return KindJoystick }
func (JoystickCondition) sealed()    {}

func (c JoystickCondition) IsValid() bool {
	return c.Comparison != "" && c.InputType != models.InputTypeUnset
}

func (c JoystickCondition) Evaluate(o Oracle) bool {
	if !c.IsValid() {
		return false
	}
	return evaluateInput(o, PhysicalDevice(c.DeviceGUID), c.InputType, c.InputID, c.Comparison, c.Range)
}

func (c JoystickCondition) Encode() *profxml.Node {
	n := newConditionNode(KindJoystick)
	if c.InputType != models.InputTypeUnset {
		n.SetAttr(attrInput, string(c.InputType))
	}
	n.SetAttr(attrComparison, c.Comparison)
	n.SetAttr(attrID, profxml.FormatUint(c.InputID))
	n.SetAttr(attrDeviceGUID, profxml.FormatGUID(c.DeviceGUID))
	n.SetAttr(attrDeviceName, c.DeviceName)
	if c.InputType == models.InputTypeJoystickAxis {
		writeRange(n, c.Range)
	}
	return n
}

func decodeJoystick(n *profxml.Node, path string) (Condition, error) {
	var (
		c   JoystickCondition
		err error
	)
	if c.Comparison, err = profxml.ReadAttr(n, path, attrComparison); err != nil {
		return nil, err
	}
	if c.InputType, err = profxml.ReadAttrAs(n, path, attrInput, parseInputType); err != nil {
		return nil, err
	}
	if c.InputID, err = profxml.ReadAttrAs(n, path, attrID, profxml.ParseUint32); err != nil {
		return nil, err
	}
	if c.DeviceGUID, err = profxml.ReadAttrAs(n, path, attrDeviceGUID, profxml.ParseGUID); err != nil {
		return nil, err
	}
	if c.DeviceName, err = profxml.ReadAttr(n, path, attrDeviceName); err != nil {
		return nil, err
	}
	if c.InputType == models.InputTypeJoystickAxis {
		if c.Range, err = readRange(n, path); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// VJoyCondition tests an axis, button or hat of a vJoy device.
type VJoyCondition struct {
	Comparison string
	InputType  models.InputType
	InputID    uint32
	VJoyID     uint32
	Range      [2]float64
}

func (VJoyCondition) Kind() Kind { return KindVJoy }
func (VJoyCondition) sealed()    {}

func (c VJoyCondition) IsValid() bool {
	return c.Comparison != "" && c.InputType != models.InputTypeUnset
}

func (c VJoyCondition) Evaluate(o Oracle) bool {
	if !c.IsValid() {
		return false
	}
	return evaluateInput(o, VirtualDevice(c.VJoyID), c.InputType, c.InputID, c.Comparison, c.Range)
}

func (c VJoyCondition) Encode() *profxml.Node {
	n := newConditionNode(KindVJoy)
	if c.InputType != models.InputTypeUnset {
		n.SetAttr(attrInput, string(c.InputType))
	}
	n.SetAttr(attrComparison, c.Comparison)
	n.SetAttr(attrID, profxml.FormatUint(c.InputID))
	n.SetAttr(attrVJoyID, profxml.FormatUint(c.VJoyID))
	if c.InputType == models.InputTypeJoystickAxis {
		writeRange(n, c.Range)
	}
	return n
}

func decodeVJoy(n *profxml.Node, path string) (Condition, error) {
	var (
		c   VJoyCondition
		err error
	)
	if c.Comparison, err = profxml.ReadAttr(n, path, attrComparison); err != nil {
		return nil, err
	}
	if c.InputType, err = profxml.ReadAttrAs(n, path, attrInput, parseInputType); err != nil {
		return nil, err
	}
	if c.InputID, err = profxml.ReadAttrAs(n, path, attrID, profxml.ParseUint32); err != nil {
		return nil, err
	}
	if c.VJoyID, err = profxml.ReadAttrAs(n, path, attrVJoyID, profxml.ParseUint32); err != nil {
		return nil, err
	}
	if c.InputType == models.InputTypeJoystickAxis {
		if c.Range, err = readRange(n, path); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// InputActionCondition tests the input that triggered the current action.
type InputActionCondition struct {
	Comparison string
}

func (InputActionCondition) Kind() Kind { return KindAction }
func (InputActionCondition) sealed()    {}

func (c InputActionCondition) IsValid() bool {
	return c.Comparison != ""
}

func (c InputActionCondition) Evaluate(o Oracle) bool {
	if !c.IsValid() {
		return false
	}
	return comparePressed(c.Comparison, o.CurrentInputState())
}

func (c InputActionCondition) Encode() *profxml.Node {
	n := newConditionNode(KindAction)
	n.SetAttr(attrInput, string(KindAction))
	n.SetAttr(attrComparison, c.Comparison)
	return n
}

func decodeInputAction(n *profxml.Node, path string) (Condition, error) {
	comparison, err := profxml.ReadAttr(n, path, attrComparison)
	if err != nil {
		return nil, err
	}
	return InputActionCondition{Comparison: comparison}, nil
}
