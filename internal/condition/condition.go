package condition

import (
	"fmt"

	"gremlin-admin/internal/models"
	"gremlin-admin/internal/profxml"
)

const (
	elemCondition = "condition"

	attrConditionType = "condition-type"
	attrInput         = "input"
	attrComparison    = "comparison"
	attrScanCode      = "scan-code"
	attrExtended      = "extended"
	attrID            = "id"
	attrDeviceGUID    = "device-guid"
	attrDeviceName    = "device-name"
	attrVJoyID        = "vjoy-id"
	attrRangeLow      = "range-low"
	attrRangeHigh     = "range-high"
)

// Kind is the condition-type discriminator written to XML.
type Kind string

const (
	KindKeyboard Kind = "keyboard"
	KindJoystick Kind = "joystick"
	KindVJoy     Kind = "vjoy"
	KindAction   Kind = "action"
)

// Condition is one of KeyboardCondition, JoystickCondition, VJoyCondition
// or InputActionCondition.
type Condition interface {
	Kind() Kind
	IsValid() bool
	// Evaluate returns false for invalid conditions.
	Evaluate(o Oracle) bool
	Encode() *profxml.Node

	sealed()
}

type decodeFunc func(n *profxml.Node, path string) (Condition, error)

var kinds = []Kind{KindKeyboard, KindJoystick, KindVJoy, KindAction}

var decoders = map[Kind]decodeFunc{
	KindKeyboard: decodeKeyboard,
	KindJoystick: decodeJoystick,
	KindVJoy:     decodeVJoy,
	KindAction:   decodeInputAction,
}

func parseKind(s string) (Kind, error) {
	for _, k := range kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: condition type %q", profxml.ErrUnknownEnumValue, s)
}

// DecodeCondition reads a <condition> element, dispatching on its
// condition-type attribute. path names the element in error reports.
func DecodeCondition(n *profxml.Node, path string) (Condition, error) {
	kind, err := profxml.ReadAttrAs(n, path, attrConditionType, parseKind)
	if err != nil {
		return nil, err
	}
	decode, ok := decoders[kind]
	if !ok {
		return nil, &profxml.UnimplementedError{Op: fmt.Sprintf("decode of %s condition", kind)}
	}
	return decode(n, path)
}

func parseInputType(s string) (models.InputType, error) {
	t, err := models.ParseInputType(s)
	if err != nil {
		return t, fmt.Errorf("%w: %v", profxml.ErrUnknownEnumValue, err)
	}
	return t, nil
}

func newConditionNode(kind Kind) *profxml.Node {
	n := profxml.NewNode(elemCondition)
	n.SetAttr(attrConditionType, string(kind))
	return n
}

func readRange(n *profxml.Node, path string) ([2]float64, error) {
	var r [2]float64
	var err error
	if r[0], err = profxml.ReadAttrAs(n, path, attrRangeLow, profxml.ParseFloat); err != nil {
		return r, err
	}
	if r[1], err = profxml.ReadAttrAs(n, path, attrRangeHigh, profxml.ParseFloat); err != nil {
		return r, err
	}
	return r, nil
}

func writeRange(n *profxml.Node, r [2]float64) {
	n.SetAttr(attrRangeLow, profxml.FormatFloat(r[0]))
	n.SetAttr(attrRangeHigh, profxml.FormatFloat(r[1]))
}
