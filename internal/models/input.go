package models

import (
    "errors"
    "fmt"
    "time"

    "github.com/google/uuid"
)

// ErrUnknownValue được trả về khi chuỗi không thuộc enum đã biết.
var ErrUnknownValue = errors.New("unknown value")

type InputType string

const (
    InputTypeUnset          InputType = ""
    InputTypeJoystickAxis   InputType = "axis"
    InputTypeJoystickButton InputType = "button"
    InputTypeJoystickHat    InputType = "hat"
    InputTypeKeyboard       InputType = "keyboard"
    InputTypeMouse          InputType = "mouse"
    InputTypeVirtualButton  InputType = "virtual-button"
)

var inputTypes = []InputType{
    InputTypeJoystickAxis,
    InputTypeJoystickButton,
    InputTypeJoystickHat,
    InputTypeKeyboard,
    InputTypeMouse,
    InputTypeVirtualButton,
}

func ParseInputType(s string) (InputType, error) {
    for _, t := range inputTypes {
        if string(t) == s {
            return t, nil
        }
    }
    return InputTypeUnset, fmt.Errorf("%w: input type %q", ErrUnknownValue, s)
}

func (t InputType) String() string {
    return string(t)
}

type HatDirection string

const (
    HatCenter    HatDirection = "center"
    HatNorth     HatDirection = "north"
    HatNorthEast HatDirection = "north-east"
    HatEast      HatDirection = "east"
    HatSouthEast HatDirection = "south-east"
    HatSouth     HatDirection = "south"
    HatSouthWest HatDirection = "south-west"
    HatWest      HatDirection = "west"
    HatNorthWest HatDirection = "north-west"
)

var hatDirections = []HatDirection{
    HatCenter, HatNorth, HatNorthEast, HatEast, HatSouthEast,
    HatSouth, HatSouthWest, HatWest, HatNorthWest,
}

func ParseHatDirection(s string) (HatDirection, error) {
    for _, d := range hatDirections {
        if string(d) == s {
            return d, nil
        }
    }
    return "", fmt.Errorf("%w: hat direction %q", ErrUnknownValue, s)
}

// ActivationConditionRecord là một dòng trong bảng gremlin.activation_conditions.
type ActivationConditionRecord struct {
    ActionID  uuid.UUID `db:"action_id" json:"action_id"`
    Rule      string    `db:"rule" json:"rule"`
    XML       string    `db:"xml" json:"xml"`
    UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
