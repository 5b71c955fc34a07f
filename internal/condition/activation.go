package condition

import (
	"encoding/xml"
	"fmt"

	"gremlin-admin/internal/profxml"
)

const (
	elemActivationCondition = "activation-condition"
	attrRule                = "rule"
)

// ActivationRule combines the outcomes of child conditions.
type ActivationRule string

const (
	RuleAll ActivationRule = "all"
	RuleAny ActivationRule = "any"
)

func ParseActivationRule(s string) (ActivationRule, error) {
	switch ActivationRule(s) {
	case RuleAll, RuleAny:
		return ActivationRule(s), nil
	}
	return "", fmt.Errorf("%w: rule %q", profxml.ErrUnknownEnumValue, s)
}

func (r ActivationRule) String() string {
	return string(r)
}

// ActivationCondition gates an action on a set of conditions combined by a
// rule. An empty set is true under RuleAll and false under RuleAny.
type ActivationCondition struct {
	Rule       ActivationRule
	Conditions []Condition
}

// New copies conditions so later edits to the caller's slice do not leak
// into the composite. Nil conditions are skipped.
func New(rule ActivationRule, conditions ...Condition) *ActivationCondition {
	a := &ActivationCondition{Rule: rule}
	for _, c := range conditions {
		if c != nil {
			a.Conditions = append(a.Conditions, c)
		}
	}
	return a
}

// valid treats a nil entry in a hand-built Conditions slice as invalid.
func valid(c Condition) bool {
	return c != nil && c.IsValid()
}

// Decode reads an <activation-condition> element. Child <condition>
// elements are decoded in document order; the first schema error aborts.
func Decode(n *profxml.Node) (*ActivationCondition, error) {
	root := n.Name()
	if root != elemActivationCondition {
		return nil, &profxml.SchemaError{Path: root, Reason: profxml.ReasonMalformed, Value: root}
	}
	rule, err := profxml.ReadAttrAs(n, root, attrRule, ParseActivationRule)
	if err != nil {
		return nil, err
	}
	a := &ActivationCondition{Rule: rule}
	for i, child := range n.ChildrenNamed(elemCondition) {
		c, err := DecodeCondition(child, fmt.Sprintf("%s/%s[%d]", root, elemCondition, i))
		if err != nil {
			return nil, err
		}
		a.Conditions = append(a.Conditions, c)
	}
	return a, nil
}

// Parse decodes an <activation-condition> element from raw XML.
func Parse(data []byte) (*ActivationCondition, error) {
	n, err := profxml.Parse(data)
	if err != nil {
		return nil, err
	}
	return Decode(n)
}

// Encode writes the rule and every valid child. Invalid children are
// dropped.
func (a *ActivationCondition) Encode() *profxml.Node {
	n := profxml.NewNode(elemActivationCondition)
	n.SetAttr(attrRule, string(a.Rule))
	for _, c := range a.Conditions {
		if valid(c) {
			n.Append(c.Encode())
		}
	}
	return n
}

func (a *ActivationCondition) Marshal() ([]byte, error) {
	return a.Encode().Marshal()
}

func (a *ActivationCondition) Evaluate(o Oracle) bool {
	switch a.Rule {
	case RuleAll:
		for _, c := range a.Conditions {
			if c == nil || !c.Evaluate(o) {
				return false
			}
		}
		return true
	case RuleAny:
		for _, c := range a.Conditions {
			if c != nil && c.Evaluate(o) {
				return true
			}
		}
		return false
	}
	return false
}

// IsFullySpecified reports whether every child is valid.
func (a *ActivationCondition) IsFullySpecified() bool {
	for _, c := range a.Conditions {
		if !valid(c) {
			return false
		}
	}
	return true
}

func (a *ActivationCondition) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: elemActivationCondition}
	start.Attr = nil
	return e.EncodeElement(a.Encode(), start)
}

func (a *ActivationCondition) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var n profxml.Node
	if err := d.DecodeElement(&n, &start); err != nil {
		return err
	}
	decoded, err := Decode(&n)
	if err != nil {
		return err
	}
	*a = *decoded
	return nil
}
