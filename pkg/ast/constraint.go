package ast

import "fmt"

type ConstraintKind int

const (
	// ConstraintDefault passes the argument by value.
	ConstraintDefault ConstraintKind = iota
	// ConstraintArg ties the argument's lifetime to another argument's storage.
	ConstraintArg
	// ConstraintReturn ties the produced value's lifetime to this argument.
	ConstraintReturn
)

// ArgConstraint is the passing mode declared for one argument, in source-argument order.
type ArgConstraint struct {
	Kind  ConstraintKind
	Index int // target argument for ConstraintArg
}

var (
	Default  = ArgConstraint{Kind: ConstraintDefault}
	Returned = ArgConstraint{Kind: ConstraintReturn}
)

// Arg returns the constraint binding an argument to argument i.
func Arg(i int) ArgConstraint {
	return ArgConstraint{Kind: ConstraintArg, Index: i}
}

func (c ArgConstraint) String() string {
	switch c.Kind {
	case ConstraintArg:
		return fmt.Sprintf("Arg(%d)", c.Index)
	case ConstraintReturn:
		return "Return"
	default:
		return "Default"
	}
}
