package object

// NilType represents the absence of a value, i.e. Python's None.
type NilType struct{}

func (n *NilType) Inspect() string {
	return "None"
}

func (n *NilType) Type() Type {
	return NIL
}

func (n *NilType) Interface() interface{} {
	return nil
}

func (n *NilType) String() string {
	return "None"
}

func (n *NilType) IsTruthy() bool {
	return false
}

func (n *NilType) Equals(other Object) bool {
	_, ok := other.(*NilType)
	return ok
}
