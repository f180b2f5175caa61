package object

import (
	"github.com/adder-lang/adder/errz"
)

func typeErrSubscript(container Type, key Object) error {
	return errz.TypeErrorf("%s indices must be integers, not %s", container, key.Type())
}

func typeErrMapKey(key Object) error {
	return errz.TypeErrorf("dict keys must be str, not %s", key.Type())
}

func keyErrMissing(key string) error {
	return errz.IndexErrorf("key %s not found", NewString(key).Inspect())
}

func indexErrOutOfRange(container Type) error {
	return errz.IndexErrorf("%s index out of range", container)
}

func indexErrPopEmpty() error {
	return errz.IndexErrorf("pop from empty list")
}
