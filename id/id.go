package id

import (
	"bytes"

	"github.com/rs/xid"
)

func Generate() string {
	return xid.New().String()
}

func Valid(s string) bool {
	id, err := xid.FromString(s)
	if err != nil {
		return false
	}
	return !id.IsNil() && !id.IsZero()
}

// Compare orders ids by creation using their binary form.
// Unparseable ids sort before any valid one.
func Compare(a, b string) int {
	ida, errA := xid.FromString(a)
	idb, errB := xid.FromString(b)
	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	return bytes.Compare(ida.Bytes(), idb.Bytes())
}
