package httpapi

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/crudkit/pkg/types"
)

// Ops selects which operation groups a resource exposes.
type Ops uint8

// Operation groups, named by the letters of "crud".
const (
	OpCreate Ops = 1 << iota
	OpRead
	OpUpdate
	OpDelete

	OpsAll = OpCreate | OpRead | OpUpdate | OpDelete
)

var opLetters = []struct {
	letter byte
	op     Ops
}{
	{'c', OpCreate},
	{'r', OpRead},
	{'u', OpUpdate},
	{'d', OpDelete},
}

// Has reports whether every group in op is selected.
func (o Ops) Has(op Ops) bool { return o&op == op }

// String returns the selected groups as letters, e.g. "cr".
func (o Ops) String() string {
	var b strings.Builder
	for _, l := range opLetters {
		if o.Has(l.op) {
			b.WriteByte(l.letter)
		}
	}
	return b.String()
}

// ParseOps parses a letter set such as "crud" or "cr". Letters may appear
// in any order and case.
func ParseOps(s string) (Ops, error) {
	var ops Ops
	for _, r := range strings.ToLower(s) {
		found := false
		for _, l := range opLetters {
			if byte(r) == l.letter {
				ops |= l.op
				found = true
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: unknown operation %q in %q", types.ErrInvalidArgument, r, s)
		}
	}
	if ops == 0 {
		return 0, fmt.Errorf("%w: no operations selected", types.ErrInvalidArgument)
	}
	return ops, nil
}
