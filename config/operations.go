package config

import (
	"fmt"
	"strings"
)

// Operations is the set of REST operations a server exposes.
type Operations int

const (
	ResourcesList Operations = 1 << iota
	RowsList
	StatsRead
)

const AllOperations = ResourcesList | RowsList | StatsRead

var operationNames = []struct {
	name string
	op   Operations
}{
	{"ResourcesList", ResourcesList},
	{"RowsList", RowsList},
	{"StatsRead", StatsRead},
}

func Ops(ops ...string) (Operations, error) {
	var o Operations
	err := o.Add(ops...)
	return o, err
}

func (o *Operations) Set(ops Operations)             { *o |= ops }
func (o *Operations) Clear(ops Operations)           { *o &= ^ops }
func (o Operations) IsSupported(ops Operations) bool { return o&ops != 0 }

// Add enables operations by name, case insensitive.
func (o *Operations) Add(ops ...string) error {
	for _, op := range ops {
		found := false
		for _, known := range operationNames {
			if strings.EqualFold(known.name, op) {
				o.Set(known.op)
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("invalid operation: %s", op)
		}
	}
	return nil
}

func (o Operations) String() string {
	names := make([]string, 0, len(operationNames))
	for _, known := range operationNames {
		if o.IsSupported(known.op) {
			names = append(names, known.name)
		}
	}
	return strings.Join(names, ",")
}
