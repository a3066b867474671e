package config

import (
	"fmt"

	"github.com/iancoleman/strcase"
)

// NamingConvention derives storage names from resource field names and back, for fields that
// declare no explicit source.
type NamingConvention interface {
	ToStorageField(name string) string
	ToResourceField(name string) string
}

const (
	DefaultNamingName  = "default"
	IdentityNamingName = "identity"
)

type defaultNaming struct {
}

func NewDefaultNaming() NamingConvention {
	return &defaultNaming{}
}

// ToStorageField maps "isModerated" to "is_moderated"
func (n *defaultNaming) ToStorageField(name string) string {
	return strcase.ToSnake(name)
}

func (n *defaultNaming) ToResourceField(name string) string {
	return strcase.ToLowerCamel(name)
}

type identityNaming struct {
}

func NewIdentityNaming() NamingConvention {
	return &identityNaming{}
}

func (n *identityNaming) ToStorageField(name string) string {
	return name
}

func (n *identityNaming) ToResourceField(name string) string {
	return name
}

// NamingByName returns the naming convention registered under name.
func NamingByName(name string) (NamingConvention, error) {
	switch name {
	case DefaultNamingName, "":
		return NewDefaultNaming(), nil
	case IdentityNamingName:
		return NewIdentityNaming(), nil
	}
	return nil, fmt.Errorf("unknown naming convention: %s", name)
}
