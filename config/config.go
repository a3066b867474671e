package config

import (
	"github.com/datastax/data-api-filters/log"
)

type Config interface {
	Naming() NamingConvention
	LookupSeparator() string
	Operations() Operations
	Logger() log.Logger
}
