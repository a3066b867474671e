package config

import (
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/datastax/data-api-filters/log"
	"github.com/datastax/data-api-filters/types"
)

type ConfigMock struct {
	mock.Mock
}

func NewConfigMock() *ConfigMock {
	return &ConfigMock{}
}

func (o *ConfigMock) Default() *ConfigMock {
	o.On("Naming").Return(NewDefaultNaming())
	o.On("LookupSeparator").Return(types.DefaultSeparator)
	o.On("Operations").Return(AllOperations)
	o.On("Logger").Return(log.NewZapLogger(zap.NewExample()))
	return o
}

func (o *ConfigMock) Naming() NamingConvention {
	args := o.Called()
	return args.Get(0).(NamingConvention)
}

func (o *ConfigMock) LookupSeparator() string {
	args := o.Called()
	return args.String(0)
}

func (o *ConfigMock) Operations() Operations {
	args := o.Called()
	return args.Get(0).(Operations)
}

func (o *ConfigMock) Logger() log.Logger {
	args := o.Called()
	return args.Get(0).(log.Logger)
}
