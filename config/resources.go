package config

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/mitchellh/mapstructure"

	"github.com/datastax/data-api-filters/filters"
	"github.com/datastax/data-api-filters/log"
	"github.com/datastax/data-api-filters/methods"
	"github.com/datastax/data-api-filters/sqlstore"
)

// MethodConfig declares a queryset method built from filter expressions over storage fields.
type MethodConfig struct {
	Params  []string               `mapstructure:"params"`
	Fixed   map[string]interface{} `mapstructure:"fixed"`
	Exclude bool                   `mapstructure:"exclude"`
}

// AdapterConfig binds a query parameter to a method. Method dispatches the comma separated value as
// positional arguments, TrueMethod and FalseMethod switch on a boolean value.
type AdapterConfig struct {
	Param       string `mapstructure:"param" validate:"required"`
	Method      string `mapstructure:"method" validate:"required_without_all=TrueMethod FalseMethod"`
	TrueMethod  string `mapstructure:"true_method" validate:"required_with=FalseMethod"`
	FalseMethod string `mapstructure:"false_method" validate:"required_with=TrueMethod"`
}

type ResourceConfig struct {
	Name      string                  `mapstructure:"name" validate:"required"`
	Table     string                  `mapstructure:"table"`
	Fields    []string                `mapstructure:"fields" validate:"required,min=1"`
	Sources   map[string]string       `mapstructure:"sources"`
	Filters   filters.Whitelist       `mapstructure:"filters"`
	Methods   map[string]MethodConfig `mapstructure:"methods"`
	FilterSet []AdapterConfig         `mapstructure:"filter_set" validate:"dive"`
	Limit     int                     `mapstructure:"limit" validate:"min=0"`
}

// Resource is a resource ready to serve: its filtering contract and its method filter set.
type Resource struct {
	Name      string
	Table     string
	Filter    filters.Resource
	FilterSet *methods.FilterSet
	Limit     int
}

var policyType = reflect.TypeOf(filters.Policy{})

func policyHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != policyType || from == policyType {
		return data, nil
	}
	return filters.ParsePolicy(data)
}

func decode(input interface{}, output interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       policyHook,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// DecodeResources reads resource definitions from a configuration value, usually viper.Get("resources").
func DecodeResources(input interface{}) ([]ResourceConfig, error) {
	var resources []ResourceConfig
	if err := decode(input, &resources); err != nil {
		return nil, fmt.Errorf("unable to decode resources: %w", err)
	}
	return resources, nil
}

// DecodeTables reads the table definitions of the postgres backend.
func DecodeTables(input interface{}) (sqlstore.Schema, error) {
	var tables []sqlstore.Table
	if err := decode(input, &tables); err != nil {
		return nil, fmt.Errorf("unable to decode tables: %w", err)
	}
	for _, table := range tables {
		if err := validateStruct(table); err != nil {
			return nil, fmt.Errorf("invalid table %s: %w", table.Name, err)
		}
	}
	schema := sqlstore.NewSchema(tables...)
	return schema, schema.Validate()
}

func (c ResourceConfig) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	resource := filters.Resource{Fields: c.Fields}
	for field := range c.Filters {
		if !resource.HasField(field) {
			return fmt.Errorf("filter on unknown field %s", field)
		}
	}
	for field := range c.Sources {
		if !resource.HasField(field) {
			return fmt.Errorf("source of unknown field %s", field)
		}
	}
	params := make(map[string]bool, len(c.FilterSet))
	for _, adapter := range c.FilterSet {
		if adapter.Method != "" && (adapter.TrueMethod != "" || adapter.FalseMethod != "") {
			return fmt.Errorf("adapter %s declares both a method and boolean methods", adapter.Param)
		}
		if params[adapter.Param] {
			return fmt.Errorf("adapter %s declared twice", adapter.Param)
		}
		params[adapter.Param] = true
	}
	return nil
}

// ValidateResources validates every resource and the uniqueness of their names.
func ValidateResources(resources []ResourceConfig) error {
	names := make(map[string]bool, len(resources))
	for _, resource := range resources {
		if err := resource.Validate(); err != nil {
			return fmt.Errorf("invalid resource %s: %w", resource.Name, err)
		}
		if names[resource.Name] {
			return fmt.Errorf("resource %s declared twice", resource.Name)
		}
		names[resource.Name] = true
	}
	return nil
}

// Build resolves storage names with the naming convention and compiles the declared methods.
func (c ResourceConfig) Build(naming NamingConvention, separator string, logger log.Logger) (*Resource, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	sources := make(map[string]string, len(c.Fields))
	for _, field := range c.Fields {
		source, ok := c.Sources[field]
		if !ok || source == "" {
			source = naming.ToStorageField(field)
		}
		if source != field {
			sources[field] = source
		}
	}

	table := c.Table
	if table == "" {
		table = naming.ToStorageField(c.Name)
	}

	registry, err := c.registry(separator)
	if err != nil {
		return nil, err
	}

	filterSet := methods.NewFilterSet(logger)
	for _, adapterConfig := range c.FilterSet {
		var adapter methods.Adapter
		if adapterConfig.Method != "" {
			adapter, err = methods.NewDispatch(registry, adapterConfig.Method)
		} else {
			adapter, err = methods.NewBoolean(registry, adapterConfig.TrueMethod, adapterConfig.FalseMethod)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid adapter %s: %w", adapterConfig.Param, err)
		}
		if err = filterSet.Add(adapterConfig.Param, adapter); err != nil {
			return nil, err
		}
	}

	return &Resource{
		Name:  c.Name,
		Table: table,
		Filter: filters.Resource{
			Fields:  append([]string(nil), c.Fields...),
			Sources: sources,
			Filters: c.Filters,
		},
		FilterSet: filterSet,
		Limit:     c.Limit,
	}, nil
}

func (c ResourceConfig) registry(separator string) (*methods.Registry, error) {
	names := make([]string, 0, len(c.Methods))
	for name := range c.Methods {
		names = append(names, name)
	}
	sort.Strings(names)

	registry := methods.NewRegistry()
	for _, name := range names {
		methodConfig := c.Methods[name]
		method, err := methods.Template{
			Params:    methodConfig.Params,
			Fixed:     methodConfig.Fixed,
			Exclude:   methodConfig.Exclude,
			Separator: separator,
		}.Method()
		if err != nil {
			return nil, fmt.Errorf("invalid method %s: %w", name, err)
		}
		if err = registry.Register(name, method); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
