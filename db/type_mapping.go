package db

import (
	"fmt"
	"math/big"
	"reflect"
	"time"

	"github.com/gocql/gocql"
	"gopkg.in/inf.v0"
)

var typeForCqlType = map[gocql.Type]reflect.Type{
	gocql.TypeFloat:     reflect.TypeOf(float32(0)),
	gocql.TypeDouble:    reflect.TypeOf(float64(0)),
	gocql.TypeInt:       reflect.TypeOf(0),
	gocql.TypeSmallInt:  reflect.TypeOf(int16(0)),
	gocql.TypeTinyInt:   reflect.TypeOf(int8(0)),
	gocql.TypeBigInt:    reflect.TypeOf(int64(0)),
	gocql.TypeCounter:   reflect.TypeOf(int64(0)),
	gocql.TypeDecimal:   reflect.TypeOf(new(inf.Dec)),
	gocql.TypeVarint:    reflect.TypeOf(new(big.Int)),
	gocql.TypeText:      reflect.TypeOf(""),
	gocql.TypeVarchar:   reflect.TypeOf(""),
	gocql.TypeAscii:     reflect.TypeOf(""),
	gocql.TypeBoolean:   reflect.TypeOf(false),
	gocql.TypeInet:      reflect.TypeOf(""),
	gocql.TypeUUID:      reflect.TypeOf(""),
	gocql.TypeTimeUUID:  reflect.TypeOf(""),
	gocql.TypeTimestamp: reflect.TypeOf(time.Time{}),
	gocql.TypeDate:      reflect.TypeOf(time.Time{}),
}

// mapScan scans the current row into a map of column name to value. Null scalars are mapped to nil.
func mapScan(scanner gocql.Scanner, columns []gocql.ColumnInfo) (map[string]interface{}, error) {
	values := make([]interface{}, len(columns))

	for i := range values {
		typeInfo := columns[i].TypeInfo
		allocated := allocateForType(typeInfo)
		if allocated == nil {
			return nil, fmt.Errorf("Support for CQL type not found: %s", typeInfo.Type().String())
		}
		values[i] = allocated
	}

	if err := scanner.Scan(values...); err != nil {
		return nil, err
	}

	mapped := make(map[string]interface{}, len(values))
	for i, column := range columns {
		mapped[column.Name] = unwrap(values[i])
	}

	return mapped, nil
}

// unwrap dereferences the destinations allocated by allocateForType.
func unwrap(allocated interface{}) interface{} {
	value := reflect.ValueOf(allocated).Elem()
	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
		if value.Kind() == reflect.Struct && value.Type() != timeType {
			return value.Addr().Interface()
		}
	}
	return value.Interface()
}

var timeType = reflect.TypeOf(time.Time{})

func allocateForType(info gocql.TypeInfo) interface{} {
	switch info.Type() {
	case gocql.TypeVarchar, gocql.TypeAscii, gocql.TypeInet, gocql.TypeText:
		return new(*string)
	case gocql.TypeBigInt, gocql.TypeCounter:
		return new(*int64)
	case gocql.TypeBoolean:
		return new(*bool)
	case gocql.TypeFloat:
		return new(*float32)
	case gocql.TypeDouble:
		return new(*float64)
	case gocql.TypeInt:
		return new(*int)
	case gocql.TypeSmallInt:
		return new(*int16)
	case gocql.TypeTinyInt:
		return new(*int8)
	case gocql.TypeDecimal:
		return new(*inf.Dec)
	case gocql.TypeVarint:
		return new(*big.Int)
	case gocql.TypeTimestamp, gocql.TypeDate:
		return new(*time.Time)
	case gocql.TypeTimeUUID, gocql.TypeUUID:
		// Mapped to a json string
		return new(*string)
	case gocql.TypeList, gocql.TypeSet:
		subTypeInfo, ok := info.(gocql.CollectionType)
		if !ok {
			return nil
		}

		var subType reflect.Type
		if subType = getSubType(subTypeInfo.Elem); subType == nil {
			return nil
		}

		return reflect.New(reflect.SliceOf(subType)).Interface()
	case gocql.TypeMap:
		subTypeInfo, ok := info.(gocql.CollectionType)
		if !ok {
			return nil
		}

		var keyType reflect.Type
		var valueType reflect.Type
		if keyType = getSubType(subTypeInfo.Key); keyType == nil {
			return nil
		}
		if valueType = getSubType(subTypeInfo.Elem); valueType == nil {
			return nil
		}

		return reflect.New(reflect.MapOf(keyType, valueType)).Interface()
	default:
		return nil
	}
}

func getSubType(info gocql.TypeInfo) reflect.Type {
	t, typeFound := typeForCqlType[info.Type()]

	if !typeFound {
		// Create the subtype by allocating it
		allocated := allocateForType(info)

		if allocated == nil {
			return nil
		}

		t = reflect.ValueOf(allocated).Elem().Type()
	}

	return t
}
