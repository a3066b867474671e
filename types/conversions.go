package types

import (
	"encoding"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/gocql/gocql"
	"gopkg.in/inf.v0"
)

type fromStringFn func(value string) (interface{}, error)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FromString converts a compiled filter value to the Go value gocql binds for a column of type typeInfo.
// Strings are parsed, string slices (in/range values) are converted element by element.
func FromString(value interface{}, typeInfo gocql.TypeInfo) (interface{}, error) {
	switch value := value.(type) {
	case nil:
		return nil, nil
	case string:
		return converterPerType(typeInfo)(value)
	case []string:
		converter := converterPerType(typeInfo)
		result := make([]interface{}, len(value))
		for i, item := range value {
			converted, err := converter(item)
			if err != nil {
				return nil, err
			}
			result[i] = converted
		}
		return result, nil
	case bool:
		switch typeInfo.Type() {
		case gocql.TypeBoolean:
			return value, nil
		case gocql.TypeText, gocql.TypeVarchar, gocql.TypeAscii:
			return strconv.FormatBool(value), nil
		}
		return nil, fmt.Errorf("boolean value for %s column", typeInfo.Type().String())
	}
	return value, nil
}

func converterPerType(typeInfo gocql.TypeInfo) fromStringFn {
	switch typeInfo.Type() {
	case gocql.TypeTimestamp, gocql.TypeDate:
		return func(value string) (interface{}, error) { return StringToTime(value) }
	case gocql.TypeDecimal:
		return StringToDecimal
	case gocql.TypeVarint:
		return StringToBigInt
	case gocql.TypeInt:
		return intParser(32, func(i int64) interface{} { return int(i) })
	case gocql.TypeSmallInt:
		return intParser(16, func(i int64) interface{} { return int16(i) })
	case gocql.TypeTinyInt:
		return intParser(8, func(i int64) interface{} { return int8(i) })
	case gocql.TypeBigInt, gocql.TypeCounter:
		return intParser(64, func(i int64) interface{} { return i })
	case gocql.TypeFloat:
		return func(value string) (interface{}, error) {
			f, err := strconv.ParseFloat(value, 32)
			return float32(f), err
		}
	case gocql.TypeDouble:
		return func(value string) (interface{}, error) { return strconv.ParseFloat(value, 64) }
	case gocql.TypeBoolean:
		return func(value string) (interface{}, error) { return strconv.ParseBool(value) }
	case gocql.TypeBlob:
		return Base64StringToByteArray
	case gocql.TypeUUID, gocql.TypeTimeUUID:
		return func(value string) (interface{}, error) { return gocql.ParseUUID(value) }
	case gocql.TypeTime:
		return CqlFormattedStringToDuration
	case gocql.TypeList, gocql.TypeSet:
		if collection, ok := typeInfo.(gocql.CollectionType); ok && collection.Elem != nil {
			return converterPerType(collection.Elem)
		}
	}

	return identityFn
}

func identityFn(value string) (interface{}, error) {
	return value, nil
}

func intParser(bitSize int, wrap func(int64) interface{}) fromStringFn {
	return func(value string) (interface{}, error) {
		i, err := strconv.ParseInt(value, 10, bitSize)
		if err != nil {
			return nil, err
		}
		return wrap(i), nil
	}
}

// StringToTime parses RFC 3339 timestamps and plain dates.
func StringToTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("time %q has wrong format", value)
}

func CqlFormattedStringToDuration(value string) (interface{}, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return nil, errors.New("time has wrong format")
	}

	secs := parts[2]
	nanos := "0"
	if strings.Contains(parts[2], ".") {
		secParts := strings.Split(parts[2], ".")
		secs = secParts[0]
		nanos = secParts[1]
		// Pad right zeros
		if len(nanos) < 9 {
			nanos = nanos + strings.Repeat("0", 9-len(nanos))
		}
	}

	duration, err := time.ParseDuration(fmt.Sprintf("%sh%sm%ss%sns", parts[0], parts[1], secs, nanos))
	if err != nil {
		return nil, errors.New("time has wrong format")
	}
	return duration, nil
}

func Base64StringToByteArray(value string) (interface{}, error) {
	return base64.StdEncoding.DecodeString(value)
}

func unmarshallerFromText(factory func() encoding.TextUnmarshaler) fromStringFn {
	return func(value string) (interface{}, error) {
		t := factory()
		if err := t.UnmarshalText([]byte(value)); err != nil {
			return nil, err
		}
		return t, nil
	}
}

var StringToDecimal = unmarshallerFromText(func() encoding.TextUnmarshaler {
	return &inf.Dec{}
})

var StringToBigInt = unmarshallerFromText(func() encoding.TextUnmarshaler {
	return &big.Int{}
})
