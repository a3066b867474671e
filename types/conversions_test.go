package types

import (
	"math/big"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"gopkg.in/inf.v0"
)

func nativeType(typ gocql.Type) gocql.TypeInfo {
	return gocql.NewNativeType(0, typ, "")
}

func TestFromString(t *testing.T) {
	dec := new(inf.Dec)
	dec.SetString("3.14")
	uuid, _ := gocql.ParseUUID("8be6d514-3436-4e04-a5fc-0ffbefa4c1fe")

	tests := []struct {
		name     string
		typeInfo gocql.TypeInfo
		value    interface{}
		want     interface{}
		wantErr  bool
	}{
		{"Text Type", nativeType(gocql.TypeText), "foo", "foo", false},
		{"Int Type as string number", nativeType(gocql.TypeInt), "123", 123, false},
		{"Int Type as text", nativeType(gocql.TypeInt), "abc", nil, true},
		{"SmallInt Type", nativeType(gocql.TypeSmallInt), "7", int16(7), false},
		{"TinyInt Type overflow", nativeType(gocql.TypeTinyInt), "300", nil, true},
		{"BigInt Type", nativeType(gocql.TypeBigInt), "9000000000", int64(9000000000), false},
		{"Double Type", nativeType(gocql.TypeDouble), "2.25", 2.25, false},
		{"Float Type", nativeType(gocql.TypeFloat), "2.5", float32(2.5), false},
		{"Decimal Type", nativeType(gocql.TypeDecimal), "3.14", dec, false},
		{"Decimal Type as text", nativeType(gocql.TypeDecimal), "foo", nil, true},
		{"Varint Type", nativeType(gocql.TypeVarint), "123", big.NewInt(123), false},
		{"Boolean Type", nativeType(gocql.TypeBoolean), true, true, false},
		{"Boolean value for text", nativeType(gocql.TypeText), true, "true", false},
		{"Boolean value for int", nativeType(gocql.TypeInt), false, nil, true},
		{"UUID Type", nativeType(gocql.TypeUUID), "8be6d514-3436-4e04-a5fc-0ffbefa4c1fe", uuid, false},
		{"UUID Type invalid", nativeType(gocql.TypeUUID), "not-a-uuid", nil, true},
		{"Timestamp date only", nativeType(gocql.TypeTimestamp), "2012-12-01",
			time.Date(2012, 12, 1, 0, 0, 0, 0, time.UTC), false},
		{"Timestamp invalid", nativeType(gocql.TypeTimestamp), "yesterday", nil, true},
		{"Time Type", nativeType(gocql.TypeTime), "01:02:03.5", time.Hour + 2*time.Minute + 3*time.Second + 500*time.Millisecond, false},
		{"Nil value", nativeType(gocql.TypeInt), nil, nil, false},
		{"Int slice", nativeType(gocql.TypeInt), []string{"1", "2"}, []interface{}{1, 2}, false},
		{"Int slice with text", nativeType(gocql.TypeInt), []string{"1", "b"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromString(tt.value, tt.typeInfo)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringToTime(t *testing.T) {
	got, err := StringToTime("2012-12-01T10:30:00Z")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2012, 12, 1, 10, 30, 0, 0, time.UTC), got)

	_, err = StringToTime("12/01/2012")
	assert.Error(t, err)
}
