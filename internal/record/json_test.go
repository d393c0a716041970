package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	r, err := DecodeJSON([]byte(`{"signature":"s1","slot":42,"err":null,"memo":"hi","block_time":1700000000,"confirmation_status":"finalized"}`))
	require.NoError(t, err)

	want := Record{
		Signature:          "s1",
		Slot:               Int(42),
		Memo:               String("hi"),
		BlockTime:          Int(1700000000),
		ConfirmationStatus: String("finalized"),
	}
	assert.True(t, Equal(want, r))
}

func TestDecodeJSONNullAndMissingAreAbsent(t *testing.T) {
	withNull, err := DecodeJSON([]byte(`{"signature":"s","slot":null}`))
	require.NoError(t, err)
	missing, err := DecodeJSON([]byte(`{"signature":"s"}`))
	require.NoError(t, err)

	assert.True(t, Equal(withNull, missing))
}

func TestDecodeJSONIgnoresUnknownFields(t *testing.T) {
	r, err := DecodeJSON([]byte(`{"_id":"65f0","signature":"s","extra":[1,2]}`))
	require.NoError(t, err)
	assert.Equal(t, "s", r.Signature)
}

func TestDecodeJSONLargeInteger(t *testing.T) {
	r, err := DecodeJSON([]byte(`{"signature":"s","slot":9007199254740993}`))
	require.NoError(t, err)
	require.NotNil(t, r.Slot)
	assert.Equal(t, int64(9007199254740993), *r.Slot, "no float64 precision loss")
}

func TestDecodeJSONMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing signature", `{"slot":1}`},
		{"null signature", `{"signature":null}`},
		{"numeric signature", `{"signature":5}`},
		{"string slot", `{"signature":"s","slot":"12"}`},
		{"fractional block_time", `{"signature":"s","block_time":1.5}`},
		{"numeric status", `{"signature":"s","confirmation_status":1}`},
		{"not an object", `["s"]`},
		{"truncated", `{"signature":"s"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestEncodeJSONWritesNulls(t *testing.T) {
	data, err := EncodeJSON(Record{Signature: "s", Slot: Int(1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"signature":"s","slot":1,"err":null,"memo":null,"block_time":null,"confirmation_status":null}`, string(data))
}

func TestEncodeDecodePreservesEquality(t *testing.T) {
	original := Record{Signature: "s", Err: String(""), BlockTime: Int(0)}

	data, err := EncodeJSON(original)
	require.NoError(t, err)
	decoded, err := DecodeJSON(data)
	require.NoError(t, err)

	assert.True(t, Equal(original, decoded))
}
