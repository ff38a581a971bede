package frames

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEmptyBlob(t *testing.T) {
	for _, blob := range [][]byte{nil, {}} {
		p, err := Decode(blob)
		require.NoError(t, err)
		assert.Empty(t, p)
	}
}

func TestDecodeBasic(t *testing.T) {
	p, err := Decode([]byte(`[[[10,0],[20,1]],[[5,0],[7,0],[9,0]]]`))
	require.NoError(t, err)

	require.Len(t, p, 2)
	assert.Equal(t, Set{{Frame: 10}, {Frame: 20, Flipped: true}}, p[0])
	assert.Equal(t, Set{{Frame: 5}, {Frame: 7}, {Frame: 9}}, p[1])
}

func TestDecodeCoercesFlags(t *testing.T) {
	tests := []struct {
		name string
		blob string
		want bool
	}{
		{"zero", `[[[1,0],[2,0]]]`, false},
		{"one", `[[[1,1],[2,0]]]`, true},
		{"two", `[[[1,2],[2,0]]]`, true},
		{"bool_true", `[[[1,true],[2,0]]]`, true},
		{"bool_false", `[[[1,false],[2,0]]]`, false},
		{"null", `[[[1,null],[2,0]]]`, false},
		{"empty_string", `[[[1,""],[2,0]]]`, false},
		{"string", `[[[1,"x"],[2,0]]]`, true},
		{"float_zero", `[[[1,0.0],[2,0]]]`, false},
		{"float", `[[[1,0.5],[2,0]]]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode([]byte(tt.blob))
			require.NoError(t, err)
			require.Len(t, p, 1)
			assert.Equal(t, tt.want, p[0][0].Flipped)
		})
	}
}

func TestDecodeIntegralFloatFrame(t *testing.T) {
	p, err := Decode([]byte(`[[[10.0,0],[20.0,1]]]`))
	require.NoError(t, err)
	assert.Equal(t, Set{{Frame: 10}, {Frame: 20, Flipped: true}}, p[0])
}

func TestDecodeStructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"not_json", `{{`},
		{"wrong_shape", `{"a":1}`},
		{"short_pair", `[[[10]]]`},
		{"frame_not_number", `[[["x",0],[2,0]]]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.blob))
			assert.Error(t, err)
		})
	}
}

func TestEncodeSkipsDegenerateSets(t *testing.T) {
	p := Partition{
		NewSet(Member{Frame: 10}),
		NewSet(Member{Frame: 20}, Member{Frame: 30, Flipped: true}),
		{},
	}

	blob, ok := Encode(p)

	require.True(t, ok)
	assert.Equal(t, `[[[20,0],[30,1]]]`, string(blob))
}

func TestEncodeNothingWorthKeeping(t *testing.T) {
	tests := []struct {
		name string
		p    Partition
	}{
		{"nil", nil},
		{"empty", Partition{}},
		{"singletons", Partition{NewSet(Member{Frame: 1}), NewSet(Member{Frame: 2})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, ok := Encode(tt.p)
			assert.False(t, ok)
			assert.Nil(t, blob)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	p := Partition{
		NewSet(Member{Frame: 10}, Member{Frame: 20, Flipped: true}, Member{Frame: 30}),
		NewSet(Member{Frame: -5, Flipped: true}, Member{Frame: 0}),
	}

	blob, ok := Encode(p)
	require.True(t, ok)

	got, err := Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}
