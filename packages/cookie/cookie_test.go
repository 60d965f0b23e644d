package cookie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNames []string
		wantVals  map[string]string
	}{
		{
			name:      "single pair",
			input:     "session=abc",
			wantNames: []string{"session"},
			wantVals:  map[string]string{"session": "abc"},
		},
		{
			name:      "multiple pairs with whitespace",
			input:     "  a = 1 ;b=2;   c=3  ",
			wantNames: []string{"a", "b", "c"},
			wantVals:  map[string]string{"a": "1", "b": "2", "c": "3"},
		},
		{
			name:      "value containing equals",
			input:     "token=abc==; next=x=y",
			wantNames: []string{"token", "next"},
			wantVals:  map[string]string{"token": "abc==", "next": "x=y"},
		},
		{
			name:      "segment without equals",
			input:     "flag; a=1",
			wantNames: []string{"flag", "a"},
			wantVals:  map[string]string{"flag": "", "a": "1"},
		},
		{
			name:      "empty segments skipped",
			input:     ";; a=1;;",
			wantNames: []string{"a"},
			wantVals:  map[string]string{"a": "1"},
		},
		{
			name:      "repeated name keeps first position",
			input:     "a=1; b=2; a=3",
			wantNames: []string{"a", "b"},
			wantVals:  map[string]string{"a": "3", "b": "2"},
		},
		{
			name:      "empty input",
			input:     "",
			wantNames: []string{},
			wantVals:  map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Parse(tt.input)
			assert.Equal(t, tt.wantNames, c.Names())
			for k, v := range tt.wantVals {
				assert.True(t, c.Has(k), "missing %s", k)
				assert.Equal(t, v, c.Get(k))
			}
		})
	}
}

func TestString(t *testing.T) {
	c := New().Set("b", "2").Set("a", "1").Set("c", "3")
	assert.Equal(t, "b=2; a=1; c=3", c.String())
	assert.Equal(t, "", New().String())
}

func TestRoundTrip(t *testing.T) {
	inputs := [][][2]string{
		{{"z", "26"}, {"a", "1"}, {"m", "13"}},
		{{"session", "f00d"}, {"theme", "dark mode"}},
		{{"only", ""}},
	}

	for _, pairs := range inputs {
		c := New()
		for _, p := range pairs {
			c.Set(p[0], p[1])
		}

		parsed := Parse(c.String())
		require.Equal(t, c.Len(), parsed.Len())
		for i, name := range parsed.Names() {
			assert.Equal(t, pairs[i][0], name)
			assert.Equal(t, pairs[i][1], parsed.Get(name))
		}
		assert.Equal(t, c.String(), parsed.String())
	}
}

func TestSetRemoveChaining(t *testing.T) {
	c := New().Set("a", "1").Set("b", "2").Set("a", "9").Remove("b").Set("c", "3")

	assert.Equal(t, []string{"a", "c"}, c.Names())
	assert.Equal(t, "9", c.Get("a"))
	assert.False(t, c.Has("b"))
	assert.Equal(t, "", c.Get("b"))

	// removing an absent name is a no-op
	assert.Equal(t, 2, c.Remove("missing").Len())
}

func TestMerge(t *testing.T) {
	base := Parse("a=1; b=2")
	base.Merge(Parse("b=20; c=30")).Merge(nil)

	assert.Equal(t, "a=1; b=20; c=30", base.String())
}
