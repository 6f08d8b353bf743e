package expand

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExpander struct {
	variants []Variant
	err      error
}

func (f *fakeExpander) Expand(context.Context, string) ([]Variant, error) {
	return f.variants, f.err
}

func TestCompositeExpander_MergesAndDedupes(t *testing.T) {
	a := &fakeExpander{variants: []Variant{{Text: "foo bar", Source: StrategySynonym, Weight: 0.5}}}
	b := &fakeExpander{variants: []Variant{{Text: "foo bar", Source: StrategyContextual, Weight: 0.9}}}

	c := NewCompositeExpander(a, b)
	out, err := c.Expand(context.Background(), "foo baz")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, StrategyContextual, out[0].Source)
}

func TestCompositeExpander_OneExpanderFailingDoesNotAbortOthers(t *testing.T) {
	failing := &fakeExpander{err: errors.New("boom")}
	ok := &fakeExpander{variants: []Variant{{Text: "alt query", Weight: 0.5}}}

	c := NewCompositeExpander(failing, ok)
	out, err := c.Expand(context.Background(), "query")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "alt query", out[0].Text)
}

func TestCompositeExpander_TruncatesToMaxVariants(t *testing.T) {
	var variants []Variant
	for i := 0; i < MaxVariants+5; i++ {
		variants = append(variants, Variant{Text: string(rune('a' + i)), Weight: float64(i)})
	}
	c := NewCompositeExpander(&fakeExpander{variants: variants})
	out, err := c.Expand(context.Background(), "q")
	require.NoError(t, err)
	assert.Len(t, out, MaxVariants)
}

func TestCompositeExpander_NoExpandersReturnsNil(t *testing.T) {
	c := NewCompositeExpander()
	out, err := c.Expand(context.Background(), "q")
	require.NoError(t, err)
	assert.Nil(t, out)
}
