package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntity_MarkPersisted(t *testing.T) {
	p := newTestProduct(t)
	assert.Equal(t, int64(0), p.ID())

	p.MarkPersisted(15)
	assert.Equal(t, int64(15), p.ID())
}

func TestEntity_MarkDeleted(t *testing.T) {
	p := newTestProduct(t)
	assert.False(t, p.IsDeleted())

	p.MarkDeleted()
	assert.True(t, p.IsDeleted())
	assert.NotNil(t, p.UpdatedAt())
}

func TestSame_MatchingTypeAndID(t *testing.T) {
	a := newTestProduct(t)
	b, err := NewProduct("Other", "OT-1", decimal.NewFromInt(5), 2, "")
	require.NoError(t, err)

	a.MarkPersisted(1)
	b.MarkPersisted(1)
	assert.True(t, Same(a, b))

	b.MarkPersisted(2)
	assert.False(t, Same(a, b))
}

func TestSame_UnsavedNeverEqual(t *testing.T) {
	a := newTestProduct(t)
	b := newTestProduct(t)
	assert.False(t, Same(a, b))
	assert.False(t, Same(a, a), "an unsaved aggregate is not even the same as itself")
}

func TestSame_DifferentTypes(t *testing.T) {
	p := newTestProduct(t)
	c := newTestCategory(t)
	p.MarkPersisted(1)
	c.MarkPersisted(1)
	assert.False(t, Same(p, c))
}

func TestSame_Nil(t *testing.T) {
	p := newTestProduct(t)
	assert.False(t, Same(nil, p))
	assert.False(t, Same(p, nil))
	assert.False(t, Same(nil, nil))
}
