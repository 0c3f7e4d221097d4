package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(300000), VND)
		require.NoError(t, err)
		assert.Equal(t, VND, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(300000)))
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		assert.Error(t, err)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyVND(decimal.NewFromInt(300000))
	b := NewMoneyVND(decimal.NewFromInt(100000))

	t.Run("add", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromInt(400000)))
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.True(t, diff.Amount().Equal(decimal.NewFromInt(200000)))
	})

	t.Run("subtract can go negative", func(t *testing.T) {
		diff, err := b.Subtract(a)
		require.NoError(t, err)
		assert.True(t, diff.IsNegative())
	})

	t.Run("currency mismatch", func(t *testing.T) {
		usd, _ := NewMoney(decimal.NewFromInt(10), USD)
		_, err := a.Add(usd)
		assert.Error(t, err)
	})
}

func TestMoney_Comparisons(t *testing.T) {
	a := NewMoneyVND(decimal.NewFromInt(200000))
	b := NewMoneyVND(decimal.NewFromInt(300000))

	lte, err := a.LessThanOrEqual(b)
	require.NoError(t, err)
	assert.True(t, lte)

	lte, err = b.LessThanOrEqual(a)
	require.NoError(t, err)
	assert.False(t, lte)

	_, err = a.LessThanOrEqual(Zero(USD))
	assert.Error(t, err)

	assert.True(t, a.Equals(NewMoneyVND(decimal.NewFromInt(200000))))
}

func TestMoney_JSON(t *testing.T) {
	m := NewMoneyVND(decimal.NewFromInt(150000))

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.True(t, m.Equals(decoded))
}

func TestMoney_Scan(t *testing.T) {
	t.Run("scans string value with default currency", func(t *testing.T) {
		var m Money
		err := m.Scan("250000")
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(250000)))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("nil scans to zero", func(t *testing.T) {
		var m Money
		err := m.Scan(nil)
		require.NoError(t, err)
		assert.True(t, m.IsZero())
	})
}
