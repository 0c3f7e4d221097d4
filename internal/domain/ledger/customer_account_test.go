package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestAccount(t *testing.T) *CustomerAccount {
	account, err := NewCustomerAccount(uuid.New(), "Chi Lan", "0901234567")
	require.NoError(t, err)
	return account
}

func TestNewCustomerAccount(t *testing.T) {
	t.Run("starts with zero debt", func(t *testing.T) {
		account := createTestAccount(t)
		assert.True(t, account.DebtBalance.IsZero())
		assert.False(t, account.HasDebt())
		assert.True(t, account.IsActive)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewCustomerAccount(uuid.New(), "", "")
		require.Error(t, err)
	})
}

func TestCustomerAccount_IncreaseDebt(t *testing.T) {
	t.Run("raises balance and records transaction", func(t *testing.T) {
		account := createTestAccount(t)
		orderID := uuid.New()

		tx, err := account.IncreaseDebt(decimal.NewFromInt(200000), orderID, "ORD-001", "unpaid order")
		require.NoError(t, err)

		assert.True(t, account.DebtBalance.Equal(decimal.NewFromInt(200000)))
		assert.Equal(t, DebtTransactionTypeDebt, tx.TransactionType)
		assert.True(t, tx.BalanceBefore.IsZero())
		assert.True(t, tx.BalanceAfter.Equal(decimal.NewFromInt(200000)))
		require.NotNil(t, tx.OrderID)
		assert.Equal(t, orderID, *tx.OrderID)
		assert.Equal(t, account.ID, tx.CustomerID)
		assert.Equal(t, account.ShopID, tx.ShopID)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		account := createTestAccount(t)
		_, err := account.IncreaseDebt(decimal.Zero, uuid.New(), "", "")
		require.Error(t, err)
		assert.True(t, account.DebtBalance.IsZero())
	})

	t.Run("balance equals transaction sum after several increases", func(t *testing.T) {
		account := createTestAccount(t)
		sum := decimal.Zero
		for _, amount := range []int64{100000, 50000, 75000} {
			tx, err := account.IncreaseDebt(decimal.NewFromInt(amount), uuid.New(), "", "")
			require.NoError(t, err)
			sum = sum.Add(tx.GetSignedAmount())
		}
		assert.True(t, account.DebtBalance.Equal(sum))
	})
}

func TestCustomerAccount_RecordPayment(t *testing.T) {
	t.Run("lowers balance", func(t *testing.T) {
		account := createTestAccount(t)
		_, err := account.IncreaseDebt(decimal.NewFromInt(200000), uuid.New(), "ORD-001", "")
		require.NoError(t, err)

		tx, err := account.RecordPayment(decimal.NewFromInt(150000), "PAY-001", "partial payment")
		require.NoError(t, err)

		assert.True(t, account.DebtBalance.Equal(decimal.NewFromInt(50000)))
		assert.True(t, tx.GetSignedAmount().Equal(decimal.NewFromInt(-150000)))
	})

	t.Run("rejects payment exceeding debt", func(t *testing.T) {
		account := createTestAccount(t)
		_, err := account.IncreaseDebt(decimal.NewFromInt(100000), uuid.New(), "", "")
		require.NoError(t, err)

		_, err = account.RecordPayment(decimal.NewFromInt(150000), "", "")
		require.Error(t, err)
		assert.True(t, account.DebtBalance.Equal(decimal.NewFromInt(100000)))
	})
}

func TestNewDebtTransaction(t *testing.T) {
	shopID := uuid.New()
	customerID := uuid.New()

	t.Run("rejects negative balances", func(t *testing.T) {
		_, err := NewDebtTransaction(shopID, customerID, DebtTransactionTypeDebt,
			decimal.NewFromInt(100), decimal.NewFromInt(-1), decimal.NewFromInt(99))
		require.Error(t, err)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewDebtTransaction(shopID, customerID, DebtTransactionType("BOGUS"),
			decimal.NewFromInt(100), decimal.Zero, decimal.NewFromInt(100))
		require.Error(t, err)
	})

	t.Run("balance change matches signed amount", func(t *testing.T) {
		tx, err := NewDebtTransaction(shopID, customerID, DebtTransactionTypeDebt,
			decimal.NewFromInt(100), decimal.Zero, decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.True(t, tx.BalanceChange().Equal(tx.GetSignedAmount()))
	})
}
