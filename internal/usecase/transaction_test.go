package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionRollsBackCompletedOperations(t *testing.T) {
	var calls []string
	txn := NewTransaction(nil)
	txn.AddOperation("first", func(context.Context) error { calls = append(calls, "first"); return nil })
	txn.AddCompensation("undo_first", func(context.Context) error { calls = append(calls, "undo_first"); return nil })
	txn.AddOperation("second", func(context.Context) error { calls = append(calls, "second"); return nil })
	txn.AddOperation("third", func(context.Context) error { return errors.New("boom") })

	err := txn.Execute(context.Background())

	assert.ErrorContains(t, err, "operation 'third' failed")
	assert.Equal(t, []string{"first", "second", "undo_first"}, calls)
}

func TestTransactionSuccessSkipsCompensations(t *testing.T) {
	compensated := false
	txn := NewTransaction(nil)
	txn.AddOperation("only", func(context.Context) error { return nil })
	txn.AddCompensation("undo", func(context.Context) error { compensated = true; return nil })

	assert.NoError(t, txn.Execute(context.Background()))
	assert.False(t, compensated)
}
