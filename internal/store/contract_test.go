package store_test

import (
	"testing"

	"github.com/roach88/swiss/internal/engine"
	"github.com/roach88/swiss/internal/store"
	"github.com/roach88/swiss/internal/testutil"
)

var _ engine.Store = (*store.Store)(nil)

func TestStoreContract(t *testing.T) {
	testutil.RunStoreContract(t, func(t *testing.T) engine.Store {
		return testutil.NewSQLiteStore(t)
	})
}
