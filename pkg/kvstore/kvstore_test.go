package kvstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var drivers = []string{DriverBadger, DriverLevelDB}

func openTestStore(t *testing.T, driver string) Store {
	t.Helper()
	s, err := OpenMemory(driver)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUpdateCommitsAllWrites(t *testing.T) {
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			s := openTestStore(t, driver)

			err := s.Update(func(tx Txn) error {
				require.NoError(t, tx.Set([]byte("a"), []byte("1")))
				require.NoError(t, tx.Set([]byte("b"), []byte("2")))

				// read-your-writes inside the same transaction
				v, err := tx.Get([]byte("a"))
				require.NoError(t, err)
				assert.Equal(t, []byte("1"), v)
				return nil
			})
			require.NoError(t, err)

			err = s.View(func(tx Txn) error {
				v, err := tx.Get([]byte("b"))
				require.NoError(t, err)
				assert.Equal(t, []byte("2"), v)
				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestUpdateDiscardsOnError(t *testing.T) {
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			s := openTestStore(t, driver)
			boom := errors.New("boom")

			err := s.Update(func(tx Txn) error {
				require.NoError(t, tx.Set([]byte("a"), []byte("1")))
				return boom
			})
			assert.ErrorIs(t, err, boom)

			err = s.View(func(tx Txn) error {
				_, err := tx.Get([]byte("a"))
				assert.ErrorIs(t, err, ErrNotFound)
				ok, err := tx.Has([]byte("a"))
				require.NoError(t, err)
				assert.False(t, ok)
				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestScanSeesPendingWritesInOrder(t *testing.T) {
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			s := openTestStore(t, driver)

			require.NoError(t, s.Update(func(tx Txn) error {
				require.NoError(t, tx.Set([]byte("p/2"), nil))
				require.NoError(t, tx.Set([]byte("q/1"), nil))
				return nil
			}))

			require.NoError(t, s.Update(func(tx Txn) error {
				require.NoError(t, tx.Set([]byte("p/1"), []byte("x")))
				require.NoError(t, tx.Set([]byte("p/3"), nil))
				require.NoError(t, tx.Delete([]byte("p/2")))

				var keys []string
				err := tx.Scan([]byte("p/"), func(k, _ []byte) error {
					keys = append(keys, string(k))
					return nil
				})
				require.NoError(t, err)
				assert.Equal(t, []string{"p/1", "p/3"}, keys)
				return nil
			}))
		})
	}
}

func TestViewIsReadOnly(t *testing.T) {
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			s := openTestStore(t, driver)
			err := s.View(func(tx Txn) error {
				return tx.Set([]byte("a"), []byte("1"))
			})
			assert.Error(t, err)
		})
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(Options{Driver: "bolt"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
