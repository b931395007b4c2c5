package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/privacydesk/datamapd/internal/datamap/domain"
	"github.com/privacydesk/datamapd/internal/datamap/store"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL",
		filepath.Join(t.TempDir(), "test.db"))

	s, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestCreateUserAssignsSequentialIDs(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	alice, err := s.Users().CreateUser(ctx, "alice@x.com", "hash-a")
	require.NoError(t, err)
	require.Equal(t, int64(1), alice.ID)
	require.False(t, alice.CreatedAt.IsZero())

	bob, err := s.Users().CreateUser(ctx, "bob@x.com", "hash-b")
	require.NoError(t, err)
	require.Equal(t, int64(2), bob.ID)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Users().CreateUser(ctx, "alice@x.com", "hash")
	require.NoError(t, err)

	_, err = s.Users().CreateUser(ctx, "alice@x.com", "other-hash")
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestGetUserByEmailIsCaseSensitive(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Users().CreateUser(ctx, "Alice@X.com", "hash")
	require.NoError(t, err)

	got, err := s.Users().GetUserByEmail(ctx, "Alice@X.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, "hash", got.PasswordHash)

	_, err = s.Users().GetUserByEmail(ctx, "alice@x.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetUserByIDNotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	_, err := s.Users().GetUserByID(context.Background(), 99)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMappingCRUDRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	owner, err := s.Users().CreateUser(ctx, "alice@x.com", "hash")
	require.NoError(t, err)

	id, err := s.Mappings().CreateMapping(ctx, owner.ID, domain.DataMapping{
		Title:           "Employee records",
		Description:     "HR master data",
		Department:      "IT/IS",
		DataSubjectType: "Employees,Contractors",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	got, err := s.Mappings().GetMappingByID(ctx, owner.ID, id)
	require.NoError(t, err)
	require.Equal(t, "Employee records", got.Title)
	require.Equal(t, "HR master data", got.Description)
	require.Equal(t, "IT/IS", got.Department)
	require.Equal(t, "Employees,Contractors", got.DataSubjectType)
	require.Equal(t, owner.ID, got.UserID)
	require.False(t, got.CreatedAt.IsZero())
}

func TestListMappingsNewestFirst(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	owner, err := s.Users().CreateUser(ctx, "alice@x.com", "hash")
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		_, err := s.Mappings().CreateMapping(ctx, owner.ID, domain.DataMapping{
			Title:      fmt.Sprintf("T%d", i),
			Department: "IT/IS",
		})
		require.NoError(t, err)
	}

	list, err := s.Mappings().ListMappings(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "T3", list[0].Title)
	require.Equal(t, "T2", list[1].Title)
	require.Equal(t, "T1", list[2].Title)
}

func TestListMappingsEmptyIsNotNil(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	owner, err := s.Users().CreateUser(ctx, "alice@x.com", "hash")
	require.NoError(t, err)

	list, err := s.Mappings().ListMappings(ctx, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestOwnerScopingHidesForeignRows(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	alice, err := s.Users().CreateUser(ctx, "alice@x.com", "hash")
	require.NoError(t, err)
	bob, err := s.Users().CreateUser(ctx, "bob@x.com", "hash")
	require.NoError(t, err)

	id, err := s.Mappings().CreateMapping(ctx, alice.ID, domain.DataMapping{
		Title:      "Alice's record",
		Department: "Legal",
	})
	require.NoError(t, err)

	// Bob sees nothing: not via get, update, delete, or list.
	_, err = s.Mappings().GetMappingByID(ctx, bob.ID, id)
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.Mappings().UpdateMapping(ctx, bob.ID, id, domain.DataMapping{
		Title: "hijacked", Department: "Legal",
	})
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.Mappings().DeleteMapping(ctx, bob.ID, id)
	require.ErrorIs(t, err, store.ErrNotFound)

	list, err := s.Mappings().ListMappings(ctx, bob.ID)
	require.NoError(t, err)
	require.Empty(t, list)

	// And Alice's row is untouched by Bob's attempts.
	got, err := s.Mappings().GetMappingByID(ctx, alice.ID, id)
	require.NoError(t, err)
	require.Equal(t, "Alice's record", got.Title)
}

func TestUpdateMapping(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	owner, err := s.Users().CreateUser(ctx, "alice@x.com", "hash")
	require.NoError(t, err)

	id, err := s.Mappings().CreateMapping(ctx, owner.ID, domain.DataMapping{
		Title: "Before", Department: "IT/IS",
	})
	require.NoError(t, err)

	err = s.Mappings().UpdateMapping(ctx, owner.ID, id, domain.DataMapping{
		Title:           "After",
		Description:     "now described",
		Department:      "Finance",
		DataSubjectType: "Customers",
	})
	require.NoError(t, err)

	got, err := s.Mappings().GetMappingByID(ctx, owner.ID, id)
	require.NoError(t, err)
	require.Equal(t, "After", got.Title)
	require.Equal(t, "now described", got.Description)
	require.Equal(t, "Finance", got.Department)
	require.Equal(t, "Customers", got.DataSubjectType)

	err = s.Mappings().UpdateMapping(ctx, owner.ID, 999, domain.DataMapping{
		Title: "X", Department: "Y",
	})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteMapping(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	owner, err := s.Users().CreateUser(ctx, "alice@x.com", "hash")
	require.NoError(t, err)

	id, err := s.Mappings().CreateMapping(ctx, owner.ID, domain.DataMapping{
		Title: "T1", Department: "IT/IS",
	})
	require.NoError(t, err)

	require.NoError(t, s.Mappings().DeleteMapping(ctx, owner.ID, id))

	_, err = s.Mappings().GetMappingByID(ctx, owner.ID, id)
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.Mappings().DeleteMapping(ctx, owner.ID, id)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().CreateUser(ctx, "alice@x.com", "hash"); err != nil {
			return err
		}
		return fmt.Errorf("boom")
	})
	require.Error(t, err)

	_, err = s.Users().GetUserByEmail(ctx, "alice@x.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxCommits(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().CreateUser(ctx, "alice@x.com", "hash")
		return err
	})
	require.NoError(t, err)

	got, err := s.Users().GetUserByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.Equal(t, "alice@x.com", got.Email)
}

func TestPing(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
}
