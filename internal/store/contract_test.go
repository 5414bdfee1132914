package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/dirk.krummacker/contact-store/internal/model"
)

// repositoryFactory returns an empty repository for a single test.
type repositoryFactory func(t *testing.T) ContactRepository

// rowInserter writes a data row directly, bypassing the repository operations.
type rowInserter interface {
	InsertRow(rawContactID int64, mimetype string, data1 string)
}

// runRepositoryContract runs the behaviour every ContactRepository must show
// against the repositories built by newRepo.
func runRepositoryContract(t *testing.T, newRepo repositoryFactory) {
	t.Run("EmptyStore", func(t *testing.T) {
		contacts, err := newRepo(t).List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, contacts)
		assert.Empty(t, contacts)
	})

	t.Run("CreateThenList", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.Create(ctx, "Zoe", "555-3333"))

		contacts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Equal(t, "Zoe", contacts[0].Name)
		assert.Equal(t, "555-3333", contacts[0].Number)
		assert.Positive(t, contacts[0].Id)
	})

	t.Run("CreateKeepsPriorEntries", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		bob, amy := createBobAndAmy(t, repo)
		require.NoError(t, repo.Create(ctx, "Zoe", "555-3333"))

		contacts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, contacts, 3)
		assert.Equal(t, bob, contacts[0])
		assert.Equal(t, amy, contacts[1])
		assert.Equal(t, "Zoe", contacts[2].Name)
		assert.Equal(t, "555-3333", contacts[2].Number)
		assert.NotEqual(t, bob.Id, contacts[2].Id)
		assert.NotEqual(t, amy.Id, contacts[2].Id)
	})

	t.Run("DuplicatesArePermitted", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		require.NoError(t, repo.Create(ctx, "Amy", "555-2222"))
		require.NoError(t, repo.Create(ctx, "Amy", "555-2222"))

		contacts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, contacts, 2)
		assert.NotEqual(t, contacts[0].Id, contacts[1].Id)
	})

	t.Run("Update", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		bob, amy := createBobAndAmy(t, repo)
		require.NoError(t, repo.Update(ctx, bob.Id, "Bobby", "555-9999"))

		contacts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, contacts, 2)
		assert.Equal(t, model.Contact{Id: bob.Id, Name: "Bobby", Number: "555-9999"}, contacts[0])
		assert.Equal(t, amy, contacts[1])
	})

	t.Run("UpdateUnknownIdIsNoOp", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		bob, amy := createBobAndAmy(t, repo)
		require.NoError(t, repo.Update(ctx, amy.Id+100, "Nobody", "000"))

		contacts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.Contact{bob, amy}, contacts)
	})

	t.Run("Delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		bob, amy := createBobAndAmy(t, repo)
		require.NoError(t, repo.Delete(ctx, bob.Id))

		contacts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.Contact{amy}, contacts)
	})

	t.Run("SecondNameRowListsOnce", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		bob, amy := createBobAndAmy(t, repo)
		inserter, ok := repo.(rowInserter)
		require.True(t, ok, "repository cannot insert rows directly")
		inserter.InsertRow(bob.Id, MimeTypeName, "Robert")

		contacts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.Contact{bob, amy}, contacts)
	})

	t.Run("DeleteUnknownIdIsNoOp", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		bob, amy := createBobAndAmy(t, repo)
		require.NoError(t, repo.Delete(ctx, amy.Id+100))

		contacts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.Contact{bob, amy}, contacts)
	})
}

// createBobAndAmy creates the two contacts used by most scenarios and returns
// them as listed by the store.
func createBobAndAmy(t *testing.T, repo ContactRepository) (bob model.Contact, amy model.Contact) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, "Bob", "555-1111"))
	require.NoError(t, repo.Create(ctx, "Amy", "555-2222"))
	contacts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "Bob", contacts[0].Name)
	assert.Equal(t, "Amy", contacts[1].Name)
	return contacts[0], contacts[1]
}
