package services_test

import (
	"context"
	"errors"
	"testing"

	"levelup_api/internal/catalog"
	"levelup_api/internal/services"
	"levelup_api/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	entry *catalog.Entry
	err   error
}

func (f fakeCatalog) Fetch(_ context.Context, _ string) (*catalog.Entry, error) {
	return f.entry, f.err
}

func TestGameService(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	_, err := services.NewGamerService(store, testLogger()).Register(ctx, "alice", "")
	require.NoError(t, err)

	games := services.NewGameService(store, testLogger(), fakeCatalog{
		entry: &catalog.Entry{Title: "Wingspan", Maker: "Monster Couch", URL: "https://store.example/app/1?l=english"},
	})

	catan, err := games.Create(ctx, "alice", services.GameInput{
		Title: "Catan", Maker: "Klaus Teuber", NumberOfPlayers: 4, SkillLevel: 2, GameTypeID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "Board Game", catan.GameType.Label)
	assert.Equal(t, "alice", catan.Gamer.UID)

	t.Run("duplicate title", func(t *testing.T) {
		_, err := games.Create(ctx, "alice", services.GameInput{Title: "Catan", GameTypeID: 1})
		assert.ErrorIs(t, err, storage.ErrExists)
	})

	t.Run("unknown game type", func(t *testing.T) {
		_, err := games.Create(ctx, "alice", services.GameInput{Title: "Uno", GameTypeID: 40})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("import", func(t *testing.T) {
		g, err := games.Import(ctx, "alice", services.GameInput{
			URL: "https://store.example/app/1", NumberOfPlayers: 5, SkillLevel: 3, GameTypeID: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, "Wingspan", g.Title)
		assert.Equal(t, "Monster Couch", g.Maker)
		assert.Equal(t, "Card Game", g.GameType.Label)
	})

	t.Run("import failure", func(t *testing.T) {
		broken := services.NewGameService(store, testLogger(), fakeCatalog{err: catalog.ErrUpstream})

		_, err := broken.Import(ctx, "alice", services.GameInput{URL: "https://store.example/app/2", GameTypeID: 1})
		assert.True(t, errors.Is(err, catalog.ErrUpstream))
	})

	t.Run("list by type", func(t *testing.T) {
		board := int64(1)

		list, err := games.List(ctx, &board)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Catan", list[0].Title)

		all, err := games.List(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("update", func(t *testing.T) {
		err := games.Update(ctx, catan.ID, services.GameInput{
			Title: "Catan: Seafarers", Maker: "Kosmos", NumberOfPlayers: 6, SkillLevel: 3, GameTypeID: 1,
		})
		require.NoError(t, err)

		got, err := games.GetByID(ctx, catan.ID)
		require.NoError(t, err)
		assert.Equal(t, "Catan: Seafarers", got.Title)
		assert.Equal(t, 6, got.NumberOfPlayers)

		assert.ErrorIs(t, games.Update(ctx, 404, services.GameInput{GameTypeID: 1}), storage.ErrNotFound)
	})

	t.Run("update keeps titles unique", func(t *testing.T) {
		err := games.Update(ctx, catan.ID, services.GameInput{
			Title: "Wingspan", NumberOfPlayers: 4, SkillLevel: 2, GameTypeID: 1,
		})
		assert.ErrorIs(t, err, storage.ErrExists)

		got, err := games.GetByID(ctx, catan.ID)
		require.NoError(t, err)
		assert.Equal(t, "Catan: Seafarers", got.Title)

		// saving a game under its own title is not a conflict
		require.NoError(t, games.Update(ctx, catan.ID, services.GameInput{
			Title: "Catan: Seafarers", Maker: "Kosmos", NumberOfPlayers: 5, SkillLevel: 3, GameTypeID: 1,
		}))
	})

	t.Run("delete in use", func(t *testing.T) {
		events := services.NewEventService(store, testLogger(), false)
		e, err := events.Create(ctx, "alice", services.EventInput{GameID: catan.ID, Date: "2024-05-01", Time: "19:00:00"})
		require.NoError(t, err)

		assert.ErrorIs(t, games.Delete(ctx, catan.ID), storage.ErrInUse)

		require.NoError(t, events.Delete(ctx, e.ID, "alice"))
		require.NoError(t, games.Delete(ctx, catan.ID))

		_, err = games.GetByID(ctx, catan.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestGameTypeService_List(t *testing.T) {
	store := setupStore(t)
	types, err := services.NewGameTypeService(store, testLogger()).List(context.Background())

	require.NoError(t, err)
	require.Len(t, types, 3)
	assert.Equal(t, "Board Game", types[0].Label)
	assert.Equal(t, "Tabletop Role Playing Game", types[2].Label)
}

func TestGamerService(t *testing.T) {
	ctx := context.Background()
	gamers := services.NewGamerService(setupStore(t), testLogger())

	g, err := gamers.Register(ctx, "alice", "likes dice")
	require.NoError(t, err)
	assert.NotZero(t, g.ID)

	_, err = gamers.Register(ctx, "alice", "again")
	assert.ErrorIs(t, err, storage.ErrExists)

	got, err := gamers.GetByUID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "likes dice", got.Bio)

	_, err = gamers.GetByUID(ctx, "bob")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = gamers.GetByUID(ctx, "")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
