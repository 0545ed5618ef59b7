package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anttituomola/tampereensaunalautat-sub000/internal/model"
	"github.com/anttituomola/tampereensaunalautat-sub000/internal/repository"
)

func createSauna(t *testing.T, saunas repository.SaunaRepository, urlName, owner, location string, capacity int, visible bool) *model.Sauna {
	t.Helper()

	sauna := &model.Sauna{
		URLName:     urlName,
		Name:        urlName,
		OwnerEmail:  owner,
		Location:    location,
		Capacity:    capacity,
		EventLength: 3,
		PriceMin:    250,
		PriceMax:    400,
		Equipment:   model.StringList{"WC", "Grilli"},
		Visible:     visible,
	}
	err := saunas.Create(context.Background(), sauna)
	require.NoError(t, err)
	return sauna
}

func TestSaunaRepository_ByIDOrSlug(t *testing.T) {
	conn := newTestDB(t)
	saunas := repository.NewSaunaRepository(conn)
	created := createSauna(t, saunas, "lautta-1", "omistaja@example.com", "Näsijärvi", 12, true)

	byID, err := saunas.ByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "lautta-1", byID.URLName)
	require.Equal(t, model.StringList{"WC", "Grilli"}, byID.Equipment)

	bySlug, err := saunas.ByID(context.Background(), "lautta-1")
	require.NoError(t, err)
	require.Equal(t, created.ID, bySlug.ID)

	_, err = saunas.ByID(context.Background(), "ei-ole")
	require.ErrorIs(t, err, repository.ErrSaunaNotFound)
}

func TestSaunaRepository_ListVisible(t *testing.T) {
	conn := newTestDB(t)
	saunas := repository.NewSaunaRepository(conn)
	ctx := context.Background()

	createSauna(t, saunas, "nasi-iso", "a@example.com", "Näsijärvi", 12, true)
	createSauna(t, saunas, "nasi-pieni", "a@example.com", "Näsijärvi", 6, true)
	createSauna(t, saunas, "pyha", "b@example.com", "Pyhäjärvi", 10, true)
	createSauna(t, saunas, "piilossa", "b@example.com", "Pyhäjärvi", 10, false)

	all, err := saunas.ListVisible(ctx, repository.SaunaFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	nasi, err := saunas.ListVisible(ctx, repository.SaunaFilter{Location: "Näsijärvi"})
	require.NoError(t, err)
	require.Len(t, nasi, 2)

	big, err := saunas.ListVisible(ctx, repository.SaunaFilter{MinCapacity: 10})
	require.NoError(t, err)
	require.Len(t, big, 2)

	bigNasi, err := saunas.ListVisible(ctx, repository.SaunaFilter{Location: "Näsijärvi", MinCapacity: 10})
	require.NoError(t, err)
	require.Len(t, bigNasi, 1)
	require.Equal(t, "nasi-iso", bigNasi[0].URLName)
}

func TestSaunaRepository_ListByOwnerIncludesHidden(t *testing.T) {
	conn := newTestDB(t)
	saunas := repository.NewSaunaRepository(conn)

	createSauna(t, saunas, "oma", "Omistaja@Example.com", "Näsijärvi", 8, true)
	createSauna(t, saunas, "oma-piilossa", "omistaja@example.com", "Näsijärvi", 8, false)
	createSauna(t, saunas, "vieras", "toinen@example.com", "Näsijärvi", 8, true)

	owned, err := saunas.ListByOwner(context.Background(), "omistaja@example.com")
	require.NoError(t, err)
	require.Len(t, owned, 2)
}

func TestSaunaRepository_Update(t *testing.T) {
	conn := newTestDB(t)
	saunas := repository.NewSaunaRepository(conn)
	ctx := context.Background()
	created := createSauna(t, saunas, "lautta-1", "omistaja@example.com", "Näsijärvi", 12, true)

	created.Capacity = 16
	created.Images = model.StringList{"kuva1.jpg"}
	err := saunas.Update(ctx, created)
	require.NoError(t, err)

	updated, err := saunas.ByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 16, updated.Capacity)
	require.Equal(t, model.StringList{"kuva1.jpg"}, updated.Images)

	missing := *created
	missing.ID = "ei-ole"
	err = saunas.Update(ctx, &missing)
	require.ErrorIs(t, err, repository.ErrSaunaNotFound)
}
