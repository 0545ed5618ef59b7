package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anttituomola/tampereensaunalautat-sub000/internal/model"
	"github.com/anttituomola/tampereensaunalautat-sub000/internal/repository"
	"github.com/anttituomola/tampereensaunalautat-sub000/internal/service"
	"github.com/anttituomola/tampereensaunalautat-sub000/internal/storage"
)

type saunaEnv struct {
	*authEnv
	saunas  repository.SaunaRepository
	service *service.SaunaService
}

func newSaunaEnv(t *testing.T) *saunaEnv {
	t.Helper()

	env := newAuthEnv(t)
	saunas := repository.NewSaunaRepository(env.conn)
	return &saunaEnv{
		authEnv: env,
		saunas:  saunas,
		service: service.NewSaunaService(saunas, env.users, storage.NewNoopStorage()),
	}
}

func (e *saunaEnv) createSauna(t *testing.T, urlName, owner string, visible bool) *model.Sauna {
	t.Helper()

	sauna := &model.Sauna{
		URLName:     urlName,
		Name:        urlName,
		OwnerEmail:  owner,
		Location:    "Näsijärvi",
		Capacity:    12,
		EventLength: 3,
		PriceMin:    250,
		PriceMax:    400,
		Visible:     visible,
	}
	require.NoError(t, e.saunas.Create(context.Background(), sauna))
	return sauna
}

func TestSaunaService_UpdateOwnership(t *testing.T) {
	env := newSaunaEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "omistaja@example.com", model.UserStatusActive, false)
	stranger := env.createUser(t, "toinen@example.com", model.UserStatusActive, false)
	admin := env.createUser(t, "admin@example.com", model.UserStatusActive, true)
	sauna := env.createSauna(t, "lautta-1", "omistaja@example.com", true)

	update := service.SaunaUpdate{
		Name:     "Lautta 1",
		Location: "Pyhäjärvi",
		Capacity: 16,
		PriceMin: 300,
		PriceMax: 500,
		Visible:  true,
	}

	// A non-owner cannot modify the listing
	_, err := env.service.Update(ctx, stranger.ID, sauna.ID, update)
	require.ErrorIs(t, err, service.ErrForbidden)

	// The owner can
	updated, err := env.service.Update(ctx, owner.ID, sauna.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "Pyhäjärvi", updated.Location)
	assert.Equal(t, 16, updated.Capacity)

	// So can an admin
	update.Visible = false
	updated, err = env.service.Update(ctx, admin.ID, sauna.ID, update)
	require.NoError(t, err)
	assert.False(t, updated.Visible)

	// Unknown requester
	_, err = env.service.Update(ctx, "ei-ole", sauna.ID, update)
	require.ErrorIs(t, err, service.ErrAccountNotFound)
}

func TestSaunaService_UpdateOwnerCaseInsensitive(t *testing.T) {
	env := newSaunaEnv(t)
	owner := env.createUser(t, "omistaja@example.com", model.UserStatusActive, false)
	sauna := env.createSauna(t, "lautta-1", "Omistaja@Example.COM", true)

	_, err := env.service.Update(context.Background(), owner.ID, sauna.ID, service.SaunaUpdate{
		Name: "Lautta", Location: "Näsijärvi", Capacity: 10, Visible: true,
	})
	require.NoError(t, err)
}

func TestSaunaService_ForUser(t *testing.T) {
	env := newSaunaEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "omistaja@example.com", model.UserStatusActive, false)
	stranger := env.createUser(t, "toinen@example.com", model.UserStatusActive, false)
	admin := env.createUser(t, "admin@example.com", model.UserStatusActive, true)

	env.createSauna(t, "oma", "omistaja@example.com", true)
	env.createSauna(t, "oma-piilossa", "omistaja@example.com", false)
	env.createSauna(t, "vieras", "toinen@example.com", true)

	// Own listings, hidden ones included
	own, err := env.service.ForUser(ctx, owner.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, own, 2)

	// Someone else's listings are off limits
	_, err = env.service.ForUser(ctx, stranger.ID, owner.ID)
	require.ErrorIs(t, err, service.ErrForbidden)

	// Admins see anyone's
	got, err := env.service.ForUser(ctx, admin.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	_, err = env.service.ForUser(ctx, admin.ID, "ei-ole")
	require.ErrorIs(t, err, service.ErrAccountNotFound)
}

func TestSaunaService_AddImage(t *testing.T) {
	env := newSaunaEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "omistaja@example.com", model.UserStatusActive, false)
	stranger := env.createUser(t, "toinen@example.com", model.UserStatusActive, false)
	sauna := env.createSauna(t, "lautta-1", "omistaja@example.com", true)

	_, err := env.service.AddImage(ctx, stranger.ID, sauna.ID, "kuva.jpg", strings.NewReader("data"))
	require.ErrorIs(t, err, service.ErrForbidden)

	_, err = env.service.AddImage(ctx, owner.ID, sauna.ID, "virus.exe", strings.NewReader("data"))
	require.ErrorIs(t, err, service.ErrUnsupportedImage)

	updated, err := env.service.AddImage(ctx, owner.ID, sauna.ID, "kuva.jpg", strings.NewReader("data"))
	require.NoError(t, err)
	require.Len(t, updated.Images, 1)
	assert.True(t, strings.HasSuffix(updated.Images[0], ".jpg"))
	// First image becomes the main image
	assert.Equal(t, updated.Images[0], updated.MainImage)

	updated, err = env.service.AddImage(ctx, owner.ID, sauna.ID, "toinen.png", strings.NewReader("data"))
	require.NoError(t, err)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, updated.Images[0], updated.MainImage)
}

func TestSaunaService_RemoveImage(t *testing.T) {
	env := newSaunaEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "omistaja@example.com", model.UserStatusActive, false)
	sauna := env.createSauna(t, "lautta-1", "omistaja@example.com", true)

	first, err := env.service.AddImage(ctx, owner.ID, sauna.ID, "eka.jpg", strings.NewReader("data"))
	require.NoError(t, err)
	second, err := env.service.AddImage(ctx, owner.ID, sauna.ID, "toka.jpg", strings.NewReader("data"))
	require.NoError(t, err)

	mainImage := second.MainImage
	require.Equal(t, first.Images[0], mainImage)

	_, err = env.service.RemoveImage(ctx, owner.ID, sauna.ID, "ei-ole.jpg")
	require.ErrorIs(t, err, service.ErrImageNotFound)

	// Removing the main image promotes the next one
	updated, err := env.service.RemoveImage(ctx, owner.ID, sauna.ID, mainImage)
	require.NoError(t, err)
	require.Len(t, updated.Images, 1)
	assert.Equal(t, updated.Images[0], updated.MainImage)

	updated, err = env.service.RemoveImage(ctx, owner.ID, sauna.ID, updated.Images[0])
	require.NoError(t, err)
	require.Empty(t, updated.Images)
	assert.Empty(t, updated.MainImage)
}
