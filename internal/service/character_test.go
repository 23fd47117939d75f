package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/deppfellow/castdb/internal/errs"
	"github.com/deppfellow/castdb/internal/model"
	"github.com/deppfellow/castdb/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharacterService_CreateThenGet(t *testing.T) {
	services := newServices(t)
	ctx := context.Background()

	created, err := services.Characters.Create(ctx, characterRequest("Arya Stark"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	got, err := services.Characters.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Arya Stark", got.Name)
	assert.Equal(t, "female", got.Gender)
	assert.Equal(t, "human", got.Species)
	assert.True(t, got.IsAlive)
	assert.Nil(t, got.HouseID)
}

func TestCharacterService_DuplicateName(t *testing.T) {
	services := newServices(t)
	ctx := context.Background()

	_, err := services.Characters.Create(ctx, characterRequest("Arya Stark"))
	require.NoError(t, err)

	_, err = services.Characters.Create(ctx, characterRequest("Arya Stark"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrPersistence)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "CHARACTER_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, 500, httpErr.Status)

	all, err := services.Characters.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCharacterService_MissingRequiredField(t *testing.T) {
	services := newServices(t)

	req := characterRequest("Bran Stark")
	req.Species = nil

	_, err := services.Characters.Create(context.Background(), req)
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, errs.KindPersistence, httpErr.Kind)
	assert.Equal(t, "CHARACTER_REQUIRED", httpErr.Code)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "species", httpErr.Errors[0].Field)
}

func TestCharacterService_UnknownHouse(t *testing.T) {
	services := newServices(t)

	req := characterRequest("Jon Snow")
	req.HouseID = testutil.Ptr(int64(42))

	_, err := services.Characters.Create(context.Background(), req)
	require.ErrorIs(t, err, errs.ErrPersistence)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "CHARACTER_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "The referenced House does not exist", httpErr.Message)

	all, err := services.Characters.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCharacterService_GenderTooLong(t *testing.T) {
	services := newServices(t)

	req := characterRequest("Hodor")
	req.Gender = testutil.Ptr(strings.Repeat("M", 21))

	_, err := services.Characters.Create(context.Background(), req)
	require.ErrorIs(t, err, errs.ErrPersistence)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "CHARACTER_INVALID", httpErr.Code)
	assert.Equal(t, []errs.FieldError{{Field: "gender", Error: "is invalid"}}, httpErr.Errors)

	req.Gender = testutil.Ptr(strings.Repeat("M", 20))
	created, err := services.Characters.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, created.Gender, 20)
}

func TestCharacterService_Update(t *testing.T) {
	services := newServices(t)
	ctx := context.Background()

	house, err := services.Houses.Create(ctx, &model.CreateHouseRequest{Name: testutil.Ptr("Stark")})
	require.NoError(t, err)

	req := characterRequest("Ned Stark")
	req.HouseID = &house.ID
	created, err := services.Characters.Create(ctx, req)
	require.NoError(t, err)

	updated, err := services.Characters.Update(ctx, &model.UpdateCharacterRequest{
		ID:      created.ID,
		Name:    testutil.Ptr("Eddard Stark"),
		Gender:  testutil.Ptr("male"),
		Species: testutil.Ptr("human"),
		IsAlive: testutil.Ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "Eddard Stark", updated.Name)
	assert.False(t, updated.IsAlive)
	require.NotNil(t, updated.HouseID)
	assert.Equal(t, house.ID, *updated.HouseID)

	t.Run("missing character", func(t *testing.T) {
		_, err := services.Characters.Update(ctx, &model.UpdateCharacterRequest{
			ID:      99,
			Name:    testutil.Ptr("Nobody"),
			Gender:  testutil.Ptr("male"),
			Species: testutil.Ptr("human"),
			IsAlive: testutil.Ptr(true),
		})
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("omitted field is written as null", func(t *testing.T) {
		_, err := services.Characters.Update(ctx, &model.UpdateCharacterRequest{
			ID:      created.ID,
			Name:    testutil.Ptr("Eddard Stark"),
			Species: testutil.Ptr("human"),
			IsAlive: testutil.Ptr(false),
		})
		assert.ErrorIs(t, err, errs.ErrPersistence)

		got, err := services.Characters.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "male", got.Gender)
	})
}

func TestCharacterService_DeleteThenGet(t *testing.T) {
	services := newServices(t)
	ctx := context.Background()

	created, err := services.Characters.Create(ctx, characterRequest("Sansa Stark"))
	require.NoError(t, err)

	require.NoError(t, services.Characters.Delete(ctx, created.ID))

	_, err = services.Characters.Get(ctx, created.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.Equal(t, "Character not found", err.Error())

	err = services.Characters.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCharacterService_ListEmpty(t *testing.T) {
	services := newServices(t)

	characters, err := services.Characters.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, characters)
	assert.Empty(t, characters)
}
