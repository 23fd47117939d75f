package service_test

import (
	"testing"

	"github.com/deppfellow/castdb/internal/model"
	"github.com/deppfellow/castdb/internal/repository"
	"github.com/deppfellow/castdb/internal/service"
	"github.com/deppfellow/castdb/internal/testutil"
	"github.com/stretchr/testify/require"
)

func newServices(t *testing.T) *service.Services {
	t.Helper()

	s := testutil.NewSQLiteServer(t)
	services, err := service.NewServices(s, repository.NewRepositories())
	require.NoError(t, err)
	return services
}

func characterRequest(name string) *model.CreateCharacterRequest {
	return &model.CreateCharacterRequest{
		Name:    testutil.Ptr(name),
		Gender:  testutil.Ptr("female"),
		Species: testutil.Ptr("human"),
		IsAlive: testutil.Ptr(true),
	}
}

func bookRequest(t *testing.T, name string, order int, released string) *model.CreateBookRequest {
	t.Helper()

	date, err := model.ParseDate(released)
	require.NoError(t, err)
	return &model.CreateBookRequest{
		Name:        testutil.Ptr(name),
		Order:       testutil.Ptr(order),
		ReleaseDate: &date,
	}
}
