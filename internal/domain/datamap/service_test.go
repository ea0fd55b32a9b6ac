package datamap_test

import (
	"context"
	"testing"

	"github.com/rpggio/consentdesk/internal/domain/datamap"
	"github.com/rpggio/consentdesk/internal/repository"
	"github.com/rpggio/consentdesk/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	categories *mocks.Store[datamap.Category]
	processors *mocks.Store[datamap.Processor]
	storages   *mocks.Store[datamap.Storage]
	flows      *mocks.Store[datamap.Flow]
	svc        *datamap.Service
}

func newFixture() *fixture {
	f := &fixture{
		categories: &mocks.Store[datamap.Category]{},
		processors: &mocks.Store[datamap.Processor]{},
		storages:   &mocks.Store[datamap.Storage]{},
		flows:      &mocks.Store[datamap.Flow]{},
	}
	f.svc = datamap.NewService(datamap.Stores{
		Categories: f.categories,
		Processors: f.processors,
		Storages:   f.storages,
		Flows:      f.flows,
	}, nil)
	return f
}

func TestDataMap_CreateCategory(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.categories.On("Create", ctx, "tenant1", mock.Anything).Return(nil)

	c, err := f.svc.CreateCategory(ctx, "tenant1", datamap.Category{Name: " Contact details "})
	require.NoError(t, err)
	require.Equal(t, "Contact details", c.Name)
	require.Equal(t, datamap.SensitivityMedium, c.Sensitivity)
	require.Contains(t, c.ID, "dcat_")

	_, err = f.svc.CreateCategory(ctx, "tenant1", datamap.Category{Name: "Health", Sensitivity: "secret"})
	require.ErrorIs(t, err, datamap.ErrInvalidInput)
}

func TestDataMap_CreateProcessor_UnknownCategory(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.categories.On("Get", ctx, "tenant1", "dcat_known").Return(&datamap.Category{ID: "dcat_known"}, nil)
	f.categories.On("Get", ctx, "tenant1", "dcat_missing").Return(nil, repository.ErrNotFound)
	f.processors.On("Create", ctx, "tenant1", mock.Anything).Return(nil)

	p, err := f.svc.CreateProcessor(ctx, "tenant1", datamap.Processor{Name: "Mailer", Type: "vendor", Categories: []string{"dcat_known"}})
	require.NoError(t, err)
	require.Contains(t, p.ID, "dproc_")

	_, err = f.svc.CreateProcessor(ctx, "tenant1", datamap.Processor{Name: "CRM", Type: "vendor", Categories: []string{"dcat_missing"}})
	require.ErrorIs(t, err, datamap.ErrUnknownCategory)
	f.processors.AssertNumberOfCalls(t, "Create", 1)
}

func TestDataMap_QueryProcessors_CategoryMembership(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.processors.On("List", ctx, "tenant1").Return([]datamap.Processor{
		{ID: "p1", Name: "Mailer", Type: "vendor", Location: "EU", Categories: []string{"contact", "usage"}},
		{ID: "p2", Name: "Payroll", Type: "internal", Location: "IN", Categories: []string{"financial"}},
		{ID: "p3", Name: "Analytics", Type: "vendor", Location: "US", Categories: []string{"usage"}},
	}, nil)

	res, err := f.svc.QueryProcessors(ctx, "tenant1", datamap.HoldingOptions{Category: "usage"})
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)
	require.Equal(t, "p1", res.Results[0].ID)
	require.Equal(t, "p3", res.Results[1].ID)

	res, err = f.svc.QueryProcessors(ctx, "tenant1", datamap.HoldingOptions{Category: "usage", Location: "US"})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	require.Equal(t, "p3", res.Results[0].ID)
}

func TestDataMap_QueryFlows_SearchesEndpoints(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.flows.On("List", ctx, "tenant1").Return([]datamap.Flow{
		{ID: "f1", Name: "Nightly export", Source: "Postgres", Destination: "Warehouse"},
		{ID: "f2", Name: "Signup sync", Source: "Web", Destination: "CRM"},
	}, nil)

	res, err := f.svc.QueryFlows(ctx, "tenant1", datamap.FlowOptions{Search: "crm"})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	require.Equal(t, "f2", res.Results[0].ID)
}

func TestDataMap_QueryCategories_Sensitivity(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.categories.On("List", ctx, "tenant1").Return([]datamap.Category{
		{ID: "c1", Name: "Email", Sensitivity: datamap.SensitivityLow},
		{ID: "c2", Name: "Health", Sensitivity: datamap.SensitivitySpecial},
	}, nil)

	special, err := datamap.ParseSensitivity("Special")
	require.NoError(t, err)
	res, err := f.svc.QueryCategories(ctx, "tenant1", datamap.CategoryOptions{Sensitivity: special})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	require.Equal(t, "c2", res.Results[0].ID)
}

func TestDataMap_Describe(t *testing.T) {
	descs := newFixture().svc.Describe()
	require.Len(t, descs, 4)
	require.Equal(t, "data_category", descs[0].Entity)
	require.Empty(t, descs[0].Sorts)
	require.Equal(t, []string{"name", "description", "source", "destination"}, descs[3].Search)
}
