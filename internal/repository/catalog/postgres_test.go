package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"royalwood-storefront/internal/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestListProducts(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgres(mock, nil)

	mock.ExpectQuery(`FROM products ORDER BY created_at DESC`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "price", "description", "image_url", "created_at"}).
			AddRow("p1", "Teak Chair", "4500.00", "Solid teak", "https://cdn/x.jpg", created))

	list, err := repo.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Teak Chair", list[0].Name)
	assert.True(t, list[0].Price.Equal(decimal.NewFromInt(4500)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgres(mock, nil)

	mock.ExpectQuery(`FROM products WHERE id::text = \$1`).
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "price", "description", "image_url", "created_at"}))

	_, err := repo.GetProduct(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateProduct(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgres(mock, nil)

	mock.ExpectQuery(`INSERT INTO products`).
		WithArgs("Stool", "799.5", "", "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("p9", created))

	p, err := repo.CreateProduct(context.Background(), domain.Product{Name: "Stool", Price: decimal.RequireFromString("799.50")})
	require.NoError(t, err)
	assert.Equal(t, "p9", p.ID)
	assert.Equal(t, created, p.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePackageDefaultsMaterials(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgres(mock, nil)

	mock.ExpectQuery(`INSERT INTO interior_packages`).
		WithArgs("Modular Kitchen", "₹2L - ₹5L", []string{}, "", "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("k1", created))

	p, err := repo.CreatePackage(context.Background(), domain.InteriorPackage{Name: "Modular Kitchen", PriceRange: "₹2L - ₹5L"})
	require.NoError(t, err)
	assert.Equal(t, "k1", p.ID)
	assert.Equal(t, []string{}, p.Materials)
}

func TestListPackages(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgres(mock, nil)

	mock.ExpectQuery(`FROM interior_packages ORDER BY created_at DESC`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "price_range", "materials", "description", "image_url", "created_at"}).
			AddRow("k1", "Bedroom", "₹1L+", []string{"Teak", "Plywood"}, "", "", created))

	list, err := repo.ListPackages(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"Teak", "Plywood"}, list[0].Materials)
}

func TestCreateServiceFailure(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgres(mock, nil)

	mock.ExpectQuery(`INSERT INTO services`).WillReturnError(errors.New("timeout"))

	_, err := repo.CreateService(context.Background(), domain.Service{Name: "Polishing", Price: "On request"})
	var rw *domain.RemoteWriteError
	require.ErrorAs(t, err, &rw)
	assert.Equal(t, "create service", rw.Op)
}

func TestDelete(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgres(mock, nil)

	mock.ExpectExec(`DELETE FROM services WHERE id::text = \$1`).
		WithArgs("s1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM interior_packages WHERE id::text = \$1`).
		WithArgs("gone").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), domain.KindServices, "s1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), domain.KindPackages, "gone"), domain.ErrNotFound)
	assert.Error(t, repo.Delete(context.Background(), domain.CatalogKind("orders"), "x"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCount(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgres(mock, nil)

	mock.ExpectQuery(`SELECT count\(\*\) FROM interior_packages`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.Count(context.Background(), domain.KindPackages)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
