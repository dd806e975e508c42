package business

import (
	"context"
	"errors"
	"testing"

	"royalwood-storefront/internal/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM business_info`).
		WithArgs(MainID).
		WillReturnRows(pgxmock.NewRows([]string{"business_name", "owner_name", "experience", "phone", "address", "description", "logo_url"}).
			AddRow("Royal Hood Wood Works", "Ravi", "20 years", "+91 90000 00000", "Kochi", "Custom furniture", ""))

	info, err := NewPostgres(mock, nil).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ravi", info.OwnerName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM business_info`).
		WithArgs(MainID).
		WillReturnRows(pgxmock.NewRows([]string{"business_name", "owner_name", "experience", "phone", "address", "description", "logo_url"}))

	_, err = NewPostgres(mock, nil).Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	info := domain.BusinessInfo{BusinessName: "Royal Hood Wood Works", OwnerName: "Ravi", LogoURL: "https://cdn/logos/1_logo.png"}
	mock.ExpectExec(`INSERT INTO business_info`).
		WithArgs(MainID, info.BusinessName, info.OwnerName, "", "", "", "", info.LogoURL).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO business_info`).
		WillReturnError(errors.New("read-only transaction"))

	repo := NewPostgres(mock, nil)
	require.NoError(t, repo.Upsert(context.Background(), info))

	var rw *domain.RemoteWriteError
	assert.ErrorAs(t, repo.Upsert(context.Background(), info), &rw)
	require.NoError(t, mock.ExpectationsWereMet())
}
