package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/dto"
	"github.com/moveright/assessadmin-api/internal/models"
	"github.com/moveright/assessadmin-api/internal/repository"
)

func newCountryService(db *gorm.DB) CountryService {
	return NewCountryService(
		repository.NewCountryRepository(db),
		repository.NewRegionRepository(db),
		newCascadeService(db),
		validator.New(validator.WithRequiredStructEnabled()),
		testLogger(),
	)
}

func TestCreateCountryInsertsActiveRecord(t *testing.T) {
	db := setupTestDB(t)
	svc := newCountryService(db)

	actor := Actor{ID: 1, IP: "192.0.2.1"}
	country, err := svc.Create(context.Background(), actor, dto.CreateCountryRequest{Name: "Australia", Code: "AU", PhoneCode: "+61"})
	require.NoError(t, err)
	require.True(t, country.IsAdded)
	require.Equal(t, uint(1), country.CreatedBy)
	require.Equal(t, "192.0.2.1", country.CreatedIP)
}

func TestCreateCountryDuplicateActiveNameRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := newCountryService(db)

	actor := Actor{ID: 1}
	_, err := svc.Create(context.Background(), actor, dto.CreateCountryRequest{Name: "Australia"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), actor, dto.CreateCountryRequest{Name: "Australia"})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestCreateCountryReactivatesRetiredRecord(t *testing.T) {
	db := setupTestDB(t)
	svc := newCountryService(db)

	retired := models.Country{Name: "Australia", Code: "AU", IsAdded: false}
	require.NoError(t, db.Create(&retired).Error)

	actor := Actor{ID: 4, IP: "198.51.100.7"}
	country, err := svc.Create(context.Background(), actor, dto.CreateCountryRequest{Name: "Australia", PhoneCode: "+61"})
	require.NoError(t, err)
	require.Equal(t, retired.ID, country.ID, "reactivation must reuse the existing row")
	require.True(t, country.IsAdded)
	require.Equal(t, "+61", country.PhoneCode)
	require.Equal(t, "AU", country.Code, "fields absent from the request keep their stored value")
	require.Equal(t, uint(4), country.UpdatedBy)

	var count int64
	require.NoError(t, db.Model(&models.Country{}).Where("name = ?", "Australia").Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestGetCountryIncludesRegionsAndHidesRetired(t *testing.T) {
	db := setupTestDB(t)
	svc := newCountryService(db)

	country := models.Country{Name: "Australia", IsAdded: true}
	require.NoError(t, db.Create(&country).Error)
	region := models.Region{Name: "Victoria", CountryID: country.ID, IsAdded: true}
	require.NoError(t, db.Create(&region).Error)

	detail, err := svc.Get(context.Background(), country.ID)
	require.NoError(t, err)
	require.Equal(t, country.ID, detail.Country.ID)
	require.Len(t, detail.Regions, 1)

	require.NoError(t, db.Model(&models.Country{}).Where("id = ?", country.ID).Update("is_added", false).Error)

	_, err = svc.Get(context.Background(), country.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListCountriesFiltersOnActive(t *testing.T) {
	db := setupTestDB(t)
	svc := newCountryService(db)

	require.NoError(t, db.Create(&models.Country{Name: "Australia", IsAdded: true}).Error)
	require.NoError(t, db.Create(&models.Country{Name: "Atlantis", IsAdded: false}).Error)

	active := true
	countries, err := svc.List(context.Background(), &active)
	require.NoError(t, err)
	require.Len(t, countries, 1)
	require.Equal(t, "Australia", countries[0].Name)

	countries, err = svc.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, countries, 2)
}
