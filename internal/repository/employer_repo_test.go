package repository

import (
	"testing"
	"time"

	"nanny-payroll-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployerRepositoryKeepsSingleRow(t *testing.T) {
	db := newTestDB(t)
	repo, err := NewGormEmployerRepository(db)
	require.NoError(t, err)

	none, err := repo.Get()
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, repo.Save(&models.Employer{Name: "George Banks", PayrollDay: time.Friday}))
	require.NoError(t, repo.Save(&models.Employer{Name: "George Banks", EIN: "12-3456789", PayrollDay: time.Thursday}))

	var count int64
	require.NoError(t, db.Model(&models.Employer{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	employer, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, "12-3456789", employer.EIN)
	assert.Equal(t, time.Thursday, employer.PayrollDay)

	assert.Error(t, repo.Save(&models.Employer{}))
}
