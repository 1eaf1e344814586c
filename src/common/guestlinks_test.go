package common

import (
	"log"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"brs/src/models"
	"brs/src/types"
)

func newMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: conn,
	}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}
	return gormDB, mock
}

func TestEvaluateGuestLinkActive(t *testing.T) {
	now := time.Now()
	link := &models.GuestLink{
		ExpiresAt: now.Add(24 * time.Hour),
		MaxUses:   1,
		UsedCount: 0,
		Status:    types.GUEST_LINK_ACTIVE,
	}
	decision := EvaluateGuestLink(link, now)
	assert.True(t, decision.Valid)
	assert.Equal(t, types.GUEST_LINK_ACTIVE, decision.Status)
}

func TestEvaluateGuestLinkExpired(t *testing.T) {
	now := time.Now()
	link := &models.GuestLink{
		ExpiresAt: now.Add(-time.Minute),
		MaxUses:   1,
		UsedCount: 0,
		Status:    types.GUEST_LINK_ACTIVE,
	}
	decision := EvaluateGuestLink(link, now)
	assert.False(t, decision.Valid)
	assert.Equal(t, types.GUEST_LINK_EXPIRED, decision.Status)
}

func TestEvaluateGuestLinkExhausted(t *testing.T) {
	now := time.Now()
	link := &models.GuestLink{
		ExpiresAt: now.Add(time.Hour),
		MaxUses:   1,
		UsedCount: 1,
		Status:    types.GUEST_LINK_ACTIVE,
	}
	decision := EvaluateGuestLink(link, now)
	assert.False(t, decision.Valid)
	assert.Equal(t, types.GUEST_LINK_USED, decision.Status)
}

// A link that is both expired and fully used reports expired.
func TestEvaluateGuestLinkExpiryTakesPrecedence(t *testing.T) {
	now := time.Now()
	link := &models.GuestLink{
		ExpiresAt: now.Add(-time.Hour),
		MaxUses:   1,
		UsedCount: 1,
		Status:    types.GUEST_LINK_ACTIVE,
	}
	decision := EvaluateGuestLink(link, now)
	assert.False(t, decision.Valid)
	assert.Equal(t, types.GUEST_LINK_EXPIRED, decision.Status)
}

func TestEvaluateGuestLinkPersistedStatusWins(t *testing.T) {
	now := time.Now()
	link := &models.GuestLink{
		ExpiresAt: now.Add(time.Hour),
		MaxUses:   5,
		UsedCount: 0,
		Status:    types.GUEST_LINK_USED,
	}
	decision := EvaluateGuestLink(link, now)
	assert.False(t, decision.Valid)
	assert.Equal(t, types.GUEST_LINK_USED, decision.Status)
}

// Consuming an expired link still writes the expired status. The
// write runs outside the consume transaction, so the failed consume
// cannot roll it back.
func TestConsumeExpiredLinkPersistsExpiry(t *testing.T) {
	gormDB, mock := newMockDB()

	mock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows(
		[]string{"id", "agreement_id", "token", "expires_at", "max_uses", "used_count", "status"}).
		AddRow(3, 1, "stale-token", time.Now().Add(-time.Hour), 1, 0, "active"))
	mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 1))

	link, err := ConsumeGuestLink(gormDB, "stale-token")
	assert.Nil(t, link)
	assert.ErrorIs(t, err, ErrGuestLinkExhausted)
	assert.Nil(t, mock.ExpectationsWereMet())
}
