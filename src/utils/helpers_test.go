package utils

import (
	"log"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"brs/src/db"
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

func TestMakeAgreementNoFormat(t *testing.T) {
	no := MakeAgreementNo(time.Now())
	assert.Regexp(t, regexp.MustCompile(`^SRI-\d{6}$`), no)
}

func TestMakeAgreementNoUsesLastSixMillisDigits(t *testing.T) {
	at := time.UnixMilli(1700000654321)
	assert.Equal(t, "SRI-654321", MakeAgreementNo(at))
}

func TestStatusTransitionForwardOnly(t *testing.T) {
	assert.Nil(t, ValidateStatusTransition(types.AGREEMENT_PENDING, types.AGREEMENT_SIGNED))
	assert.Nil(t, ValidateStatusTransition(types.AGREEMENT_SIGNED, types.AGREEMENT_COMPLETED))
	assert.Nil(t, ValidateStatusTransition(types.AGREEMENT_PENDING, types.AGREEMENT_COMPLETED))
}

func TestStatusTransitionSameStatusIsNoop(t *testing.T) {
	assert.Nil(t, ValidateStatusTransition(types.AGREEMENT_SIGNED, types.AGREEMENT_SIGNED))
}

func TestStatusTransitionRejectsBackward(t *testing.T) {
	assert.ErrorIs(t, ValidateStatusTransition(types.AGREEMENT_SIGNED, types.AGREEMENT_PENDING), ErrInvalidTransition)
	assert.ErrorIs(t, ValidateStatusTransition(types.AGREEMENT_COMPLETED, types.AGREEMENT_SIGNED), ErrInvalidTransition)
	assert.ErrorIs(t, ValidateStatusTransition(types.AGREEMENT_COMPLETED, types.AGREEMENT_PENDING), ErrInvalidTransition)
}

func TestStatusTransitionUnknownStatus(t *testing.T) {
	assert.NotNil(t, ValidateStatusTransition("cancelled", types.AGREEMENT_SIGNED))
	assert.NotNil(t, ValidateStatusTransition(types.AGREEMENT_PENDING, "archived"))
}

func TestNewBookingAgreementStampsSignedAt(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC)
	agreement, err := newBookingAgreement(&types.CreateAgreementRequestBody{
		StartDate: "2026-01-11",
		EndDate:   "2026-01-14",
	}, now)

	assert.Nil(t, err)
	assert.Equal(t, types.AGREEMENT_PENDING, agreement.Status)
	assert.NotNil(t, agreement.SignedAt)
	assert.Equal(t, now, *agreement.SignedAt)
	assert.Equal(t, MakeAgreementNo(now), agreement.AgreementNo)
}

func TestNewBookingAgreementRejectsBadDates(t *testing.T) {
	_, err := newBookingAgreement(&types.CreateAgreementRequestBody{
		StartDate: "11-01-2026",
		EndDate:   "2026-01-14",
	}, time.Now())
	assert.NotNil(t, err)
}

func TestPlanBikeAssignmentNewBike(t *testing.T) {
	plan := planBikeAssignment(nil, 5, 2)
	assert.True(t, plan.ClaimNeeded)
	assert.Nil(t, plan.ReleaseBikeID)
	assert.Equal(t, types.AGREEMENT_COMPLETED, plan.Updates["status"])
}

func TestPlanBikeAssignmentSwapReleasesOldBike(t *testing.T) {
	old := uint(3)
	plan := planBikeAssignment(&old, 5, 2)
	assert.True(t, plan.ClaimNeeded)
	assert.Equal(t, &old, plan.ReleaseBikeID)
}

// Re-assigning the already-attached bike skips the claim but still
// completes the agreement and stamps the acting admin.
func TestPlanBikeAssignmentSameBikeStillCompletes(t *testing.T) {
	current := uint(5)
	plan := planBikeAssignment(&current, 5, 2)

	assert.False(t, plan.ClaimNeeded)
	assert.Nil(t, plan.ReleaseBikeID)
	assert.Equal(t, types.AGREEMENT_COMPLETED, plan.Updates["status"])
	assert.Equal(t, uint(2), plan.Updates["admin_id"])
	assert.Equal(t, uint(5), plan.Updates["bike_id"])
}

func TestSoftDeleteAgreementReturnsRecord(t *testing.T) {
	gormDB, mock := newMockDB()
	db.NewDB(gormDB)

	mock.MatchExpectationsInOrder(false)
	mock.ExpectBegin()
	mock.ExpectQuery(".*").WillReturnRows(
		sqlmock.NewRows([]string{"id", "agreement_no", "status"}).
			AddRow(7, "SRI-123456", "pending"))
	mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(".*").WillReturnRows(
		sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectCommit()

	deleted, err := SoftDeleteAgreement(7, "admin@example.com", nil, nil)
	assert.Nil(t, err)
	assert.NotNil(t, deleted)
	assert.Equal(t, uint(7), deleted.ID)
	assert.Equal(t, "SRI-123456", deleted.AgreementNo)
	assert.True(t, deleted.DeletedAt.Valid)
}
