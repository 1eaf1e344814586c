package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"brs/src/common"
	"brs/src/config"
	"brs/src/db"
	"brs/src/lib/aws"
	"brs/src/lib/mailer"
	"brs/src/models"
	"brs/src/models/scopes"
	"brs/src/types"
)

var ErrBikeNotAvailable = errors.New("Bike is not available")
var ErrInvalidTransition = errors.New("Invalid status transition")

// MakeAgreementNo derives the human-facing reference from the creation
// instant: SRI- plus the last six digits of the epoch milliseconds.
func MakeAgreementNo(at time.Time) string {
	millis := fmt.Sprintf("%d", at.UnixMilli())
	return "SRI-" + millis[len(millis)-6:]
}

var statusRank = map[types.AgreementStatus]int{
	types.AGREEMENT_PENDING:   0,
	types.AGREEMENT_SIGNED:    1,
	types.AGREEMENT_COMPLETED: 2,
}

// ValidateStatusTransition allows only forward movement through the
// agreement lifecycle. Same-status writes are accepted as no-ops.
func ValidateStatusTransition(from, to types.AgreementStatus) error {
	fromRank, ok := statusRank[from]
	if !ok {
		return fmt.Errorf("unknown agreement status: %s", from)
	}
	toRank, ok := statusRank[to]
	if !ok {
		return fmt.Errorf("unknown agreement status: %s", to)
	}
	if toRank < fromRank {
		return ErrInvalidTransition
	}
	return nil
}

func uploadSignature(signature string) (*string, error) {
	data := signature
	if idx := strings.Index(data, ","); idx >= 0 && strings.HasPrefix(data, "data:") {
		data = data[idx+1:]
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("signature is not valid base64: %w", err)
	}
	key := fmt.Sprintf("signatures/%s.png", uuid.NewString())
	return aws.S3UploadBlob(key, decoded, "image/png")
}

// newBookingAgreement builds the pending agreement record for the
// public booking flow. The tourist signs at booking time, so signed_at
// is stamped with the creation instant.
func newBookingAgreement(body *types.CreateAgreementRequestBody, now time.Time) (models.Agreement, error) {
	startDate, err := time.Parse(config.DATE_PARSE_FORMAT, body.StartDate)
	if err != nil {
		return models.Agreement{}, err
	}
	endDate, err := time.Parse(config.DATE_PARSE_FORMAT, body.EndDate)
	if err != nil {
		return models.Agreement{}, err
	}
	signedAt := now
	return models.Agreement{
		AgreementNo:    MakeAgreementNo(now),
		StartDate:      startDate,
		EndDate:        endDate,
		DailyRate:      body.DailyRate,
		TotalAmount:    body.TotalAmount,
		Deposit:        body.Deposit,
		Status:         types.AGREEMENT_PENDING,
		SignedAt:       &signedAt,
		RequestedModel: body.RequestedModel,
		OutsideArea:    body.OutsideArea,
	}, nil
}

// CreateNewAgreement runs the public booking flow: stores the
// signature image, snapshots the tourist, creates the pending
// agreement with its guest link, then fires notifications without
// blocking the response. The minted link is returned so the booking
// form can show the signing token.
func CreateNewAgreement(body *types.CreateAgreementRequestBody) (*models.Agreement, *models.GuestLink, error) {
	now := time.Now()
	agreement, err := newBookingAgreement(body, now)
	if err != nil {
		return nil, nil, err
	}
	signatureURL, err := uploadSignature(body.Signature)
	if err != nil {
		log.Printf("Signature upload failed: %s\n", err.Error())
		return nil, nil, err
	}
	agreement.SignatureURL = signatureURL

	var link *models.GuestLink
	err = db.GetDb().Transaction(func(tx *gorm.DB) error {
		tourist := models.Tourist{
			FirstName:   body.TouristData.FirstName,
			LastName:    body.TouristData.LastName,
			PassportNo:  body.TouristData.PassportNo,
			Nationality: body.TouristData.Nationality,
			HomeAddress: body.TouristData.HomeAddress,
			PhoneNumber: body.TouristData.PhoneNumber,
			Email:       body.TouristData.Email,
			HotelName:   body.TouristData.HotelName,
		}
		if err := tx.Create(&tourist).Error; err != nil {
			return err
		}
		agreement.TouristID = tourist.ID
		if err := tx.Create(&agreement).Error; err != nil {
			return err
		}
		l, err := common.CreateGuestLink(tx, agreement.ID, 7, 1)
		if err != nil {
			return err
		}
		link = l
		agreement.Tourist = &tourist
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	go func() {
		if err := mailer.SendGuestLinkEmail(agreement.Tourist.FirstName, agreement.Tourist.Email, link.Token, agreement.AgreementNo); err != nil {
			log.Printf("Guest link email failed for %s: %s\n", agreement.AgreementNo, err.Error())
		}
	}()
	go common.DispatchBookingAlert(&agreement, agreement.Tourist)

	return &agreement, link, nil
}

type bikeAssignment struct {
	ClaimNeeded   bool
	ReleaseBikeID *uint
	Updates       map[string]any
}

// planBikeAssignment decides what an assignment has to touch. The
// agreement always moves to completed with the acting admin stamped,
// even when the requested bike is already the one attached.
func planBikeAssignment(currentBikeID *uint, bikeID uint, adminID uint) bikeAssignment {
	plan := bikeAssignment{
		Updates: map[string]any{
			"bike_id":  bikeID,
			"admin_id": adminID,
			"status":   types.AGREEMENT_COMPLETED,
		},
	}
	if currentBikeID != nil && *currentBikeID == bikeID {
		return plan
	}
	plan.ClaimNeeded = true
	plan.ReleaseBikeID = currentBikeID
	return plan
}

// AssignBike attaches a bike to an agreement and marks it completed.
// The bike row is claimed with a conditional update so two admins
// racing for the same bike cannot both win.
func AssignBike(agreementID uint, bikeID uint, adminID uint, actor string) (*models.Agreement, error) {
	var agreement models.Agreement
	err := db.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Scopes(scopes.WithID(agreementID)).First(&agreement).Error; err != nil {
			return err
		}
		plan := planBikeAssignment(agreement.BikeID, bikeID, adminID)

		if plan.ClaimNeeded {
			claim := tx.Model(&models.Bike{}).
				Where("id = ? AND availability_status = ?", bikeID, types.BIKE_AVAILABLE).
				Update("availability_status", types.BIKE_RENTED)
			if claim.Error != nil {
				return claim.Error
			}
			if claim.RowsAffected == 0 {
				return ErrBikeNotAvailable
			}
			if plan.ReleaseBikeID != nil {
				if err := tx.Model(&models.Bike{}).
					Scopes(scopes.WithID(*plan.ReleaseBikeID)).
					Update("availability_status", types.BIKE_AVAILABLE).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Model(&agreement).Updates(plan.Updates).Error; err != nil {
			return err
		}
		RecordAuditEvent(tx, actor, types.AUDIT_ASSIGN_BIKE, &agreement.ID, nil, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := db.GetDb().Preload("Tourist").Preload("Bike").First(&agreement, agreement.ID).Error; err != nil {
		return nil, err
	}
	return &agreement, nil
}

// UpdateAgreementFields applies a partial admin update, enforcing the
// forward-only status rule when a new status is present.
func UpdateAgreementFields(agreement *models.Agreement, body *types.UpdateAgreementRequestBody) error {
	updates := map[string]any{}
	if body.StartDate != nil {
		d, err := time.Parse(config.DATE_PARSE_FORMAT, *body.StartDate)
		if err != nil {
			return err
		}
		updates["start_date"] = d
	}
	if body.EndDate != nil {
		d, err := time.Parse(config.DATE_PARSE_FORMAT, *body.EndDate)
		if err != nil {
			return err
		}
		updates["end_date"] = d
	}
	if body.DailyRate != nil {
		updates["daily_rate"] = *body.DailyRate
	}
	if body.TotalAmount != nil {
		updates["total_amount"] = *body.TotalAmount
	}
	if body.Deposit != nil {
		updates["deposit"] = *body.Deposit
	}
	if body.Status != nil {
		if err := ValidateStatusTransition(agreement.Status, *body.Status); err != nil {
			return err
		}
		updates["status"] = *body.Status
		if *body.Status == types.AGREEMENT_SIGNED && agreement.SignedAt == nil {
			updates["signed_at"] = time.Now()
		}
	}
	if len(updates) == 0 {
		return nil
	}
	return db.GetDb().Model(agreement).Updates(updates).Error
}

// SoftDeleteAgreement removes an agreement from default listings while
// keeping the row recoverable, and frees its bike if one was attached.
// The deleted record is returned for the response body.
func SoftDeleteAgreement(agreementID uint, actor string, ip *string, userAgent *string) (*models.Agreement, error) {
	var agreement models.Agreement
	err := db.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(scopes.WithID(agreementID)).First(&agreement).Error; err != nil {
			return err
		}
		if agreement.BikeID != nil {
			if err := tx.Model(&models.Bike{}).
				Scopes(scopes.WithID(*agreement.BikeID)).
				Update("availability_status", types.BIKE_AVAILABLE).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&agreement).Error; err != nil {
			return err
		}
		RecordAuditEvent(tx, actor, types.AUDIT_DELETE_AGREEMENT, &agreementID, ip, userAgent)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &agreement, nil
}

var ErrBikeInUse = errors.New("Bike is referenced by active agreements")

// DeleteBike refuses to remove a bike still referenced by a pending or
// signed agreement.
func DeleteBike(bikeID uint) error {
	return db.GetDb().Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Agreement{}).
			Where("bike_id = ?", bikeID).
			Scopes(scopes.NonTerminal).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrBikeInUse
		}
		return tx.Scopes(scopes.WithID(bikeID)).Delete(&models.Bike{}).Error
	})
}

// RecordAuditEvent appends to the audit trail. Failures are logged and
// swallowed so auditing never blocks the operation being audited.
func RecordAuditEvent(tx *gorm.DB, actor string, action string, agreementID *uint, ip *string, userAgent *string) {
	event := models.AuditEvent{
		Actor:       actor,
		Action:      action,
		AgreementID: agreementID,
		IPAddress:   ip,
		UserAgent:   userAgent,
	}
	if err := tx.Create(&event).Error; err != nil {
		log.Printf("Failed to record audit event [%s]: %s\n", action, err.Error())
	}
}

// GetAgreements lists agreements for the back office with filtering
// and pagination. Search matches the reference and tourist identity.
func GetAgreements(filters *types.AgreementsQueryFilters) ([]models.Agreement, *types.Pagination, error) {
	query := db.GetDb().Model(&models.Agreement{}).Joins("Tourist")
	if filters.Status != "" {
		query = query.Where("agreements.status = ?", filters.Status)
	}
	if filters.StartDate != "" {
		query = query.Where("agreements.start_date >= ?", filters.StartDate)
	}
	if filters.EndDate != "" {
		query = query.Where("agreements.end_date <= ?", filters.EndDate)
	}
	if filters.Search != "" {
		term := "%" + filters.Search + "%"
		query = query.Where(
			`agreements.agreement_no ILIKE ? OR "Tourist".first_name ILIKE ? OR "Tourist".last_name ILIKE ? OR "Tourist".passport_no ILIKE ?`,
			term, term, term, term,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset := (filters.Page - 1) * filters.Limit
	var agreements []models.Agreement
	if err := query.Preload("Bike").
		Order("agreements.created_at DESC").
		Offset(offset).
		Limit(filters.Limit).
		Find(&agreements).Error; err != nil {
		return nil, nil, err
	}

	totalPages := total / int64(filters.Limit)
	if total%int64(filters.Limit) > 0 {
		totalPages++
	}
	pagination := types.Pagination{
		Page:       filters.Page,
		Limit:      filters.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
	return agreements, &pagination, nil
}

// GenerateJWT issues a 24h admin session token.
func GenerateJWT(user *models.User) (string, error) {
	claims := types.Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
