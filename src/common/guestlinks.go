package common

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"brs/src/models"
	"brs/src/types"
)

var ErrGuestLinkExhausted = errors.New("Guest link has no remaining uses")

// GuestLinkDecision is the outcome of evaluating a link at a point in time.
type GuestLinkDecision struct {
	Valid  bool
	Status types.GuestLinkStatus
	Reason string
}

// EvaluateGuestLink decides the state of a link without touching the
// database. Expiry takes precedence over exhaustion when both hold.
func EvaluateGuestLink(link *models.GuestLink, now time.Time) GuestLinkDecision {
	if link.Status == types.GUEST_LINK_EXPIRED || now.After(link.ExpiresAt) {
		return GuestLinkDecision{Valid: false, Status: types.GUEST_LINK_EXPIRED, Reason: "link expired"}
	}
	if link.Status == types.GUEST_LINK_USED || link.UsedCount >= link.MaxUses {
		return GuestLinkDecision{Valid: false, Status: types.GUEST_LINK_USED, Reason: "link already used"}
	}
	return GuestLinkDecision{Valid: true, Status: types.GUEST_LINK_ACTIVE}
}

// ValidateGuestLink loads a link by token and evaluates it. A link
// found expired is persisted as such so later reads are consistent.
func ValidateGuestLink(db *gorm.DB, token string) (*models.GuestLink, GuestLinkDecision, error) {
	var link models.GuestLink
	if err := db.Where("token = ?", token).First(&link).Error; err != nil {
		return nil, GuestLinkDecision{}, err
	}
	decision := EvaluateGuestLink(&link, time.Now())
	if decision.Status == types.GUEST_LINK_EXPIRED && link.Status != types.GUEST_LINK_EXPIRED {
		if err := db.Model(&link).Update("status", types.GUEST_LINK_EXPIRED).Error; err != nil {
			return nil, GuestLinkDecision{}, err
		}
	}
	return &link, decision, nil
}

// ConsumeGuestLink burns one use of an active link. The usage counter
// is advanced with a conditional update so concurrent consumers cannot
// push it past max_uses. Validation runs before the transaction so a
// lazily discovered expiry is persisted even though the consume fails.
func ConsumeGuestLink(db *gorm.DB, token string) (*models.GuestLink, error) {
	link, decision, err := ValidateGuestLink(db, token)
	if err != nil {
		return nil, err
	}
	if !decision.Valid {
		return nil, ErrGuestLinkExhausted
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.GuestLink{}).
			Where("id = ? AND used_count < max_uses", link.ID).
			Update("used_count", gorm.Expr("used_count + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrGuestLinkExhausted
		}
		if err := tx.First(link, link.ID).Error; err != nil {
			return err
		}
		if link.UsedCount >= link.MaxUses {
			if err := tx.Model(link).Update("status", types.GUEST_LINK_USED).Error; err != nil {
				return err
			}
			link.Status = types.GUEST_LINK_USED
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

// CreateGuestLink mints a fresh single-use link for an agreement.
func CreateGuestLink(tx *gorm.DB, agreementID uint, expiresInDays int, maxUses int) (*models.GuestLink, error) {
	if expiresInDays < 1 {
		expiresInDays = 7
	}
	if maxUses < 1 {
		maxUses = 1
	}
	link := models.GuestLink{
		AgreementID: agreementID,
		Token:       uuid.NewString(),
		ExpiresAt:   time.Now().AddDate(0, 0, expiresInDays),
		MaxUses:     maxUses,
		Status:      types.GUEST_LINK_ACTIVE,
	}
	if err := tx.Create(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}
