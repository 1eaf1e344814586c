package types

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type AgreementStatus string

const (
	AGREEMENT_PENDING   AgreementStatus = "pending"
	AGREEMENT_SIGNED    AgreementStatus = "signed"
	AGREEMENT_COMPLETED AgreementStatus = "completed"
)

type BikeStatus string

const (
	BIKE_AVAILABLE   BikeStatus = "available"
	BIKE_RENTED      BikeStatus = "rented"
	BIKE_MAINTENANCE BikeStatus = "maintenance"
)

type GuestLinkStatus string

const (
	GUEST_LINK_ACTIVE  GuestLinkStatus = "active"
	GUEST_LINK_EXPIRED GuestLinkStatus = "expired"
	GUEST_LINK_USED    GuestLinkStatus = "used"
)

type PdfStatus string

const (
	PDF_GENERATED  PdfStatus = "generated"
	PDF_DOWNLOADED PdfStatus = "downloaded"
)

// Audit actions recorded against agreements.
const (
	AUDIT_ASSIGN_BIKE      = "assign_bike"
	AUDIT_DELETE_AGREEMENT = "delete_agreement"
	AUDIT_DOWNLOAD_PDF     = "download_pdf"
	AUDIT_UPDATE_PRICING   = "update_pricing"
)

type TouristData struct {
	FirstName   string  `json:"first_name" binding:"required"`
	LastName    string  `json:"last_name" binding:"required"`
	PassportNo  string  `json:"passport_no" binding:"required"`
	Nationality string  `json:"nationality" binding:"required"`
	HomeAddress string  `json:"home_address" binding:"required"`
	PhoneNumber string  `json:"phone_number" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	HotelName   *string `json:"hotel_name,omitempty"`
}

type CreateAgreementRequestBody struct {
	TouristData    TouristData `json:"tourist_data" binding:"required"`
	Signature      string      `json:"signature" binding:"required"`
	StartDate      string      `json:"start_date" binding:"required,rentaldate"`
	EndDate        string      `json:"end_date" binding:"required,rentaldate,gtedate=StartDate"`
	DailyRate      float64     `json:"daily_rate,omitempty" binding:"omitempty,min=0"`
	TotalAmount    float64     `json:"total_amount,omitempty" binding:"omitempty,min=0"`
	Deposit        float64     `json:"deposit,omitempty" binding:"omitempty,min=0"`
	RequestedModel *string     `json:"requested_model,omitempty"`
	OutsideArea    bool        `json:"outside_area,omitempty"`
}

type UpdateAgreementRequestBody struct {
	BikeID      *uint            `json:"bike_id,omitempty"`
	StartDate   *string          `json:"start_date,omitempty" binding:"omitempty,rentaldate"`
	EndDate     *string          `json:"end_date,omitempty" binding:"omitempty,rentaldate"`
	DailyRate   *float64         `json:"daily_rate,omitempty" binding:"omitempty,min=0"`
	TotalAmount *float64         `json:"total_amount,omitempty" binding:"omitempty,min=0"`
	Deposit     *float64         `json:"deposit,omitempty" binding:"omitempty,min=0"`
	Status      *AgreementStatus `json:"status,omitempty" binding:"omitempty,oneof=pending signed completed"`
}

type AgreementsQueryFilters struct {
	Page      int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit     int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Search    string `form:"search"`
	Status    string `form:"status" binding:"omitempty,oneof=pending signed completed"`
	StartDate string `form:"start_date" binding:"omitempty,rentaldate"`
	EndDate   string `form:"end_date" binding:"omitempty,rentaldate"`
}

type CreateBikeRequestBody struct {
	Model              string     `json:"model" binding:"required"`
	FrameNo            string     `json:"frame_no" binding:"required"`
	PlateNo            string     `json:"plate_no" binding:"required"`
	AvailabilityStatus BikeStatus `json:"availability_status,omitempty" binding:"omitempty,oneof=available rented maintenance"`
}

type UpdateBikeRequestBody struct {
	Model              *string     `json:"model,omitempty"`
	FrameNo            *string     `json:"frame_no,omitempty"`
	PlateNo            *string     `json:"plate_no,omitempty"`
	AvailabilityStatus *BikeStatus `json:"availability_status,omitempty" binding:"omitempty,oneof=available rented maintenance"`
}

type BikeMeta struct {
	Color *string `json:"color,omitempty"`
	Specs *string `json:"specs,omitempty"`
}

type CreateGuestLinkRequestBody struct {
	AgreementID   uint `json:"agreement_id" binding:"required"`
	ExpiresInDays int  `json:"expires_in_days,omitempty" binding:"omitempty,min=1"`
	MaxUses       int  `json:"max_uses,omitempty" binding:"omitempty,min=1"`
}

type AdminLoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SetupAdminRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type UpdateDailyRateRequestBody struct {
	DailyRate *float64 `json:"daily_rate" binding:"required,min=0"`
}

type QuoteRequestBody struct {
	ModelID      string  `json:"model_id" binding:"required"`
	StartDate    string  `json:"start_date" binding:"required,rentaldate"`
	EndDate      string  `json:"end_date" binding:"required,rentaldate,gtedate=StartDate"`
	OutsideArea  bool    `json:"outside_area,omitempty"`
	ExchangeRate float64 `json:"exchange_rate,omitempty" binding:"omitempty,gt=0"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type TokenURIParams struct {
	Token string `uri:"token" binding:"required"`
}

type ReferenceURIParams struct {
	Reference string `uri:"reference" binding:"required"`
}

type BikeModel struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	DailyRateLKR   float64 `json:"dailyRateLKR"`
	MonthlyRateLKR float64 `json:"monthlyRateLKR"`
}

type PricingRules struct {
	LongTermDiscountDays       int     `json:"longTermDiscountDays"`
	LongTermDiscountPercentage float64 `json:"longTermDiscountPercentage"`
	OutsideAreaRateLKR         float64 `json:"outsideAreaRateLKR"`
}

type PricingConfig struct {
	Models []BikeModel  `json:"models"`
	Rules  PricingRules `json:"rules"`
}

type Quote struct {
	TotalAmount        float64 `json:"total_amount"`
	Days               int     `json:"days"`
	EffectiveDailyRate float64 `json:"effective_daily_rate"`
}

type UpdatePricingConfigRequestBody struct {
	Models []BikeModel  `json:"models" binding:"required,min=1,dive"`
	Rules  PricingRules `json:"rules" binding:"required"`
}

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type AuthResponseUser struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AuthResponse struct {
	Token string           `json:"token"`
	User  AuthResponseUser `json:"user"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}
