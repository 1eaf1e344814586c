package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"

	"brs/src/common"
	"brs/src/models"
	"brs/src/types"
)

type TestSuite struct {
	suite.Suite
}

func (s *TestSuite) SetupSuite() {
	registerValidators()
	os.Unsetenv("REDIS_HOST")
	os.Unsetenv("S3_AGREEMENTS_BUCKET")
}

func (s *TestSuite) TestPingRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestMaintenanceMode() {
	os.Setenv("MAINTENANCE_MODE", "true")
	defer os.Unsetenv("MAINTENANCE_MODE")

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	apiv1Group(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 503, w.Code)
}

func (s *TestSuite) TestCreateAgreementValidation() {
	router := setupRouter()
	publicRoutes(router)

	s.Run("Should reject an empty body", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/agreements", strings.NewReader(`{}`))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		assert.NotEmpty(s.T(), gjson.Get(string(rbytes), "error").String())
	})

	s.Run("Should reject an end date before the start date", func() {
		body := types.CreateAgreementRequestBody{
			TouristData: types.TouristData{
				FirstName:   "Ann",
				LastName:    "Lee",
				PassportNo:  "N1234567",
				Nationality: "GB",
				HomeAddress: "1 High Street",
				PhoneNumber: "+4477000000",
				Email:       "ann@example.com",
			},
			Signature: "data:image/png;base64,aGVsbG8=",
			StartDate: "2026-02-10",
			EndDate:   "2026-02-05",
		}
		rbytes, _ := json.Marshal(&body)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/agreements", strings.NewReader(string(rbytes)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestQuoteEndpoint() {
	router := setupRouter()
	publicRoutes(router)

	s.Run("Should price a short rental with the default catalog", func() {
		body := types.QuoteRequestBody{
			ModelID:   "honda-dio",
			StartDate: "2026-01-01",
			EndDate:   "2026-01-04",
		}
		rbytes, _ := json.Marshal(&body)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/settings/quote", strings.NewReader(string(rbytes)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		resbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		res := string(resbytes)
		assert.Equal(s.T(), float64(7500), gjson.Get(res, "data.total_amount").Float())
		assert.Equal(s.T(), int64(3), gjson.Get(res, "data.days").Int())
	})

	s.Run("Should apply the long-term discount", func() {
		body := types.QuoteRequestBody{
			ModelID:   "honda-dio",
			StartDate: "2026-01-01",
			EndDate:   "2026-01-05",
		}
		rbytes, _ := json.Marshal(&body)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/settings/quote", strings.NewReader(string(rbytes)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		resbytes, _ := io.ReadAll(w.Body)
		assert.InDelta(s.T(), 9000, gjson.Get(string(resbytes), "data.total_amount").Float(), 0.001)
	})

	s.Run("Should convert the total when an exchange rate is given", func() {
		body := types.QuoteRequestBody{
			ModelID:      "honda-dio",
			StartDate:    "2026-01-01",
			EndDate:      "2026-01-04",
			ExchangeRate: 0.0033,
		}
		rbytes, _ := json.Marshal(&body)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/settings/quote", strings.NewReader(string(rbytes)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		resbytes, _ := io.ReadAll(w.Body)
		assert.InDelta(s.T(), 24.75, gjson.Get(string(resbytes), "converted_total").Float(), 0.001)
	})

	s.Run("Should return 404 for an unknown model", func() {
		body := types.QuoteRequestBody{
			ModelID:   "vespa-px",
			StartDate: "2026-01-01",
			EndDate:   "2026-01-04",
		}
		rbytes, _ := json.Marshal(&body)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/settings/quote", strings.NewReader(string(rbytes)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 404, w.Code)
	})
}

func (s *TestSuite) TestCreateAgreementResponsePayload() {
	agreement := &models.Agreement{
		ID:          9,
		AgreementNo: "SRI-654321",
		Status:      types.AGREEMENT_PENDING,
	}
	link := &models.GuestLink{Token: "tok-abc"}

	rbytes, err := json.Marshal(createAgreementResponse(agreement, link))
	assert.Nil(s.T(), err)
	res := string(rbytes)
	assert.Equal(s.T(), int64(9), gjson.Get(res, "agreement_id").Int())
	assert.Equal(s.T(), "SRI-654321", gjson.Get(res, "agreement_no").String())
	assert.Equal(s.T(), "pending", gjson.Get(res, "status").String())
	assert.Equal(s.T(), "tok-abc", gjson.Get(res, "guest_token").String())
}

func (s *TestSuite) TestGuestLinkValidationPayload() {
	s.Run("Should report a usable link with its remaining budget", func() {
		link := &models.GuestLink{
			AgreementID: 4,
			ExpiresAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			MaxUses:     1,
			UsedCount:   0,
		}
		rbytes, err := json.Marshal(guestLinkValidResponse(link))
		assert.Nil(s.T(), err)
		res := string(rbytes)
		assert.True(s.T(), gjson.Get(res, "valid").Bool())
		assert.Equal(s.T(), int64(4), gjson.Get(res, "agreement_id").Int())
		assert.True(s.T(), gjson.Get(res, "expires_at").Exists())
		assert.Equal(s.T(), int64(1), gjson.Get(res, "max_uses").Int())
		assert.Equal(s.T(), int64(0), gjson.Get(res, "used_count").Int())
	})

	s.Run("Should report an unusable link with the reason", func() {
		decision := common.GuestLinkDecision{
			Valid:  false,
			Status: types.GUEST_LINK_EXPIRED,
			Reason: "link expired",
		}
		rbytes, err := json.Marshal(guestLinkInvalidResponse(decision))
		assert.Nil(s.T(), err)
		res := string(rbytes)
		assert.False(s.T(), gjson.Get(res, "valid").Bool())
		assert.Equal(s.T(), "expired", gjson.Get(res, "status").String())
		assert.Equal(s.T(), "link expired", gjson.Get(res, "error").String())
	})
}

func (s *TestSuite) TestPublicSettingsReads() {
	router := setupRouter()
	publicRoutes(router)

	s.Run("Should serve the pricing catalog without auth", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/settings/pricing", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		rbytes, _ := io.ReadAll(w.Body)
		assert.Equal(s.T(), int64(5), gjson.Get(string(rbytes), "data.models.#").Int())
	})

	s.Run("Should serve the daily rate without auth", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/settings/daily-rate", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		rbytes, _ := io.ReadAll(w.Body)
		assert.Equal(s.T(), float64(5000), gjson.Get(string(rbytes), "daily_rate").Float())
	})
}

func (s *TestSuite) TestAuthMe() {
	router := setupRouter()
	g := router.Group(apiPrefix)
	g.Use(func(ctx *gin.Context) {
		ctx.Set("id", uint(4))
		ctx.Set("email", "admin@example.com")
		ctx.Set("role", "admin")
	})
	sessionHandlers(g)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/auth/me", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
	rbytes, _ := io.ReadAll(w.Body)
	res := string(rbytes)
	assert.Equal(s.T(), int64(4), gjson.Get(res, "user.id").Int())
	assert.Equal(s.T(), "admin@example.com", gjson.Get(res, "user.email").String())
	assert.Equal(s.T(), "admin", gjson.Get(res, "user.role").String())
}

func (s *TestSuite) TestRouteSurface() {
	router := setupRouter()
	publicRoutes(router)
	authorized := router.Group(apiPrefix)
	sessionHandlers(authorized)
	agreementHandlers(authorized)
	bikeHandlers(authorized)
	guestLinkHandlers(authorized)
	pdfHandlers(authorized)
	settingsHandlers(authorized)

	registered := map[string]bool{}
	for _, route := range router.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"GET /api/v1/settings/pricing",
		"GET /api/v1/settings/daily-rate",
		"GET /api/v1/guest-links/validate/:token",
		"GET /api/v1/auth/me",
		"POST /api/v1/pdf/generate/:id",
		"GET /api/v1/pdf/download/:id",
		"GET /api/v1/pdf/url/:id",
		"PUT /api/v1/bikes/:id/archive",
	} {
		assert.Truef(s.T(), registered[want], "missing route %s", want)
	}
}

func (s *TestSuite) TestResolveAgreementBike() {
	s.Run("Should reject an agreement with no bike", func() {
		agreement := models.Agreement{}
		err := resolveAgreementBike(nil, &agreement)
		assert.NotNil(s.T(), err)
		assert.Equal(s.T(), "Agreement does not have a bike assigned", err.Error())
	})

	s.Run("Should accept a preloaded bike without a lookup", func() {
		agreement := models.Agreement{
			Bike: &models.Bike{ID: 2, Model: "Honda Dio", PlateNo: "BFV-1234"},
		}
		assert.Nil(s.T(), resolveAgreementBike(nil, &agreement))
	})
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
