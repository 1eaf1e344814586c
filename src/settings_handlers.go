package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"brs/src/common"
	"brs/src/config"
	"brs/src/db"
	"brs/src/types"
	"brs/src/utils"
)

// publicSettingsRoutes exposes the pricing reads and the quote
// endpoint so the booking form can price a rental before an agreement
// exists.
func publicSettingsRoutes(apiv1 *gin.RouterGroup) *gin.RouterGroup {
	apiv1.GET("/settings/pricing", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"data": common.GetPricingConfig()})
	})
	apiv1.GET("/settings/daily-rate", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"daily_rate": common.GetDailyRate()})
	})
	apiv1.POST("/settings/quote", func(ctx *gin.Context) {
		var body types.QuoteRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cfg := common.GetPricingConfig()
		model, err := common.FindModel(cfg, body.ModelID)
		if err != nil {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		startDate, err := time.Parse(config.DATE_PARSE_FORMAT, body.StartDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		endDate, err := time.Parse(config.DATE_PARSE_FORMAT, body.EndDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		quote := common.ComputeQuote(*model, startDate, endDate, body.OutsideArea, cfg.Rules)
		res := gin.H{"data": quote}
		if body.ExchangeRate > 0 {
			res["converted_total"] = common.ConvertTotal(quote.TotalAmount, body.ExchangeRate)
		}
		ctx.JSON(http.StatusOK, res)
	})
	return apiv1
}

func settingsHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	settings := g.Group("/settings")
	settings.
		PUT("/pricing", func(ctx *gin.Context) {
			var body types.UpdatePricingConfigRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			cfg := types.PricingConfig{
				Models: body.Models,
				Rules:  body.Rules,
			}
			if err := common.PutPricingConfig(cfg); err != nil {
				log.Printf("[PutPricingConfig] error: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ip := ctx.ClientIP()
			ua := ctx.Request.UserAgent()
			db.GetDb().Transaction(func(tx *gorm.DB) error {
				utils.RecordAuditEvent(tx, ctx.GetString("email"), types.AUDIT_UPDATE_PRICING, nil, &ip, &ua)
				return nil
			})
			ctx.JSON(http.StatusOK, gin.H{"data": common.GetPricingConfig()})
		}).
		PUT("/daily-rate", func(ctx *gin.Context) {
			var body types.UpdateDailyRateRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := common.PutDailyRate(*body.DailyRate); err != nil {
				log.Printf("[PutDailyRate] error: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"daily_rate": *body.DailyRate})
		})
	return g
}
