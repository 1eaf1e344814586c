package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"brs/src/db"
	"brs/src/models"
	"brs/src/models/scopes"
	"brs/src/types"
	"brs/src/utils"
)

// createAgreementResponse is the booking confirmation payload. The
// guest token rides along so the form can show the signing link.
func createAgreementResponse(agreement *models.Agreement, link *models.GuestLink) gin.H {
	return gin.H{
		"agreement_id": agreement.ID,
		"agreement_no": agreement.AgreementNo,
		"status":       agreement.Status,
		"guest_token":  link.Token,
	}
}

// publicAgreementRoutes carries the unauthenticated booking surface.
func publicAgreementRoutes(apiv1 *gin.RouterGroup) *gin.RouterGroup {
	agreements := apiv1.Group("/agreements")
	agreements.
		POST("", func(ctx *gin.Context) {
			var body types.CreateAgreementRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			agreement, link, err := utils.CreateNewAgreement(&body)
			if err != nil {
				log.Printf("[CreateNewAgreement] error: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, createAgreementResponse(agreement, link))
		}).
		GET("/public/:reference", func(ctx *gin.Context) {
			var params types.ReferenceURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var agreement models.Agreement
			err := db.GetDb().
				Preload("Tourist").
				Preload("Bike").
				Where("agreement_no = ?", params.Reference).
				First(&agreement).
				Error
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Agreement not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": agreement})
		})
	return apiv1
}

func agreementHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	agreements := g.Group("/agreements")
	agreements.
		GET("", func(ctx *gin.Context) {
			var filters types.AgreementsQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			list, pagination, err := utils.GetAgreements(&filters)
			if err != nil {
				log.Printf("[GetAgreements] error: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": list, "pagination": pagination})
		}).
		GET("/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var agreement models.Agreement
			err := db.GetDb().
				Preload("Tourist").
				Preload("Bike").
				Preload("Admin").
				Scopes(scopes.WithID(params.ID)).
				First(&agreement).
				Error
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Agreement not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": agreement})
		}).
		PUT("/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateAgreementRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var agreement models.Agreement
			if err := db.GetDb().Scopes(scopes.WithID(params.ID)).First(&agreement).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Agreement not found"})
				return
			}
			if body.BikeID != nil {
				adminID := ctx.GetUint("id")
				updated, err := utils.AssignBike(agreement.ID, *body.BikeID, adminID, ctx.GetString("email"))
				if err != nil {
					if errors.Is(err, utils.ErrBikeNotAvailable) {
						ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
						return
					}
					log.Printf("[AssignBike] error: %s\n", err.Error())
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				agreement = *updated
			}
			if err := utils.UpdateAgreementFields(&agreement, &body); err != nil {
				if errors.Is(err, utils.ErrInvalidTransition) {
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := db.GetDb().Preload("Tourist").Preload("Bike").First(&agreement, agreement.ID).Error; err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": agreement})
		}).
		DELETE("/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			ip := ctx.ClientIP()
			ua := ctx.Request.UserAgent()
			deleted, err := utils.SoftDeleteAgreement(params.ID, ctx.GetString("email"), &ip, &ua)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "Agreement not found"})
					return
				}
				log.Printf("[SoftDeleteAgreement] error: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": deleted})
		}).
		GET("/:id/audit", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var events []models.AuditEvent
			err := db.GetDb().
				Where("agreement_id = ?", params.ID).
				Order("timestamp DESC").
				Find(&events).
				Error
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events})
		})
	return g
}
