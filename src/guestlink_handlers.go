package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/yeqown/go-qrcode"
	"gorm.io/gorm"

	"brs/src/common"
	"brs/src/db"
	"brs/src/models"
	"brs/src/models/scopes"
	"brs/src/types"
)

// guestLinkValidResponse reports a usable link together with its
// remaining budget so the signing page can render it.
func guestLinkValidResponse(link *models.GuestLink) gin.H {
	return gin.H{
		"valid":        true,
		"agreement_id": link.AgreementID,
		"expires_at":   link.ExpiresAt,
		"max_uses":     link.MaxUses,
		"used_count":   link.UsedCount,
	}
}

func guestLinkInvalidResponse(decision common.GuestLinkDecision) gin.H {
	return gin.H{
		"valid":  false,
		"error":  decision.Reason,
		"status": decision.Status,
	}
}

// guestLinkPublicRoutes exposes the tourist-facing link surface. No
// auth here; possession of the token is the credential.
func guestLinkPublicRoutes(apiv1 *gin.RouterGroup) *gin.RouterGroup {
	links := apiv1.Group("/guest-links")
	links.
		GET("/validate/:token", func(ctx *gin.Context) {
			var params types.TokenURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			link, decision, err := common.ValidateGuestLink(db.GetDb(), params.Token)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if !decision.Valid {
				ctx.JSON(http.StatusGone, guestLinkInvalidResponse(decision))
				return
			}
			ctx.JSON(http.StatusOK, guestLinkValidResponse(link))
		}).
		POST("/:token/use", func(ctx *gin.Context) {
			var params types.TokenURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			link, err := common.ConsumeGuestLink(db.GetDb(), params.Token)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
					return
				}
				if errors.Is(err, common.ErrGuestLinkExhausted) {
					ctx.JSON(http.StatusGone, gin.H{"error": "Link is expired or already used"})
					return
				}
				log.Printf("[ConsumeGuestLink] error: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": link})
		}).
		GET("/:token/agreement", func(ctx *gin.Context) {
			var params types.TokenURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			link, decision, err := common.ValidateGuestLink(db.GetDb(), params.Token)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if !decision.Valid {
				ctx.JSON(http.StatusGone, guestLinkInvalidResponse(decision))
				return
			}
			var agreement models.Agreement
			err = db.GetDb().
				Preload("Tourist").
				Preload("Bike").
				Scopes(scopes.WithID(link.AgreementID)).
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

func guestLinkHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	links := g.Group("/guest-links")
	links.
		POST("", func(ctx *gin.Context) {
			var body types.CreateGuestLinkRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var agreement models.Agreement
			if err := db.GetDb().Scopes(scopes.WithID(body.AgreementID)).First(&agreement).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Agreement not found"})
				return
			}
			var link *models.GuestLink
			err := db.GetDb().Transaction(func(tx *gorm.DB) error {
				l, err := common.CreateGuestLink(tx, agreement.ID, body.ExpiresInDays, body.MaxUses)
				if err != nil {
					return err
				}
				link = l
				return nil
			})
			if err != nil {
				log.Printf("[CreateGuestLink] error: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": link})
		}).
		GET("/:token/qr", func(ctx *gin.Context) {
			var params types.TokenURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var link models.GuestLink
			if err := db.GetDb().Scopes(scopes.WithToken(params.Token)).First(&link).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
				return
			}
			signURL := fmt.Sprintf("%s/sign/%s", os.Getenv("FRONTEND_URL"), link.Token)
			qrc, err := qrcode.New(signURL)
			if err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			tempdir := os.Getenv("TEMP_DIR")
			if tempdir == "" {
				tempdir = os.TempDir()
			}
			filepath := path.Join(tempdir, fmt.Sprintf("%s.jpeg", link.Token))
			if err := qrc.Save(filepath); err != nil {
				log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.FileAttachment(filepath, fmt.Sprintf("%s.jpeg", link.Token))
		})
	return g
}
