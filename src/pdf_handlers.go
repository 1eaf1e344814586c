package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"brs/src/db"
	"brs/src/lib/aws"
	"brs/src/lib/pdf"
	"brs/src/models"
	"brs/src/models/scopes"
	"brs/src/types"
	"brs/src/utils"
)

func agreementPdfData(agreement *models.Agreement) *pdf.AgreementData {
	data := &pdf.AgreementData{
		AgreementNo: agreement.AgreementNo,
		StartDate:   agreement.StartDate.Format("2006-01-02"),
		EndDate:     agreement.EndDate.Format("2006-01-02"),
		DailyRate:   agreement.DailyRate,
		TotalAmount: agreement.TotalAmount,
		Deposit:     agreement.Deposit,
		OutsideArea: agreement.OutsideArea,
		GeneratedAt: agreement.CreatedAt.Format("2006-01-02 15:04"),
	}
	if agreement.Tourist != nil {
		data.TouristName = agreement.Tourist.FirstName + " " + agreement.Tourist.LastName
		data.PassportNo = agreement.Tourist.PassportNo
		data.Country = agreement.Tourist.Nationality
		data.Phone = agreement.Tourist.PhoneNumber
		data.Email = agreement.Tourist.Email
	}
	if agreement.Bike != nil {
		data.BikeModel = agreement.Bike.Model
		data.PlateNumber = agreement.Bike.PlateNo
	}
	if agreement.SignatureURL != nil {
		data.SignatureURL = *agreement.SignatureURL
	}
	if agreement.SignedAt != nil {
		data.SignedAt = agreement.SignedAt.Format("2006-01-02 15:04")
	}
	return data
}

// resolveAgreementBike makes sure the agreement has a bike to print.
// A preloaded relation wins; otherwise the bike is fetched by id.
func resolveAgreementBike(db *gorm.DB, agreement *models.Agreement) error {
	if agreement.Bike != nil {
		return nil
	}
	if agreement.BikeID == nil {
		return errors.New("Agreement does not have a bike assigned")
	}
	var bike models.Bike
	if err := db.Scopes(scopes.WithID(*agreement.BikeID)).First(&bike).Error; err != nil {
		return errors.New("Agreement does not have a bike assigned")
	}
	agreement.Bike = &bike
	return nil
}

func pdfHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	pdfs := g.Group("/pdf")
	pdfs.
		POST("/generate/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var agreement models.Agreement
			err := db.GetDb().
				Preload("Tourist").
				Preload("Bike").
				Scopes(scopes.WithID(params.ID)).
				First(&agreement).
				Error
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Agreement not found"})
				return
			}
			if agreement.SignatureURL == nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Agreement has no signature"})
				return
			}
			if err := resolveAgreementBike(db.GetDb(), &agreement); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			html, err := pdf.GenerateHTML(agreementPdfData(&agreement))
			if err != nil {
				log.Printf("[GenerateHTML] error: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			rendered, err := pdf.Render(ctx.Request.Context(), html)
			if err != nil {
				log.Printf("PDF render failed for %s: %s\n", agreement.AgreementNo, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "PDF generation failed"})
				return
			}
			url, err := pdf.UploadPDF(agreement.AgreementNo, rendered)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			status := types.PDF_GENERATED
			updates := map[string]any{
				"pdf_url":    url,
				"pdf_status": status,
			}
			if err := db.GetDb().Model(&agreement).Updates(updates).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, agreement.AgreementNo))
			ctx.Data(http.StatusOK, "application/pdf", rendered)
		}).
		GET("/download/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var agreement models.Agreement
			if err := db.GetDb().Scopes(scopes.WithID(params.ID)).First(&agreement).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Agreement not found"})
				return
			}
			// A download request finalizes the agreement even when the
			// document itself turns out to be missing.
			ip := ctx.ClientIP()
			ua := ctx.Request.UserAgent()
			err := db.GetDb().Transaction(func(tx *gorm.DB) error {
				updates := map[string]any{
					"status":     types.AGREEMENT_COMPLETED,
					"pdf_status": types.PDF_DOWNLOADED,
				}
				if err := tx.Model(&agreement).Updates(updates).Error; err != nil {
					return err
				}
				utils.RecordAuditEvent(tx, ctx.GetString("email"), types.AUDIT_DOWNLOAD_PDF, &agreement.ID, &ip, &ua)
				return nil
			})
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if agreement.PdfURL == nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "No PDF has been generated for this agreement"})
				return
			}
			key := fmt.Sprintf("agreements/%s.pdf", agreement.AgreementNo)
			body, err := aws.S3DownloadBlob(key)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if body == nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "PDF document is missing"})
				return
			}
			ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, agreement.AgreementNo))
			ctx.Data(http.StatusOK, "application/pdf", body)
		}).
		GET("/url/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var agreement models.Agreement
			if err := db.GetDb().Scopes(scopes.WithID(params.ID)).First(&agreement).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Agreement not found"})
				return
			}
			if agreement.PdfURL == nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "No PDF has been generated for this agreement"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"url": agreement.PdfURL, "pdf_status": agreement.PdfStatus})
		})
	return g
}
