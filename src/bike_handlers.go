package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"brs/src/db"
	"brs/src/lib/aws"
	"brs/src/models"
	"brs/src/models/scopes"
	"brs/src/types"
	"brs/src/utils"
)

func bikeMetaKey(bikeID uint) string {
	return fmt.Sprintf("bikes/%d/meta.json", bikeID)
}

func bikeHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	bikes := g.Group("/bikes")
	bikes.
		GET("", func(ctx *gin.Context) {
			var list []models.Bike
			if err := db.GetDb().Order("id").Find(&list).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": list})
		}).
		GET("/available", func(ctx *gin.Context) {
			var list []models.Bike
			if err := db.GetDb().Scopes(scopes.AvailableBikes).Order("id").Find(&list).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": list})
		}).
		GET("/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var bike models.Bike
			if err := db.GetDb().Scopes(scopes.WithID(params.ID)).First(&bike).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Bike not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bike})
		}).
		POST("", func(ctx *gin.Context) {
			var body types.CreateBikeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			status := body.AvailabilityStatus
			if status == "" {
				status = types.BIKE_AVAILABLE
			}
			bike := models.Bike{
				Model:              body.Model,
				FrameNo:            body.FrameNo,
				PlateNo:            body.PlateNo,
				AvailabilityStatus: status,
			}
			if err := db.GetDb().Create(&bike).Error; err != nil {
				log.Printf("Error creating bike: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": bike})
		}).
		PUT("/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateBikeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var bike models.Bike
			if err := db.GetDb().Scopes(scopes.WithID(params.ID)).First(&bike).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Bike not found"})
				return
			}
			updates := map[string]any{}
			if body.Model != nil {
				updates["model"] = *body.Model
			}
			if body.FrameNo != nil {
				updates["frame_no"] = *body.FrameNo
			}
			if body.PlateNo != nil {
				updates["plate_no"] = *body.PlateNo
			}
			if body.AvailabilityStatus != nil {
				updates["availability_status"] = *body.AvailabilityStatus
			}
			if len(updates) > 0 {
				if err := db.GetDb().Model(&bike).Updates(updates).Error; err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bike})
		}).
		PUT("/:id/archive", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var bike models.Bike
			if err := db.GetDb().Scopes(scopes.WithID(params.ID)).First(&bike).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Bike not found"})
				return
			}
			if err := db.GetDb().Model(&bike).Update("availability_status", types.BIKE_MAINTENANCE).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			bike.AvailabilityStatus = types.BIKE_MAINTENANCE
			ctx.JSON(http.StatusOK, gin.H{"data": bike})
		}).
		DELETE("/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			if err := utils.DeleteBike(params.ID); err != nil {
				if errors.Is(err, utils.ErrBikeInUse) {
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
					return
				}
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "Bike not found"})
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		GET("/:id/meta", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			body, err := aws.S3DownloadBlob(bikeMetaKey(params.ID))
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if body == nil {
				ctx.JSON(http.StatusOK, gin.H{"data": types.BikeMeta{}})
				return
			}
			var meta types.BikeMeta
			if err := json.Unmarshal(body, &meta); err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": meta})
		}).
		PUT("/:id/meta", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var meta types.BikeMeta
			if err := ctx.ShouldBindJSON(&meta); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			raw, err := json.Marshal(meta)
			if err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			if _, err := aws.S3UploadBlob(bikeMetaKey(params.ID), raw, "application/json"); err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": meta})
		}).
		POST("/:id/docs", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			file, header, err := ctx.Request.FormFile("file")
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
				return
			}
			defer file.Close()
			content, err := io.ReadAll(file)
			if err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			key := fmt.Sprintf("bikes/%d/docs/%s", params.ID, header.Filename)
			contentType := header.Header.Get("Content-Type")
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			url, err := aws.S3UploadBlob(key, content, contentType)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"url": url})
		}).
		GET("/:id/docs", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			keys, err := aws.S3ListKeys(fmt.Sprintf("bikes/%d/docs/", params.ID))
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			urls := make([]string, 0, len(keys))
			for _, key := range keys {
				urls = append(urls, aws.S3PublicURL(key))
			}
			ctx.JSON(http.StatusOK, gin.H{"data": urls})
		})
	return g
}
