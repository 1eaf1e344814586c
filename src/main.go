package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"

	"brs/src/boot"
	"brs/src/config"
	"brs/src/controllers"
	"brs/src/middlewares"
	"brs/src/types"
)

const (
	apiPrefix string = "/api/v1"
)

// rentaldate accepts calendar dates in the wire format.
var rentalDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := time.Parse(config.DATE_PARSE_FORMAT, date)
	return err == nil
}

// gtedate checks the field is on or after the named sibling date field.
var gtedate validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	datetime, err := time.Parse(config.DATE_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	field := fl.Parent().FieldByName(fl.Param())
	fieldValue, ok := field.Interface().(string)
	if !ok {
		return false
	}
	fielddatetime, err := time.Parse(config.DATE_PARSE_FORMAT, fieldValue)
	if err != nil {
		return false
	}
	return !fielddatetime.After(datetime)
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("rentaldate", rentalDateValidatorFunc)
		v.RegisterValidation("gtedate", gtedate)
	}
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		mm := os.Getenv("MAINTENANCE_MODE")
		atob, err := strconv.ParseBool(mm)
		if err == nil && atob {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, err.Error())
			return
		}
	})
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func publicRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)

	auth := apiv1.Group("/auth")
	auth.
		POST("/login", func(ctx *gin.Context) {
			var body types.AdminLoginRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			res, status, err := controllers.AdminLogin(&body)
			if err != nil {
				log.Printf("[AdminLogin] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, res)
		}).
		POST("/setup", func(ctx *gin.Context) {
			var body types.SetupAdminRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user, status, err := controllers.SetupAdmin(&body)
			if err != nil {
				log.Printf("[SetupAdmin] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"data": user})
		})

	publicAgreementRoutes(apiv1)
	guestLinkPublicRoutes(apiv1)
	publicSettingsRoutes(apiv1)

	return apiv1
}

// sessionHandlers covers the authenticated account surface.
func sessionHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.GET("/auth/me", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"user": types.AuthResponseUser{
			ID:    ctx.GetUint("id"),
			Email: ctx.GetString("email"),
			Role:  ctx.GetString("role"),
		}})
	})
	return g
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}

	boot.InitDb()

	router := setupRouter()

	appHost := os.Getenv("APP_HOST")
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOriginFunc = func(origin string) bool {
			match, _ := regexp.MatchString(appHost, origin)
			return match
		}
		cc.AllowCredentials = true
		cc.AllowAllOrigins = false
		router.Use(cors.New(cc))
	}

	registerValidators()

	router = maintenanceModeMiddleware(router)

	publicRoutes(router)

	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	authorized.Use(middlewares.RequireAdmin)
	{
		authorized = sessionHandlers(authorized)
		authorized = agreementHandlers(authorized)
		authorized = bikeHandlers(authorized)
		authorized = guestLinkHandlers(authorized)
		authorized = pdfHandlers(authorized)
		authorized = settingsHandlers(authorized)
	}

	if err := router.Run(":9090"); err != nil {
		log.Fatalf("Failed to start server: %s", err)
	}
}
