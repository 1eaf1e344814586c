package controllers

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"brs/src/db"
	"brs/src/models"
	"brs/src/types"
	"brs/src/utils"
)

// AdminLogin verifies credentials and issues a session token.
func AdminLogin(body *types.AdminLoginRequestBody) (*types.AuthResponse, int, error) {
	var user models.User
	if err := db.GetDb().Where("email = ?", body.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusUnauthorized, errors.New("Invalid email or password")
		}
		return nil, http.StatusInternalServerError, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		return nil, http.StatusUnauthorized, errors.New("Invalid email or password")
	}
	token, err := utils.GenerateJWT(&user)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return &types.AuthResponse{
		Token: token,
		User: types.AuthResponseUser{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		},
	}, http.StatusOK, nil
}

// SetupAdmin bootstraps the first admin account. Refused once any user
// exists.
func SetupAdmin(body *types.SetupAdminRequestBody) (*models.User, int, error) {
	var count int64
	if err := db.GetDb().Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if count > 0 {
		return nil, http.StatusForbidden, errors.New("Setup already completed")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	user := models.User{
		Email:        body.Email,
		PasswordHash: string(hash),
		Role:         "admin",
	}
	if err := db.GetDb().Create(&user).Error; err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return &user, http.StatusCreated, nil
}
