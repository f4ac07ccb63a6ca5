package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/tarkandemir/hygieia-shop/models"
	"github.com/tarkandemir/hygieia-shop/store"
	"github.com/tarkandemir/hygieia-shop/utils"
)

type AuthController struct {
	store store.Store
}

func NewAuthController(st store.Store) *AuthController {
	return &AuthController{store: st}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Login handles POST /v1/auth/login. All failure modes return the same 401
// so the response does not reveal which accounts exist.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Geçersiz istek gövdesi")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Gerekli alanlar eksik: "+err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := c.store.Collection(store.Users).FindOne(r.Context(), store.Filter{"email": email}, &user)
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteError(w, http.StatusUnauthorized, "E-posta veya şifre hatalı")
		return
	}
	if err != nil {
		log.Printf("[auth] user lookup failed: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Giriş yapılamadı")
		return
	}

	if !user.IsActive {
		utils.WriteError(w, http.StatusUnauthorized, "E-posta veya şifre hatalı")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "E-posta veya şifre hatalı")
		return
	}

	token, err := utils.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		log.Printf("[auth] token generation failed: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Giriş yapılamadı")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"token": token,
			"user": map[string]interface{}{
				"id":    user.ID,
				"email": user.Email,
				"name":  user.Name,
				"role":  user.Role,
			},
		},
	})
}
