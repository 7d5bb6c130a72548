package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dokkan/bookstore/internal/httpx"
	"github.com/dokkan/bookstore/internal/models"
	"github.com/dokkan/bookstore/internal/service/token"
	"github.com/dokkan/bookstore/internal/validation"
)

func (h *AuthHandler) GetAccount(c echo.Context) error {
	userID, ok := token.UserID(c)
	if !ok {
		return httpx.Unauthorized(c)
	}
	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return httpx.NotFound(c, "user not found")
	}
	return c.JSON(http.StatusOK, user)
}

type accountUpdateRequest struct {
	FullName       string `json:"fullName"       validate:"omitempty,min=2,max=80"`
	PhonePrimary   string `json:"phonePrimary"   validate:"omitempty,egyptphone"`
	PhoneSecondary string `json:"phoneSecondary" validate:"omitempty,egyptphone"`
	Province       string `json:"province"`
	CityOrDistrict string `json:"cityOrDistrict"`
	StreetInfo     string `json:"streetInfo"`
	Landmark       string `json:"landmark"       validate:"max=500"`
}

// partial addresses are rejected: if any address field comes in, the three
// required ones must come in together.
func (r *accountUpdateRequest) addressErrors() []httpx.FieldError {
	if r.Province == "" && r.CityOrDistrict == "" && r.StreetInfo == "" && r.Landmark == "" {
		return nil
	}
	var out []httpx.FieldError
	if r.Province == "" {
		out = append(out, httpx.FieldError{Field: "province", Message: "is required"})
	}
	if r.CityOrDistrict == "" {
		out = append(out, httpx.FieldError{Field: "cityOrDistrict", Message: "is required"})
	}
	if r.StreetInfo == "" {
		out = append(out, httpx.FieldError{Field: "streetInfo", Message: "is required"})
	}
	return out
}

func (h *AuthHandler) UpdateAccount(c echo.Context) error {
	userID, ok := token.UserID(c)
	if !ok {
		return httpx.Unauthorized(c)
	}

	var req accountUpdateRequest
	if err := c.Bind(&req); err != nil {
		return httpx.BadRequest(c, "invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return httpx.ValidationFailed(c, validation.Collect(err))
	}
	if errs := req.addressErrors(); len(errs) > 0 {
		return httpx.ValidationFailed(c, errs)
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return httpx.NotFound(c, "user not found")
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.PhonePrimary != "" {
		user.PhonePrimary = req.PhonePrimary
	}
	if req.PhoneSecondary != "" {
		user.PhoneSecondary = req.PhoneSecondary
	}
	if req.Province != "" {
		user.Address = models.Address{
			Province:       req.Province,
			CityOrDistrict: req.CityOrDistrict,
			StreetInfo:     req.StreetInfo,
			Landmark:       req.Landmark,
		}
	}

	if err := h.DB.Save(&user).Error; err != nil {
		c.Logger().Errorf("account update error: %v", err)
		return httpx.ServerError(c)
	}
	return c.JSON(http.StatusOK, user)
}
