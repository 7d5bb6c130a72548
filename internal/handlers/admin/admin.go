// Package admin is the back-office CRUD surface for users, categories,
// authors, products and orders. Every route is behind the admin gate
// middleware; handlers assume the caller is already authorized.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dokkan/bookstore/internal/mykafka"
)

type AdminHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
	Validate *validator.Validate
}

func (h *AdminHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "catalog_events", fmt.Sprint(event["type"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *AdminHandler) slugTaken(model any) func(string) (bool, error) {
	return func(candidate string) (bool, error) {
		var count int64
		if err := h.DB.Model(model).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	}
}
