package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/coursewagon/coursewagon-backend/internal/cache"
)

type HealthcheckHandler struct {
	db    *gorm.DB
	cache cache.Cache
}

func NewHealthcheckHandler(db *gorm.DB, c cache.Cache) *HealthcheckHandler {
	return &HealthcheckHandler{db: db, cache: c}
}

func (hh *HealthcheckHandler) Healthcheck(c *gin.Context) {
	dbStatus := "ok"
	sqlDB, err := hh.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		dbStatus = "unreachable"
	}
	status := http.StatusOK
	if dbStatus != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status":        dbStatus,
		"cache_backend": hh.cache.Backend(),
	})
}
