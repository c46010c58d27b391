package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hikmahsphere/hikmah-api/internal/services"
)

type PrayerHandler struct {
	prayerService *services.PrayerTimeService
}

func NewPrayerHandler(prayerService *services.PrayerTimeService) *PrayerHandler {
	return &PrayerHandler{prayerService: prayerService}
}

// @Summary Prayer Times
// @Description Daily prayer times for a location, served from cache when fresh
// @Tags Prayer Times
// @Produce json
// @Param latitude query number true "Latitude"
// @Param longitude query number true "Longitude"
// @Param method query int false "Calculation method" default(1)
// @Param date query string false "Day as YYYY-MM-DD, defaults to today (UTC)"
// @Success 200 {object} clients.PrayerDay
// @Failure 422 {object} map[string]interface{}
// @Failure 503 {object} map[string]string
// @Router /prayer-times [get]
func (h *PrayerHandler) Index(c *gin.Context) {
	verr := &services.ValidationError{}
	for _, field := range []string{"latitude", "longitude"} {
		if c.Query(field) == "" {
			verr.Add(field, "required", "is required")
		}
	}
	if err := verr.OrNil(); err != nil {
		respondError(c, err)
		return
	}

	var query services.PrayerTimesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query: " + err.Error()})
		return
	}

	day, err := h.prayerService.Timings(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}
