package api

import (
	"net/http"

	"github.com/Domenick1991/airtrips/internal/domain"
	"github.com/Domenick1991/airtrips/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type searchQuery struct {
	Date        string `form:"date" binding:"required,isodate"`
	Origin      string `form:"origin" binding:"required"`
	Destination string `form:"destination" binding:"required"`
}

type itineraryResponse struct {
	Flights       []domain.Flight `json:"flights"`
	TotalDuration int             `json:"total_duration"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/itineraries", h.search)
}

func (h *FlightHandler) search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	date, err := domain.ParseDate(q.Date)
	if err != nil {
		badRequest(c, err)
		return
	}

	itineraries, err := h.service.Search(c.Request.Context(), date, q.Origin, q.Destination)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]itineraryResponse, 0, len(itineraries))
	for _, it := range itineraries {
		resp = append(resp, itineraryResponse{Flights: it.Flights, TotalDuration: it.TotalDuration()})
	}
	c.JSON(http.StatusOK, resp)
}
