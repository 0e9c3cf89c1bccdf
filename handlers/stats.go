package handlers

import (
	"net/http"

	"github.com/emirpasa/kalem/pkg"
	"github.com/emirpasa/kalem/services"
	"github.com/emirpasa/kalem/ws"
)

// StatsHandler, platform istatistik endpoint'ini yönetir.
type StatsHandler struct {
	statsService *services.StatsService
	hub          *ws.Hub
}

// NewStatsHandler, constructor.
// hub nil olabilir — o durumda online sayısı 0 döner.
func NewStatsHandler(statsService *services.StatsService, hub *ws.Hub) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		hub:          hub,
	}
}

// statsResponse, DB sayaçları + anlık online kullanıcı sayısı.
type statsResponse struct {
	*services.Stats
	Online int `json:"online"`
}

// GetStats godoc
// GET /api/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.GetStats(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	resp := statsResponse{Stats: stats}
	if h.hub != nil {
		resp.Online = h.hub.OnlineUserCount()
	}

	pkg.JSON(w, http.StatusOK, resp)
}
