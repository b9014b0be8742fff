package httpapi

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime"`
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	_ = JSONWrite(w, http.StatusOK, healthResponse{
		Status:    "OK",
		Timestamp: now.UTC(),
		Uptime:    now.Sub(s.started).Seconds(),
	})
}
