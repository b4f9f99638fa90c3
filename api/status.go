package api

import (
	"net/http"
	"time"

	"github.com/jjscout/hellscore-merch-qr/catalog"
)

type statusResponse struct {
	Status     string   `json:"status"`
	Variations int      `json:"variations"`
	Types      []string `json:"types"`
	Uptime     string   `json:"uptime"`
	Version    string   `json:"version"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Status:     "ok",
		Variations: s.Generator.Catalog.Count(),
		Types:      s.Generator.Catalog.Types(),
		Uptime:     time.Since(s.StartTime).Truncate(time.Second).String(),
		Version:    s.Version,
	})
}

type variationResponse struct {
	catalog.Variation
	Label string `json:"label"`
}

func (s *Server) handleVariations(w http.ResponseWriter, r *http.Request) {
	vs, err := s.Generator.Variations(r.URL.Query()["type"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	resp := make([]variationResponse, 0, len(vs))
	for _, v := range vs {
		resp = append(resp, variationResponse{Variation: v, Label: s.Generator.Layout.Text(v)})
	}
	writeJSON(w, http.StatusOK, resp)
}
