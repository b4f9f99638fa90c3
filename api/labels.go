package api

import (
	"fmt"
	"image"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"

	"github.com/jjscout/hellscore-merch-qr/catalog"
)

// maxGridSide bounds rows and cols of preview sheets.
const maxGridSide = 10

func (s *Server) variationFromQuery(w http.ResponseWriter, r *http.Request) (catalog.Variation, bool) {
	q := r.URL.Query()
	v := catalog.Variation{
		Type:   q.Get("type"),
		Design: q.Get("design"),
		Gender: q.Get("gender"),
		Size:   q.Get("size"),
	}
	if !s.Generator.Catalog.Contains(v) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("variation %s not in catalog", v.Key()))
		return v, false
	}
	return v, true
}

func (s *Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	v, ok := s.variationFromQuery(w, r)
	if !ok {
		return
	}
	img, l, err := s.Generator.Render(v)
	if err != nil {
		s.Log.Error("render label failed", "variation", v.Key(), "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("X-Label-Id", l.ID)
	s.writePNG(w, img, v)
}

func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	v, ok := s.variationFromQuery(w, r)
	if !ok {
		return
	}
	rows, err := gridSide(r.URL.Query().Get("rows"), s.SheetRows)
	if err != nil {
		writeError(w, http.StatusBadRequest, "rows: "+err.Error())
		return
	}
	cols, err := gridSide(r.URL.Query().Get("cols"), s.SheetCols)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cols: "+err.Error())
		return
	}
	img, _, err := s.Generator.Sheet(v, rows, cols)
	if err != nil {
		s.Log.Error("render sheet failed", "variation", v.Key(), "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writePNG(w, img, v)
}

func gridSide(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 1 || n > maxGridSide {
		return 0, fmt.Errorf("must be between 1 and %d", maxGridSide)
	}
	return n, nil
}

// writePNG streams img to the client. Headers are already sent when encoding
// fails, so the error can only be logged.
func (s *Server) writePNG(w http.ResponseWriter, img image.Image, v catalog.Variation) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		s.Log.Error("write png failed", "variation", v.Key(), "error", err)
	}
}
