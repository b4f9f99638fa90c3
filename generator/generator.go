// Package generator runs the label pipeline: enumerate variations, build
// caption and payload, encode the QR matrix, compose the canvas and write it.
package generator

import (
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jjscout/hellscore-merch-qr/catalog"
	"github.com/jjscout/hellscore-merch-qr/config"
	"github.com/jjscout/hellscore-merch-qr/label"
	"github.com/jjscout/hellscore-merch-qr/output"
	"github.com/jjscout/hellscore-merch-qr/render"
)

// Label describes one rendered label.
type Label struct {
	Variation catalog.Variation `json:"variation"`
	ID        string            `json:"id"`
	Text      string            `json:"text"`
	Payload   string            `json:"payload"`
	Placement render.Placement  `json:"-"`
}

// Summary reports a finished batch run.
type Summary struct {
	RunID  string
	Files  []string
	Labels int
}

// Generator holds everything needed to render labels. Fields are read-only
// once a run starts.
type Generator struct {
	Catalog  *catalog.Catalog
	Layout   label.Layout
	Links    label.Links
	Encoder  *render.Encoder
	Composer *render.Composer
	IDs      label.IDSource
	Log      *slog.Logger

	// Progress receives one human-readable line per label; nil keeps quiet.
	Progress io.Writer
}

// FromConfig builds a Generator from cfg: catalog file (or the built-in
// catalog), caption font, QR options and canvas geometry.
func FromConfig(cfg *config.Config, log *slog.Logger) (*Generator, error) {
	cat := catalog.Default()
	if cfg.Catalog != "" {
		var err error
		if cat, err = catalog.Load(cfg.Catalog); err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
	}

	fg, err := render.ParseColor(cfg.QR.Foreground)
	if err != nil {
		return nil, fmt.Errorf("qr foreground: %w", err)
	}
	bg, err := render.ParseColor(cfg.QR.Background)
	if err != nil {
		return nil, fmt.Errorf("qr background: %w", err)
	}
	enc, err := render.NewEncoder(render.QROptions{
		Level:      cfg.QR.Level,
		BoxSize:    cfg.QR.BoxSize,
		Border:     cfg.QR.Border,
		Version:    cfg.QR.Version,
		Foreground: fg,
		Background: bg,
	})
	if err != nil {
		return nil, fmt.Errorf("create qr encoder: %w", err)
	}

	font := render.LoadFont(cfg.Font.Path, log)
	log.Debug("caption font loaded", "source", font.Source, "size", cfg.Font.Size)

	comp := render.NewComposer(font, cfg.Font.Size)
	comp.Width = cfg.Canvas.Width
	comp.Height = cfg.Canvas.Height
	comp.TopMargin = cfg.Canvas.TopMargin
	comp.SideMargin = cfg.Canvas.SideMargin
	comp.Gap = cfg.Canvas.Gap

	layout := label.DefaultLayout
	if cfg.Label.Separator != "" {
		layout.Separator = cfg.Label.Separator
	}
	if len(cfg.Label.Fields) > 0 {
		layout.Fields = nil
		for _, f := range cfg.Label.Fields {
			layout.Fields = append(layout.Fields, label.FieldSpec{
				Field:     label.Field(f.Field),
				Width:     f.Width,
				OmitEmpty: f.OmitEmpty,
			})
		}
	}

	return &Generator{
		Catalog:  cat,
		Layout:   layout,
		Links:    label.Links{Promo: cfg.Links.Promo, Reference: cfg.Links.Reference},
		Encoder:  enc,
		Composer: comp,
		IDs:      label.NewShortIDs(),
		Log:      log,
	}, nil
}

// Render draws a single label for v with a fresh identifier.
func (g *Generator) Render(v catalog.Variation) (*image.NRGBA, Label, error) {
	l := Label{Variation: v, ID: g.IDs.NewID(), Text: g.Layout.Text(v)}
	l.Payload = g.Layout.Payload(v, l.ID, g.Links)

	qr, err := g.Encoder.Encode(l.Payload)
	if err != nil {
		return nil, l, fmt.Errorf("encode %s: %w", v.Key(), err)
	}
	img, place, err := g.Composer.Compose(l.Text, qr)
	if err != nil {
		return nil, l, fmt.Errorf("compose %s: %w", v.Key(), err)
	}
	l.Placement = place
	return img, l, nil
}

// Sheet tiles rows x cols labels for v. Every cell is rendered separately
// and gets its own identifier.
func (g *Generator) Sheet(v catalog.Variation, rows, cols int) (*image.NRGBA, []Label, error) {
	grid := render.Grid{
		Rows:       rows,
		Cols:       cols,
		CellWidth:  g.Composer.Width,
		CellHeight: g.Composer.Height,
	}
	labels := make([]Label, 0, rows*cols)
	sheet, err := grid.Compose(func(row, col int) (image.Image, error) {
		img, l, err := g.Render(v)
		if err != nil {
			return nil, err
		}
		labels = append(labels, l)
		return img, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return sheet, labels, nil
}

// Variations returns the catalog variations, restricted to types when given.
func (g *Generator) Variations(types []string) ([]catalog.Variation, error) {
	all := g.Catalog.Variations()
	if len(types) == 0 {
		return all, nil
	}
	want := make(map[string]bool, len(types))
	for _, t := range types {
		if _, ok := g.Catalog.GroupOf(t); !ok {
			return nil, fmt.Errorf("unknown item type %q", t)
		}
		want[t] = true
	}
	out := all[:0]
	for _, v := range all {
		if want[v.Type] {
			out = append(out, v)
		}
	}
	return out, nil
}

// Run writes one label PNG per variation into sink. The first error aborts
// the run.
func (g *Generator) Run(sink *output.Sink, types []string) (Summary, error) {
	vs, err := g.Variations(types)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{RunID: uuid.NewString()}
	log := g.Log.With("run_id", sum.RunID)
	log.Info("generating labels", "variations", len(vs), "output_dir", sink.Dir())

	for _, v := range vs {
		img, l, err := g.Render(v)
		if err != nil {
			return sum, err
		}
		path, err := sink.WritePNG(label.FileName(v, l.ID, false), img)
		if err != nil {
			return sum, err
		}
		sum.Files = append(sum.Files, path)
		sum.Labels++
		log.Debug("label written", "path", path, "id", l.ID)
		g.progress(v, l.ID)
	}

	g.done()
	log.Info("labels generated", "files", len(sum.Files))
	return sum, nil
}

// RunSheets writes one rows x cols sheet per variation into sink, named
// after the first cell's identifier with a _grid marker.
func (g *Generator) RunSheets(sink *output.Sink, types []string, rows, cols int) (Summary, error) {
	vs, err := g.Variations(types)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{RunID: uuid.NewString()}
	log := g.Log.With("run_id", sum.RunID)
	log.Info("generating sheets", "variations", len(vs), "rows", rows, "cols", cols, "output_dir", sink.Dir())

	for _, v := range vs {
		sheet, labels, err := g.Sheet(v, rows, cols)
		if err != nil {
			return sum, fmt.Errorf("sheet %s: %w", v.Key(), err)
		}
		path, err := sink.WritePNG(label.FileName(v, labels[0].ID, true), sheet)
		if err != nil {
			return sum, err
		}
		sum.Files = append(sum.Files, path)
		sum.Labels += len(labels)
		log.Debug("sheet written", "path", path, "cells", len(labels))
		g.progress(v, labels[0].ID)
	}

	g.done()
	log.Info("sheets generated", "files", len(sum.Files), "labels", sum.Labels)
	return sum, nil
}

func (g *Generator) progress(v catalog.Variation, id string) {
	if g.Progress == nil {
		return
	}
	fmt.Fprintf(g.Progress, "Generated QR code for %s - %s - %s - Size %s - Short ID: %s\n",
		v.Type, v.Design, v.Gender, v.Size, id)
}

func (g *Generator) done() {
	if g.Progress != nil {
		fmt.Fprintln(g.Progress, "QR code generation completed.")
	}
}
