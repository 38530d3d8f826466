package report

import (
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/Yasabs10/panelreader/model"
)

// overlayTemplate draws numbered panel rectangles over the page image.
// Panel geometry is duplicated into data attributes so the report can
// be parsed back by ImportHTML.
var overlayTemplate = template.Must(template.New("overlay").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>panel reading order</title>
<style>
.page { position: relative; display: inline-block; }
.page img { display: block; }
.panel { position: absolute; border: 2px solid #e33; }
.panel span { background: #e33; color: #fff; font: bold 14px sans-serif; padding: 1px 5px; }
</style>
</head>
<body>
<div class="page" data-image="{{.Image}}">
{{if .Image}}<img src="{{.Image}}" alt="page">{{end}}
{{- range .Panels}}
<div class="panel" data-index="{{.Index}}" data-x1="{{index .BBox 0}}" data-y1="{{index .BBox 1}}" data-x2="{{index .BBox 2}}" data-y2="{{index .BBox 3}}" style="left:{{index .BBox 0}}px;top:{{index .BBox 1}}px;width:{{.Width}}px;height:{{.Height}}px;"><span>{{.Index}}</span></div>
{{- end}}
</div>
</body>
</html>
`))

// overlayPanel is the template view of one panel.
type overlayPanel struct {
	Index int
	BBox  [4]int
}

// Width returns the pixel width of the panel box.
func (p overlayPanel) Width() int { return p.BBox[2] - p.BBox[0] }

// Height returns the pixel height of the panel box.
func (p overlayPanel) Height() int { return p.BBox[3] - p.BBox[1] }

// WriteHTML renders an overlay report for one page. imageRef is the
// src used for the underlying page image and may be empty, in which
// case only the boxes are rendered.
func WriteHTML(w io.Writer, result *model.ReadingOrder, imageRef string) error {
	view := struct {
		Image  string
		Panels []overlayPanel
	}{Image: imageRef}

	for _, p := range result.Panels {
		view.Panels = append(view.Panels, overlayPanel{Index: p.Index, BBox: p.BBox})
	}

	if err := overlayTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("report: rendering overlay: %w", err)
	}
	return nil
}

// WriteHTMLFile renders an overlay report to path.
func WriteHTMLFile(path string, result *model.ReadingOrder, imageRef string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: creating %s: %w", path, err)
	}
	defer f.Close()
	return WriteHTML(f, result, imageRef)
}
