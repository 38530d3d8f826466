package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/Yasabs10/panelreader/model"
)

// ImportHTML parses an overlay report back into a reading order.
// Panels are recovered from elements carrying the "panel" class and
// the data-index / data-x1..data-y2 attributes, then sorted by index
// so a hand-edited report still yields a consistent sequence.
func ImportHTML(r io.Reader) (*model.ReadingOrder, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("report: parsing overlay: %w", err)
	}

	result := &model.ReadingOrder{Panels: []model.Panel{}}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "panel") {
			if p, ok := panelFromAttrs(n); ok {
				result.Panels = append(result.Panels, p)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	sort.SliceStable(result.Panels, func(i, j int) bool {
		return result.Panels[i].Index < result.Panels[j].Index
	})
	return result, nil
}

// ImportHTMLFile parses an overlay report from path.
func ImportHTMLFile(path string) (*model.ReadingOrder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("report: opening %s: %w", path, err)
	}
	defer f.Close()
	return ImportHTML(f)
}

// hasClass reports whether the node's class attribute contains name.
func hasClass(n *html.Node, name string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == name {
				return true
			}
		}
	}
	return false
}

// panelFromAttrs reconstructs a panel from data attributes. Panels
// with missing or malformed attributes are skipped rather than
// aborting the whole import.
func panelFromAttrs(n *html.Node) (model.Panel, bool) {
	attrs := map[string]string{}
	for _, attr := range n.Attr {
		attrs[attr.Key] = attr.Val
	}

	index, err := strconv.Atoi(attrs["data-index"])
	if err != nil {
		return model.Panel{}, false
	}

	var bbox [4]int
	for i, key := range []string{"data-x1", "data-y1", "data-x2", "data-y2"} {
		v, err := strconv.Atoi(attrs[key])
		if err != nil {
			return model.Panel{}, false
		}
		bbox[i] = v
	}

	return model.Panel{Index: index, BBox: bbox}, true
}
