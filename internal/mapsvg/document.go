// Package mapsvg colours and highlights regions of SVG maps and renders the
// per-request map set.
package mapsvg

import (
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"
	"github.com/couchcryptid/rwh-feasibility-service/internal/domain"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// Region styles.
const (
	DefaultFill          = "#ffffff"
	RegionStroke         = "#000000"
	RegionStrokeWidth    = "0.75"
	HighlightStroke      = "#FF00FF"
	HighlightStrokeWidth = "2.6"
)

// ErrRegionNotFound is returned when no path or polygon carries the requested id.
var ErrRegionNotFound = errors.New("map region not found")

// Document is a parsed SVG map. Regions are the path and polygon elements;
// they are restyled in place but never added or removed.
type Document struct {
	doc  *etree.Document
	byID map[string]*etree.Element
}

// Parse reads an SVG document and adds the SVG namespace to the root if missing.
func Parse(data []byte) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "svg" {
		return nil, errors.New("parse svg: root element is not <svg>")
	}
	if root.SelectAttr("xmlns") == nil {
		root.CreateAttr("xmlns", svgNamespace)
	}
	return newDocument(doc), nil
}

func newDocument(doc *etree.Document) *Document {
	d := &Document{doc: doc, byID: make(map[string]*etree.Element)}
	d.index(doc.Root())
	return d
}

// index records the first region per normalized id, in document order.
func (d *Document) index(el *etree.Element) {
	for _, child := range el.ChildElements() {
		if child.Tag == "path" || child.Tag == "polygon" {
			id := domain.Normalize(child.SelectAttrValue("id", ""))
			if _, seen := d.byID[id]; id != "" && !seen {
				d.byID[id] = child
			}
		}
		d.index(child)
	}
}

// Clone returns an independent deep copy.
func (d *Document) Clone() *Document {
	return newDocument(d.doc.Copy())
}

// Region returns the first region whose normalized id equals the normalized name.
func (d *Document) Region(name string) (*etree.Element, bool) {
	el, ok := d.byID[domain.Normalize(name)]
	return el, ok
}

// Entry pairs a region name with the palette category to paint it.
type Entry struct {
	Name     string
	Category string
}

// Report lists what a ColorRegions call did.
type Report struct {
	Colored int
	Skipped []string
}

// ColorRegions fills each entry's region with its palette colour, or
// DefaultFill for categories missing from the palette, and resets the stroke.
// Entries without a region are skipped and reported. Applying the same
// entries twice gives the same document.
func (d *Document) ColorRegions(entries []Entry, palette map[string]string) Report {
	var rep Report
	for _, e := range entries {
		el, ok := d.Region(e.Name)
		if !ok {
			rep.Skipped = append(rep.Skipped, e.Name)
			continue
		}
		fill, ok := palette[e.Category]
		if !ok {
			fill = DefaultFill
		}
		el.CreateAttr("fill", fill)
		el.CreateAttr("stroke", RegionStroke)
		el.CreateAttr("stroke-width", RegionStrokeWidth)
		rep.Colored++
	}
	return rep
}

// HighlightBorder outlines the region named id.
func (d *Document) HighlightBorder(id string) error {
	el, ok := d.Region(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrRegionNotFound, id)
	}
	el.CreateAttr("stroke", HighlightStroke)
	el.CreateAttr("stroke-width", HighlightStrokeWidth)
	return nil
}

// Bytes serializes the document.
func (d *Document) Bytes() ([]byte, error) {
	return d.doc.WriteToBytes()
}

// WriteTo serializes the document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return d.doc.WriteTo(w)
}
