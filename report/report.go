// Package report renders a detected layout as a standalone HTML page:
// validation results, the staves of every page grouped by system, and the
// parts that would be exported.
package report

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/trfv/score-cutter-sub000/model"
)

// Report is the content of one HTML summary
type Report struct {
	Title       string
	Layout      model.Layout
	Diagnostics []model.Diagnostic
	Parts       []model.Part
}

// New builds a report for l, running validation and part grouping.
func New(title string, l model.Layout) Report {
	return Report{
		Title:       title,
		Layout:      l,
		Diagnostics: model.Validate(l.Staffs),
		Parts:       model.Parts(l.Staffs),
	}
}

// Render writes r as an HTML document
func Render(w io.Writer, r Report) error {
	if err := html.Render(w, r.Document()); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// Document returns r as an HTML node tree rooted at a document node
func (r Report) Document() *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, attr("charset", "utf-8")))
	head.AppendChild(withText(element(atom.Title), r.Title))
	root.AppendChild(head)

	body := element(atom.Body)
	body.AppendChild(withText(element(atom.H1), r.Title))
	body.AppendChild(r.validationSection())
	for page := 0; page < r.Layout.PageCount(); page++ {
		body.AppendChild(r.pageSection(page))
	}
	body.AppendChild(r.partsSection())
	root.AppendChild(body)

	return doc
}

func (r Report) validationSection() *html.Node {
	section := element(atom.Section, attr("id", "validation"))
	section.AppendChild(withText(element(atom.H2), "Validation"))

	list := element(atom.Ul)
	for _, d := range r.Diagnostics {
		li := withText(element(atom.Li, attr("class", string(d.Severity)), attr("data-code", d.Code)), d.Message)
		list.AppendChild(li)
	}
	section.AppendChild(list)
	return section
}

func (r Report) pageSection(page int) *html.Node {
	section := element(atom.Section, attr("class", "page"), attr("data-page", strconv.Itoa(page)))
	section.AppendChild(withText(element(atom.H2), fmt.Sprintf("Page %d", page+1)))

	table := element(atom.Table)
	table.AppendChild(row(atom.Th, "System", "Staff", "Label", "Top", "Bottom"))

	staffs := r.Layout.PageStaffs(page)
	for i, s := range staffs {
		system := "-"
		if ordinal := r.Layout.SystemOrdinal(page, s.SystemID); ordinal >= 0 {
			system = strconv.Itoa(ordinal + 1)
		}
		label := s.Label
		if label == "" {
			label = "(unlabeled)"
		}
		table.AppendChild(row(atom.Td,
			system,
			strconv.Itoa(i+1),
			label,
			strconv.FormatFloat(s.Top, 'f', 1, 64),
			strconv.FormatFloat(s.Bottom, 'f', 1, 64),
		))
	}
	section.AppendChild(table)
	return section
}

func (r Report) partsSection() *html.Node {
	section := element(atom.Section, attr("id", "parts"))
	section.AppendChild(withText(element(atom.H2), "Parts"))

	list := element(atom.Ol)
	for _, p := range r.Parts {
		list.AppendChild(withText(element(atom.Li), fmt.Sprintf("%s (%d staves)", p.Label, len(p.Staffs))))
	}
	section.AppendChild(list)
	return section
}

// element creates an element node for a known tag
func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// withText appends a text child to n and returns n
func withText(n *html.Node, text string) *html.Node {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

// row builds a table row with one cell per value
func row(cell atom.Atom, values ...string) *html.Node {
	tr := element(atom.Tr)
	for _, v := range values {
		tr.AppendChild(withText(element(cell), v))
	}
	return tr
}
