package fixes

import (
	"net/url"
	"strconv"

	"github.com/hazyhaar/domremedy/internal/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	iframeTitleName = "iframe-title"
	tabindexName    = "tabindex"
	liveRegionName  = "live-region"
)

// LiveRegionID is the injected polite live region used to announce
// client-side route changes.
const LiveRegionID = "remedy-live-region"

// IframeTitle gives untitled iframes a title derived from the embed host,
// so screen readers announce more than "frame".
func IframeTitle(d *dom.Document) (Report, error) {
	var rep Report
	for _, frame := range d.FindAll(atom.Iframe) {
		rep.Present++
		if dom.Marked(frame, iframeTitleName) {
			continue
		}
		if dom.Attr(frame, "title") != "" {
			d.Mark(frame, iframeTitleName)
			continue
		}
		title := "Embedded content"
		if u, err := url.Parse(dom.Attr(frame, "src")); err == nil && u.Host != "" {
			title = "Embedded content from " + u.Host
		}
		d.SetAttr(frame, "title", title)
		d.Mark(frame, iframeTitleName)
		rep.Touched++
	}
	return rep, nil
}

// Tabindex demotes positive tabindex values to 0. Explicit tab orders
// fight the document order screen-reader users navigate by.
func Tabindex(d *dom.Document) (Report, error) {
	var rep Report
	d.Each(func(n *html.Node) {
		v := dom.Attr(n, "tabindex")
		if v == "" {
			return
		}
		idx, err := strconv.Atoi(v)
		if err != nil || idx <= 0 {
			return
		}
		rep.Present++
		if dom.Marked(n, tabindexName) {
			return
		}
		d.SetAttr(n, "tabindex", "0")
		d.Mark(n, tabindexName)
		rep.Touched++
	})
	return rep, nil
}

// visuallyHidden keeps the live region out of the visual layout while
// leaving it exposed to assistive tech (display:none would silence it).
const visuallyHidden = "position:absolute;width:1px;height:1px;overflow:hidden;clip:rect(0 0 0 0);white-space:nowrap"

// LiveRegion injects a single polite live region into <body>. The harness
// writes the new document title into it after client-side navigations.
// Page-wide marker on the root element.
func LiveRegion(d *dom.Document) (Report, error) {
	root := d.DocumentElement()
	body := d.Body()
	if root == nil || body == nil {
		return Report{}, nil
	}
	if dom.Marked(root, liveRegionName) {
		return Report{Present: 1}, nil
	}

	region := dom.NewElement(atom.Div,
		"id", LiveRegionID,
		"role", "status",
		"aria-live", "polite",
		"style", visuallyHidden)
	if err := d.AppendChild(body, region); err != nil {
		return Report{}, err
	}
	d.Mark(root, liveRegionName)
	return Report{Present: 1, Touched: 1}, nil
}
