package site

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Commodity extracts the primary commodity from an MRDS description.
// The description is an HTML table where each row has a header cell with
// the attribute name and a data cell with its value. Returns Unknown when
// there is no "commod1" row.
func Commodity(desc string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(desc))
	if err != nil {
		return Unknown
	}

	res := Unknown
	doc.Find("th").EachWithBreak(func(_ int, th *goquery.Selection) bool {
		if strings.TrimSpace(th.Text()) != "commod1" {
			return true
		}
		val := strings.TrimSpace(th.Next().Text())
		if val != "" {
			res = val
		}
		return false
	})
	return res
}
