package parser

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"pbcheck/internal/models"

	"golang.org/x/net/html"
)

var (
	numberPattern   = regexp.MustCompile(`\d+`)
	sequencePattern = regexp.MustCompile(`(?i)\b(\d{1,2})\s*[,\s]\s*(\d{1,2})\s*[,\s]\s*(\d{1,2})\s*[,\s]\s*(\d{1,2})\s*[,\s]\s*(\d{1,2})\s*[,\s]\s*(?:(?:powerball|pb):?\s*)?(\d{1,2})\b`)
	ballPattern     = regexp.MustCompile(`^\d{1,2}$`)
)

var whiteClassTokens = map[string]bool{"white-balls": true, "white-ball": true}

const powerballClassToken = "powerball"

// MarkupParser extracts the most recent drawing from a results page.
//
// The date is the first weekday/month/day/year string in the page text. Numbers are located by,
// in order: elements labeled with white-ball and powerball classes, a six-number sequence in the
// page text, and finally standalone one or two digit text nodes in the white-ball range.
type MarkupParser struct{}

func NewMarkupParser() *MarkupParser {
	return &MarkupParser{}
}

type extraction struct {
	white     []int
	powerball int
}

func (e extraction) complete() bool {
	return len(e.white) >= models.WhiteCount && e.powerball > 0
}

func (p *MarkupParser) Parse(raw []byte) (models.Drawing, error) {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return models.Drawing{}, malformed("parse markup: %v", err)
	}

	nodes := textNodes(doc)
	text := strings.Join(nodes, " ")

	date, ok := findDate(text)
	if !ok {
		return models.Drawing{}, malformed("no draw date in markup")
	}

	ex := labeledSections(doc)
	if !ex.complete() {
		ex = numericSequence(text)
	}
	if !ex.complete() {
		ex = smallIntegerNodes(nodes)
	}
	if !ex.complete() {
		return models.Drawing{}, malformed("could not locate 5 white balls and a powerball")
	}

	d := models.Drawing{Date: date, Powerball: ex.powerball}
	copy(d.White[:], ex.white[:models.WhiteCount])
	if err := checkDrawing(d); err != nil {
		return models.Drawing{}, err
	}
	return d, nil
}

// labeledSections collects numbers from the first white-ball elements in document order
// and the first number of the first powerball element.
func labeledSections(doc *html.Node) extraction {
	var ex extraction
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if ex.complete() {
			return
		}
		if n.Type == html.ElementNode {
			if skipElement(n) {
				return
			}
			tokens := classTokens(n)
			switch {
			case hasAny(tokens, whiteClassTokens) && len(ex.white) < models.WhiteCount:
				ex.white = append(ex.white, numbersIn(nodeText(n))...)
				return
			case tokens[powerballClassToken] && ex.powerball == 0:
				if nums := numbersIn(nodeText(n)); len(nums) > 0 {
					ex.powerball = nums[0]
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(ex.white) > models.WhiteCount {
		ex.white = ex.white[:models.WhiteCount]
	}
	return ex
}

// numericSequence returns the first six-number run whose values fit the ball ranges.
func numericSequence(text string) extraction {
	for _, m := range sequencePattern.FindAllStringSubmatch(text, -1) {
		nums := make([]int, 0, models.WhiteCount+1)
		for _, s := range m[1:] {
			n, _ := strconv.Atoi(s)
			nums = append(nums, n)
		}
		ex := extraction{white: nums[:models.WhiteCount], powerball: nums[models.WhiteCount]}
		if rangesOK(ex) {
			return ex
		}
	}
	return extraction{}
}

// smallIntegerNodes is the last resort: the first six standalone numbers in the white-ball range.
func smallIntegerNodes(nodes []string) extraction {
	var found []int
	for _, s := range nodes {
		if !ballPattern.MatchString(s) {
			continue
		}
		n, _ := strconv.Atoi(s)
		if !models.InWhiteRange(n) {
			continue
		}
		found = append(found, n)
		if len(found) == models.WhiteCount+1 {
			return extraction{white: found[:models.WhiteCount], powerball: found[models.WhiteCount]}
		}
	}
	return extraction{}
}

func rangesOK(ex extraction) bool {
	for _, n := range ex.white {
		if !models.InWhiteRange(n) {
			return false
		}
	}
	return models.InPowerballRange(ex.powerball)
}

func skipElement(n *html.Node) bool {
	switch n.Data {
	case "script", "style", "noscript", "template":
		return true
	}
	return false
}

func classTokens(n *html.Node) map[string]bool {
	tokens := make(map[string]bool)
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, t := range strings.Fields(strings.ToLower(a.Val)) {
			tokens[t] = true
		}
	}
	return tokens
}

func hasAny(tokens, want map[string]bool) bool {
	for t := range want {
		if tokens[t] {
			return true
		}
	}
	return false
}

// textNodes returns trimmed, non-empty text nodes in document order, skipping scripts and styles.
func textNodes(root *html.Node) []string {
	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipElement(n) {
			return
		}
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				out = append(out, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func nodeText(n *html.Node) string {
	return strings.Join(textNodes(n), " ")
}

func numbersIn(s string) []int {
	var out []int
	for _, m := range numberPattern.FindAllString(s, -1) {
		if n, err := strconv.Atoi(m); err == nil {
			out = append(out, n)
		}
	}
	return out
}
