package assessor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/raysh454/phishguard/internal/model"
	"github.com/raysh454/phishguard/internal/utils"
)

// inspectContent reports informational findings. Findings never change the
// score; they only explain what the content contained.
func inspectContent(url, content string, matched []string) []model.EvidenceItem {
	var out []model.EvidenceItem

	if len(matched) > 0 {
		out = append(out, model.EvidenceItem{
			Key:         "suspicious-keywords",
			Severity:    "medium",
			Description: "URL or content contains lure keywords",
			Value:       matched,
		})
	}

	if !looksLikeHTML(content) {
		return out
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return out
	}

	if n := countAttr(doc.Find("input"), "type", "password"); n > 0 {
		out = append(out, model.EvidenceItem{
			Key:         "password-input",
			Severity:    "high",
			Description: "Content asks for a password",
			Value:       n,
		})
	}

	var external []string
	doc.Find("form[action]").Each(func(_ int, s *goquery.Selection) {
		action, _ := s.Attr("action")
		action = strings.TrimSpace(action)
		if !strings.HasPrefix(action, "http://") && !strings.HasPrefix(action, "https://") {
			return
		}
		if !utils.SameHost(action, url) {
			external = append(external, action)
		}
	})
	if len(external) > 0 {
		out = append(out, model.EvidenceItem{
			Key:         "external-form-action",
			Severity:    "high",
			Description: "Form submits to a different host than the scanned URL",
			Value:       external,
		})
	}

	if countAttr(doc.Find("meta"), "http-equiv", "refresh") > 0 {
		out = append(out, model.EvidenceItem{
			Key:         "meta-refresh",
			Severity:    "medium",
			Description: "Content redirects via meta refresh",
		})
	}

	if n := doc.Find("iframe").Length(); n > 0 {
		out = append(out, model.EvidenceItem{
			Key:         "iframe",
			Severity:    "low",
			Description: "Content embeds frames",
			Value:       n,
		})
	}

	return out
}

// countAttr counts elements of sel whose attr equals value, ignoring case.
func countAttr(sel *goquery.Selection, attr, value string) int {
	n := 0
	sel.Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr(attr); ok && strings.EqualFold(strings.TrimSpace(v), value) {
			n++
		}
	})
	return n
}

func looksLikeHTML(content string) bool {
	lc := strings.ToLower(content)
	return strings.Contains(lc, "<html") ||
		strings.Contains(lc, "<form") ||
		strings.Contains(lc, "<input") ||
		strings.Contains(lc, "<body") ||
		strings.Contains(lc, "<meta") ||
		strings.Contains(lc, "<iframe")
}
