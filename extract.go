package tempmail

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// codePatterns is an ordered heuristic chain: the first match of the first
// pattern that matches anything wins. Keyword-guarded tokens rank above
// bare digit runs, which rank above bare 6-character tokens. The bare
// 6-character pattern additionally requires a digit so that ordinary
// six-letter words never match.
var codePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)verification code[:\s]+([A-Za-z0-9]{4,8})\b`),
	regexp.MustCompile(`(?i)\b(?:verify|code|otp|pin)[:\s]+([A-Za-z0-9]{4,8})\b`),
	regexp.MustCompile(`\b([0-9]{4,6})\b`),
	regexp.MustCompile(`\b([A-Za-z0-9]{6})\b`),
}

var (
	urlPattern   = regexp.MustCompile("(?i)https?://[^\\s<>\"{}|\\\\^`\\[\\]]+")
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// verificationKeywords mark a URL as a verification link when any of them
// appears in its path or query.
var verificationKeywords = []string{
	"verify", "confirm", "activate", "validation", "auth", "token", "code", "key",
}

// ExtractVerificationCode scans the plain-text body for a verification
// code. It returns the empty string when the body is empty or no pattern
// matches. The pattern chain is best-effort: a bare number in unrelated
// text can produce a false positive.
func ExtractVerificationCode(msg *Message) string {
	if msg == nil || msg.Text == "" {
		return ""
	}

	for i, pattern := range codePatterns {
		matches := pattern.FindAllStringSubmatch(msg.Text, -1)
		for _, m := range matches {
			candidate := m[1]
			// Bare 6-character tokens need a digit to count as a code.
			if i == len(codePatterns)-1 && !strings.ContainsAny(candidate, "0123456789") {
				continue
			}
			return candidate
		}
	}
	return ""
}

// ExtractVerificationLinks returns the deduplicated set of HTTP/HTTPS URLs
// in the message whose path or query contains a verification keyword. Both
// the plain-text body and every HTML part are searched.
func ExtractVerificationLinks(msg *Message) []string {
	var links []string
	for _, link := range extractLinks(msg) {
		if isVerificationLink(link) {
			links = append(links, link)
		}
	}
	return dedupe(links)
}

// ExtractAllLinks returns the deduplicated set of every HTTP/HTTPS URL in
// the message, with no keyword filter.
func ExtractAllLinks(msg *Message) []string {
	return dedupe(extractLinks(msg))
}

// ExtractEmailAddresses returns the deduplicated set of email-shaped
// tokens in the plain-text body.
func ExtractEmailAddresses(msg *Message) []string {
	if msg == nil || msg.Text == "" {
		return []string{}
	}
	return dedupe(emailPattern.FindAllString(msg.Text, -1))
}

// Parse runs every extractor over the message and bundles the results with
// sender, subject, receive time, and a 200-character text preview.
func Parse(msg *Message) *ParsedMessage {
	if msg == nil {
		return &ParsedMessage{
			VerificationLinks: []string{},
			AllLinks:          []string{},
			EmailAddresses:    []string{},
		}
	}

	return &ParsedMessage{
		Sender:            msg.From,
		Subject:           msg.Subject,
		ReceivedAt:        msg.ReceivedAt,
		TextPreview:       truncate(msg.Text, 200),
		VerificationCode:  ExtractVerificationCode(msg),
		VerificationLinks: ExtractVerificationLinks(msg),
		AllLinks:          ExtractAllLinks(msg),
		EmailAddresses:    ExtractEmailAddresses(msg),
	}
}

// extractLinks gathers candidate URLs from the text body, the raw HTML
// parts, and anchor hrefs parsed out of the HTML. The regex scan catches
// bare URLs in text; the anchor walk catches hrefs the regex mangles
// (entity-encoded query strings and the like).
func extractLinks(msg *Message) []string {
	if msg == nil {
		return nil
	}

	corpus := msg.Text
	for _, part := range msg.HTMLParts {
		corpus += " " + part
	}

	links := urlPattern.FindAllString(corpus, -1)
	links = append(links, anchorLinks(msg.HTMLParts)...)
	return links
}

func anchorLinks(parts []string) []string {
	var links []string
	for _, part := range parts {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(part))
		if err != nil {
			continue
		}
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			lower := strings.ToLower(href)
			if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
				links = append(links, href)
			}
		})
	}
	return links
}

func isVerificationLink(link string) bool {
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}
	target := strings.ToLower(parsed.Path + "?" + parsed.RawQuery)
	for _, keyword := range verificationKeywords {
		if strings.Contains(target, keyword) {
			return true
		}
	}
	return false
}

// dedupe returns the sorted set of its input. Sorting makes the set
// deterministic regardless of source order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	sort.Strings(result)
	return result
}
