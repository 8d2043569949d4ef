package chromedp_extractor

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/user/extraction-service/internal/entity"
	"github.com/user/extraction-service/pkg/utils"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	titleSplit   = regexp.MustCompile(`\s+[|\-–—:·]\s+`)
)

var socialHosts = map[string]string{
	"linkedin.com":  "linkedin",
	"twitter.com":   "twitter",
	"x.com":         "twitter",
	"facebook.com":  "facebook",
	"instagram.com": "instagram",
	"youtube.com":   "youtube",
	"github.com":    "github",
	"tiktok.com":    "tiktok",
}

var genericTitleWords = map[string]bool{
	"home": true, "homepage": true, "about": true, "about us": true,
	"welcome": true, "contact": true, "contact us": true, "products": true,
}

var imageSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp"}

// ParseCompanyData extracts company and product data from a rendered page.
// Structured data (JSON-LD, microdata) wins over meta tags, which win over heuristics.
func ParseCompanyData(pageURL, html string) (*entity.ExtractedData, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	p := &pageParser{base: base, doc: doc}
	data := &entity.ExtractedData{
		URL:         pageURL,
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		SocialLinks: make(map[string]string),
	}

	p.applyJSONLD(data)
	p.applyMicrodataProducts(data)
	p.applyMeta(data)
	p.applyLinks(data)

	if data.CompanyName == "" {
		data.CompanyName = companyFromTitle(data.Title)
	}
	if data.Description == "" {
		data.Description = readableExcerpt(base, html)
	}
	if data.Website == "" {
		data.Website = base.Scheme + "://" + base.Host
	}
	if data.Logo == "" {
		if src, ok := doc.Find(`img[src*="logo"], img[class*="logo"], img[id*="logo"]`).First().Attr("src"); ok {
			data.Logo = p.abs(src)
		}
	}
	data.Emails = dedupe(append(data.Emails, p.textEmails()...))
	data.Phones = dedupe(data.Phones)

	return data, nil
}

type pageParser struct {
	base *url.URL
	doc  *goquery.Document
}

func (p *pageParser) abs(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	out, err := utils.ToAbsoluteURL(p.base, ref)
	if err != nil {
		return ref
	}
	return out
}

func (p *pageParser) applyJSONLD(data *entity.ExtractedData) {
	p.doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var raw interface{}
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			return
		}
		for _, obj := range flattenLD(raw) {
			switch {
			case hasType(obj, "Organization", "Corporation", "LocalBusiness", "Store", "OnlineStore"):
				p.applyOrganization(data, obj)
			case hasType(obj, "Product", "Service"):
				data.Products = append(data.Products, p.productFromLD(obj))
			}
		}
	})
}

func (p *pageParser) applyOrganization(data *entity.ExtractedData, obj map[string]interface{}) {
	setIfEmpty(&data.CompanyName, str(obj["name"]))
	setIfEmpty(&data.Description, str(obj["description"]))
	if u := str(obj["url"]); u != "" && data.Website == "" {
		data.Website = p.abs(u)
	}
	if logo := imageURL(obj["logo"]); logo != "" && data.Logo == "" {
		data.Logo = p.abs(logo)
	}
	if e := strings.TrimPrefix(str(obj["email"]), "mailto:"); e != "" {
		data.Emails = append(data.Emails, strings.ToLower(e))
	}
	if t := str(obj["telephone"]); t != "" {
		data.Phones = append(data.Phones, t)
	}
	for _, link := range strs(obj["sameAs"]) {
		addSocial(data, link)
	}
}

func (p *pageParser) productFromLD(obj map[string]interface{}) entity.Product {
	prod := entity.Product{
		Name:        str(obj["name"]),
		Description: str(obj["description"]),
		URL:         p.abs(str(obj["url"])),
		Image:       p.abs(imageURL(obj["image"])),
	}
	offers := obj["offers"]
	if list, ok := offers.([]interface{}); ok && len(list) > 0 {
		offers = list[0]
	}
	if offer, ok := offers.(map[string]interface{}); ok {
		prod.Price = str(offer["price"])
		if prod.Price == "" {
			prod.Price = str(offer["lowPrice"])
		}
		prod.Currency = str(offer["priceCurrency"])
	}
	return prod
}

func (p *pageParser) applyMicrodataProducts(data *entity.ExtractedData) {
	if len(data.Products) > 0 {
		return
	}
	p.doc.Find(`[itemtype*="schema.org/Product"]`).Each(func(_ int, s *goquery.Selection) {
		prod := entity.Product{
			Name:        itemprop(s, "name"),
			Description: itemprop(s, "description"),
			Price:       itemprop(s, "price"),
			Currency:    itemprop(s, "priceCurrency"),
		}
		if img, ok := s.Find(`[itemprop="image"]`).First().Attr("src"); ok {
			prod.Image = p.abs(img)
		}
		if href, ok := s.Find(`a[itemprop="url"], a[href]`).First().Attr("href"); ok {
			prod.URL = p.abs(href)
		}
		if prod.Name != "" {
			data.Products = append(data.Products, prod)
		}
	})
}

func (p *pageParser) applyMeta(data *entity.ExtractedData) {
	meta := make(map[string]string)
	p.doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		key, _ := s.Attr("name")
		if prop, _ := s.Attr("property"); prop != "" {
			key = prop
		}
		content, _ := s.Attr("content")
		key = strings.ToLower(strings.TrimSpace(key))
		if key != "" && content != "" {
			if _, seen := meta[key]; !seen {
				meta[key] = strings.TrimSpace(content)
			}
		}
	})

	setIfEmpty(&data.CompanyName, meta["og:site_name"])
	setIfEmpty(&data.CompanyName, meta["application-name"])
	setIfEmpty(&data.Description, meta["description"])
	setIfEmpty(&data.Description, meta["og:description"])
	if img := meta["og:image"]; img != "" && data.Logo == "" && strings.Contains(strings.ToLower(img), "logo") {
		data.Logo = p.abs(img)
	}
}

func (p *pageParser) applyLinks(data *entity.ExtractedData) {
	p.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		lower := strings.ToLower(href)
		switch {
		case strings.HasPrefix(lower, "mailto:"):
			addr := strings.SplitN(href[len("mailto:"):], "?", 2)[0]
			if emailPattern.MatchString(addr) {
				data.Emails = append(data.Emails, strings.ToLower(addr))
			}
		case strings.HasPrefix(lower, "tel:"):
			if num := strings.TrimSpace(href[len("tel:"):]); num != "" {
				data.Phones = append(data.Phones, num)
			}
		default:
			addSocial(data, p.abs(href))
		}
	})
}

func (p *pageParser) textEmails() []string {
	body := p.doc.Find("body").Clone()
	body.Find("script, style, noscript").Remove()

	var out []string
	for _, m := range emailPattern.FindAllString(body.Text(), -1) {
		lower := strings.ToLower(m)
		if hasImageSuffix(lower) {
			continue
		}
		out = append(out, lower)
	}
	return out
}

func readableExcerpt(base *url.URL, html string) string {
	article, err := readability.FromReader(strings.NewReader(html), base)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.Excerpt)
}

func companyFromTitle(title string) string {
	for _, part := range titleSplit.Split(title, -1) {
		part = strings.TrimSpace(part)
		if part != "" && !genericTitleWords[strings.ToLower(part)] {
			return part
		}
	}
	return ""
}

func addSocial(data *entity.ExtractedData, link string) {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	network, ok := socialHosts[host]
	if !ok {
		return
	}
	if _, exists := data.SocialLinks[network]; !exists {
		data.SocialLinks[network] = link
	}
}

// flattenLD turns a JSON-LD payload (object, array or @graph) into a flat object list.
func flattenLD(raw interface{}) []map[string]interface{} {
	var out []map[string]interface{}
	switch v := raw.(type) {
	case []interface{}:
		for _, item := range v {
			out = append(out, flattenLD(item)...)
		}
	case map[string]interface{}:
		if graph, ok := v["@graph"]; ok {
			out = append(out, flattenLD(graph)...)
		}
		if _, ok := v["@type"]; ok {
			out = append(out, v)
		}
	}
	return out
}

func hasType(obj map[string]interface{}, types ...string) bool {
	for _, t := range strs(obj["@type"]) {
		t = strings.TrimPrefix(t, "http://schema.org/")
		t = strings.TrimPrefix(t, "https://schema.org/")
		for _, want := range types {
			if t == want {
				return true
			}
		}
	}
	return false
}

func str(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case map[string]interface{}:
		if name, ok := t["name"]; ok {
			return str(name)
		}
	}
	return ""
}

func strs(v interface{}) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []interface{}:
		var out []string
		for _, item := range t {
			if s := str(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// imageURL accepts the string, ImageObject and array forms schema.org allows.
func imageURL(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]interface{}:
		if u, ok := t["url"].(string); ok {
			return u
		}
		if u, ok := t["contentUrl"].(string); ok {
			return u
		}
	case []interface{}:
		if len(t) > 0 {
			return imageURL(t[0])
		}
	}
	return ""
}

func itemprop(s *goquery.Selection, name string) string {
	el := s.Find(`[itemprop="` + name + `"]`).First()
	if content, ok := el.Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	return strings.TrimSpace(el.Text())
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = strings.TrimSpace(v)
	}
}

func hasImageSuffix(s string) bool {
	for _, suf := range imageSuffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
