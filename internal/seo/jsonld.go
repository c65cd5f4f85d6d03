package seo

import (
	"encoding/json"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/config"
)

const schemaContext = "https://schema.org"

type graph struct {
	Context string `json:"@context"`
	Graph   []any  `json:"@graph"`
}

type typed struct {
	Type string `json:"@type"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

type listItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item"`
}

type breadcrumbList struct {
	Type            string     `json:"@type"`
	ItemListElement []listItem `json:"itemListElement"`
}

type imageObject struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

type publisher struct {
	Type string      `json:"@type"`
	Name string      `json:"name"`
	Logo imageObject `json:"logo"`
}

type technicalArticle struct {
	Type          string    `json:"@type"`
	Headline      string    `json:"headline"`
	Description   string    `json:"description"`
	Author        typed     `json:"author"`
	DatePublished string    `json:"datePublished"`
	DateModified  string    `json:"dateModified"`
	Image         string    `json:"image"`
	URL           string    `json:"url"`
	Publisher     publisher `json:"publisher"`
}

type organization struct {
	Type        string   `json:"@type"`
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Logo        string   `json:"logo"`
	Description string   `json:"description,omitempty"`
	SameAs      []string `json:"sameAs,omitempty"`
}

type offer struct {
	Type          string `json:"@type"`
	Price         string `json:"price"`
	PriceCurrency string `json:"priceCurrency"`
}

type softwareApplication struct {
	Type                string `json:"@type"`
	Name                string `json:"name"`
	ApplicationCategory string `json:"applicationCategory"`
	OperatingSystem     string `json:"operatingSystem"`
	Offers              offer  `json:"offers"`
	Description         string `json:"description,omitempty"`
}

func breadcrumbs(crumbs []Crumb) breadcrumbList {
	items := make([]listItem, 0, len(crumbs))
	for i, c := range crumbs {
		items = append(items, listItem{Type: "ListItem", Position: i + 1, Name: c.Name, Item: c.URL})
	}
	return breadcrumbList{Type: "BreadcrumbList", ItemListElement: items}
}

func docGraph(site config.SiteConfig, title, description, url, stamp string, crumbs []Crumb) ([]byte, error) {
	article := technicalArticle{
		Type:          "TechnicalArticle",
		Headline:      title,
		Description:   description,
		Author:        typed{Type: "Person", Name: site.Author},
		DatePublished: stamp,
		DateModified:  stamp,
		Image:         site.OGImage,
		URL:           url,
		Publisher: publisher{
			Type: "Organization",
			Name: site.Name,
			Logo: imageObject{Type: "ImageObject", URL: site.Logo},
		},
	}
	return marshal(graph{Context: schemaContext, Graph: []any{breadcrumbs(crumbs), article}})
}

func homeGraph(site config.SiteConfig) ([]byte, error) {
	var sameAs []string
	if h := strings.TrimPrefix(site.Twitter, "@"); h != "" {
		sameAs = append(sameAs, "https://twitter.com/"+h)
	}
	if site.RepoURL != "" {
		sameAs = append(sameAs, site.RepoURL)
	}
	org := organization{
		Type:        "Organization",
		Name:        site.Name,
		URL:         site.CanonicalURL,
		Logo:        site.Logo,
		Description: site.Tagline,
		SameAs:      sameAs,
	}
	app := softwareApplication{
		Type:                "SoftwareApplication",
		Name:                site.Name,
		ApplicationCategory: "DeveloperApplication",
		OperatingSystem:     "Cross-platform",
		Offers:              offer{Type: "Offer", Price: "0", PriceCurrency: "USD"},
		Description:         site.DefaultDescription,
	}
	return marshal(graph{Context: schemaContext, Graph: []any{org, app}})
}

func marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal structured data: %w", err)
	}
	return b, nil
}
