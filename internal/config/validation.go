package config

import (
	"fmt"
	"net/url"

	"golang.org/x/text/language"

	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/navigation"
)

// Validate checks a defaulted configuration.
func Validate(cfg *Config) error {
	if err := validateURL("site.base_url", cfg.Site.BaseURL); err != nil {
		return err
	}
	if err := validateURL("site.canonical_url", cfg.Site.CanonicalURL); err != nil {
		return err
	}
	if _, err := language.Parse(cfg.Site.Language); err != nil {
		return derrors.ValidationFailed("site.language", err.Error()).WithContext("value", cfg.Site.Language)
	}
	if cfg.Build.Schedule < 0 {
		return derrors.ValidationFailed("build.schedule", "must not be negative")
	}
	return validateNavigation(cfg.Navigation)
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return derrors.ValidationFailed(field, err.Error()).WithContext("value", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return derrors.ValidationFailed(field, "scheme must be http or https").WithContext("value", raw)
	}
	if u.Host == "" {
		return derrors.ValidationFailed(field, "host is required").WithContext("value", raw)
	}
	return nil
}

func validateNavigation(items []navigation.Item) error {
	for i, sec := range items {
		if sec.Title == "" || sec.Href == "" {
			return derrors.ValidationFailed(fmt.Sprintf("navigation[%d]", i), "title and href are required")
		}
		for j, c := range sec.Children {
			if c.Title == "" || c.Href == "" {
				return derrors.ValidationFailed(fmt.Sprintf("navigation[%d].children[%d]", i, j), "title and href are required")
			}
		}
	}
	return nil
}
