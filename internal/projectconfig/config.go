// Package projectconfig holds the read-only project settings of the site:
// identity, contact details, advertising and analytics ids, head defaults
// and module switches. It is built once at start-up from the environment.
package projectconfig

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment keys read by Load.
const (
	EnvContactEmail       = "CONTACT_EMAIL"
	EnvContactPhone       = "CONTACT_PHONE"
	EnvAdSensePublisherID = "ADSENSE_PUBLISHER_ID"
	EnvAdSenseAdsTxt      = "ADSENSE_ADS_TXT"
	EnvAnalyticsHostURL   = "ANALYTICS_HOST_URL"
	EnvAnalyticsID        = "ANALYTICS_ID"
)

const DefaultContactEmail = "kontakt@group-hm.de"

// Adapter is the deployment target of the site build.
type Adapter string

const (
	AdapterStatic Adapter = "static"
	AdapterNode   Adapter = "node"
)

type Site struct {
	Name string
	URL  string
	Lang string
}

type Contact struct {
	Email     string
	Phone     string
	Instagram string
}

type AdSense struct {
	Enabled     bool
	PublisherID string
	AdsTxt      string
}

type Analytics struct {
	HostURL string
	ID      string
}

type Head struct {
	TitleSeparator string
	TitleSuffix    string
	Description    string
}

type BlogModule struct {
	Enabled bool
}

type Modules struct {
	Blog BlogModule
}

// Project is the project configuration. Consumers receive it by value.
type Project struct {
	Adapter   Adapter
	Site      Site
	Contact   Contact
	AdSense   AdSense
	Analytics Analytics
	Head      Head
	Modules   Modules
}

// Title composes a document title from a page title and the head settings.
// An empty page title yields the suffix alone.
func (p Project) Title(page string) string {
	if page == "" {
		return p.Head.TitleSuffix
	}
	if p.Head.TitleSuffix == "" {
		return page
	}
	return page + p.Head.TitleSeparator + p.Head.TitleSuffix
}

// Default returns the project configuration with every environment value at
// its fallback.
func Default() Project {
	return FromLookup(func(string) (string, bool) { return "", false })
}

// LookupFunc reports the value of an environment key and whether it is set.
type LookupFunc func(key string) (string, bool)

// FromLookup builds the project configuration from lookup. A key that is set
// to the empty string stays empty; only unset keys use their fallback.
func FromLookup(lookup LookupFunc) Project {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	env := func(key, fallback string) string {
		if value, ok := lookup(key); ok {
			return value
		}
		return fallback
	}

	return Project{
		Adapter: AdapterStatic,
		Site: Site{
			Name: "HM KFZ-Zulassung & Transfer",
			URL:  "https://group-hm.de",
			Lang: "de",
		},
		Contact: Contact{
			Email:     env(EnvContactEmail, DefaultContactEmail),
			Phone:     env(EnvContactPhone, ""),
			Instagram: "https://www.instagram.com/hm_kfz_sv/",
		},
		AdSense: AdSense{
			Enabled:     false,
			PublisherID: env(EnvAdSensePublisherID, ""),
			AdsTxt:      env(EnvAdSenseAdsTxt, ""),
		},
		Analytics: Analytics{
			HostURL: env(EnvAnalyticsHostURL, ""),
			ID:      env(EnvAnalyticsID, ""),
		},
		Head: Head{
			TitleSeparator: " | ",
			TitleSuffix:    "HM KFZ-Zulassung & Transfer",
			Description: "HM KFZ-Zulassung & Transfer – Ihr zuverlässiger Partner für alle " +
				"organisatorischen Aufgaben rund um Ihr Fahrzeug. Wir übernehmen für Sie " +
				"Behördengänge, Zulassungen und Fahrzeugtransfers.",
		},
		Modules: Modules{
			Blog: BlogModule{Enabled: false},
		},
	}
}

// Options configure Load.
type Options struct {
	// EnvFiles are read in order; earlier files win over later ones and the
	// process environment wins over all of them.
	EnvFiles []string
	// Lookup replaces the process environment, mainly for tests.
	Lookup LookupFunc
}

// Load builds the project configuration from the process environment and
// the optional .env files. Files that are missing or unreadable are skipped.
// The process environment is never modified.
func Load(opts Options) Project {
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	fileValues := map[string]string{}
	for _, file := range opts.EnvFiles {
		values, err := godotenv.Read(file)
		if err != nil {
			continue
		}
		for key, value := range values {
			if _, seen := fileValues[key]; !seen {
				fileValues[key] = value
			}
		}
	}

	return FromLookup(func(key string) (string, bool) {
		if value, ok := lookup(key); ok {
			return value, true
		}
		value, ok := fileValues[key]
		return value, ok
	})
}
