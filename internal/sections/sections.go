// Package sections models the configurable blocks a page is composed of.
//
// A page lists its sections top to bottom. Every section carries a "type"
// tag selecting one of a closed set of shapes; Section is a sum type over
// those shapes with one struct per variant.
package sections

// Type is the discriminator of a section.
type Type string

const (
	TypeHero            Type = "hero"
	TypeBenefits        Type = "benefits"
	TypeServicesSlider  Type = "servicesSlider"
	TypeTextImage       Type = "textImage"
	TypeAccordionGroups Type = "accordionGroups"
	TypeContactForm     Type = "contactForm"
	TypeVideo           Type = "video"
	TypeDownloads       Type = "downloads"
)

// Types lists every known section type in declaration order.
func Types() []Type {
	return []Type{
		TypeHero,
		TypeBenefits,
		TypeServicesSlider,
		TypeTextImage,
		TypeAccordionGroups,
		TypeContactForm,
		TypeVideo,
		TypeDownloads,
	}
}

// Valid reports whether t is one of the known section types.
func (t Type) Valid() bool {
	for _, known := range Types() {
		if t == known {
			return true
		}
	}
	return false
}

// Section is implemented by the variant structs of this package only.
type Section interface {
	SectionType() Type
	SectionID() string
	isSection()
}

// Base holds the fields shared by all variants.
type Base struct {
	ID string `json:"id,omitempty"`
}

// SectionID returns the optional anchor id of the section.
func (b Base) SectionID() string { return b.ID }

type Hero struct {
	Base
	Heading          string `json:"heading"`
	Text             string `json:"text"`
	CTAText          string `json:"ctaText,omitempty"`
	CTAHref          string `json:"ctaHref,omitempty"`
	SecondaryCTAText string `json:"secondaryCtaText,omitempty"`
	SecondaryCTAHref string `json:"secondaryCtaHref,omitempty"`
}

type Benefit struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

type Benefits struct {
	Base
	Heading string    `json:"heading"`
	Items   []Benefit `json:"items"`
}

type Service struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type ServicesSlider struct {
	Base
	Heading   string    `json:"heading"`
	IntroText string    `json:"introText,omitempty"`
	Items     []Service `json:"items"`
}

// MediaPosition places the media of a TextImage section.
type MediaPosition string

const (
	MediaLeft  MediaPosition = "left"
	MediaRight MediaPosition = "right"
)

type Attribution struct {
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}

type TextImage struct {
	Base
	Heading       string        `json:"heading"`
	Text          string        `json:"text"`
	Media         string        `json:"media"`
	MediaAlt      string        `json:"mediaAlt"`
	MediaPosition MediaPosition `json:"mediaPosition"`
	Attribution   *Attribution  `json:"attribution,omitempty"`
}

type Accordion struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type AccordionGroup struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Accordions  []Accordion `json:"accordions"`
}

type AccordionGroups struct {
	Base
	Heading string           `json:"heading"`
	Groups  []AccordionGroup `json:"groups"`
}

type ContactForm struct {
	Base
	Heading string `json:"heading"`
}

type Video struct {
	Base
	Heading string `json:"heading"`
	Video   string `json:"video"`
}

type Download struct {
	Title string `json:"title"`
	File  string `json:"file"`
}

type Downloads struct {
	Base
	Heading string     `json:"heading"`
	Items   []Download `json:"items"`
}

func (*Hero) SectionType() Type            { return TypeHero }
func (*Benefits) SectionType() Type        { return TypeBenefits }
func (*ServicesSlider) SectionType() Type  { return TypeServicesSlider }
func (*TextImage) SectionType() Type       { return TypeTextImage }
func (*AccordionGroups) SectionType() Type { return TypeAccordionGroups }
func (*ContactForm) SectionType() Type     { return TypeContactForm }
func (*Video) SectionType() Type           { return TypeVideo }
func (*Downloads) SectionType() Type       { return TypeDownloads }

func (*Hero) isSection()            {}
func (*Benefits) isSection()        {}
func (*ServicesSlider) isSection()  {}
func (*TextImage) isSection()       {}
func (*AccordionGroups) isSection() {}
func (*ContactForm) isSection()     {}
func (*Video) isSection()           {}
func (*Downloads) isSection()       {}

// New returns an empty variant for t, or nil for unknown types.
func New(t Type) Section {
	switch t {
	case TypeHero:
		return &Hero{}
	case TypeBenefits:
		return &Benefits{}
	case TypeServicesSlider:
		return &ServicesSlider{}
	case TypeTextImage:
		return &TextImage{}
	case TypeAccordionGroups:
		return &AccordionGroups{}
	case TypeContactForm:
		return &ContactForm{}
	case TypeVideo:
		return &Video{}
	case TypeDownloads:
		return &Downloads{}
	default:
		return nil
	}
}
