package domain

import "encoding/json"

// ContentID is the primary key of the single content row.
const ContentID = 1

// Document is the whole-site content document. It is stored and returned
// verbatim; Site gives a typed view with defaults filled in.
type Document map[string]any

// Site is the typed view of the recognized Document fields
type Site struct {
	Logo     string           `json:"logo"`
	Hero     Hero             `json:"hero"`
	Features Features         `json:"features"`
	Products []ContentProduct `json:"products"`
	About    About            `json:"about"`
	Contact  Contact          `json:"contact"`
	Theme    Theme            `json:"theme"`
}

// Hero is the landing page banner
type Hero struct {
	Title            string  `json:"title"`
	Subtitle         string  `json:"subtitle"`
	ButtonText       string  `json:"buttonText"`
	ButtonURL        string  `json:"buttonUrl"`
	SecondButtonText string  `json:"secondButtonText"`
	SecondButtonURL  string  `json:"secondButtonUrl"`
	BackgroundVideo  string  `json:"backgroundVideo"`
	ImageSlider      []Slide `json:"imageSlider"`
}

// Slide is one image of the hero slider
type Slide struct {
	ID       string `json:"id"`
	Image    string `json:"image"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// Features is the feature highlight section
type Features struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Image       string `json:"image"`
	// ImageWidth is a percentage of the section width.
	ImageWidth int `json:"imageWidth"`
}

// ContentProduct is a display entry on the landing page, unrelated to the products table.
type ContentProduct struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Price       string `json:"price"`
}

// About is the about-us section
type About struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Contact holds the contact details and social links
type Contact struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Address     string      `json:"address"`
	Social      SocialLinks `json:"social"`
}

// SocialLinks maps each network to a profile URL
type SocialLinks struct {
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	Tiktok    string `json:"tiktok"`
	Youtube   string `json:"youtube"`
}

// Theme holds the site color scheme
type Theme struct {
	Mode              string `json:"mode"`
	PrimaryColor      string `json:"primaryColor"`
	SecondaryColor    string `json:"secondaryColor"`
	WarningColor      string `json:"warningColor"`
	BackgroundDefault string `json:"backgroundDefault"`
	BackgroundPaper   string `json:"backgroundPaper"`
}

// DefaultSite returns the content shown before anything has been saved.
func DefaultSite() Site {
	return Site{
		Logo: "",
		Hero: Hero{
			Title:            "Happy Jasmine",
			Subtitle:         "Fresh jasmine tea, brewed for every moment",
			ButtonText:       "Our Products",
			ButtonURL:        "/products",
			SecondButtonText: "Find a Store",
			SecondButtonURL:  "/locations",
			ImageSlider:      []Slide{},
		},
		Features: Features{
			Title:       "Why Happy Jasmine",
			Description: "Hand-picked jasmine flowers and carefully sourced tea leaves.",
			ImageWidth:  50,
		},
		Products: []ContentProduct{},
		About: About{
			Title:       "About Us",
			Description: "Happy Jasmine brings fragrant jasmine tea from our factory to your cup.",
		},
		Contact: Contact{
			Title:       "Contact Us",
			Description: "Questions, partnerships or orders: we would love to hear from you.",
		},
		Theme: Theme{
			Mode:              "light",
			PrimaryColor:      "#2e7d32",
			SecondaryColor:    "#f9a825",
			WarningColor:      "#ed6c02",
			BackgroundDefault: "#fafafa",
			BackgroundPaper:   "#ffffff",
		},
	}
}

// DefaultDocument returns DefaultSite as a Document.
func DefaultDocument() Document {
	doc, err := DocumentFrom(DefaultSite())
	if err != nil {
		// DefaultSite only holds strings, ints and slices
		panic(err)
	}
	return doc
}

// DocumentFrom converts any JSON-encodable value into a Document.
func DocumentFrom(v any) (Document, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Site decodes the document over DefaultSite. Missing fields and fields of
// the wrong type keep their default value.
func (d Document) Site() Site {
	site := DefaultSite()
	if len(d) == 0 {
		return site
	}

	for key, value := range d {
		switch key {
		case "logo":
			decodeValue(value, &site.Logo)
		case "hero":
			decodeFields(value, &site.Hero)
		case "features":
			decodeFields(value, &site.Features)
		case "products":
			decodeValue(value, &site.Products)
		case "about":
			decodeFields(value, &site.About)
		case "contact":
			decodeFields(value, &site.Contact)
		case "theme":
			decodeFields(value, &site.Theme)
		}
	}
	return site
}

// decodeFields decodes each field of an object section on its own, so a bad
// field only loses itself.
func decodeFields[T any](value any, dst *T) {
	fields, ok := value.(map[string]any)
	if !ok {
		return
	}
	for name, field := range fields {
		decodeValue(map[string]any{name: field}, dst)
	}
}

func decodeValue[T any](value any, dst *T) {
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	decodeInto(b, dst)
}

// decodeInto decodes b into a deep copy of *dst and only keeps it on success.
func decodeInto[T any](b []byte, dst *T) {
	var next T
	if cur, err := json.Marshal(*dst); err == nil {
		_ = json.Unmarshal(cur, &next)
	}
	if err := json.Unmarshal(b, &next); err != nil {
		return
	}
	*dst = next
}
