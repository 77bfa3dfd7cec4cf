package wizard

import (
	"errors"
	"regexp"
	"strings"
)

// FormData is the superset of fields collected by the intake wizards. Each
// configured wizard only reads the fields its rule table names.
type FormData struct {
	FullName     string   `json:"full_name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Company      string   `json:"company"`
	Categories   []string `json:"categories"`
	Expertise    []string `json:"expertise"`
	Services     []string `json:"services"`
	About        string   `json:"about"`
	Description  string   `json:"description"`
	Budget       string   `json:"budget"`
	Timeline     string   `json:"timeline"`
	PortfolioURL string   `json:"portfolio_url"`
	BriefURL     string   `json:"brief_url"`
	Consent      bool     `json:"consent"`
}

// expertiseCatalog maps a freelancer category to the expertise options it
// unlocks. Options outside the selected categories are never offered and any
// stale selection is pruned when the category set changes.
var expertiseCatalog = map[string][]string{
	"development": {"web", "mobile", "backend", "devops", "blockchain"},
	"design":      {"ui", "ux", "branding", "illustration", "motion"},
	"marketing":   {"seo", "content", "social", "ads", "email"},
	"video":       {"editing", "animation", "production"},
}

// ServiceCatalog lists the services a project request may select.
var ServiceCatalog = []string{
	"web_development", "mobile_development", "ui_ux_design",
	"branding", "digital_marketing", "video_production", "consulting",
}

// AvailableExpertise derives the valid expertise set for the selected
// categories. Unknown categories contribute nothing.
func AvailableExpertise(categories []string) []string {
	var options []string
	seen := make(map[string]struct{})
	for _, category := range categories {
		for _, option := range expertiseCatalog[strings.ToLower(strings.TrimSpace(category))] {
			if _, dup := seen[option]; dup {
				continue
			}
			seen[option] = struct{}{}
			options = append(options, option)
		}
	}
	return options
}

// prune drops selections that a changed upstream field no longer permits.
func (d *FormData) prune() {
	allowed := make(map[string]struct{})
	for _, option := range AvailableExpertise(d.Categories) {
		allowed[option] = struct{}{}
	}
	kept := d.Expertise[:0]
	for _, choice := range d.Expertise {
		if _, ok := allowed[choice]; ok {
			kept = append(kept, choice)
		}
	}
	d.Expertise = kept
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

// ValidEmail checks the local@domain.tld shape. Total function, no side
// effects.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// ValidPhone accepts an optional leading + followed by at least eight digits;
// spaces, dashes and parentheses are ignored.
func ValidPhone(phone string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
	if strings.HasPrefix(cleaned, "+") {
		cleaned = cleaned[1:]
	}
	if len(cleaned) < 8 {
		return false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func required(field string) Rule {
	message := errors.New("is required")
	return Rule{Field: field, Check: func(d FormData) error {
		value := ""
		switch field {
		case "full_name":
			value = d.FullName
		case "email":
			value = d.Email
		case "phone":
			value = d.Phone
		case "about":
			value = d.About
		case "description":
			value = d.Description
		case "budget":
			value = d.Budget
		}
		if strings.TrimSpace(value) == "" {
			return message
		}
		return nil
	}}
}

func emailRule() Rule {
	return Rule{Field: "email", Check: func(d FormData) error {
		if strings.TrimSpace(d.Email) == "" {
			return errors.New("is required")
		}
		if !ValidEmail(d.Email) {
			return errors.New("must be a valid email address")
		}
		return nil
	}}
}

func phoneRule() Rule {
	return Rule{Field: "phone", Check: func(d FormData) error {
		if strings.TrimSpace(d.Phone) == "" {
			return errors.New("is required")
		}
		if !ValidPhone(d.Phone) {
			return errors.New("must be a valid phone number")
		}
		return nil
	}}
}

func atLeastOne(field string, pick func(FormData) []string) Rule {
	return Rule{Field: field, Check: func(d FormData) error {
		if len(pick(d)) == 0 {
			return errors.New("select at least one option")
		}
		return nil
	}}
}

func expertiseWithinCatalog() Rule {
	return Rule{Field: "expertise", Check: func(d FormData) error {
		allowed := make(map[string]struct{})
		for _, option := range AvailableExpertise(d.Categories) {
			allowed[option] = struct{}{}
		}
		for _, choice := range d.Expertise {
			if _, ok := allowed[choice]; !ok {
				return errors.New("contains options outside the selected categories")
			}
		}
		return nil
	}}
}

func consentRule() Rule {
	return Rule{Field: "consent", Check: func(d FormData) error {
		if !d.Consent {
			return errors.New("consent is required")
		}
		return nil
	}}
}

// FreelancerSteps is the rule table for the freelancer application wizard.
func FreelancerSteps() []Step {
	return []Step{
		{Label: "Kimlik", Icon: "user", Rules: []Rule{
			required("full_name"), emailRule(), phoneRule(),
		}},
		{Label: "Kategori", Icon: "layers", Rules: []Rule{
			atLeastOne("categories", func(d FormData) []string { return d.Categories }),
		}},
		{Label: "Uzmanlık", Icon: "star", Rules: []Rule{
			atLeastOne("expertise", func(d FormData) []string { return d.Expertise }),
			expertiseWithinCatalog(),
		}},
		{Label: "Hakkında", Icon: "file-text", Rules: []Rule{
			required("about"),
		}},
		{Label: "Onay", Icon: "check", Rules: []Rule{
			consentRule(),
		}},
	}
}

// RequestSteps is the rule table for the project request wizard.
func RequestSteps() []Step {
	return []Step{
		{Label: "İletişim", Icon: "user", Rules: []Rule{
			required("full_name"), emailRule(), phoneRule(),
		}},
		{Label: "Hizmetler", Icon: "grid", Rules: []Rule{
			atLeastOne("services", func(d FormData) []string { return d.Services }),
		}},
		{Label: "Detaylar", Icon: "file-text", Rules: []Rule{
			required("description"), required("budget"),
		}},
		{Label: "Onay", Icon: "check", Rules: []Rule{
			consentRule(),
		}},
	}
}
