package erp

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/kv"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/notify"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/validate"
)

// ErrUnknownSection is returned for a settings section that does not exist.
var ErrUnknownSection = errors.New("unknown settings section")

// Section groups related settings.
type Section string

const (
	SectionGeneral  Section = "general"
	SectionCompany  Section = "company"
	SectionUsers    Section = "users"
	SectionAdvanced Section = "advanced"
)

var Sections = []Section{SectionGeneral, SectionCompany, SectionUsers, SectionAdvanced}

// Title is the display name, e.g. "General".
func (s Section) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// ParseSection converts user input into a Section.
func ParseSection(s string) (Section, error) {
	sec := Section(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Sections, sec) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	return sec, nil
}

// Settings maps setting keys to values within one section.
type Settings map[string]string

var (
	boolValues = []string{"true", "false"}
	roleValues = []string{"admin", "manager", "staff", "viewer"}
)

// sectionDefaults lists every key a section accepts with its default value.
var sectionDefaults = map[Section]Settings{
	SectionGeneral: {
		"language":    "en",
		"timezone":    "UTC",
		"date_format": "Jan 2, 2006",
		"currency":    "USD",
	},
	SectionCompany: {
		"name":    "",
		"email":   "",
		"phone":   "",
		"address": "",
		"tax_id":  "",
	},
	SectionUsers: {
		"default_role": "staff",
		"allow_signup": "false",
	},
	SectionAdvanced: {
		"low_stock_alerts": "true",
		"api_enabled":      "true",
		"webhook_url":      "",
	},
}

// Keys returns the sorted keys a section accepts.
func Keys(section Section) []string {
	return slices.Sorted(maps.Keys(sectionDefaults[section]))
}

// Choices returns the allowed values of a key, or nil for free text.
func Choices(key string) []string {
	switch key {
	case "allow_signup", "low_stock_alerts", "api_enabled":
		return boolValues
	case "default_role":
		return roleValues
	}
	return nil
}

// SettingsService stores per-section settings and announces changes.
type SettingsService struct {
	store    *kv.TypedKV[Settings]
	notifier *Notifier
}

// NewSettingsService creates a SettingsService persisting under the
// "settings" namespace of store.
func NewSettingsService(store kv.KV, notifier *Notifier) *SettingsService {
	return &SettingsService{
		store:    kv.Scoped[Settings](store, "settings"),
		notifier: notifier,
	}
}

// Get returns the saved values of a section layered over its defaults.
func (s *SettingsService) Get(ctx context.Context, section Section) (Settings, error) {
	defaults, ok := sectionDefaults[section]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}

	saved, err := s.store.GetOr(ctx, string(section), Settings{})
	if err != nil {
		return nil, fmt.Errorf("load %s settings: %w", section, err)
	}

	out := maps.Clone(defaults)
	for k, v := range saved {
		if _, known := defaults[k]; known {
			out[k] = v
		}
	}
	return out, nil
}

// Save merges values into a section, persists it and emits a
// "<Section> settings" updated notification.
func (s *SettingsService) Save(ctx context.Context, section Section, values Settings) (Settings, error) {
	current, err := s.Get(ctx, section)
	if err != nil {
		return nil, err
	}
	if err := validateSettings(section, values); err != nil {
		return nil, err
	}

	maps.Copy(current, values)
	if err := s.store.Set(ctx, string(section), current); err != nil {
		return nil, fmt.Errorf("save %s settings: %w", section, err)
	}

	if _, err := s.notifier.Emit(ctx, notify.ModuleSystem, notify.ActionUpdated, section.Title()+" settings", ""); err != nil {
		return nil, err
	}
	return current, nil
}

func validateSettings(section Section, values Settings) error {
	var errs criterio.FieldErrorsBuilder
	defaults := sectionDefaults[section]

	for _, k := range slices.Sorted(maps.Keys(values)) {
		field := string(section) + "." + k
		v := values[k]

		if _, ok := defaults[k]; !ok {
			errs = errs.Append(field, fmt.Errorf("unknown setting"))
			continue
		}

		if choices := Choices(k); choices != nil {
			if err := validate.OneOf(choices...)(v); err != nil {
				errs = errs.Append(field, err)
			}
			continue
		}

		switch k {
		case "language", "timezone", "date_format":
			if err := validate.Required(v); err != nil {
				errs = errs.Append(field, err)
			}
		case "currency":
			if len(v) != 3 {
				errs = errs.Append(field, fmt.Errorf("must be a 3-letter code"))
			}
		case "email":
			if v != "" && !strings.Contains(v, "@") {
				errs = errs.Append(field, fmt.Errorf("must be an email address"))
			}
		}
	}

	return errs.ToError()
}
