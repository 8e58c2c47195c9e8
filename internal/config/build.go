package config

import (
	"fmt"
	"strings"

	"github.com/feedforge/multimarket/internal/mapping"
	"github.com/feedforge/multimarket/internal/quota"
	"github.com/feedforge/multimarket/internal/registry"
	"github.com/feedforge/multimarket/internal/vocab"
)

// Components holds the read-only lookup structures built from one
// configuration file. Any inconsistency (duplicate attribute, two
// attributes claiming one column slot, vocabulary conflicts) fails the
// build; configuration errors abort the whole run.
type Components struct {
	Registry   *registry.Registry
	Resolver   *mapping.Resolver
	Normalizer *vocab.Normalizer
	Profiles   map[string]*mapping.PlatformProfile
}

// Build validates the file configuration and constructs all read-only
// components.
func (cfg *FileConfig) Build() (*Components, error) {
	reg := registry.New()
	for _, ac := range cfg.Attributes {
		aliases := make([]registry.Alias, 0, len(ac.Aliases))
		for _, alias := range ac.Aliases {
			aliases = append(aliases, registry.Alias{
				Platform: alias.Platform,
				Locale:   alias.Locale,
				Name:     alias.Name,
			})
		}
		attr := registry.Attribute{
			ID:           ac.ID,
			Label:        ac.Label,
			Category:     registry.Category(strings.TrimSpace(ac.Category)),
			Domain:       registry.Domain(strings.TrimSpace(ac.Domain)),
			Strictness:   registry.Strictness(strings.TrimSpace(ac.Strictness)),
			Translatable: ac.Translatable,
			Aliases:      aliases,
		}
		if attr.Category == "" {
			attr.Category = registry.CategoryOptional
		}
		if errRegister := reg.Register(attr); errRegister != nil {
			return nil, errRegister
		}
	}

	resolver := mapping.NewResolver(reg)
	profiles := make(map[string]*mapping.PlatformProfile, len(cfg.Platforms))
	normalizer := vocab.NewNormalizer(reg)

	for _, pc := range cfg.Platforms {
		id := strings.TrimSpace(pc.ID)
		if id == "" {
			return nil, fmt.Errorf("config: platform with empty id")
		}
		if _, exists := profiles[id]; exists {
			return nil, fmt.Errorf("config: duplicate platform %q", id)
		}

		profile := &mapping.PlatformProfile{
			ID:     id,
			Name:   strings.TrimSpace(pc.Name),
			Locale: strings.ToLower(strings.TrimSpace(pc.Locale)),
		}
		for _, cc := range pc.Columns {
			profile.Columns = append(profile.Columns, mapping.ColumnSlot{
				Name:     strings.TrimSpace(cc.Name),
				Required: cc.Required,
			})
			if attrID := strings.TrimSpace(cc.Attribute); attrID != "" {
				if errRegister := resolver.RegisterMapping(id, attrID, mapping.SlotBinding{
					Column:    cc.Name,
					Transform: cc.Transform,
				}); errRegister != nil {
					return nil, errRegister
				}
			}
		}
		profiles[id] = profile
		normalizer.SetPlatformLocale(id, profile.Locale)
	}

	for _, vc := range cfg.Vocabularies {
		attrID := strings.TrimSpace(vc.Attribute)
		if _, errLookup := reg.Lookup(attrID); errLookup != nil {
			return nil, errLookup
		}
		v := vocab.NewVocabulary(attrID)
		for _, value := range vc.Values {
			if errAdd := v.AddCanonical(value.Canonical); errAdd != nil {
				return nil, errAdd
			}
			for locale, localized := range value.Locales {
				if errAdd := v.AddEntry(value.Canonical, locale, localized); errAdd != nil {
					return nil, errAdd
				}
			}
		}
		normalizer.SetVocabulary(attrID, v)
	}

	for _, nc := range cfg.Numeric {
		attrID := strings.TrimSpace(nc.Attribute)
		if _, errLookup := reg.Lookup(attrID); errLookup != nil {
			return nil, errLookup
		}
		spec := vocab.NumericSpec{
			CanonicalUnit: strings.TrimSpace(nc.CanonicalUnit),
			PerPlatform:   make(map[string]vocab.UnitConversion, len(nc.Platforms)),
		}
		for platformID, uc := range nc.Platforms {
			spec.PerPlatform[platformID] = vocab.UnitConversion{Unit: uc.Unit, Factor: uc.Factor}
		}
		normalizer.SetNumericSpec(attrID, spec)
	}

	return &Components{
		Registry:   reg,
		Resolver:   resolver,
		Normalizer: normalizer,
		Profiles:   profiles,
	}, nil
}

// QuotaLimits converts the configured quota budget, applying free-tier
// defaults for unset character limits.
func (cfg *FileConfig) QuotaLimits() quota.Limits {
	limits := quota.DefaultLimits()
	if cfg.Quota.DailyChars > 0 {
		limits.DailyChars = cfg.Quota.DailyChars
	}
	if cfg.Quota.DailyRequests > 0 {
		limits.DailyRequests = cfg.Quota.DailyRequests
	}
	if cfg.Quota.MonthlyChars > 0 {
		limits.MonthlyChars = cfg.Quota.MonthlyChars
	}
	if cfg.Quota.MonthlyRequests > 0 {
		limits.MonthlyRequests = cfg.Quota.MonthlyRequests
	}
	return limits
}
