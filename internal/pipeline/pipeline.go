package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/feedforge/multimarket/internal/mapping"
	"github.com/feedforge/multimarket/internal/registry"
	"github.com/feedforge/multimarket/internal/translator"
	"github.com/feedforge/multimarket/internal/vocab"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BaseLocale is the locale canonical text values are authored in.
const BaseLocale = "en"

const defaultWorkers = 4

// Pipeline orchestrates transformation of products into platform rows.
// Every dependency except the translator is read-only during a run;
// (product, platform) pairs are mutually independent and processed in
// parallel.
type Pipeline struct {
	registry   *registry.Registry
	resolver   *mapping.Resolver
	normalizer *vocab.Normalizer
	translator *translator.Service
	profiles   map[string]*mapping.PlatformProfile
	workers    int
}

// New constructs a Pipeline.
func New(reg *registry.Registry, resolver *mapping.Resolver, normalizer *vocab.Normalizer,
	svc *translator.Service, profiles map[string]*mapping.PlatformProfile, workers int) *Pipeline {
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Pipeline{
		registry:   reg,
		resolver:   resolver,
		normalizer: normalizer,
		translator: svc,
		profiles:   profiles,
		workers:    workers,
	}
}

// Profiles returns the configured platform profiles sorted by ID.
func (p *Pipeline) Profiles() []*mapping.PlatformProfile {
	out := make([]*mapping.PlatformProfile, 0, len(p.profiles))
	for _, profile := range p.profiles {
		out = append(out, profile)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type pairJob struct {
	product  *ProductRecord
	platform string
}

type pairResult struct {
	platform    string
	record      *PlatformRecord
	diagnostics []Diagnostic
	skipped     bool
}

// Run transforms every product for every requested platform. One bad
// pair never aborts the batch: it is reported in the summary and
// processing continues. Cancelling ctx stops scheduling new pairs while
// already-dispatched external calls finish on their own timeouts.
func (p *Pipeline) Run(ctx context.Context, products []ProductRecord, platformIDs []string) (*Summary, []PlatformRecord, error) {
	summary := &Summary{
		RunID:       uuid.NewString(),
		StartedAt:   time.Now().UTC(),
		Products:    len(products),
		PerPlatform: make(map[string]*PlatformCounts),
	}

	var platforms []string
	for _, id := range platformIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := p.profiles[id]; !ok {
			return nil, nil, fmt.Errorf("pipeline: unknown platform %q", id)
		}
		platforms = append(platforms, id)
		summary.PerPlatform[id] = &PlatformCounts{}
	}
	summary.Platforms = len(platforms)

	jobs := make(chan pairJob)
	results := make(chan pairResult)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				// Dispatched work runs to completion even when the run
				// is cancelled; the external client carries its own
				// timeout.
				record, diags, skipped := p.transformPair(context.WithoutCancel(ctx), job.product, p.profiles[job.platform])
				results <- pairResult{platform: job.platform, record: record, diagnostics: diags, skipped: skipped}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range products {
			for _, platform := range platforms {
				select {
				case <-ctx.Done():
					return
				case jobs <- pairJob{product: &products[i], platform: platform}:
				}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var records []PlatformRecord
	for result := range results {
		counts := summary.counts(result.platform)
		if result.skipped {
			counts.Skipped++
		} else if result.record != nil {
			counts.Succeeded++
			records = append(records, *result.record)
		}
		summary.Diagnostics = append(summary.Diagnostics, result.diagnostics...)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].PlatformID != records[j].PlatformID {
			return records[i].PlatformID < records[j].PlatformID
		}
		return records[i].ProductID < records[j].ProductID
	})
	sort.Slice(summary.Diagnostics, func(i, j int) bool {
		a, b := summary.Diagnostics[i], summary.Diagnostics[j]
		if a.PlatformID != b.PlatformID {
			return a.PlatformID < b.PlatformID
		}
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		return a.Field < b.Field
	})

	summary.FinishedAt = time.Now().UTC()
	log.WithFields(log.Fields{
		"run":       summary.RunID,
		"products":  summary.Products,
		"platforms": summary.Platforms,
	}).Info("pipeline: run finished")
	return summary, records, ctx.Err()
}

// transformPair builds one platform row. A missing required value or a
// strict-vocabulary failure on a required column skips the pair; every
// other finding degrades to a diagnostic.
func (p *Pipeline) transformPair(ctx context.Context, product *ProductRecord, profile *mapping.PlatformProfile) (*PlatformRecord, []Diagnostic, bool) {
	var diags []Diagnostic

	// Validate first so no quota is spent on a pair that gets skipped.
	if missing := p.missingRequired(product, profile); len(missing) > 0 {
		for _, column := range missing {
			diags = append(diags, Diagnostic{
				ProductID:  product.ID,
				PlatformID: profile.ID,
				Kind:       DiagMissingRequiredField,
				Field:      column,
				Message:    fmt.Sprintf("required column %q has no resolvable value", column),
			})
		}
		return nil, diags, true
	}

	record := &PlatformRecord{
		PlatformID: profile.ID,
		ProductID:  product.ID,
		Fields:     make([]Field, 0, len(profile.Columns)),
	}

	for _, slot := range profile.Columns {
		field, fieldDiags, fatal := p.buildField(ctx, product, profile, slot)
		diags = append(diags, fieldDiags...)
		if fatal {
			return nil, diags, true
		}
		record.Fields = append(record.Fields, field)
	}

	return record, diags, false
}

// missingRequired returns required columns with no resolvable value:
// neither author-supplied, nor derivable by translating the base-locale
// text of a translatable attribute.
func (p *Pipeline) missingRequired(product *ProductRecord, profile *mapping.PlatformProfile) []string {
	var missing []string
	for _, slot := range profile.Columns {
		if !slot.Required {
			continue
		}
		attributeID, bound := p.resolver.AttributeFor(profile.ID, slot.Name)
		if !bound {
			missing = append(missing, slot.Name)
			continue
		}
		if !p.valueResolvable(product, profile, attributeID) {
			missing = append(missing, slot.Name)
		}
	}
	return missing
}

func (p *Pipeline) valueResolvable(product *ProductRecord, profile *mapping.PlatformProfile, attributeID string) bool {
	attr, errLookup := p.registry.Lookup(attributeID)
	if errLookup != nil {
		return false
	}
	if attr.Translatable {
		if _, ok := product.LocaleValue(attributeID, profile.Locale); ok {
			return true
		}
	}
	return strings.TrimSpace(product.Values[attributeID]) != ""
}

func (p *Pipeline) buildField(ctx context.Context, product *ProductRecord, profile *mapping.PlatformProfile, slot mapping.ColumnSlot) (Field, []Diagnostic, bool) {
	field := Field{Column: slot.Name}
	var diags []Diagnostic

	attributeID, bound := p.resolver.AttributeFor(profile.ID, slot.Name)
	if !bound {
		diags = append(diags, Diagnostic{
			ProductID:  product.ID,
			PlatformID: profile.ID,
			Kind:       DiagNotMapped,
			Field:      slot.Name,
			Message:    fmt.Sprintf("column %q is bound to no canonical attribute", slot.Name),
		})
		return field, diags, false
	}

	attr, errLookup := p.registry.Lookup(attributeID)
	if errLookup != nil {
		diags = append(diags, Diagnostic{
			ProductID:  product.ID,
			PlatformID: profile.ID,
			Kind:       DiagWarning,
			Field:      slot.Name,
			Message:    errLookup.Error(),
		})
		return field, diags, false
	}

	if attr.Translatable {
		return p.buildTranslatableField(ctx, product, profile, slot, attr)
	}

	raw := strings.TrimSpace(product.Values[attributeID])
	if raw == "" {
		return field, diags, false
	}

	result, errNormalize := p.normalizer.Normalize(attributeID, raw, profile.ID)
	if errNormalize != nil {
		diags = append(diags, Diagnostic{
			ProductID:  product.ID,
			PlatformID: profile.ID,
			Kind:       DiagUnknownEnumValue,
			Field:      slot.Name,
			Message:    errNormalize.Error(),
		})
		// Strict failures on required columns skip the whole pair.
		return field, diags, slot.Required
	}
	for _, warning := range result.Warnings {
		diags = append(diags, Diagnostic{
			ProductID:  product.ID,
			PlatformID: profile.ID,
			Kind:       DiagWarning,
			Field:      slot.Name,
			Message:    warning,
		})
	}

	field.Value = applySlotTransform(p.resolver, profile.ID, attributeID, slot.Name, result.Value)
	if result.Normalized {
		field.Provenance = ProvenanceNormalized
	} else {
		field.Provenance = ProvenanceAuthor
	}
	return field, diags, false
}

func (p *Pipeline) buildTranslatableField(ctx context.Context, product *ProductRecord, profile *mapping.PlatformProfile, slot mapping.ColumnSlot, attr *registry.Attribute) (Field, []Diagnostic, bool) {
	field := Field{Column: slot.Name}
	var diags []Diagnostic

	// Author-supplied locale text always wins over machine translation.
	// The slot transform applies to the emitted cell regardless of how
	// the value was produced.
	if value, ok := product.LocaleValue(attr.ID, profile.Locale); ok {
		field.Value = applySlotTransform(p.resolver, profile.ID, attr.ID, slot.Name, value)
		field.Provenance = ProvenanceAuthor
		return field, diags, false
	}

	base := strings.TrimSpace(product.Values[attr.ID])
	if base == "" {
		return field, diags, false
	}

	if strings.EqualFold(profile.Locale, BaseLocale) || p.translator == nil {
		field.Value = applySlotTransform(p.resolver, profile.ID, attr.ID, slot.Name, base)
		field.Provenance = ProvenanceAuthor
		return field, diags, false
	}

	outcome := p.translator.Translate(ctx, base, profile.Locale)
	field.Value = applySlotTransform(p.resolver, profile.ID, attr.ID, slot.Name, outcome.Text)
	if outcome.Translated {
		field.Provenance = ProvenanceTranslated
	} else {
		field.Provenance = ProvenanceFallback
		diags = append(diags, Diagnostic{
			ProductID:  product.ID,
			PlatformID: profile.ID,
			Kind:       DiagTranslationFallback,
			Field:      slot.Name,
			Message:    fmt.Sprintf("translation to %s unavailable, placeholder emitted", profile.Locale),
		})
	}
	return field, diags, false
}

// applySlotTransform applies the transform tag declared on the slot
// binding, if any.
func applySlotTransform(resolver *mapping.Resolver, platformID, attributeID, column, value string) string {
	slots, errResolve := resolver.Resolve(platformID, attributeID)
	if errResolve != nil {
		return value
	}
	for _, binding := range slots {
		if binding.Column != column {
			continue
		}
		switch binding.Transform {
		case "title-case":
			return cases.Title(language.Und).String(value)
		case "upper":
			return strings.ToUpper(value)
		case "lower":
			return strings.ToLower(value)
		default:
			return value
		}
	}
	return value
}
