package services

import (
	"context"
	"errors"

	"atelier_backend/internal/models"
	"atelier_backend/internal/payload"
	"atelier_backend/internal/repositories"
)

// LabelResolver computes the human-readable selection label for a
// customization. Absence of a label is never an error.
type LabelResolver struct {
	products repositories.ProductRepository
	layouts  repositories.LayoutRepository
}

func NewLabelResolver(products repositories.ProductRepository, layouts repositories.LayoutRepository) *LabelResolver {
	return &LabelResolver{products: products, layouts: layouts}
}

// Resolve returns the label for the payload, or "" when none applies.
func (r *LabelResolver) Resolve(ctx context.Context, p *payload.Payload) (string, error) {
	switch p.Type {
	case models.CustomizationTypeChoice:
		return r.resolveChoice(ctx, p)
	case models.CustomizationTypeDynamicLayout, models.CustomizationTypeFixedLayout:
		return r.resolveLayout(ctx, p)
	default:
		return "", nil
	}
}

// Apply resolves the label and mirrors it into the payload's display
// fields.
func (r *LabelResolver) Apply(ctx context.Context, p *payload.Payload) error {
	label, err := r.Resolve(ctx, p)
	if err != nil {
		return err
	}
	if label == "" {
		return nil
	}
	p.Label = label
	if p.Extra == nil {
		p.Extra = map[string]interface{}{}
	}
	switch p.Type {
	case models.CustomizationTypeChoice:
		p.Extra["selected_option_label"] = label
	case models.CustomizationTypeDynamicLayout, models.CustomizationTypeFixedLayout:
		p.Extra["layout_name"] = label
	}
	return nil
}

// resolveChoice reads the selected option id and looks its label up in
// the payload-embedded option list first, falling back to the
// authoritative rule definition.
func (r *LabelResolver) resolveChoice(ctx context.Context, p *payload.Payload) (string, error) {
	selected := p.SelectedOptionID
	if selected == "" {
		return "", nil
	}

	for _, opt := range p.Options {
		if opt.ID == selected {
			return opt.Label, nil
		}
	}

	ruleID := p.RuleID
	if ruleID == "" {
		return "", nil
	}
	rule, err := r.products.FindRuleByID(ctx, ruleID)
	if errors.Is(err, repositories.ErrRuleNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	for _, opt := range rule.OptionList() {
		if opt.ID == selected {
			return opt.Label, nil
		}
	}
	return "", nil
}

// resolveLayout finds a layout id (explicit field or recursive search)
// and returns the layout's display name. The dynamic store takes
// precedence over the legacy one.
func (r *LabelResolver) resolveLayout(ctx context.Context, p *payload.Payload) (string, error) {
	layoutID := p.FindLayoutID()
	if layoutID == "" {
		return "", nil
	}

	dynamic, err := r.layouts.FindDynamicByID(ctx, layoutID)
	if err != nil {
		return "", err
	}
	if dynamic != nil {
		return dynamic.Name, nil
	}

	legacy, err := r.layouts.FindLegacyByID(ctx, layoutID)
	if err != nil {
		return "", err
	}
	if legacy != nil {
		return legacy.Name, nil
	}
	return "", nil
}
