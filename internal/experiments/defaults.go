package experiments

// DefaultTests returns the built-in experiment catalog.
func DefaultTests() []Test {
	return []Test{
		{
			ID:          "result-layout",
			Name:        "Result card layout",
			Description: "Compact result card versus the detailed breakdown",
			Enabled:     true,
			Variants: []Variant{
				{ID: "control", Name: "Detailed breakdown", Weight: 0.5},
				{ID: "compact", Name: "Compact card", Weight: 0.5},
			},
		},
		{
			ID:          "related-tools-placement",
			Name:        "Related tools placement",
			Description: "Where the related tools list is shown on calculator pages",
			Enabled:     true,
			Variants: []Variant{
				{ID: "sidebar", Name: "Sidebar", Weight: 0.34},
				{ID: "inline", Name: "Below the result", Weight: 0.33},
				{ID: "footer", Name: "Page footer", Weight: 0.33},
			},
		},
		{
			ID:          "cta-copy",
			Name:        "Calculate button copy",
			Description: "Wording of the primary calculate button",
			Enabled:     true,
			Variants: []Variant{
				{ID: "control", Name: "Calculate", Weight: 0.8},
				{ID: "get-result", Name: "Get my result", Weight: 0.2, Description: "Second-person copy"},
			},
		},
		{
			ID:          "share-button",
			Name:        "Share result button",
			Description: "Offers a share link next to the result",
			Enabled:     false,
			Variants: []Variant{
				{ID: "hidden", Name: "No share button", Weight: 0.5},
				{ID: "visible", Name: "Share button", Weight: 0.5},
			},
		},
	}
}
