package ruleset

// Built-in pattern tables. Broad favors recall; the other groups narrow it.
var (
	broadPatterns = []string{
		`\billum`, // illumination, illuminated
		`\blight`, // lighting, lighted
		`\bdark\b`,
		`\bvisibility\b`,
		`\bsee\b|\bseeing\b|\bvisible\b`,
		`\bdim\b`,
		`\bpoor lighting\b`,
	}

	lowExplicitPatterns = []string{
		`\binsufficient (illum|illumination|lighting)\b`,
		`\binadequate (illum|illumination|lighting)\b`,
		`\bnot adequately (lighted|lit)\b`,
		`\bpoor (illumination|lighting)\b`,
		`\blow light levels?\b`,
		`\bdim(ly)? lit\b`,
		`\btoo dark\b`,
	}

	visibilityHazardPatterns = []string{
		`\btrip(ped)?\b|\btripping\b`,
		`\bslip(ped)?\b|\bslipping\b`,
		`\bfall(s|ing|en)?\b`,
		`\bstair(s|way)?\b`,
		`\buneven\b|\bhole\b|\bdebris\b|\bobstruction\b`,
		`\bstruck[- ]by\b|\bbumped\b|\bcollision\b`,
		`\bunable to see\b|\bcould not see\b|\bnot visible\b`,
	}

	egressPatterns = []string{
		`\begress\b`,
		`\bexit route\b`,
		`\bexit(s)?\b`,
		`\bemergency lighting\b`,
		`\bexit sign\b`,
		`\bstairwell\b`,
		`\bcorridor\b`,
	}

	// Fixture words stay here; other signals decide whether they matter.
	electricalPatterns = []string{
		`\bground(ing|ed)\b`,
		`\bwiring\b|\bwire\b`,
		`\bconduit\b`,
		`\bjunction\b|\boutlet\b|\breceptacle\b`,
		`\bbreaker\b|\bpanel\b|\benergized\b`,
		`\bcord\b|\bplug\b`,
		`\bfixture\b|\blamp\b|\bbulb\b`,
		`\bbattery\b|\binverter\b`,
	}

	// 29 CFR exit routes (1910.36, 1910.37) and construction lighting
	// (1926.34, 1926.56).
	citationEgressPatterns = []string{
		`1910\.37`,
		`1910\.36`,
		`1926\.34`,
		`1926\.56`,
	}

	citationConstructionPatterns    = []string{`1926\.`}
	citationGeneralIndustryPatterns = []string{`1910\.`}
)

// DefaultWeights returns the built-in scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Broad:            1,
		LowExplicit:      4,
		VisibilityHazard: 2,
		Egress:           2,
		Electrical:       -2,
	}
}

// DefaultSpec returns a fresh copy of the built-in tables.
func DefaultSpec() Spec {
	clone := func(p []string) []string { return append([]string(nil), p...) }
	return Spec{
		Groups: map[GroupName][]string{
			Broad:                   clone(broadPatterns),
			LowExplicit:             clone(lowExplicitPatterns),
			VisibilityHazard:        clone(visibilityHazardPatterns),
			Egress:                  clone(egressPatterns),
			Electrical:              clone(electricalPatterns),
			CitationEgress:          clone(citationEgressPatterns),
			CitationConstruction:    clone(citationConstructionPatterns),
			CitationGeneralIndustry: clone(citationGeneralIndustryPatterns),
		},
		Weights: DefaultWeights(),
	}
}

// Default compiles the built-in tables.
func Default() *Ruleset {
	return MustNew(DefaultSpec())
}
