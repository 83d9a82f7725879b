package extract

// The built-in templates, one per supported question shape. The expressions
// are written against cleaned infobox text, where row labels and values often
// run together without separators.
var (
	// BirthDate finds the ISO date that infoboxes embed next to the Born label.
	BirthDate = MustTemplate(
		`(?:Born\D*)(?P<birth>\d{4}-\d{2}-\d{2})`,
		"birth",
		"Page infobox has no birth information (at least none in xxxx-xx-xx format)",
	)

	// PolarRadius finds the kilometer figure of a Polar radius row.
	PolarRadius = MustTemplate(
		`(?:Polar radius.*?)(?: ?[\d]+ )?(?P<radius>[\d,.]+)(?:.*?)km`,
		"radius",
		"Page infobox has no polar radius information",
	)

	// Population finds the total after a Population heading with a census
	// year. The bracket class swallows citation markers like [3] so the
	// leading digits of the count are not mistaken for one.
	Population = MustTemplate(
		`Population\D*\d{4}[)\[\d]*\D*(?P<population>[\d,]+)`,
		"population",
		"Page infobox has no population information",
	)

	// Established captures the date or year of an Established row, stopping
	// at the "; N years ago" tail or the parenthesized ISO form.
	Established = MustTemplate(
		`Established[\n\s]*(?P<established>[\d\w\s,]+)[;\(]+`,
		"established",
		"Page infobox has no establishment information (at least not in the 'established' format)",
	)

	// Undergraduates finds the undergraduate enrollment count.
	Undergraduates = MustTemplate(
		`Undergraduates[\n\s]*(?P<undergrads>[\d,]+)`,
		"undergrads",
		"Page infobox has no information on undergraduate population",
	)
)
