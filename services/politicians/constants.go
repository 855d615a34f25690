package politicians

// Closed enum values stored at rest. Display labels are what the public
// listing returns.

var OfficeLabels = map[string]string{
	"NONE":                 "N/A",
	"GOVERNOR":             "Governor",
	"SENATOR":              "Senator",
	"HOUSE_REPRESENTATIVE": "House Representative",
}

var StatusLabels = map[string]string{
	"INCUMBENT": "Incumbent",
	"CANDIDATE": "Candidate",
	"NONE":      "None",
}

var GradeLabels = map[string]string{
	"PENDING":      "Pending",
	"PROGRESSIVE":  "Progressive",
	"LIBERAL":      "Liberal",
	"CENTRIST":     "Centrist",
	"MODERATE":     "Moderate",
	"CONSERVATIVE": "Conservative",
	"NATIONALIST":  "Nationalist",
}

var PartyLabels = map[string]string{
	"DEMOCRAT":    "Democrat",
	"REPUBLICAN":  "Republican",
	"INDEPENDENT": "Independent",
}

// StateNames maps the stored two-letter abbreviation to the full state
// name used on profile pages.
var StateNames = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"FL": "Florida", "GA": "Georgia", "HI": "Hawaii", "ID": "Idaho",
	"IL": "Illinois", "IN": "Indiana", "IA": "Iowa", "KS": "Kansas",
	"KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi",
	"MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada",
	"NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico", "NY": "New York",
	"NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma",
	"OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah",
	"VT": "Vermont", "VA": "Virginia", "WA": "Washington", "WV": "West Virginia",
	"WI": "Wisconsin", "WY": "Wyoming",
}

func formatLabel(labels map[string]string, value string) string {
	if label, ok := labels[value]; ok {
		return label
	}
	return value
}

func FormatOffice(office string) string { return formatLabel(OfficeLabels, office) }
func FormatStatus(status string) string { return formatLabel(StatusLabels, status) }
func FormatGrade(grade string) string   { return formatLabel(GradeLabels, grade) }
