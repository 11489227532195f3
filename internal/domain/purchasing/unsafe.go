package purchasing

import "regexp"

var (
	sqlKeywordPattern = regexp.MustCompile(`(?i)\b(SELECT|INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|EXEC|EXECUTE|UNION|DECLARE)\b`)
	sqlMarkerPattern  = regexp.MustCompile(`(?i)(--|;|/\*|\*/|xp_|sp_)`)
	// A lone apostrophe is legal in supplier names ("O'Brien"); only quote
	// sequences that can close or chain a SQL literal are rejected.
	sqlQuotePattern = regexp.MustCompile(`(?i)('')|('\s*(=|--|;|/\*|\b(or|and)\b))`)

	xssPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
		regexp.MustCompile(`(?is)<iframe[^>]*>.*?</iframe>`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)\bon\w+\s*=`),
		regexp.MustCompile(`(?i)<embed[^>]*>`),
		regexp.MustCompile(`(?i)<object[^>]*>`),
	}
)

// ContainsSQLInjection reports whether s carries SQL keywords, comment
// markers or quote sequences.
func ContainsSQLInjection(s string) bool {
	return sqlKeywordPattern.MatchString(s) ||
		sqlMarkerPattern.MatchString(s) ||
		sqlQuotePattern.MatchString(s)
}

// ContainsXSS reports whether s carries script or markup injection patterns.
func ContainsXSS(s string) bool {
	for _, p := range xssPatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// ContainsUnsafeInput is the combined check applied to every free-text field.
func ContainsUnsafeInput(s string) bool {
	return ContainsSQLInjection(s) || ContainsXSS(s)
}
