package trivia

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var entityPattern = regexp.MustCompile(`&[#\w]+;`)

var namedEntities = map[string]string{
	"&amp;":     "&",
	"&lt;":      "<",
	"&gt;":      ">",
	"&quot;":    `"`,
	"&#039;":    "'",
	"&apos;":    "'",
	"&ldquo;":   `"`,
	"&rdquo;":   `"`,
	"&lsquo;":   "'",
	"&rsquo;":   "'",
	"&hellip;":  "...",
	"&mdash;":   "—",
	"&ndash;":   "–",
	"&copy;":    "©",
	"&reg;":     "®",
	"&trade;":   "™",
	"&euro;":    "€",
	"&pound;":   "£",
	"&cent;":    "¢",
	"&deg;":     "°",
	"&plusmn;":  "±",
	"&times;":   "×",
	"&divide;":  "÷",
	"&frac12;":  "½",
	"&frac14;":  "¼",
	"&frac34;":  "¾",
	"&sup1;":    "¹",
	"&sup2;":    "²",
	"&sup3;":    "³",
	"&micro;":   "µ",
	"&alpha;":   "α",
	"&beta;":    "β",
	"&gamma;":   "γ",
	"&delta;":   "δ",
	"&epsilon;": "ε",
	"&zeta;":    "ζ",
	"&eta;":     "η",
	"&theta;":   "θ",
	"&iota;":    "ι",
	"&kappa;":   "κ",
	"&lambda;":  "λ",
	"&mu;":      "μ",
	"&nu;":      "ν",
	"&xi;":      "ξ",
	"&omicron;": "ο",
	"&pi;":      "π",
	"&rho;":     "ρ",
	"&sigma;":   "σ",
	"&tau;":     "τ",
	"&upsilon;": "υ",
	"&phi;":     "φ",
	"&chi;":     "χ",
	"&psi;":     "ψ",
	"&omega;":   "ω",
}

// DecodeEntities turns provider text into display text. Percent-encoding is
// undone first, then named entities from a fixed table and numeric references
// (&#NNN; and &#xHHH;). Unknown entities are left as they are. Text that is not
// valid percent-encoding is treated as already decoded.
func DecodeEntities(text string) string {
	if unescaped, err := url.PathUnescape(text); err == nil {
		text = unescaped
	}
	if !strings.Contains(text, "&") {
		return text
	}
	return entityPattern.ReplaceAllStringFunc(text, decodeEntity)
}

func decodeEntity(entity string) string {
	if replacement, ok := namedEntities[entity]; ok {
		return replacement
	}
	if !strings.HasPrefix(entity, "&#") {
		return entity
	}
	body := entity[2 : len(entity)-1]
	base := 10
	if strings.HasPrefix(body, "x") || strings.HasPrefix(body, "X") {
		body = body[1:]
		base = 16
	}
	code, err := strconv.ParseInt(body, base, 32)
	if err != nil || code < 0 || code > 0x10FFFF {
		return entity
	}
	return string(rune(code))
}
