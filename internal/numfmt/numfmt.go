// Package numfmt renders aggregation results for display: scaled currency,
// signed percentages and grouped integers in the dashboard locale.
package numfmt

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NA is shown for undefined values.
const NA = "N/A"

// DefaultLocale is used when no locale is configured or it fails to parse.
var DefaultLocale = language.BrazilianPortuguese

type scale struct {
	min    float64
	suffix string
}

var scales = []scale{
	{1e12, "tri"},
	{1e9, "bi"},
	{1e6, "mi"},
	{1e3, "mil"},
}

// Formatter formats numbers for one locale. It is safe for concurrent use.
type Formatter struct {
	p *message.Printer
}

// New returns a Formatter for a BCP 47 locale such as "pt-BR".
func New(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = DefaultLocale
	}
	return &Formatter{p: message.NewPrinter(tag)}
}

// Currency formats a GDP value stored in thousands, e.g. "R$ 2,3 bi".
func (f *Formatter) Currency(thousands float64) string {
	return f.Money(thousands * 1000)
}

// Money formats a value in currency units with a magnitude suffix.
func (f *Formatter) Money(units float64) string {
	abs := math.Abs(units)
	for _, s := range scales {
		if abs >= s.min {
			return f.p.Sprintf("R$ %.1f %s", units/s.min, s.suffix)
		}
	}
	return f.p.Sprintf("R$ %.0f", units)
}

// PerCapita formats per-capita GDP without scaling, e.g. "R$ 32.500".
func (f *Formatter) PerCapita(v *float64) string {
	if v == nil {
		return NA
	}
	return f.p.Sprintf("R$ %d", int64(math.Round(*v)))
}

// Percent formats a signed change, e.g. "+5,2%".
func (f *Formatter) Percent(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return NA
	}
	sign := ""
	if *v > 0 {
		sign = "+"
	}
	return sign + f.p.Sprintf("%.1f", *v) + "%"
}

// Share formats an unsigned share, e.g. "27,3%".
func (f *Formatter) Share(v *float64) string {
	if v == nil {
		return NA
	}
	return f.p.Sprintf("%.1f", *v) + "%"
}

// Integer rounds v and groups thousands, e.g. "70.000".
func (f *Formatter) Integer(v float64) string {
	return f.p.Sprintf("%d", int64(math.Round(v)))
}
