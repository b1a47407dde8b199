// Package byline renders the business profile banner printed by the byline command.
package byline

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/cnosuke/fetch-analytics/config"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Profile is an immutable snapshot of the configured business profile.
type Profile struct {
	name                  string
	tagline               string
	hasInternational      bool
	yearsInOperation      int
	skills                []string
	satisfactionScores    []float64
	acceptingNewClients   bool
	consultingPackages    int
	tools                 []string
	dailyTemps            []float64
	dailyTempsDescription string
}

// New copies cfg so later config mutation cannot change the profile.
func New(cfg config.Profile) Profile {
	return Profile{
		name:                  cfg.Name,
		tagline:               cfg.Tagline,
		hasInternational:      cfg.HasInternational,
		yearsInOperation:      cfg.YearsInOperation,
		skills:                slices.Clone(cfg.Skills),
		satisfactionScores:    slices.Clone(cfg.SatisfactionScores),
		acceptingNewClients:   cfg.AcceptingNewClients,
		consultingPackages:    cfg.ConsultingPackages,
		tools:                 slices.Clone(cfg.Tools),
		dailyTemps:            slices.Clone(cfg.DailyTemps),
		dailyTempsDescription: cfg.DailyTempsDescription,
	}
}

func (p Profile) Name() string { return p.name }

// Stats summarises a series of observations.
type Stats struct {
	Min, Max, Mean, StdDev float64
}

// Describe returns min, max, mean and sample standard deviation.
// Fields are NaN when the series is too short for them.
func Describe(xs []float64) Stats {
	if len(xs) == 0 {
		return Stats{Min: math.NaN(), Max: math.NaN(), Mean: math.NaN(), StdDev: math.NaN()}
	}
	s := Stats{
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
		Mean:   stat.Mean(xs, nil),
		StdDev: math.NaN(),
	}
	if len(xs) > 1 {
		s.StdDev = stat.StdDev(xs, nil)
	}
	return s
}

// SatisfactionStats describes the client satisfaction scores.
func (p Profile) SatisfactionStats() Stats { return Describe(p.satisfactionScores) }

// TempStats describes the daily temperatures.
func (p Profile) TempStats() Stats { return Describe(p.dailyTemps) }

// Render returns the multi-line byline.
func (p Profile) Render() string {
	title := p.name
	if p.tagline != "" {
		title += ": " + p.tagline
	}
	rule := strings.Repeat("-", len(title))

	var b strings.Builder
	b.WriteString("\n" + rule + "\n" + title + "\n" + rule + "\n")
	line := func(label, value string) {
		fmt.Fprintf(&b, "%-28s%s\n", label, value)
	}

	scores := p.SatisfactionStats()
	temps := p.TempStats()

	line("Has International Clients:", strconv.FormatBool(p.hasInternational))
	line("Years in Operation:", strconv.Itoa(p.yearsInOperation))
	line("Skills Offered:", list(p.skills))
	line("Client Satisfaction Scores:", numbers(p.satisfactionScores))
	line("Minimum Satisfaction Score:", number(scores.Min))
	line("Maximum Satisfaction Score:", number(scores.Max))
	line("Mean Satisfaction Score:", fixed(scores.Mean))
	line("Standard Deviation:", fixed(scores.StdDev))
	line("Accepting New Clients:", strconv.FormatBool(p.acceptingNewClients))
	line("Consulting Packages:", strconv.Itoa(p.consultingPackages))
	line("Analytic Tools:", list(p.tools))
	line(p.dailyTempsDescription+":", numbers(p.dailyTemps))
	line("Minimum High Temp:", number(temps.Min))
	line("Maximum High Temp:", number(temps.Max))
	line("Mean High Temp:", fixed(temps.Mean))
	line("Standard Dev High Temp:", fixed(temps.StdDev))
	return b.String()
}

func list(xs []string) string {
	return "[" + strings.Join(xs, ", ") + "]"
}

func numbers(xs []float64) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = number(x)
	}
	return list(parts)
}

func number(x float64) string {
	if math.IsNaN(x) {
		return "n/a"
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

func fixed(x float64) string {
	if math.IsNaN(x) {
		return "n/a"
	}
	return strconv.FormatFloat(x, 'f', 2, 64)
}
