package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Employment date ranges outside this year window are treated as noise
// (OCR artifacts, phone numbers, zip codes).
const (
	minPlausibleYear = 1990
	maxPlausibleYear = 2100
)

// Explicit reconciliation threshold: when a stated "N years" figure exceeds
// the date-range inference by more than this, the stated figure likely
// double-counts overlapping roles or was misread, so inference wins.
const explicitInferredGap = 3.0

var (
	explicitYearPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d{1,2}(?:\.\d+)?)\s*\+?\s*(?:years|year|yrs|yr)\b`),
		regexp.MustCompile(`over\s+(\d{1,2}(?:\.\d+)?)\s*(?:years|year)\b`),
		regexp.MustCompile(`(\d{1,2}(?:\.\d+)?)\s*(?:years|year)\s+of\s+experience`),
	}

	// Matches "Jan 2020 – Dec 2022" style ranges with optional month
	// abbreviation periods and any of the common dash characters.
	dateRangePattern = regexp.MustCompile(
		`(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{4})\s*[–\-—]\s*` +
			`(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{4})`)
	dashPattern        = regexp.MustCompile(`[–\-—]`)
	monthPrefixPattern = regexp.MustCompile(`^[a-z]+`)

	sectionStartMarkers = []string{"experience", "work experience", "employment", "professional experience", "career"}
	sectionEndMarkers   = []string{"education", "academic", "skills", "certifications", "projects", "summary", "objective", "references"}

	monthNames = []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}
)

// parseMonth returns 1-12 for a month name or number, 0 when unrecognized.
func parseMonth(s string) int {
	s = strings.TrimSpace(s)
	if len(s) > 3 {
		s = s[:3]
	}
	s = strings.ToLower(s)
	for i, m := range monthNames {
		if s == m {
			return i + 1
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 12 {
		return n
	}
	return 0
}

// extractExperienceSection locates the employment section of a resume so
// date-range inference does not count education ranges. The section starts
// at the earliest start marker and ends at the first end marker found at
// least 10 bytes later, or at end of text. Returns ok=false when no start
// marker exists.
func extractExperienceSection(text string) (string, bool) {
	lower := strings.ToLower(text)
	start := -1
	for _, m := range sectionStartMarkers {
		if i := strings.Index(lower, m); i >= 0 && (start < 0 || i < start) {
			start = i
		}
	}
	if start < 0 {
		return "", false
	}
	end := len(text)
	if from := start + 10; from < len(lower) {
		for _, m := range sectionEndMarkers {
			if i := strings.Index(lower[from:], m); i >= 0 && from+i < end {
				end = from + i
			}
		}
	}
	return text[start:end], true
}

// inferYearsFromDateRanges sums employment date ranges into a total
// experience figure, scoped to the detected experience section when one
// exists. Month counts are inclusive; a range missing a parseable month
// defaults to January (start) or December (end). Returns nil when no valid
// range is found.
func inferYearsFromDateRanges(text string) *float64 {
	search := text
	if section, ok := extractExperienceSection(text); ok {
		search = section
	}
	search = strings.ToLower(search)

	totalMonths := 0
	for _, m := range dateRangePattern.FindAllStringSubmatch(search, -1) {
		y1, _ := strconv.Atoi(m[1])
		y2, _ := strconv.Atoi(m[2])
		if y1 < minPlausibleYear || y1 > maxPlausibleYear || y2 < minPlausibleYear || y2 > maxPlausibleYear {
			continue
		}
		parts := dashPattern.Split(m[0], 2)
		startPart := strings.TrimSpace(parts[0])
		endPart := ""
		if len(parts) > 1 {
			endPart = strings.TrimSpace(parts[1])
		}
		mon1 := parseMonth(monthPrefixPattern.FindString(startPart))
		mon2 := parseMonth(monthPrefixPattern.FindString(endPart))
		if mon1 == 0 {
			mon1 = 1
		}
		if mon2 == 0 {
			mon2 = 12
		}
		if y2 > y1 || (y2 == y1 && mon2 >= mon1) {
			totalMonths += (y2-y1)*12 + (mon2 - mon1) + 1
		}
	}
	if totalMonths <= 0 {
		return nil
	}
	// Half-to-even, so a 3-month range is 0.2 years, not 0.3.
	years := math.RoundToEven(float64(totalMonths)/12.0*10) / 10
	return &years
}

// extractExplicitYears collects every stated "N years" figure in [0,60]
// and returns the maximum, or nil when none is stated.
func extractExplicitYears(text string) *float64 {
	var explicit *float64
	for _, p := range explicitYearPatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil || v < 0 || v > 60 {
				continue
			}
			if explicit == nil || v > *explicit {
				val := v
				explicit = &val
			}
		}
	}
	return explicit
}

// scoreExperience reconciles stated and inferred experience years and rates
// the result against the [lo, hi] calibration band (swapped if inverted).
// Unknown experience rates 2 with no evidence; inside the band rates 5;
// below the band degrades with the shortfall; above the band is usually
// acceptable seniority and rates 4 or 3.
func scoreExperience(chunks []string, lo, hi int) (*float64, []string, int) {
	text := strings.ToLower(strings.Join(chunks, " "))
	inferred := inferYearsFromDateRanges(text)
	explicit := extractExplicitYears(text)

	var years *float64
	switch {
	case explicit != nil && inferred != nil && *explicit > *inferred+explicitInferredGap:
		years = inferred
	case explicit != nil:
		years = explicit
	case inferred != nil && *inferred >= 0 && *inferred <= 60:
		years = inferred
	}

	if lo > hi {
		lo, hi = hi, lo
	}
	if years == nil {
		return nil, nil, 2
	}
	evidence := []string{fmt.Sprintf("Experience evidence: detected %g years in resume.", *years)}

	y := *years
	if float64(lo) <= y && y <= float64(hi) {
		return years, evidence, 5
	}
	if y < float64(lo) {
		gap := float64(lo) - y
		switch {
		case gap <= 1:
			return years, evidence, 4
		case gap <= 3:
			return years, evidence, 3
		case gap <= 5:
			return years, evidence, 2
		default:
			return years, evidence, 1
		}
	}
	if y-float64(hi) <= 3 {
		return years, evidence, 4
	}
	return years, evidence, 3
}
