package recruiting

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

type AgencyStats struct {
	AgencyName          string  `json:"agency_name"`
	RecruiterName       string  `json:"recruiter_name"`
	UploadedProfiles    int     `json:"uploaded_profiles"`
	SelectedProfiles    int     `json:"selected_profiles"`
	RejectedProfiles    int     `json:"rejected_profiles"`
	InterviewsScheduled int     `json:"interviews_scheduled"`
	InterviewsSelected  int     `json:"interviews_selected"`
	InterviewsRejected  int     `json:"interviews_rejected"`
	SelectionRate       float64 `json:"selection_rate"`
}

type AnalyticsSummary struct {
	TotalCandidates    int            `json:"total_candidates"`
	TotalInterviews    int            `json:"total_interviews"`
	HiredCandidates    int            `json:"hired_candidates"`
	RejectedCandidates int            `json:"rejected_candidates"`
	TopAgencies        []*AgencyStats `json:"top_5_agencies"`
	AllAgencies        []*AgencyStats `json:"all_agencies"`
}

// InProgress counts candidates that are neither hired nor rejected.
func (s *AnalyticsSummary) InProgress() int {
	return max(0, s.TotalCandidates-s.HiredCandidates-s.RejectedCandidates)
}

func (c *Client) GetAnalyticsSummary(ctx context.Context) (*AnalyticsSummary, error) {
	var summary AnalyticsSummary
	if err := c.getObject(ctx, analyticsPath, nil, &summary); err != nil {
		return nil, err
	}

	return &summary, nil
}

// SortAgencies returns the non-nil agencies ordered by one of the numeric or name columns.
func SortAgencies(agencies []*AgencyStats, key string, descending bool) ([]*AgencyStats, error) {
	var less func(a, b *AgencyStats) bool

	switch key {
	case "agency_name":
		less = func(a, b *AgencyStats) bool { return strings.ToLower(a.AgencyName) < strings.ToLower(b.AgencyName) }
	case "recruiter_name":
		less = func(a, b *AgencyStats) bool { return strings.ToLower(a.RecruiterName) < strings.ToLower(b.RecruiterName) }
	case "uploaded_profiles":
		less = func(a, b *AgencyStats) bool { return a.UploadedProfiles < b.UploadedProfiles }
	case "selected_profiles":
		less = func(a, b *AgencyStats) bool { return a.SelectedProfiles < b.SelectedProfiles }
	case "rejected_profiles":
		less = func(a, b *AgencyStats) bool { return a.RejectedProfiles < b.RejectedProfiles }
	case "interviews_scheduled":
		less = func(a, b *AgencyStats) bool { return a.InterviewsScheduled < b.InterviewsScheduled }
	case "selection_rate":
		less = func(a, b *AgencyStats) bool { return a.SelectionRate < b.SelectionRate }
	default:
		return nil, fmt.Errorf("unknown sort key %q", key)
	}

	sorted := make([]*AgencyStats, 0, len(agencies))
	for _, agency := range agencies {
		if agency != nil {
			sorted = append(sorted, agency)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if descending {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})

	return sorted, nil
}

// WriteCSV renders the summary as the multi-section analytics report.
func (s *AnalyticsSummary) WriteCSV(w io.Writer) error {
	out := csv.NewWriter(w)

	rows := [][]string{
		{"Analytics Report"},
		{},
		{"Summary"},
		{"Metric", "Value"},
		{"Total Candidates", strconv.Itoa(s.TotalCandidates)},
		{"Total Interviews", strconv.Itoa(s.TotalInterviews)},
		{"Hired Candidates", strconv.Itoa(s.HiredCandidates)},
		{"Rejected Candidates", strconv.Itoa(s.RejectedCandidates)},
		{},
	}

	if len(s.TopAgencies) > 0 {
		rows = append(rows,
			[]string{"Top 5 Hiring Agencies"},
			[]string{"Rank", "Agency Name", "Recruiter", "Profiles Uploaded", "Selected", "Rejected", "Selection Rate"},
		)
		for idx, agency := range s.TopAgencies {
			if agency == nil {
				continue
			}
			rows = append(rows, []string{
				strconv.Itoa(idx + 1),
				agency.AgencyName,
				agency.RecruiterName,
				strconv.Itoa(agency.UploadedProfiles),
				strconv.Itoa(agency.SelectedProfiles),
				strconv.Itoa(agency.RejectedProfiles),
				FormatRate(agency.SelectionRate),
			})
		}
		rows = append(rows, []string{})
	}

	if len(s.AllAgencies) > 0 {
		rows = append(rows,
			[]string{"All Hiring Agency Statistics"},
			[]string{"Agency Name", "Recruiter", "Profiles Uploaded", "Selected", "Rejected", "Interviews Scheduled", "Interviews Selected", "Interviews Rejected", "Selection Rate"},
		)
		for _, agency := range s.AllAgencies {
			if agency == nil {
				continue
			}
			rows = append(rows, []string{
				agency.AgencyName,
				agency.RecruiterName,
				strconv.Itoa(agency.UploadedProfiles),
				strconv.Itoa(agency.SelectedProfiles),
				strconv.Itoa(agency.RejectedProfiles),
				strconv.Itoa(agency.InterviewsScheduled),
				strconv.Itoa(agency.InterviewsSelected),
				strconv.Itoa(agency.InterviewsRejected),
				FormatRate(agency.SelectionRate),
			})
		}
	}

	if err := out.WriteAll(rows); err != nil {
		return fmt.Errorf("write analytics csv: %w", err)
	}

	return nil
}

// FormatRate renders a selection rate with one decimal and a percent sign.
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 1, 64) + "%"
}
