// Package tabular parses headcount-plan CSV files into departments and
// quarter-bucketed role templates.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/Craig-TribeAI/org-chart-builder/internal/apperr"
	"github.com/Craig-TribeAI/org-chart-builder/internal/models"
)

var parentheticalRe = regexp.MustCompile(`\([^)]*\)`)

// roleMarkers are planning annotations that show up glued to role titles
// in exported spreadsheets ("Backend Engineer*", "QA Lead?").
const roleMarkers = "*+?!#~"

// departmentPalette colors departments by first appearance, wrapping
// when a plan has more departments than entries.
var departmentPalette = [...]string{
	"#6366f1", // indigo
	"#ec4899", // pink
	"#f59e0b", // amber
	"#10b981", // emerald
	"#0ea5e9", // sky
	"#8b5cf6", // violet
	"#f43f5e", // rose
	"#14b8a6", // teal
}

// Dataset is the parsed form of one headcount plan.
type Dataset struct {
	Departments   []models.Department
	RoleTemplates []models.RoleTemplate
}

// Parse reads a headcount CSV with the header
// department,role,q1,q2,q3,q4 and returns cleaned templates grouped
// into departments. Rows with zero headcount in every quarter are
// dropped. Any structural problem rejects the whole file.
func Parse(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", apperr.ErrBadFormat)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	ds := &Dataset{}
	deptByName := make(map[string]string)

	for row := 2; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %v: %w", row, err, apperr.ErrBadFormat)
		}
		if len(record) < 6 {
			return nil, fmt.Errorf("row %d: %d columns, want 6: %w", row, len(record), apperr.ErrBadFormat)
		}

		deptName := strings.TrimSpace(record[0])
		rawRole := strings.TrimSpace(record[1])
		if deptName == "" && rawRole == "" {
			continue
		}
		if deptName == "" || rawRole == "" {
			return nil, fmt.Errorf("row %d: empty department or role: %w", row, apperr.ErrBadFormat)
		}

		quarters := make(map[models.Period]int, len(models.PeriodOrder))
		total := 0
		for i, q := range models.PeriodOrder {
			n, err := parseCount(record[2+i])
			if err != nil {
				return nil, fmt.Errorf("row %d, %s: %v: %w", row, q, err, apperr.ErrBadFormat)
			}
			quarters[q] = n
			total += n
		}
		if total == 0 {
			continue
		}

		deptID, ok := deptByName[deptName]
		if !ok {
			deptID = fmt.Sprintf("dept-%d", len(ds.Departments)+1)
			deptByName[deptName] = deptID
			ds.Departments = append(ds.Departments, models.Department{
				ID:          deptID,
				DisplayName: deptName,
				Color:       departmentPalette[len(ds.Departments)%len(departmentPalette)],
				OrderIndex:  len(ds.Departments),
			})
		}

		ds.RoleTemplates = append(ds.RoleTemplates, models.RoleTemplate{
			ID:           fmt.Sprintf("role-%d", len(ds.RoleTemplates)+1),
			CleanName:    CleanRoleName(rawRole),
			OriginalName: rawRole,
			DepartmentID: deptID,
			Quarters:     quarters,
		})
	}

	if len(ds.RoleTemplates) == 0 {
		return nil, fmt.Errorf("no usable rows: %w", apperr.ErrBadFormat)
	}
	return ds, nil
}

// checkHeader validates the fixed column order, tolerating case and a
// UTF-8 BOM on the first cell.
func checkHeader(header []string) error {
	want := []string{"department", "role", "q1", "q2", "q3", "q4"}
	if len(header) < len(want) {
		return fmt.Errorf("header has %d columns, want %d: %w", len(header), len(want), apperr.ErrBadFormat)
	}
	for i, w := range want {
		got := strings.TrimSpace(header[i])
		if i == 0 {
			got = strings.TrimPrefix(got, "\ufeff")
		}
		if !strings.EqualFold(got, w) {
			return fmt.Errorf("header column %d = %q, want %q: %w", i+1, got, w, apperr.ErrBadFormat)
		}
	}
	return nil
}

// parseCount reads one quarter cell. Blank means zero; anything that is
// not a non-negative integer is malformed.
func parseCount(cell string) (int, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(cell)
	if err != nil {
		return 0, fmt.Errorf("bad count %q", cell)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}

// CleanRoleName normalizes a raw role title: marker characters and
// parenthetical annotations go, interior whitespace collapses.
func CleanRoleName(raw string) string {
	s := parentheticalRe.ReplaceAllString(raw, " ")
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(roleMarkers, r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
