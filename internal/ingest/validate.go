package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openimpactlab/impactboard/internal/report"
)

// CSV header names as the reporting template defines them.
const (
	fieldNGOID  = "ngoId"
	fieldMonth  = "month"
	fieldPeople = "peopleHelped"
	fieldEvents = "eventsConducted"
	fieldFunds  = "fundsUtilized"
)

var requiredFields = []string{fieldNGOID, fieldMonth, fieldPeople, fieldEvents, fieldFunds}

// ParseRow validates and normalizes one decoded CSV row. It checks
// presence of the five required fields and numeric parseability of the
// metric fields, nothing more; negative and zero values pass, matching
// the validation the single-report endpoint performs.
func ParseRow(row map[string]string) (report.Params, error) {
	var missing []string

	for _, f := range requiredFields {
		if strings.TrimSpace(row[f]) == "" {
			missing = append(missing, f)
		}
	}

	if len(missing) > 0 {
		return report.Params{}, fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
	}

	people, err := strconv.Atoi(strings.TrimSpace(row[fieldPeople]))
	if err != nil {
		return report.Params{}, fmt.Errorf("%s is not a number: %q", fieldPeople, row[fieldPeople])
	}

	events, err := strconv.Atoi(strings.TrimSpace(row[fieldEvents]))
	if err != nil {
		return report.Params{}, fmt.Errorf("%s is not a number: %q", fieldEvents, row[fieldEvents])
	}

	funds, err := strconv.ParseFloat(strings.TrimSpace(row[fieldFunds]), 64)
	if err != nil {
		return report.Params{}, fmt.Errorf("%s is not a number: %q", fieldFunds, row[fieldFunds])
	}

	return report.Params{
		NGOID:           strings.TrimSpace(row[fieldNGOID]),
		Month:           strings.TrimSpace(row[fieldMonth]),
		PeopleHelped:    people,
		EventsConducted: events,
		FundsUtilized:   funds,
	}, nil
}
