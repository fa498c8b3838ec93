package report

import "errors"

var (
	ErrReportNotFound = errors.New("report not found")
	ErrTitleRequired  = errors.New("report title is required")
)
