package storage

import "rangekeeper/internal/model"

// ReportSink defines a sink for plan reports.
type ReportSink interface {
	PutReports(reports []model.PlanReport) error
}
