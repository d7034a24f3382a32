package handlers

import (
	"net/http"

	"autosales-dashboard/internal/errors"
	"autosales-dashboard/internal/models"
)

func parseSelection(r *http.Request) (models.Selection, error) {
	q := r.URL.Query()

	report, err := models.ParseReportType(q.Get("report"))
	if err != nil {
		return models.Selection{}, errors.ValidationWrap(err, "invalid report type")
	}

	year, err := models.ParseYearSelection(q.Get("year"))
	if err != nil {
		return models.Selection{}, errors.ValidationWrap(err, "invalid year")
	}

	return models.Selection{Report: report, Year: year}, nil
}
