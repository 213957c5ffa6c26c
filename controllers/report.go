// controllers/report.go
package controllers

import (
	"net/http"

	"barbertrack-backend/middleware"
	"barbertrack-backend/services"
	"barbertrack-backend/utils"

	"github.com/gin-gonic/gin"
)

// ReportController serves the daily per-employee breakdown.
type ReportController struct {
	Reports *services.ReportService
}

type ReportView struct {
	Date     string           `json:"date"`
	Services []string         `json:"services"`
	Rows     []EmployeeRow    `json:"rows"`
	Summary  services.Summary `json:"summary"`
	Message  string           `json:"message"`
}

func (rc *ReportController) GetTodayReport(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found in context")
		return
	}

	report, err := rc.Reports.Today(c.Request.Context(), caller)
	if err != nil {
		respondWithServiceError(c, err, "Failed to build report")
		return
	}

	view := ReportView{
		Date:     report.Date.Format("2006-01-02"),
		Services: make([]string, 0, len(report.Services)),
		Rows:     make([]EmployeeRow, 0, len(report.Stats)),
		Summary:  report.Summary,
		Message:  services.FormatDailyReport(report),
	}
	for _, st := range report.Services {
		view.Services = append(view.Services, st.Name)
	}
	for _, stat := range report.Stats {
		view.Rows = append(view.Rows, EmployeeRow{
			EmployeeID: stat.Profile.ID,
			FullName:   stat.Profile.FullName,
			Email:      stat.Profile.Email,
			Columns:    services.Columns(stat, report.Services),
			Total:      stat.TotalCount,
			Today:      stat.TodayCount,
		})
	}
	c.JSON(http.StatusOK, view)
}
