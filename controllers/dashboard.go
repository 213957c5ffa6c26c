package controllers

import (
	"net/http"
	"time"

	"barbertrack-backend/middleware"
	"barbertrack-backend/models"
	"barbertrack-backend/services"
	"barbertrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DashboardView struct {
	Caller             models.Caller        `json:"caller"`
	Ready              bool                 `json:"ready"`
	Services           []models.ServiceType `json:"services"`
	Rows               []EmployeeRow        `json:"rows"`
	Summary            services.Summary     `json:"summary"`
	ExpandedEmployeeID *uuid.UUID           `json:"expanded_employee_id"`
	History            []HistoryEntry       `json:"history"`
	Permissions        Permissions          `json:"permissions"`
	Notice             string               `json:"notice,omitempty"`
	LoadedAt           time.Time            `json:"loaded_at"`
}

type EmployeeRow struct {
	EmployeeID uuid.UUID                `json:"employee_id"`
	FullName   string                   `json:"full_name"`
	Email      string                   `json:"email"`
	Columns    []services.ServiceColumn `json:"columns"`
	Total      int                      `json:"total"`
	Today      int                      `json:"today"`
}

type HistoryEntry struct {
	ID            uuid.UUID `json:"id"`
	ServiceTypeID uuid.UUID `json:"service_type_id"`
	ServiceName   string    `json:"service_name"`
	PerformedAt   time.Time `json:"performed_at"`
	Notes         *string   `json:"notes"`
}

// Permissions tells the front end which controls to show. The server enforces
// the same rules regardless.
type Permissions struct {
	CanDeleteTransaction  bool `json:"can_delete_transaction"`
	CanDeactivateEmployee bool `json:"can_deactivate_employee"`
	CanLogTransaction     bool `json:"can_log_transaction"`
	CanManageServiceTypes bool `json:"can_manage_service_types"`
}

func renderDashboard(state services.DashboardState, policy services.AccessPolicy) DashboardView {
	view := DashboardView{
		Caller:             state.Caller,
		Ready:              state.Ready,
		Services:           state.Services,
		Rows:               make([]EmployeeRow, 0, len(state.Stats)),
		Summary:            state.Summary,
		ExpandedEmployeeID: state.ExpandedEmployeeID,
		History:            make([]HistoryEntry, 0, len(state.History)),
		Notice:             state.Notice,
		LoadedAt:           state.LoadedAt,
	}
	if view.Services == nil {
		view.Services = []models.ServiceType{}
	}
	for _, stat := range state.Stats {
		view.Rows = append(view.Rows, EmployeeRow{
			EmployeeID: stat.Profile.ID,
			FullName:   stat.Profile.FullName,
			Email:      stat.Profile.Email,
			Columns:    services.Columns(stat, state.Services),
			Total:      stat.TotalCount,
			Today:      stat.TodayCount,
		})
	}
	for _, tx := range state.History {
		entry := HistoryEntry{
			ID:            tx.ID,
			ServiceTypeID: tx.ServiceTypeID,
			PerformedAt:   tx.PerformedAt,
			Notes:         tx.Notes,
		}
		if tx.ServiceType != nil {
			entry.ServiceName = tx.ServiceType.Name
		}
		view.History = append(view.History, entry)
	}
	if policy != nil {
		view.Permissions = Permissions{
			CanDeleteTransaction:  policy.CanDeleteTransaction(),
			CanDeactivateEmployee: policy.CanDeactivateEmployee(),
			CanLogTransaction:     policy.CanLogTransaction(),
			CanManageServiceTypes: policy.CanManageServiceTypes(),
		}
	}
	return view
}

type DashboardController struct{}

// GetDashboard reloads everything from the store and returns the view.
func (dc *DashboardController) GetDashboard(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Session not found")
		return
	}

	state, err := session.Load(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, renderDashboard(state, session.Policy()))
}

// ToggleEmployee expands or collapses one employee's history.
func (dc *DashboardController) ToggleEmployee(c *gin.Context) {
	session, id, ok := sessionAndID(c, "Invalid employee ID format")
	if !ok {
		return
	}

	state, err := session.Toggle(id)
	if err != nil {
		respondWithServiceError(c, err, "Failed to update selection")
		return
	}
	c.JSON(http.StatusOK, renderDashboard(state, session.Policy()))
}

// DeleteTransaction hard-deletes a transaction. Admin only.
func (dc *DashboardController) DeleteTransaction(c *gin.Context) {
	session, id, ok := sessionAndID(c, "Invalid transaction ID format")
	if !ok {
		return
	}

	state, err := session.DeleteTransaction(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, err, "Failed to delete transaction")
		return
	}
	c.JSON(http.StatusOK, renderDashboard(state, session.Policy()))
}

// DeactivateEmployee soft-deletes an employee. Admin only.
func (dc *DashboardController) DeactivateEmployee(c *gin.Context) {
	session, id, ok := sessionAndID(c, "Invalid employee ID format")
	if !ok {
		return
	}

	state, err := session.DeactivateEmployee(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, err, "Failed to deactivate employee")
		return
	}
	c.JSON(http.StatusOK, renderDashboard(state, session.Policy()))
}

func sessionAndID(c *gin.Context, badID string) (*services.Session, uuid.UUID, bool) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Session not found")
		return nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, badID)
		return nil, uuid.Nil, false
	}
	return session, id, true
}
