package handlers

import (
	"net/http"
	"strconv"

	"github.com/abonos-app/abonos-api/internal/models"
	"github.com/abonos-app/abonos-api/internal/services"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService *services.ReportService
	exportService *services.ExportService
}

func NewReportHandler(reportService *services.ReportService, exportService *services.ExportService) *ReportHandler {
	return &ReportHandler{reportService: reportService, exportService: exportService}
}

// @Summary Dashboard Metrics
// @Description Headline numbers for the current month
// @Tags Reports
// @Produce json
// @Success 200 {object} models.DashboardMetrics
// @Security BearerAuth
// @Router /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	metrics, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// @Summary Account Statement
// @Description Chronological debit/credit movements for a client with running balance
// @Tags Reports
// @Produce json
// @Param client_id path int true "Client ID"
// @Success 200 {object} models.AccountStatement
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /clients/{client_id}/statement [get]
func (h *ReportHandler) Statement(c *gin.Context) {
	statement, err := h.reportService.Statement(c.Request.Context(), parseID(c, "client_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statement)
}

// @Summary Account Statement PDF
// @Description Download a client's account statement as PDF
// @Tags Reports
// @Produce application/pdf
// @Param client_id path int true "Client ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /clients/{client_id}/statement/pdf [get]
func (h *ReportHandler) StatementPDF(c *gin.Context) {
	data, filename, err := h.exportService.StatementPDF(c.Request.Context(), parseID(c, "client_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}

// @Summary Delinquency Report
// @Description Clients with outstanding balance on accruals at least min_days old
// @Tags Reports
// @Produce json
// @Param min_days query int false "Minimum age in days" default(30)
// @Success 200 {object} models.DelinquencyReport
// @Security BearerAuth
// @Router /reports/delinquency [get]
func (h *ReportHandler) Delinquency(c *gin.Context) {
	minDays, _ := strconv.Atoi(c.DefaultQuery("min_days", "30"))

	report, err := h.reportService.Delinquency(c.Request.Context(), minDays)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// periodFromQuery reads year/month query params, defaulting to the current month
func periodFromQuery(c *gin.Context) models.Period {
	period := models.CurrentPeriod()
	if y := c.Query("year"); y != "" {
		period.Year, _ = strconv.Atoi(y)
	}
	if m := c.Query("month"); m != "" {
		period.Month, _ = strconv.Atoi(m)
	}
	return period
}

// @Summary Collections Report
// @Description Payments received in one month with per-method breakdown
// @Tags Reports
// @Produce json
// @Param year query int false "Period year"
// @Param month query int false "Period month"
// @Success 200 {object} models.CollectionsReport
// @Security BearerAuth
// @Router /reports/collections [get]
func (h *ReportHandler) Collections(c *gin.Context) {
	report, err := h.reportService.Collections(c.Request.Context(), periodFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary Collections CSV
// @Description Download a month's collections report as CSV
// @Tags Reports
// @Produce text/csv
// @Param year query int false "Period year"
// @Param month query int false "Period month"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/collections/csv [get]
func (h *ReportHandler) CollectionsCSV(c *gin.Context) {
	data, filename, err := h.exportService.CollectionsCSV(c.Request.Context(), periodFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}

// @Summary Collections XLSX
// @Description Download a month's collections report as XLSX
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param year query int false "Period year"
// @Param month query int false "Period month"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/collections/xlsx [get]
func (h *ReportHandler) CollectionsXLSX(c *gin.Context) {
	data, filename, err := h.exportService.CollectionsXLSX(c.Request.Context(), periodFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
