package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"storefront-service/internal/importer"
	"storefront-service/internal/models"
	"storefront-service/internal/observability"
)

// maxImportSize caps uploaded import files at 10 MB.
const maxImportSize = 10 << 20

// ImportHandler serves the bulk product import endpoints.
type ImportHandler struct {
	persister *importer.Persister
	logger    *logrus.Logger
}

func NewImportHandler(inserter importer.ProductInserter, logger *logrus.Logger) *ImportHandler {
	return &ImportHandler{
		persister: importer.NewPersister(inserter, logger),
		logger:    logger,
	}
}

// GetTemplate godoc
// @Summary Download the product import template
// @Description Returns the column definitions as JSON, or a ready-to-fill file in csv or xlsx format
// @Tags import
// @Produce json
// @Param format query string false "json, csv, or xlsx" default(json)
// @Success 200 {object} models.ImportTemplate
// @Router /products/import/template [get]
func (h *ImportHandler) GetTemplate(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "json"))
	template := models.ProductImportTemplate()

	switch format {
	case "json":
		c.JSON(http.StatusOK, template)

	case "csv":
		var sb strings.Builder
		for i, col := range template.Columns {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(col.Name)
		}
		sb.WriteString("\n")
		for i, col := range template.Columns {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(col.Example)
		}
		sb.WriteString("\n")

		c.Header("Content-Disposition", `attachment; filename="product_import_template.csv"`)
		c.Data(http.StatusOK, "text/csv", []byte(sb.String()))

	case "xlsx":
		f := excelize.NewFile()
		defer f.Close()

		sheet := f.GetSheetName(0)
		for i, col := range template.Columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, col.Name)
			cell, _ = excelize.CoordinatesToCellName(i+1, 2)
			f.SetCellValue(sheet, cell, col.Example)
		}

		c.Header("Content-Disposition", `attachment; filename="product_import_template.xlsx"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := f.Write(c.Writer); err != nil {
			h.logger.WithError(err).Error("Failed to write xlsx template")
		}

	default:
		respondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be json, csv, or xlsx")
	}
}

// ImportProducts godoc
// @Summary Bulk import products from a CSV or XLSX file
// @Description Accepts a multipart CSV or XLSX upload plus an imageMapping JSON field mapping bare image names to uploaded URLs. Row-level failures are reported, not fatal.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or XLSX file"
// @Param imageMapping formData string false "JSON object mapping bare image names to URLs"
// @Success 200 {object} models.ImportResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /products/import [post]
func (h *ImportHandler) ImportProducts(c *gin.Context) {
	start := time.Now()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "file is required")
		return
	}
	if fileHeader.Size > maxImportSize {
		respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE", "file exceeds the 10MB limit")
		return
	}
	var format models.ImportFormat
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".csv":
		format = models.ImportFormatCSV
	case ".xlsx":
		format = models.ImportFormatXLSX
	default:
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "only .csv and .xlsx files are accepted")
		return
	}

	images := importer.ImageMapping{}
	if raw := c.PostForm("imageMapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &images); err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_IMAGE_MAPPING", "imageMapping must be a JSON object of name to URL")
			return
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return
	}
	defer file.Close()

	var rows []importer.ParsedRow
	if format == models.ImportFormatXLSX {
		rows, err = importer.ReadXLSXRows(file)
	} else {
		rows, err = importer.ReadRows(file)
	}
	if err != nil {
		// File-level problems (empty file, no data rows) are fatal.
		respondError(c, http.StatusBadRequest, "INVALID_FILE", err.Error())
		return
	}

	candidates := make([]importer.CandidateProduct, 0, len(rows))
	rowErrors := make([]string, 0)
	for _, row := range rows {
		candidate, err := importer.NormalizeRow(row.Fields, row.RowNum, images)
		if err != nil {
			rowErrors = append(rowErrors, err.Error())
			continue
		}
		candidates = append(candidates, candidate)
	}

	result := h.persister.Persist(c.Request.Context(), candidates)
	result.Total = len(rows)
	result.Failed += len(rowErrors)
	result.Errors = append(rowErrors, result.Errors...)

	observability.RecordImport(result.Successful, result.Failed, time.Since(start))
	h.logger.WithFields(logrus.Fields{
		"total":      result.Total,
		"successful": result.Successful,
		"failed":     result.Failed,
	}).Info("Bulk import finished")

	c.JSON(http.StatusOK, models.ImportResponse{
		Message:    fmt.Sprintf("Import complete: %d succeeded, %d failed", result.Successful, result.Failed),
		Total:      result.Total,
		Successful: result.Successful,
		Failed:     result.Failed,
		Errors:     result.Errors,
	})
}
