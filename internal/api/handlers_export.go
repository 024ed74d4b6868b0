package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclelog/internal/services"
)

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	entries, status, message := handler.exportEntries(c)
	if status != 0 {
		return apiError(c, status, message)
	}

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	for _, entry := range entries {
		if err := writer.Write(entry.CSVColumns()); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to build export")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, "text/csv", buildExportFilename(handler.now().In(handler.location), "csv"))
	return c.Send(output.Bytes())
}

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	entries, status, message := handler.exportEntries(c)
	if status != 0 {
		return apiError(c, status, message)
	}
	now := handler.now().In(handler.location)

	serialized, err := json.MarshalIndent(fiber.Map{
		"exported_at": now.Format(time.RFC3339),
		"entries":     entries,
	}, "", "  ")
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, fiber.MIMEApplicationJSON, buildExportFilename(now, "json"))
	return c.Send(serialized)
}

func (handler *Handler) ExportSummary(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	bounds, status, message := handler.exportRange(c)
	if status != 0 {
		return apiError(c, status, message)
	}

	summary, err := handler.exportService.BuildSummary(user.ID, bounds)
	if err != nil {
		return handler.cycleError(c, err)
	}
	return c.JSON(summary)
}

func (handler *Handler) exportEntries(c *fiber.Ctx) ([]services.ExportEntry, int, string) {
	user, ok := currentUser(c)
	if !ok {
		return nil, fiber.StatusUnauthorized, "unauthorized"
	}
	bounds, status, message := handler.exportRange(c)
	if status != 0 {
		return nil, status, message
	}

	entries, err := handler.exportService.BuildEntries(user.ID, bounds)
	if err != nil {
		handler.log.WithError(err).Error("export load failed")
		return nil, fiber.StatusInternalServerError, "failed to fetch cycles"
	}
	return entries, 0, ""
}

func (handler *Handler) exportRange(c *fiber.Ctx) (services.ExportRange, int, string) {
	bounds, err := services.ParseExportRange(c.Query("from"), c.Query("to"), handler.location)
	switch {
	case err == nil:
		return bounds, 0, ""
	case errors.Is(err, services.ErrExportFromDateInvalid):
		return services.ExportRange{}, fiber.StatusBadRequest, "invalid from date"
	case errors.Is(err, services.ErrExportToDateInvalid):
		return services.ExportRange{}, fiber.StatusBadRequest, "invalid to date"
	default:
		return services.ExportRange{}, fiber.StatusBadRequest, "invalid range"
	}
}

func buildExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("cyclelog-export-%s.%s", now.Format("2006-01-02"), extension)
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}
