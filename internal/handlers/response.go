package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// ServiceResponse is the envelope every endpoint returns.
type ServiceResponse struct {
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	StatusCode int         `json:"status_code"`
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, ServiceResponse{Data: data, Message: message, StatusCode: status})
}

func respondError(c *gin.Context, status int, message string) {
	respond(c, status, nil, message)
}

// deleteBlockedByInvoices is the 400 message for deletions blocked by live
// invoice references. count must be positive.
func deleteBlockedByInvoices(entity string, count int64) string {
	return fmt.Sprintf("Cannot delete %s. It has %d associated invoice(s). Please delete or reassign the invoices first.", entity, count)
}
