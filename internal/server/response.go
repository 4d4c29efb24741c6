package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mapforge/internal/diagnostic"
)

// Response is the unified envelope for JSON API responses. Compiled
// mapping documents are the one exception: they are served verbatim so
// the body can be fed straight to an index-creation call.
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Issues    []Issue     `json:"issues,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// Issue is one diagnostic rendered for API consumers.
type Issue struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Subject  string `json:"subject,omitempty"`
	Message  string `json:"message"`
}

// Success writes a 200 envelope around data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:      http.StatusOK,
		Message:   "success",
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// SuccessWithIssues writes a 200 envelope carrying diagnostics next to
// the data, for operations that succeed with reservations.
func SuccessWithIssues(c *gin.Context, data interface{}, diags *diagnostic.Diagnostics) {
	c.JSON(http.StatusOK, Response{
		Code:      http.StatusOK,
		Message:   "success",
		Data:      data,
		Issues:    renderIssues(diags),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// Error writes an error envelope with the given HTTP status.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func renderIssues(diags *diagnostic.Diagnostics) []Issue {
	if diags == nil || diags.IsEmpty() {
		return nil
	}

	all := diags.All()
	issues := make([]Issue, 0, len(all))

	for _, d := range all {
		subject := d.Entity
		if d.Property != "" {
			if subject != "" {
				subject += "."
			}

			subject += d.Property
		}

		issues = append(issues, Issue{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Subject:  subject,
			Message:  d.Message,
		})
	}

	return issues
}
