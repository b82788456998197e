package tools

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/plane-mcp/internal/tracker"
)

// dateLayout is the only date format Plane accepts for start/target dates.
const dateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names, not Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("plane_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(dateLayout, fl.Field().String())
		return err == nil
	})

	// A Nullable validates as its string value; null and absent look empty.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		n, ok := field.Interface().(tracker.Nullable)
		if !ok || n.Value == nil {
			return ""
		}
		return *n.Value
	}, tracker.Nullable{})

	return v
}

// argIssue is one entry of an "Invalid input" report.
type argIssue struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// bindArgs decodes the request arguments into dst and validates them.
// It returns nil on success, or a tool error result describing every
// problem found.
func bindArgs(req mcp.CallToolRequest, dst any) *mcp.CallToolResult {
	if req.GetArguments() == nil {
		return mcp.NewToolResultError("Invalid input: arguments are required")
	}

	if err := req.BindArguments(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return invalidInput([]argIssue{{Field: typeErr.Field, Rule: "type", Param: typeErr.Type.String()}})
		}
		return mcp.NewToolResultError("Invalid input: " + err.Error())
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return mcp.NewToolResultError("Invalid input: " + err.Error())
		}
		issues := make([]argIssue, 0, len(verrs))
		for _, fe := range verrs {
			issues = append(issues, argIssue{Field: fieldPath(fe), Rule: fe.Tag(), Param: fe.Param()})
		}
		return invalidInput(issues)
	}
	return nil
}

// fieldPath drops the top-level struct name from the namespace
// ("createIssueArgs.assignees[0]" → "assignees[0]").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func invalidInput(issues []argIssue) *mcp.CallToolResult {
	data, err := json.MarshalIndent(issues, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("Invalid input")
	}
	return mcp.NewToolResultError("Invalid input: " + string(data))
}

// ─── Argument shapes ─────────────────────────────────────────────────────────

type ticketArgs struct {
	TicketID string `json:"ticket_id" validate:"required"`
}

type listIssuesArgs struct {
	Project  string `json:"project" validate:"required"`
	State    string `json:"state"`
	Priority string `json:"priority" validate:"omitempty,oneof=none low medium high urgent"`
	Limit    int    `json:"limit" validate:"omitempty,min=1"`
}

type createIssueArgs struct {
	Project         string   `json:"project" validate:"required"`
	Name            string   `json:"name" validate:"required"`
	DescriptionHTML string   `json:"description_html"`
	Priority        string   `json:"priority" validate:"omitempty,oneof=none low medium high urgent"`
	State           string   `json:"state"`
	Assignees       []string `json:"assignees" validate:"omitempty,dive,uuid"`
	Labels          []string `json:"labels" validate:"omitempty,dive,uuid"`
	StartDate       string   `json:"start_date" validate:"omitempty,plane_date"`
	TargetDate      string   `json:"target_date" validate:"omitempty,plane_date"`
	Parent          string   `json:"parent" validate:"omitempty,uuid"`
}

type updateIssueArgs struct {
	TicketID        string           `json:"ticket_id" validate:"required"`
	Name            *string          `json:"name" validate:"omitempty,min=1"`
	DescriptionHTML *string          `json:"description_html"`
	Priority        *string          `json:"priority" validate:"omitempty,oneof=none low medium high urgent"`
	State           *string          `json:"state"`
	Assignees       *[]string        `json:"assignees" validate:"omitempty,dive,uuid"`
	Labels          *[]string        `json:"labels" validate:"omitempty,dive,uuid"`
	StartDate       tracker.Nullable `json:"start_date" validate:"omitempty,plane_date"`
	TargetDate      tracker.Nullable `json:"target_date" validate:"omitempty,plane_date"`
}

type addCommentArgs struct {
	TicketID    string `json:"ticket_id" validate:"required"`
	CommentHTML string `json:"comment_html" validate:"required"`
}

type addLinkArgs struct {
	TicketID string `json:"ticket_id" validate:"required"`
	Title    string `json:"title" validate:"required"`
	URL      string `json:"url" validate:"required,url"`
}

type recentActivityArgs struct {
	Project string `json:"project"`
	Limit   int    `json:"limit" validate:"omitempty,min=1,max=100"`
}
