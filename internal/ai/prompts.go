package ai

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/amishk599/synergy/internal/model"
)

// Placeholders recognised in an instruction template.
const (
	PlaceholderCompanyName        = "COMPANY_NAME"
	PlaceholderCompanyDescription = "COMPANY_DESCRIPTION"
	PlaceholderFirmDescription    = "VC_DESCRIPTION"
)

//go:embed prompts/default_template.txt
var defaultTemplateRaw string

// DefaultTemplate is the instruction offered when the user has not written one.
var DefaultTemplate = strings.TrimSpace(defaultTemplateRaw)

// BuildInstruction substitutes the record and firm into tmpl.
//
// Replacement is sequential: name, then description, then firm. A value that
// itself contains a placeholder token is rewritten by the later passes, so
// the result depends on that order.
func BuildInstruction(tmpl string, record model.CompanyRecord, firm string) string {
	out := strings.ReplaceAll(tmpl, PlaceholderCompanyName, record.Name)
	out = strings.ReplaceAll(out, PlaceholderCompanyDescription, record.Description)
	out = strings.ReplaceAll(out, PlaceholderFirmDescription, firm)
	return out
}

// BuildMessages returns the system/user exchange sent for one record.
func BuildMessages(prompt model.PromptConfig, record model.CompanyRecord, firm string) []model.Message {
	return []model.Message{
		{Role: model.RoleSystem, Content: fmt.Sprintf("You are a %s at %s", prompt.RoleLabel, firm)},
		{Role: model.RoleUser, Content: BuildInstruction(prompt.Template, record, firm)},
	}
}
