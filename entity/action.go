package entity

import (
	"fmt"
	"regexp"
	"strings"
	"text/template"
)

// ActionType discriminates user-defined quick-reply templates.
type ActionType string

const (
	ActionSay     ActionType = "say"
	ActionWhisper ActionType = "whisper"
	ActionPrepare ActionType = "prepare"
	ActionOpenURL ActionType = "open_url"
)

var (
	actionNamePattern      = regexp.MustCompile(`^[\w\- ]+$`)
	actionRecipientPattern = regexp.MustCompile(`^\w{3,}$`)
)

// Action is a user-defined quick-reply template. Text may contain
// {{.placeholder}} tokens resolved at parse time. Recipient is meaningful
// only for whisper actions.
type Action struct {
	ID        string
	Type      ActionType
	Name      string
	Text      string
	Recipient string
}

// NewAction builds an action with a generated id. Validation is the caller's
// concern (forms validate per keystroke and again on submit).
func NewAction(typ ActionType, name, text, recipient string) Action {
	return Action{
		ID:        NewID(),
		Type:      typ,
		Name:      name,
		Text:      text,
		Recipient: recipient,
	}
}

// ActionValidation reports field-level validity so a form can highlight
// individual inputs. Valid is the AND of the fields that apply to the type.
type ActionValidation struct {
	Name      bool `json:"name"`
	Text      bool `json:"text"`
	Recipient bool `json:"recipient"`
	Valid     bool `json:"valid"`
}

// ValidateAction checks the fields of a candidate action. While editing
// (strict), every applicable field must be non-empty and pattern-valid; when
// lenient, empty fields pass and only non-empty ones must match. Recipient is
// required only for whisper actions.
func ValidateAction(editing bool, typ ActionType, text, name, recipient string) ActionValidation {
	v := ActionValidation{
		Name:      checkField(editing, name, actionNamePattern),
		Text:      text != "" || !editing,
		Recipient: true,
	}
	if typ == ActionWhisper {
		v.Recipient = checkField(editing, recipient, actionRecipientPattern)
	}
	v.Valid = v.Name && v.Text && v.Recipient
	return v
}

func checkField(strict bool, value string, pattern *regexp.Regexp) bool {
	if value == "" {
		return !strict
	}
	return pattern.MatchString(value)
}

// Parse substitutes {{.placeholder}} tokens in the action text. Missing keys
// follow text/template semantics for map lookups (empty substitution); a
// malformed template is the caller's error and is returned as-is.
func (a Action) Parse(replacements map[string]string) (string, error) {
	tmpl, err := template.New("action").Parse(a.Text)
	if err != nil {
		return "", fmt.Errorf("action %q: parse template: %w", a.Name, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, replacements); err != nil {
		return "", fmt.Errorf("action %q: execute template: %w", a.Name, err)
	}
	return b.String(), nil
}

// ActionRecord is the JSON-safe projection of an Action.
type ActionRecord struct {
	ID        string     `json:"id"`
	Type      ActionType `json:"type"`
	Name      string     `json:"name"`
	Text      string     `json:"text"`
	Recipient string     `json:"recipient,omitempty"`
}

// Serialize projects the action to its plain record.
func (a Action) Serialize() ActionRecord {
	return ActionRecord{
		ID:        a.ID,
		Type:      a.Type,
		Name:      a.Name,
		Text:      a.Text,
		Recipient: a.Recipient,
	}
}
