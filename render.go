package signup

import (
	"embed"
	"html/template"
	"io"
)

// SuccessMessage replaces the form once a signup went through.
const SuccessMessage = "✅ Signup successful! Please check your email and wait for admin approval."

// PendingMessage is shown when the account awaits email confirmation before it exists.
const PendingMessage = "Almost there! Confirm your email address, then submit the form again to create your profile."

//go:embed templates/signup.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/signup.html"))

type inputView struct {
	Name        string
	Type        string
	Placeholder string
	Value       string
	Required    bool
}

type pageView struct {
	Success        bool
	Pending        bool
	Error          string
	SuccessMessage string
	PendingMessage string
	Inputs         []inputView
	Bio            string
	BioPlaceholder string
}

func newPageView(c *Controller) pageView {
	v := pageView{
		Success:        c.Success(),
		Pending:        c.Pending(),
		Error:          c.ErrorMessage(),
		SuccessMessage: SuccessMessage,
		PendingMessage: PendingMessage,
		Bio:            c.Value(FieldBio),
		BioPlaceholder: FieldBio.Label(),
	}
	if v.Success {
		return v
	}

	for _, f := range Fields {
		if f == FieldBio {
			continue
		}
		in := inputView{
			Name:        string(f),
			Type:        "text",
			Placeholder: f.Label(),
			Value:       c.Value(f),
			Required:    isRequired(f),
		}
		if f == FieldPassword {
			in.Type = "password"
			in.Value = ""
		}
		v.Inputs = append(v.Inputs, in)
	}
	return v
}

func isRequired(f Field) bool {
	for _, r := range RequiredFields {
		if r == f {
			return true
		}
	}
	return false
}

// Render writes the signup page for c.
func Render(w io.Writer, c *Controller) error {
	return pageTemplate.Execute(w, newPageView(c))
}
