package mailer

import (
	"bytes"
	"embed"
	"text/template"
)

const (
	FromName                = "Event Reviews"
	maxRetires              = 3
	ReviewFlaggedTemplate   = "review_flagged.tmpl"
	OrganizerStatusTemplate = "organizer_status.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) error
}

type message struct {
	subject   string
	plainBody string
	htmlBody  string
}

func render(templateFile string, data any) (*message, error) {
	tmpl, err := template.New("email").ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return nil, err
	}

	var msg message
	for name, dst := range map[string]*string{
		"subject":   &msg.subject,
		"plainBody": &msg.plainBody,
		"htmlBody":  &msg.htmlBody,
	} {
		buf := new(bytes.Buffer)
		if err := tmpl.ExecuteTemplate(buf, name, data); err != nil {
			return nil, err
		}
		*dst = buf.String()
	}
	return &msg, nil
}
