package email

import (
	htemplate "html/template"
	ttemplate "text/template"
)

// ─── Contact Email Templates ───

const contactTextTmpl = `You have a new message from:

Name: {{.Name}}
Email: {{.Email}}

Message:
{{.Message}}`

const contactHTMLTmpl = `<div style="font-family: Arial, sans-serif; line-height: 1.6;">
  <h2>New Contact Form Submission</h2>
  <p><strong>Name:</strong> {{.Name}}</p>
  <p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
  <hr>
  <h3>Message:</h3>
  <p style="white-space: pre-wrap; background-color: #f4f4f4; padding: 15px; border-radius: 5px;">{{.Message}}</p>
</div>`

var (
	contactText = ttemplate.Must(ttemplate.New("contact_text").Parse(contactTextTmpl))
	contactHTML = htemplate.Must(htemplate.New("contact_html").Parse(contactHTMLTmpl))
)
