// Package mail implementa el Notifier: renderiza plantillas HTML y las envía por SMTP,
// SendGrid o al log, a través de una cola con reintentos.
package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/jhoicas/Tenancy-api/internal/application/ports"
)

// Email mensaje listo para enviar.
type Email struct {
	To       string
	Subject  string
	HTML     string
	Template ports.Template
}

type templateDef struct {
	subject string
	body    string
}

const layout = `<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif; color: #222;">
<p>Hola {{.Name}},</p>
{{template "body" .}}
<p><a href="{{.LoginURL}}">Iniciar sesión</a></p>
<p style="color:#888;font-size:12px;">{{.AppName}}</p>
</body></html>`

var templateDefs = map[ports.Template]templateDef{
	ports.TemplateTenantApproved: {
		subject: "Tu solicitud de tenant fue aprobada",
		body: `<p>La solicitud del tenant <b>{{.TenantName}}</b> fue aprobada. Ya puedes administrarlo.</p>
{{if .Password}}<p>Tu contraseña temporal es: <code>{{.Password}}</code>. Cámbiala al iniciar sesión.</p>{{end}}`,
	},
	ports.TemplateTenantRejected: {
		subject: "Tu solicitud de tenant fue rechazada",
		body:    `<p>La solicitud del tenant <b>{{.TenantName}}</b> fue rechazada.</p>`,
	},
	ports.TemplateTenantProvisioned: {
		subject: "Se creó tu tenant",
		body: `<p>Se creó el tenant <b>{{.TenantName}}</b> y eres su administrador.</p>
{{if .Password}}<p>Tu contraseña temporal es: <code>{{.Password}}</code>.</p>{{end}}`,
	},
	ports.TemplateTenantActivated: {
		subject: "Tu tenant fue activado",
		body:    `<p>El tenant <b>{{.TenantName}}</b> fue activado.</p>`,
	},
	ports.TemplateTenantDeactivated: {
		subject: "Tu tenant fue desactivado",
		body:    `<p>El tenant <b>{{.TenantName}}</b> fue desactivado. Contacta a soporte si crees que es un error.</p>`,
	},
	ports.TemplateTenantDeleted: {
		subject: "Tu tenant fue eliminado",
		body:    `<p>El tenant <b>{{.TenantName}}</b> fue eliminado.</p>`,
	},
	ports.TemplateUserWelcome: {
		subject: "Bienvenido",
		body: `<p>Se creó tu cuenta en el tenant <b>{{.TenantName}}</b>.</p>
{{if .Password}}<p>Tu contraseña temporal es: <code>{{.Password}}</code>.</p>{{end}}`,
	},
	ports.TemplateUserAlreadyRegistered: {
		subject: "Ya tienes una cuenta",
		body:    `<p>Fuiste invitado al tenant <b>{{.TenantName}}</b>, pero ya tienes una cuenta registrada. Inicia sesión con tu contraseña actual.</p>`,
	},
	ports.TemplateUserActivated: {
		subject: "Tu cuenta fue activada",
		body:    `<p>Tu cuenta en el tenant <b>{{.TenantName}}</b> fue activada.</p>`,
	},
	ports.TemplateUserDeactivated: {
		subject: "Tu cuenta fue desactivada",
		body:    `<p>Tu cuenta en el tenant <b>{{.TenantName}}</b> fue desactivada.</p>`,
	},
	ports.TemplateUserDeleted: {
		subject: "Tu cuenta fue eliminada",
		body:    `<p>Tu cuenta en el tenant <b>{{.TenantName}}</b> fue eliminada.</p>`,
	},
	ports.TemplatePasswordChanged: {
		subject: "Tu contraseña fue cambiada",
		body:    `<p>La contraseña de tu cuenta fue cambiada. Si no fuiste tú, contacta a soporte.</p>`,
	},
}

type templateData struct {
	ports.Notification
	LoginURL string
	AppName  string
}

// Renderer convierte notificaciones en correos HTML.
type Renderer struct {
	loginURL string
	appName  string
	tpls     map[ports.Template]*template.Template
}

// NewRenderer parsea todas las plantillas. publicURL es la URL del frontend.
func NewRenderer(publicURL, appName string) (*Renderer, error) {
	r := &Renderer{
		loginURL: publicURL + "/login",
		appName:  appName,
		tpls:     make(map[ports.Template]*template.Template, len(templateDefs)),
	}
	for name, def := range templateDefs {
		t, err := template.New(string(name)).Parse(layout)
		if err != nil {
			return nil, fmt.Errorf("parse layout: %w", err)
		}
		if _, err := t.New("body").Parse(def.body); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.tpls[name] = t
	}
	return r, nil
}

// Render produce el correo de la notificación.
func (r *Renderer) Render(n ports.Notification) (Email, error) {
	t, ok := r.tpls[n.Template]
	if !ok {
		return Email{}, fmt.Errorf("plantilla %q desconocida", n.Template)
	}
	if n.Name == "" {
		n.Name = n.To
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, templateData{Notification: n, LoginURL: r.loginURL, AppName: r.appName}); err != nil {
		return Email{}, fmt.Errorf("render %s: %w", n.Template, err)
	}
	return Email{
		To:       n.To,
		Subject:  templateDefs[n.Template].subject,
		HTML:     buf.String(),
		Template: n.Template,
	}, nil
}
