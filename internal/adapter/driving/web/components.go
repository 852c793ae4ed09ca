package web

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	vm "github.com/ericfisherdev/opticatalog/internal/adapter/driving/web/viewmodel"
)

// enumSelect is the data passed to the enum_select template.
type enumSelect struct {
	Name     string
	Options  []string
	Selected string
}

var pageTemplates = template.Must(
	template.New("pages").
		Funcs(template.FuncMap{
			"selectOf": func(name string, options []string, selected string) enumSelect {
				return enumSelect{Name: name, Options: options, Selected: selected}
			},
		}).
		ParseFS(templateFS, "templates/*.html"),
)

// layoutData is rendered by layout.html around a page body.
type layoutData struct {
	Title     string
	LoggedIn  bool
	CSRFToken string
	Content   template.HTML
}

// Layout wraps body in the shared page chrome. The body is rendered first so
// a failing page never emits a half-written document.
func Layout(title string, loggedIn bool, csrf string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		content, err := templ.ToGoHTML(ctx, body)
		if err != nil {
			return err
		}
		return pageTemplates.ExecuteTemplate(w, "layout.html", layoutData{
			Title:     title,
			LoggedIn:  loggedIn,
			CSRFToken: csrf,
			Content:   content,
		})
	})
}

// CatalogPage renders the public catalog listing.
func CatalogPage(data vm.CatalogPageViewModel) templ.Component {
	return templ.FromGoHTML(pageTemplates.Lookup("catalog.html"), data)
}

// AdminPage renders the admin panel.
func AdminPage(data vm.AdminPageViewModel) templ.Component {
	return templ.FromGoHTML(pageTemplates.Lookup("admin.html"), data)
}

// EditPage renders the single-record edit form.
func EditPage(data vm.EditPageViewModel) templ.Component {
	return templ.FromGoHTML(pageTemplates.Lookup("edit.html"), data)
}

// LoginPage renders the admin login form.
func LoginPage(data vm.LoginPageViewModel) templ.Component {
	return templ.FromGoHTML(pageTemplates.Lookup("login.html"), data)
}
