package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// AdminLogin renders the password form for the revalidation dashboard.
func AdminLogin(site Site, showError bool, csrfToken string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(ctx, w)
		hw.component(Header(40))
		hw.raw(`<main class="container admin"><h1>Admin</h1>`)
		if showError {
			hw.raw(`<p class="error">Senha inválida.</p>`)
		}
		hw.raw(`<form method="post" action="/admin/login/"><input type="hidden" name="_csrf" value="`)
		hw.text(csrfToken)
		hw.raw(`" /><input type="password" name="password" autocomplete="current-password" required />`)
		hw.raw(`<button type="submit">Entrar</button></form></main>`)
		return hw.err
	})
	return Layout(site, PageMeta{Title: "Admin"}, body)
}

// AdminDashboard lists stored pages with purge actions.
func AdminDashboard(site Site, pages []StoredPage, msg string, csrfToken string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(ctx, w)
		hw.component(Header(40))
		hw.raw(`<main class="container admin"><h1>Páginas geradas</h1>`)
		if msg != "" {
			hw.raw(`<p class="notice">`)
			hw.text(msg)
			hw.raw(`</p>`)
		}
		hw.raw(`<form method="post" action="/admin/purge/"><input type="hidden" name="_csrf" value="`)
		hw.text(csrfToken)
		hw.raw(`" /><button type="submit">Revalidar tudo</button></form>`)
		hw.raw(`<table><thead><tr><th>Caminho</th><th>Status</th><th>Bytes</th><th>Gerada em</th><th></th></tr></thead><tbody>`)
		for _, p := range pages {
			hw.raw(`<tr><td><a href="`)
			hw.text(p.Path)
			hw.raw(`">`)
			hw.text(p.Path)
			hw.raw(`</a></td><td>`, strconv.Itoa(p.Status), `</td><td>`, strconv.Itoa(p.Size), `</td><td>`)
			hw.text(p.RenderedAt)
			if p.Stale {
				hw.raw(` <em>(expirada)</em>`)
			}
			hw.raw(`</td><td><form method="post" action="/admin/purge/"><input type="hidden" name="_csrf" value="`)
			hw.text(csrfToken)
			hw.raw(`" /><input type="hidden" name="path" value="`)
			hw.text(p.Path)
			hw.raw(`" /><button type="submit">Revalidar</button></form></td></tr>`)
		}
		hw.raw(`</tbody></table><form method="post" action="/admin/logout/"><input type="hidden" name="_csrf" value="`)
		hw.text(csrfToken)
		hw.raw(`" /><button type="submit">Sair</button></form></main>`)
		return hw.err
	})
	return Layout(site, PageMeta{Title: "Admin"}, body)
}
