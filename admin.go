package spacetraveling

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/spacetraveling/views"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(a.site(), false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(a.site(), true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// handleAdminPurge revalidates a single stored page when the form names a
// path, and everything otherwise.
func (a *App) handleAdminPurge(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	path := strings.TrimSpace(c.FormValue("path"))
	if path != "" {
		if !strings.HasPrefix(path, "/") {
			return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape("Caminho inválido."))
		}
		if err := a.revalidatePath(path); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape(path+" revalidada."))
	}
	n, err := a.revalidateAll()
	if err != nil {
		return err
	}
	msg := "Nenhuma página armazenada."
	if n > 0 {
		msg = fmt.Sprintf("%d páginas revalidadas.", n)
	}
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape(msg))
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	stored, err := a.Pages.List()
	if err != nil {
		return err
	}
	pages := make([]views.StoredPage, 0, len(stored))
	for _, p := range stored {
		route := a.route(routeListing)
		if _, ok := uidFromPath(p.Path); ok {
			route = a.route(routeArticle)
		}
		pages = append(pages, views.StoredPage{
			Path:       p.Path,
			Status:     p.Status,
			Size:       p.Size,
			RenderedAt: p.RenderedAt.Local().Format("02/01/2006 15:04"),
			Stale:      route.Revalidate > 0 && !p.Fresh(route.Revalidate),
		})
	}
	return Render(c, a.Views.AdminDashboard(a.site(), pages, msg, CsrfToken(c)))
}
