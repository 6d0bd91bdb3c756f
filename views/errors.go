package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func message(site Site, title, text string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(ctx, w)
		hw.component(Header(80))
		hw.raw(`<main class="container message"><h1>`)
		hw.text(title)
		hw.raw(`</h1><p>`)
		hw.text(text)
		hw.raw(`</p><p><a href="/">Voltar para o início</a></p></main>`)
		return hw.err
	})
	return Layout(site, PageMeta{Title: title}, body)
}

// NotFound is rendered for unknown routes and unknown article uids.
func NotFound(site Site) templ.Component {
	return message(site, "Post não encontrado", "O conteúdo que você procura não existe ou foi removido.")
}

// ServerError is rendered when the content store cannot be reached.
func ServerError(site Site) templ.Component {
	return message(site, "Algo deu errado", "Não foi possível carregar o conteúdo. Tente novamente em instantes.")
}
