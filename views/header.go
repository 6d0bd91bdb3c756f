package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// Header renders the brand logo linking home, with padding pixels above and below.
func Header(padding int) templ.Component {
	if padding < 0 {
		padding = 0
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(ctx, w)
		px := strconv.Itoa(padding) + "px"
		hw.raw(`<div class="header" style="padding-top: `, px, `; padding-bottom: `, px, `;">`)
		hw.raw(`<div><a href="/"><img src="/public/logo.svg" alt="logo" /></a></div></div>`)
		return hw.err
	})
}
