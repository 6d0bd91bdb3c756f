package spacetraveling

import "embed"

// EmbeddedAssets contains static assets shipped with the site:
// logo.svg, site.css, loadmore.js
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

var embeddedAssetNames = []string{"logo.svg", "site.css", "loadmore.js"}
