package web

import "embed"

// StaticFS holds the embedded static assets (stylesheet).
//
//go:embed static/*
var StaticFS embed.FS

// templateFS holds the html/template page bodies wrapped by the components.
//
//go:embed templates/*.html
var templateFS embed.FS
