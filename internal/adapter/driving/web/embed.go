package web

import "embed"

// StaticFS holds the embedded popup stylesheet.
//
//go:embed static/*
var StaticFS embed.FS
