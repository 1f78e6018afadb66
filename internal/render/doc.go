// Package render turns navigation render trees into HTML and JSON.
package render
