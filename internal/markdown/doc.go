// Package markdown loads Markdown files with YAML front-matter, renders them
// to HTML with goldmark and annotates each document with an estimated
// reading time.
package markdown
