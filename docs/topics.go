// Package docs carries the built-in documentation topics, embedded so the
// binary can explain itself offline.
package docs

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed *.md
var topics embed.FS

// Topic returns the markdown content of a single documentation topic.
// The special name "*" expands to every topic in order.
func Topic(name string) (string, error) {
	if name == "*" {
		return Topics(List()...)
	}
	content, err := topics.ReadFile(name + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", name, err)
	}
	return string(content), nil
}

// Topics concatenates the content of several topics.
func Topics(names ...string) (string, error) {
	var b bytes.Buffer
	for _, name := range names {
		content, err := Topic(name)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// List returns the names of all available topics, sorted. The readme is the
// table of contents, not a topic of its own.
func List() []string {
	var names []string
	fs.WalkDir(topics, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), ".md")
		if name != "readme" {
			names = append(names, name)
		}
		return nil
	})
	sort.Strings(names)
	return names
}
