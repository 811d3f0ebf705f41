// Package frontmatter splits Markdown files with a YAML header into article
// fields for import.
package frontmatter

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Document is a parsed Markdown article.
type Document struct {
	Title       string `yaml:"title"`
	Status      string `yaml:"status"`
	PublishDate string `yaml:"publish_date"`
	Content     string `yaml:"-"`
}

// ParseFile reads and parses the Markdown file at path.
func ParseFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Document{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// Parse reads an optional "---" delimited YAML header followed by the body.
// Without a header the whole input is the body. A title missing from the
// header is taken from a leading "# " heading, which is then dropped from
// the body.
func Parse(r io.Reader) (Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return Document{}, fmt.Errorf("scan: %w", err)
	}

	var doc Document
	body := lines
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == delimiter {
		end := -1
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == delimiter {
				end = i
				break
			}
		}
		if end < 0 {
			return Document{}, fmt.Errorf("front matter not terminated")
		}
		header := strings.Join(lines[1:end], "\n")
		if err := yaml.Unmarshal([]byte(header), &doc); err != nil {
			return Document{}, fmt.Errorf("decode front matter: %w", err)
		}
		body = lines[end+1:]
	}

	body = trimBlank(body)
	if strings.TrimSpace(doc.Title) == "" && len(body) > 0 && strings.HasPrefix(body[0], "# ") {
		doc.Title = strings.TrimSpace(strings.TrimPrefix(body[0], "# "))
		body = trimBlank(body[1:])
	}

	doc.Title = strings.TrimSpace(doc.Title)
	doc.Status = strings.ToLower(strings.TrimSpace(doc.Status))
	doc.PublishDate = strings.TrimSpace(doc.PublishDate)
	doc.Content = strings.Join(body, "\n")
	return doc, nil
}

func trimBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
