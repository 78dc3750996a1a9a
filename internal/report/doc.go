// Package report renders validation reports.
//
// This package contains writers for different output formats:
//   - TextWriter: human-readable output for terminal display
//   - JSONWriter: one JSON object per file for tool integration
//   - MarkdownWriter: a shareable document with tables and a status chart
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed with MultiWriter.
package report
