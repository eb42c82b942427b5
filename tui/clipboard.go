package tui

import "github.com/atotto/clipboard"

// Clipboard abstracts the system clipboard so tests can run headless.
type Clipboard interface {
	Read() (string, error)
	Write(text string) error
}

// SystemClipboard uses the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) Read() (string, error)   { return clipboard.ReadAll() }
func (SystemClipboard) Write(text string) error { return clipboard.WriteAll(text) }

type memClipboard struct {
	text string
}

func (c *memClipboard) Read() (string, error)   { return c.text, nil }
func (c *memClipboard) Write(text string) error { c.text = text; return nil }
