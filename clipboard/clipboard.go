// Package clipboard wraps system clipboard access and the simulated paste
// key chord. The platform split (Cmd+V on darwin, Ctrl+V elsewhere) lives
// entirely in this package.
package clipboard

import cb "github.com/atotto/clipboard"

func Read() (string, error) {
	return cb.ReadAll()
}

func Copy(text string) error {
	return cb.WriteAll(text)
}
