package library

import (
	"os"
	"path/filepath"
)

// Touch creates the file at path, and any missing parent directories, if it does not exist yet.
func Touch(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}

func Bye() string {
	return "askora: all messages delivered, bye"
}
