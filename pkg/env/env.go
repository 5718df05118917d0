package env

import "fmt"

type Error struct {
	Name string
}

func (e *Error) Error() string {
	return fmt.Sprintf("unable to access configuration value: %s", e.Name)
}

type TypeError struct {
	Name  string
	Value string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("unable to convert configuration value: %s (%q)", e.Name, e.Value)
}
