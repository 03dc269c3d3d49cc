package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-faster/errors"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return withCode(exitBackend, errors.Wrap(err, "json encode"))
	}
	return nil
}

// printMessage writes msg, or fallback when the backend sent none.
func printMessage(w io.Writer, msg, fallback string) {
	if msg == "" {
		msg = fallback
	}
	_, _ = fmt.Fprintln(w, msg)
}
