package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Wizard provides an interactive configuration wizard
type Wizard struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewWizard creates a new configuration wizard on stdin/stdout
func NewWizard() *Wizard {
	return NewWizardWithIO(os.Stdin, os.Stdout)
}

// NewWizardWithIO creates a wizard reading answers from in
func NewWizardWithIO(in io.Reader, out io.Writer) *Wizard {
	return &Wizard{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run runs the interactive configuration wizard
func (w *Wizard) Run() (*Config, error) {
	fmt.Fprintln(w.out, "=== Birthday Bot Configuration Wizard ===")
	fmt.Fprintln(w.out)

	cfg := DefaultConfig()
	validator := NewValidator()

	// Spreadsheet
	fmt.Fprintln(w.out, "Recipients:")
	path, err := w.required("Spreadsheet path (.xlsx): ")
	if err != nil {
		return nil, err
	}
	cfg.Spreadsheet.Path = path

	fmt.Fprintf(w.out, "Name column [%s]: ", cfg.Spreadsheet.NameColumn)
	if col, err := w.readLine(); err != nil {
		return nil, err
	} else if col != "" {
		cfg.Spreadsheet.NameColumn = col
	}

	fmt.Fprintf(w.out, "Birth date column [%s]: ", cfg.Spreadsheet.DateColumn)
	if col, err := w.readLine(); err != nil {
		return nil, err
	} else if col != "" {
		cfg.Spreadsheet.DateColumn = col
	}

	fmt.Fprintln(w.out)

	// Assets
	fmt.Fprintln(w.out, "Images:")
	dir, err := w.required("Assets directory (contains 01.January ... 12.December): ")
	if err != nil {
		return nil, err
	}
	cfg.Assets.BaseDir = dir

	fmt.Fprintln(w.out)

	// Group
	fmt.Fprintln(w.out, "WhatsApp:")
	for {
		groupURL, err := w.required("Group invite or chat URL: ")
		if err != nil {
			return nil, err
		}

		if err := validator.ValidateURL("group URL", groupURL); err != nil {
			fmt.Fprintf(w.out, "Error: %v\n", err)
			continue
		}

		cfg.WhatsApp.GroupURL = groupURL
		break
	}

	fmt.Fprintf(w.out, "Caption [%s]: ", cfg.WhatsApp.Caption)
	if caption, err := w.readLine(); err != nil {
		return nil, err
	} else if caption != "" {
		cfg.WhatsApp.Caption = caption
	}

	fmt.Fprintln(w.out)

	// Browser
	fmt.Fprintln(w.out, "Browser:")
	profile, err := w.required("Chrome profile directory (keeps the WhatsApp login): ")
	if err != nil {
		return nil, err
	}
	cfg.Browser.ProfileDir = profile

	fmt.Fprint(w.out, "Run headless? (y/n) [n]: ")
	headless, err := w.readLine()
	if err != nil {
		return nil, err
	}
	cfg.Browser.Headless = strings.ToLower(headless) == "y"

	fmt.Fprintln(w.out)

	// Log Level
	fmt.Fprintln(w.out, "Logging:")
	fmt.Fprint(w.out, "Log level (debug/info/warn/error) [info]: ")
	level, err := w.readLine()
	if err != nil {
		return nil, err
	}

	if level != "" {
		if err := validator.ValidateLogLevel(level); err != nil {
			fmt.Fprintf(w.out, "Warning: %v, using default (info)\n", err)
		} else {
			cfg.Logging.Level = level
		}
	}

	fmt.Fprintln(w.out)
	fmt.Fprintln(w.out, "Configuration complete!")

	return cfg, nil
}

// required prompts until a non-empty answer is given
func (w *Wizard) required(prompt string) (string, error) {
	for {
		fmt.Fprint(w.out, prompt)
		answer, err := w.readLine()
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		fmt.Fprintln(w.out, "Error: a value is required")
	}
}

func (w *Wizard) readLine() (string, error) {
	line, err := w.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
