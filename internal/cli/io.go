package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/takak2166/appstruct/internal/models"
	"github.com/takak2166/appstruct/internal/tree"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// readInputSource reads a file, or stdin when source is "-". Leading
// whitespace is kept since indentation carries the tree shape.
func readInputSource(source string, stdin io.Reader) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", fmt.Errorf("empty input source")
	}

	var r io.Reader = stdin
	if source != "-" {
		file, err := os.Open(source)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", source, err)
		}
		defer file.Close()
		r = file
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

// writeAs encodes v as format; text is written as is
func writeAs(w io.Writer, format string, v interface{}, text string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	_, err := io.WriteString(w, text)
	return err
}

// renderTree lists the tree two spaces per level, folders suffixed "/",
// optionally followed by node ids
func renderTree(s models.Structure, withIDs bool) string {
	if len(s.Folders) == 0 {
		return "(empty)\n"
	}
	var b strings.Builder
	tree.Walk(s, func(n models.TreeNode, ancestors []models.TreeNode) bool {
		b.WriteString(strings.Repeat("  ", len(ancestors)))
		b.WriteString(n.Name)
		if n.IsFolder() {
			b.WriteString("/")
		}
		if withIDs {
			fmt.Fprintf(&b, "  [%s]", n.ID)
		}
		b.WriteString("\n")
		return true
	})
	return b.String()
}

// confirm asks the user to type "yes" on an interactive stdin
func confirm(in io.Reader, errOut io.Writer, prompt string) bool {
	fmt.Fprintln(errOut, prompt)
	fmt.Fprint(errOut, "Type 'yes' to confirm: ")
	reader := bufio.NewReader(in)
	answer, _ := reader.ReadString('\n')
	return strings.TrimSpace(answer) == "yes"
}

// promptSecret reads a secret without echo when stdin is a terminal
func promptSecret(in io.Reader, errOut io.Writer, prompt string) (string, error) {
	fmt.Fprint(errOut, prompt)

	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		secret, err := term.ReadPassword(int(file.Fd()))
		fmt.Fprintln(errOut)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}

	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
