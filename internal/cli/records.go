package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// envContext is the data visible to {{ .ENV.NAME }} placeholders.
type envContext struct {
	ENV map[string]string
}

var missingKeyRe = regexp.MustCompile(`map has no entry for key "(.*?)"`)

// ExpandEnv replaces {{ .ENV.NAME }} placeholders with environment values.
// A .env file in the working directory is loaded first; variables already set
// win over it. A placeholder naming an unset variable is an error.
func ExpandEnv(input []byte) ([]byte, error) {
	if cwd, err := os.Getwd(); err == nil {
		_ = godotenv.Load(filepath.Join(cwd, ".env"))
	}
	env := map[string]string{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}

	tmpl, err := template.New("records").Option("missingkey=error").Parse(string(input))
	if err != nil {
		return nil, fmt.Errorf("template error: %w", err)
	}
	var out bytes.Buffer
	if err := tmpl.Execute(&out, envContext{ENV: env}); err != nil {
		if m := missingKeyRe.FindStringSubmatch(err.Error()); len(m) == 2 {
			return nil, fmt.Errorf("missing environment variable: %s (set it in your shell or .env file)", m[1])
		}
		return nil, fmt.Errorf("template error: %w", err)
	}
	return out.Bytes(), nil
}

// ParseRecords decodes every document of a multi-document YAML stream.
// Empty documents are skipped.
func ParseRecords(data []byte) ([]map[string]any, error) {
	content := strings.TrimSpace(string(data))
	if content == "" || strings.Trim(content, "- \n\t") == "" {
		return []map[string]any{}, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []map[string]any
	for {
		var doc map[string]any
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
		if len(doc) > 0 {
			out = append(out, doc)
		}
	}
	return out, nil
}

// LoadRecords reads a YAML file of records, expanding environment
// placeholders. Tabs are read as four spaces.
func LoadRecords(filename string) ([]map[string]any, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	data = bytes.ReplaceAll(data, []byte("\t"), []byte("    "))
	if data, err = ExpandEnv(data); err != nil {
		return nil, err
	}
	return ParseRecords(data)
}

// decodeRecord copies a record into out by its json field names. Unknown
// keys are rejected so typos do not go unnoticed.
func decodeRecord(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
