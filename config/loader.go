package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"
)

// maxFileSize bounds configuration and schema files.
const maxFileSize = 10 * 1024 * 1024

// schema is a compiled CUE schema.
type schema struct {
	ctx   *cue.Context
	value cue.Value
}

// compileSchema compiles CUE source. name is used in error positions.
func compileSchema(content []byte, name string) (*schema, error) {
	if len(strings.TrimSpace(string(content))) == 0 {
		return nil, errors.New("schema content cannot be empty")
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(content, cue.Filename(name))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile CUE schema: %w", err)
	}
	return &schema{ctx: ctx, value: value}, nil
}

// defaults returns the values the schema yields for an empty document.
func (s *schema) defaults() (map[string]any, error) {
	unified := s.value.Unify(s.ctx.Encode(map[string]any{}))
	if err := unified.Err(); err != nil {
		return nil, fmt.Errorf("failed to unify schema with empty config: %w", err)
	}

	var defaults map[string]any
	if err := unified.Decode(&defaults); err != nil {
		return nil, fmt.Errorf("failed to decode defaults: %w", err)
	}
	return defaults, nil
}

// validate checks a document against the schema and returns the unified
// value, schema defaults included.
func (s *schema) validate(doc map[string]any) (cue.Value, error) {
	docValue := s.ctx.Encode(doc)
	if err := docValue.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("failed to encode configuration: %w", err)
	}

	unified := s.value.Unify(docValue)
	if err := unified.Err(); err != nil {
		return cue.Value{}, formatValidationError(err)
	}
	if err := unified.Validate(); err != nil {
		return cue.Value{}, formatValidationError(err)
	}
	return unified, nil
}

// validateValue checks a single value against the schema at path.
func (s *schema) validateValue(path string, value any) error {
	at := s.value.LookupPath(cue.ParsePath(path))
	if !at.Exists() {
		return fmt.Errorf("%w: %s", ErrUnknownPath, path)
	}

	unified := at.Unify(s.ctx.Encode(value))
	if err := unified.Err(); err != nil {
		return formatValidationError(err)
	}
	if err := unified.Validate(); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError prefixes the CUE error with the offending path.
func formatValidationError(err error) error {
	path, message, found := strings.Cut(err.Error(), ":")
	if found {
		return fmt.Errorf("%w at '%s': %s", ErrValidation, strings.TrimSpace(path), strings.TrimSpace(message))
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// decodeFile reads a YAML or JSON configuration file after expanding
// environment variables.
func decodeFile(path string) (map[string]any, error) {
	content, err := safeReadFile(path)
	if err != nil {
		return nil, err
	}

	content = expandEnvironmentVariables(content)
	if err := checkMeaningful(content, path); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	var value cue.Value

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		file, err := yaml.Extract(path, content)
		if err != nil {
			return nil, fmt.Errorf("failed to extract YAML config: %w", err)
		}
		value = ctx.BuildFile(file)
	case ".json":
		value = ctx.CompileBytes(content, cue.Filename(path))
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml, .json)", ext)
	}
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	var doc map[string]any
	if err := value.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if doc == nil {
		doc = make(map[string]any)
	}
	return doc, nil
}

// checkMeaningful rejects empty and comment-only files.
func checkMeaningful(content []byte, path string) error {
	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return fmt.Errorf("configuration file %s is empty", path)
	}
	for line := range strings.SplitSeq(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			return nil
		}
	}
	return fmt.Errorf("configuration file %s contains only comments", path)
}

// expandEnvironmentVariables substitutes $VAR, ${VAR} and
// ${VAR:-default}. Unset variables without a default expand to "".
func expandEnvironmentVariables(content []byte) []byte {
	return []byte(os.Expand(string(content), func(expr string) string {
		name, def, hasDefault := strings.Cut(expr, ":-")
		if v := os.Getenv(name); v != "" {
			return v
		}
		if hasDefault {
			return def
		}
		return ""
	}))
}

// merge overlays user onto defaults. Nested maps merge recursively.
func merge(defaults, user map[string]any) map[string]any {
	result := make(map[string]any, len(defaults))
	for k, v := range defaults {
		result[k] = v
	}
	for k, v := range user {
		if existing, ok := result[k].(map[string]any); ok {
			if userMap, ok := v.(map[string]any); ok {
				result[k] = merge(existing, userMap)
				continue
			}
		}
		result[k] = v
	}
	return result
}

// lookup walks a dotted path through nested maps.
func lookup(data map[string]any, path string) (any, error) {
	if path == "" {
		return data, nil
	}

	current := data
	parts := strings.Split(path, ".")
	for i, part := range parts {
		value, ok := current[part]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPath, path)
		}
		if i == len(parts)-1 {
			return value, nil
		}
		next, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("path %s: cannot navigate through non-map value", path)
		}
		current = next
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownPath, path)
}

func copyMap(original map[string]any) map[string]any {
	result := make(map[string]any, len(original))
	for k, v := range original {
		if m, ok := v.(map[string]any); ok {
			result[k] = copyMap(m)
		} else {
			result[k] = v
		}
	}
	return result
}

// safeReadFile reads a regular file of bounded size, refusing
// traversal paths and kernel pseudo filesystems.
func safeReadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("file path cannot be empty")
	}

	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return nil, errors.New("invalid file path: contains directory traversal")
	}
	for _, dir := range []string{"/proc/", "/sys/"} {
		if strings.HasPrefix(cleanPath, dir) {
			return nil, fmt.Errorf("access to system directory not allowed: %s", dir)
		}
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("file validation failed: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.New("path must be a regular file")
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return content, nil
}
