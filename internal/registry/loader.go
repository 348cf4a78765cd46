package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"promptctl/internal/inference"
	"promptctl/pkg/types"
)

const ggufExt = ".gguf"

// quantPattern matches llama.cpp quantization tags such as Q4_K_M, Q8_0, IQ3_XS or F16.
var quantPattern = regexp.MustCompile(`(?i)(?:^|[.\-_])((?:I?Q\d(?:_[A-Z0-9]+)*)|F16|F32|BF16)$`)

// LoadDir scans a directory for *.gguf files and builds a registry from filenames.
// ID is the full filename; Path is the absolute file path. Results are sorted by ID.
func LoadDir(dir string) ([]types.Model, error) {
	base, err := ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.EqualFold(filepath.Ext(name), ggufExt) {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		models = append(models, types.Model{
			ID:    name,
			Name:  stem,
			Path:  filepath.Join(abs, name),
			Quant: parseQuant(stem),
		})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

// Resolve maps a model identifier to a GGUF path. An existing file path wins;
// otherwise dir is scanned and matched by file name, then stem, then stem
// prefix ("gpt2" matches "gpt2.Q4_K_M.gguf"). Matching is case-insensitive.
func Resolve(dir, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", inference.ErrModelNotFound("(unspecified)")
	}
	if p, err := ExpandHome(id); err == nil {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return filepath.Abs(p)
		}
	}
	models, err := LoadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w (models dir %s: %v)", inference.ErrModelNotFound(id), dir, err)
	}
	if m, ok := match(models, id); ok {
		return m.Path, nil
	}
	return "", fmt.Errorf("%w (no matching .gguf in %s)", inference.ErrModelNotFound(id), dir)
}

// Resolver binds Resolve to a models directory.
func Resolver(dir string) inference.ModelResolver {
	return func(id string) (string, error) { return Resolve(dir, id) }
}

func match(models []types.Model, id string) (types.Model, bool) {
	for _, m := range models {
		if strings.EqualFold(m.ID, id) {
			return m, true
		}
	}
	for _, m := range models {
		if strings.EqualFold(m.Name, id) {
			return m, true
		}
	}
	lid := strings.ToLower(id)
	for _, m := range models {
		ln := strings.ToLower(m.Name)
		if strings.HasPrefix(ln, lid+".") || strings.HasPrefix(ln, lid+"-") || strings.HasPrefix(ln, lid+"_") {
			return m, true
		}
	}
	return types.Model{}, false
}

func parseQuant(stem string) string {
	if m := quantPattern.FindStringSubmatch(stem); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
