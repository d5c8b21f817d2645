package config

import (
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"slices"

	"gopkg.in/yaml.v3"
)

// Merge deep-merges the configuration documents found at the given paths.
// Directories are walked in lexical order. Later documents override earlier
// ones, unless conflictError is set, in which case differing scalar values
// are reported as errors.
func Merge(configFiles []string, conflictError bool) ([]byte, error) {
	var paths []string
	for _, f := range configFiles {
		if err := filepath.WalkDir(f, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				paths = append(paths, path)
			}
			return nil
		}); err != nil {
			return nil, err
		}
	}

	merged := make(map[string]any)
	for _, path := range paths {
		bs, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %v: %w", path, err)
		}
		var doc map[string]any
		if err := yaml.Unmarshal(bs, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal configuration file %v: %w", path, err)
		}
		if err := mergeInto(merged, doc, "", conflictError); err != nil {
			return nil, err
		}
	}

	bs, err := yaml.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal merged configuration: %w", err)
	}

	return bs, nil
}

func mergeInto(dst, src map[string]any, path string, conflictError bool) error {
	// Sort keys so conflict errors are deterministic.
	for _, key := range slices.Sorted(maps.Keys(src)) {
		value := src[key]
		existing, ok := dst[key]
		if !ok {
			dst[key] = value
			continue
		}

		existingMap, ok1 := existing.(map[string]any)
		valueMap, ok2 := value.(map[string]any)
		if ok1 && ok2 {
			if err := mergeInto(existingMap, valueMap, path+"/"+key, conflictError); err != nil {
				return err
			}
			continue
		}

		if conflictError && !reflect.DeepEqual(existing, value) {
			return fmt.Errorf("conflict for config path %s", path+"/"+key)
		}
		dst[key] = value
	}
	return nil
}
