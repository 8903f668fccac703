// Package devseed loads file trees used to pre-populate the in-memory
// gateway during local development.
//
// A seed file is YAML (or JSON) with a files map keyed by absolute remote
// path. Values are either inline text or, with a base64: prefix, binary
// content:
//
//	files:
//	  /data/readme.txt: "hello"
//	  /data/blob.bin: "base64:AAEC"
//	dirs:
//	  - /empty
package devseed

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

const base64Prefix = "base64:"

type seedFile struct {
	Files map[string]string `yaml:"files"`
	Dirs  []string          `yaml:"dirs"`
}

// Seed is a decoded seed file.
type Seed struct {
	Files map[string][]byte
	Dirs  []string
}

// Load reads and decodes the seed at path.
func Load(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("devseed: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes seed content.
func Parse(data []byte) (*Seed, error) {
	var raw seedFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("devseed: parse: %w", err)
	}
	seed := &Seed{Files: make(map[string][]byte, len(raw.Files))}
	for p, v := range raw.Files {
		if !strings.HasPrefix(p, "/") {
			return nil, fmt.Errorf("devseed: path %q must be absolute", p)
		}
		if strings.HasPrefix(v, base64Prefix) {
			decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(v, base64Prefix))
			if err != nil {
				return nil, fmt.Errorf("devseed: decode %s: %w", p, err)
			}
			seed.Files[p] = decoded
			continue
		}
		seed.Files[p] = []byte(v)
	}
	for _, d := range raw.Dirs {
		if !strings.HasPrefix(d, "/") {
			return nil, fmt.Errorf("devseed: dir %q must be absolute", d)
		}
		seed.Dirs = append(seed.Dirs, d)
	}
	return seed, nil
}
