package config

import (
	"bufio"
	"errors"
	"os"
	"strings"
)

// loadDotEnv copies KEY=VALUE pairs from a dotenv file into the process
// environment and returns how many keys it set. A missing file is not an error.
//
// Rules:
// - Empty lines and lines starting with # are ignored.
// - "export KEY=VALUE" is supported.
// - Quoted values keep their content verbatim; quotes are stripped.
// - Unquoted values end at " #", so trailing comments are dropped.
// - Existing non-empty environment variables are not overwritten.
func loadDotEnv(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	defer f.Close()

	loaded := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		k, v, ok := parseDotEnvLine(sc.Text())
		if !ok || os.Getenv(k) != "" {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return loaded, err
		}
		loaded++
	}
	if err := sc.Err(); err != nil {
		return loaded, err
	}
	return loaded, nil
}

func parseDotEnvLine(raw string) (key, value string, ok bool) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

	k, v, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	k = strings.TrimSpace(k)
	v = strings.TrimSpace(v)
	if k == "" {
		return "", "", false
	}

	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') {
		if end := strings.IndexByte(v[1:], v[0]); end >= 0 {
			return k, v[1 : end+1], true
		}
	}
	if i := strings.Index(v, " #"); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	return k, v, true
}
