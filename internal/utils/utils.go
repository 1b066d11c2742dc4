package utils

import (
	"bytes"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/dongjun6343/query/internal/errors"
)

// FindGoModuleRoot 用于查找从给定目录开始的 Go 模块根目录。
// 它通过向上遍历目录树，直到找到 go.mod 文件或到达文件系统的根目录为止。
func FindGoModuleRoot(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.Errorf("go.mod not found")
}

// FindGoModuleName 获取go.mod中的module名称
func FindGoModuleName(modFilePath string) (string, error) {
	data, err := os.ReadFile(modFilePath)
	if err != nil {
		return "", errors.Wrapf(err, "read go.mod failed")
	}

	name := modfile.ModulePath(data)
	if name == "" {
		return "", errors.Errorf("no module directive in %s", modFilePath)
	}
	return name, nil
}

// GetCurrentPackagePath returns the import path of the package holding filename.
func GetCurrentPackagePath(filename string) (string, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return "", errors.Wrapf(err, "abs path of %s", filename)
	}

	modulePath, err := FindGoModuleRoot(filepath.Dir(abs))
	if err != nil {
		return "", err
	}
	modName, err := FindGoModuleName(filepath.Join(modulePath, "go.mod"))
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(modulePath, filepath.Dir(abs))
	if err != nil {
		return "", errors.Wrapf(err, "invalid project")
	}

	return path.Join(modName, filepath.ToSlash(rel)), nil
}

// TrimLineWithPrefix drops the lines starting with any of sub.
func TrimLineWithPrefix(content []byte, sub ...[]byte) []byte {
	lines := bytes.Split(content, []byte("\n"))
	buf := bytes.Buffer{}
	buf.Grow(len(content))
loop:
	for _, line := range lines {
		for _, sb := range sub {
			if bytes.HasPrefix(line, sb) {
				continue loop
			}
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

func GetPackageName(pkgPath string) string {
	idx := strings.LastIndex(pkgPath, "/")
	if idx == -1 {
		return pkgPath
	}

	return pkgPath[idx+1:]
}

func Find[T any](s []T, fn func(T) bool) (T, bool) {
	for i := 0; i < len(s); i++ {
		if fn(s[i]) {
			return s[i], true
		}
	}

	var zero T
	return zero, false
}
