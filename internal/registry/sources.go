package registry

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"uigen-go/pkg/log"
)

// LoadSources 读取组件库源码，返回沙箱文件表：
// "/components/ui-library/<file>" 与 "/lib/utils.ts" → 文件内容。
// 读取失败只记录日志，返回已经读到的部分。
func LoadSources(root string) map[string]string {
	files := make(map[string]string)
	libraryDir := filepath.Join(root, filepath.FromSlash(LibraryPath))

	entries, err := os.ReadDir(libraryDir)
	if err != nil {
		log.Warnf("读取组件库目录失败: %s, err=%v", libraryDir, err)
		return files
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".tsx") || strings.HasSuffix(e.Name(), ".ts") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(libraryDir, name))
		if err != nil {
			log.Warnf("读取组件源码失败: %s, err=%v", name, err)
			continue
		}
		files["/"+LibraryPath+"/"+name] = string(content)
	}

	utils, err := os.ReadFile(filepath.Join(root, "lib", "utils.ts"))
	if err != nil {
		log.Warnf("读取 lib/utils.ts 失败: %v", err)
		return files
	}
	files["/lib/utils.ts"] = string(utils)
	return files
}
