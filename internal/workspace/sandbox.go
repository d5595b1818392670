package workspace

import (
	"embed"
	"encoding/json"
	"strings"
)

//go:embed templates
var templates embed.FS

// PlaceholderApp 是还没有生成结果时沙箱里显示的入口组件。
var PlaceholderApp = mustTemplate("App.tsx")

// sandboxDependencies 是组件库运行需要的 npm 包。
var sandboxDependencies = map[string]string{
	"lucide-react":             "latest",
	"clsx":                     "latest",
	"tailwind-merge":           "latest",
	"react":                    "latest",
	"react-dom":                "latest",
	"class-variance-authority": "latest",
	"@radix-ui/react-slot":     "latest",
}

func mustTemplate(name string) string {
	b, err := templates.ReadFile("templates/" + name)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// FixImports 把 "@/components/" 改写成沙箱里的相对路径 "./components/"。
func FixImports(code string) string {
	return strings.ReplaceAll(code, "@/components/", "./components/")
}

// SandboxFiles 组装浏览器沙箱使用的文件表。code 为空时使用占位组件；
// sources 来自 registry.LoadSources，路径会挂到 /src 下。
func SandboxFiles(code string, sources map[string]string) map[string]string {
	app := PlaceholderApp
	if code != "" {
		app = FixImports(code)
	}

	files := make(map[string]string, len(sources)+6)
	for path, content := range sources {
		files["/src"+path] = content
	}
	files["/src/App.tsx"] = app
	files["/src/index.tsx"] = mustTemplate("index.tsx")
	files["/src/globals.css"] = mustTemplate("globals.css")
	files["/public/index.html"] = mustTemplate("index.html")
	files["/tsconfig.json"] = indentJSON(map[string]interface{}{
		"compilerOptions": map[string]interface{}{
			"target":          "ESNext",
			"module":          "ESNext",
			"jsx":             "react-jsx",
			"esModuleInterop": true,
			"baseUrl":         ".",
			"paths": map[string][]string{
				"@/*": {"./src/*"},
			},
		},
	})
	files["/package.json"] = indentJSON(map[string]interface{}{
		"dependencies": sandboxDependencies,
	})
	return files
}

func indentJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(b)
}
