// Package registry 定义了固定的 UI 组件库目录。
// 生成的代码只能使用这里列出的组件和导入路径。
package registry

import (
	"uigen-go/internal/model"
)

// LibraryPath 是组件库在生成代码中的导入前缀。
const LibraryPath = "components/ui-library"

// IconsImportPath 是图标模块的导入路径，图标不作为独立组件登记。
const IconsImportPath = "@/" + LibraryPath + "/Icons"

// Registry 是按固定顺序排列的组件描述集合。
type Registry struct {
	items []model.ComponentDescriptor
	index map[string]int
}

// New 用给定描述构建 Registry，名称重复时后者被忽略。
func New(items ...model.ComponentDescriptor) Registry {
	r := Registry{index: make(map[string]int, len(items))}
	for _, it := range items {
		if _, dup := r.index[it.Name]; dup {
			continue
		}
		if it.ImportPath == "" {
			it.ImportPath = LibraryPath + "/" + it.Name
		}
		r.index[it.Name] = len(r.items)
		r.items = append(r.items, it)
	}
	return r
}

// All 返回所有组件的副本，顺序与登记顺序一致。
func (r Registry) All() []model.ComponentDescriptor {
	out := make([]model.ComponentDescriptor, len(r.items))
	copy(out, r.items)
	return out
}

// Lookup 按名称查找组件。
func (r Registry) Lookup(name string) (model.ComponentDescriptor, bool) {
	i, ok := r.index[name]
	if !ok {
		return model.ComponentDescriptor{}, false
	}
	return r.items[i], true
}

// Names 返回所有组件名称。
func (r Registry) Names() []string {
	names := make([]string, 0, len(r.items))
	for _, it := range r.items {
		names = append(names, it.Name)
	}
	return names
}

func (r Registry) Len() int { return len(r.items) }

// Default 返回内置的组件库。
func Default() Registry {
	return New(
		model.ComponentDescriptor{
			Name:        "Button",
			Description: "A button component for user actions.",
			Props: map[string]string{
				"variant":  "default | destructive | outline | secondary | ghost | link",
				"size":     "default | sm | lg | icon",
				"onClick":  "() => void",
				"children": "ReactNode",
			},
		},
		model.ComponentDescriptor{
			Name:        "Input",
			Description: "An input field for user text input.",
			Props: map[string]string{
				"type":        "text | password | email | number",
				"placeholder": "string",
				"value":       "string",
				"onChange":    "(e) => void",
			},
		},
		model.ComponentDescriptor{
			Name:          "Card",
			Description:   "A container for content with a header, content area, and footer.",
			SubComponents: []string{"CardHeader", "CardTitle", "CardDescription", "CardContent", "CardFooter"},
		},
		model.ComponentDescriptor{
			Name:        "Badge",
			Description: "A small status indicator or label.",
			Props: map[string]string{
				"variant": "default | secondary | destructive | outline",
			},
		},
		model.ComponentDescriptor{
			Name:          "Table",
			Description:   "A table for displaying structured data.",
			SubComponents: []string{"TableHeader", "TableBody", "TableFooter", "TableHead", "TableRow", "TableCell", "TableCaption"},
		},
		model.ComponentDescriptor{
			Name:        "Navbar",
			Description: "A top navigation bar.",
			Props:       map[string]string{"children": "ReactNode"},
		},
		model.ComponentDescriptor{
			Name:        "Sidebar",
			Description: "A side navigation bar.",
			Props:       map[string]string{"children": "ReactNode"},
		},
		model.ComponentDescriptor{
			Name:          "Dialog",
			Description:   "A modal dialog overlay.",
			SubComponents: []string{"DialogContent", "DialogHeader", "DialogTitle", "DialogDescription", "DialogFooter"},
			Props: map[string]string{
				"open":         "boolean",
				"onOpenChange": "(open: boolean) => void",
			},
		},
		model.ComponentDescriptor{
			Name:        "MockChart",
			Description: "A visual placeholder charts for dashboards.",
		},
		model.ComponentDescriptor{
			Name:        "Heading",
			Description: "Typography for page titles and section headers.",
			Props: map[string]string{
				"level":    "1 | 2 | 3 | 4 | 5 | 6",
				"children": "ReactNode",
			},
		},
		model.ComponentDescriptor{
			Name:        "Text",
			Description: "Typography for body text.",
			Props: map[string]string{
				"variant":  "default | lead | large | small | muted",
				"children": "ReactNode",
			},
		},
	)
}
