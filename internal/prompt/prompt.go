// Package prompt 把组件目录渲染成发送给模型的 system prompt。
package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"uigen-go/internal/model"
	"uigen-go/internal/registry"
)

const header = `You are an expert UI generator. You build React interfaces using a FIXED, DETERMINISTIC component library.
You CANNOT create new components or use external libraries (like framer-motion, recharts) unless provided in the registry.
You MUST use the provided components from '@/components/ui-library/*'.

AVAILABLE COMPONENTS (Registry):
`

const rules = `
RULES:
1. PLANNING: Analyze the user's request. Choose a layout. Select strictly from available components.
2. GENERATION: Write strict React code.
   - Imports MUST be explicit and correct.
     - CORRECT: import { Button } from "@/components/ui-library/Button"
     - CORRECT: import { Card, CardContent } from "@/components/ui-library/Card"
     - INCORRECT: import { Button, Card } from "@/components/ui-library/Card" (Button is NOT in Card)
   - NEVER import from a path that is not listed above and NEVER invent components.
   - Use 'export default function App() { ... }' as the main entry point.
   - ALWAYS use 'import * as React from "react";' at the top of the file.
   - Tailwind CSS is available. Use 'className' for styling.
   - The root container MUST have specific dimensions, e.g., 'min-h-screen w-full'.
   - DARK MODE: ALWAYS use dark mode colors by default. Use these Tailwind classes:
     - Root: 'bg-background text-foreground' (dark background, light text)
     - Cards: 'bg-card text-card-foreground'
     - Text: 'text-foreground' or 'text-muted-foreground'
     - Borders: 'border-border'
     - DO NOT use 'bg-white', 'bg-gray-100', 'text-black', or 'text-gray-900'
     - DO use 'bg-background', 'text-foreground', 'bg-card', etc.
   - Do not use arbitrary <img> tags if <Image> is not in registry (use standard img or mock).
   - Icons: Import from "%s". Example: import { Check } from "%s"

3. EXPLANATION: Explain why you chose these components and layout.

Output must be a structured JSON object matching the schema: { plan, code, explanation }.
- plan: { "goal": string, "layout": string, "components": string[] }
- code: string (the full React source of the App component)
- explanation: string
DO NOT use markdown code blocks (like ` + "```json" + `). Return ONLY the raw JSON string.
`

// Build 渲染 system prompt。同一个 Registry 总是得到同样的字符串。
func Build(reg registry.Registry) string {
	var sb strings.Builder
	sb.WriteString(header)
	for _, c := range reg.All() {
		writeComponent(&sb, c)
	}
	sb.WriteString(fmt.Sprintf(rules, registry.IconsImportPath, registry.IconsImportPath))
	return sb.String()
}

func writeComponent(sb *strings.Builder, c model.ComponentDescriptor) {
	props := c.Props
	if props == nil {
		props = map[string]string{}
	}
	// map 序列化时 key 有序，保证输出确定；关闭 HTML 转义以保留 "=>"
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	propsJSON := "{}"
	if err := enc.Encode(props); err == nil {
		propsJSON = strings.TrimSpace(buf.String())
	}
	sb.WriteString(fmt.Sprintf("- <%s />: %s\n", c.Name, c.Description))
	sb.WriteString(fmt.Sprintf("  Import: \"@/%s\"\n", c.ImportPath))
	sb.WriteString(fmt.Sprintf("  Props: %s\n", propsJSON))
	if len(c.SubComponents) > 0 {
		sb.WriteString(fmt.Sprintf("  Sub-components (same import): %s\n", strings.Join(c.SubComponents, ", ")))
	}
}
