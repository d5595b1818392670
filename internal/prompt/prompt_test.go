package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uigen-go/internal/model"
	"uigen-go/internal/registry"
)

func TestBuild_ListsEveryComponent(t *testing.T) {
	reg := registry.Default()
	p := Build(reg)

	for _, c := range reg.All() {
		assert.Contains(t, p, "- <"+c.Name+" />: "+c.Description)
		assert.Contains(t, p, `Import: "@/components/ui-library/`+c.Name+`"`)
	}
	assert.Contains(t, p, `Props: {"children":"ReactNode","onClick":"() => void","size":"default | sm | lg | icon","variant":"default | destructive | outline | secondary | ghost | link"}`)
	assert.Contains(t, p, "Props: {}\n", "components without props render an empty object")
	assert.Contains(t, p, "CardHeader, CardTitle")
}

func TestBuild_ContainsRulesAndOutputContract(t *testing.T) {
	p := Build(registry.Default())

	assert.Contains(t, p, "export default function App()")
	assert.Contains(t, p, "bg-background text-foreground")
	assert.Contains(t, p, "DO NOT use 'bg-white'")
	assert.Contains(t, p, "NEVER invent components")
	assert.Contains(t, p, "(Button is NOT in Card)")
	assert.Contains(t, p, "{ plan, code, explanation }")
	assert.Contains(t, p, "Return ONLY the raw JSON string.")
	assert.Contains(t, p, `import { Check } from "@/components/ui-library/Icons"`)

	// 规则块位于组件列表之后
	assert.Greater(t, strings.Index(p, "RULES:"), strings.LastIndex(p, "Import: "))
}

func TestBuild_Deterministic(t *testing.T) {
	a := Build(registry.Default())
	b := Build(registry.Default())
	require.Equal(t, a, b)
}

func TestBuild_CustomRegistry(t *testing.T) {
	reg := registry.New(model.ComponentDescriptor{
		Name:        "Widget",
		Description: "A test widget.",
		Props:       map[string]string{"size": "sm | lg"},
	})
	p := Build(reg)

	assert.Contains(t, p, "- <Widget />: A test widget.")
	assert.Contains(t, p, `Import: "@/components/ui-library/Widget"`)
	assert.Contains(t, p, `Props: {"size":"sm | lg"}`)
	assert.NotContains(t, p, "<Button />")
}
